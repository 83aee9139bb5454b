package fakeapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

func (s *Server) listGalleries(c *gin.Context) {
	page, limit := paging(c)
	year, _ := strconv.Atoi(c.Query("year"))
	items := s.store.listGalleries(models.GalleryFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Year:   year,
	})
	ok(c, http.StatusOK, paginate(items, page, limit))
}

func (s *Server) getGallery(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	g, err := s.store.gallery(id, true)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

func (s *Server) createGallery(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	form, thumbnail, done := s.galleryForm(c)
	if !done {
		return
	}
	detail := galleryDetail(form)
	detail.UploadedBy = user.Name
	detail.Thumbnail = thumbnail
	ok(c, http.StatusCreated, s.store.createGallery(detail))
}

func (s *Server) updateGallery(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	form, thumbnail, done := s.galleryForm(c)
	if !done {
		return
	}
	updated, err := s.store.replaceGallery(id, func(g *models.GalleryDetail) {
		next := galleryDetail(form)
		next.UploadedBy = g.UploadedBy
		next.UploadedAt = g.UploadedAt
		next.ViewCount = g.ViewCount
		next.Thumbnail = g.Thumbnail
		if thumbnail != "" {
			next.Thumbnail = thumbnail
		}
		*g = next
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

func (s *Server) deleteGallery(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	g, err := s.store.deleteGallery(id)
	if err != nil {
		fail(c, err)
		return
	}
	if name := strings.TrimPrefix(g.Thumbnail, filesPrefix); name != g.Thumbnail {
		_ = s.files.Delete(name)
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// galleryForm reads either a JSON body or a multipart form with an optional
// thumbnail, validates it and stores the thumbnail.
func (s *Server) galleryForm(c *gin.Context) (validation.GalleryForm, string, bool) {
	var in validation.GalleryInput
	var closer io.Closer
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in = validation.GalleryInput{
			Title:       c.PostForm("title"),
			Date:        c.PostForm("date"),
			Link:        c.PostForm("link"),
			Image:       c.PostForm("image"),
			Width:       c.PostForm("width"),
			Height:      c.PostForm("height"),
			Description: c.PostForm("description"),
			Tags:        c.PostForm("tags"),
		}
		file, cl, err := formFile(c, "thumbnail")
		if err != nil {
			fail(c, err)
			return validation.GalleryForm{}, "", false
		}
		in.Thumbnail, closer = file, cl
	} else {
		var body models.CreateGalleryRequest
		if !bindJSON(c, &body) {
			return validation.GalleryForm{}, "", false
		}
		in = validation.GalleryInput{
			Title:       body.Title,
			Date:        body.Date,
			Link:        body.Link,
			Image:       body.Image,
			Width:       strconv.Itoa(body.Width),
			Height:      strconv.Itoa(body.Height),
			Description: body.Description,
			Tags:        strings.Join(body.Tags, ","),
		}
	}
	if closer != nil {
		defer closer.Close()
	}

	form, err := validation.ValidateGallery(in)
	if err != nil {
		fail(c, err)
		return validation.GalleryForm{}, "", false
	}
	var thumbnail string
	if form.Thumbnail != nil {
		url, err := s.storeFile("thumbnails", form.Thumbnail)
		if err != nil {
			fail(c, err)
			return validation.GalleryForm{}, "", false
		}
		thumbnail = url
	}
	return form, thumbnail, true
}

func galleryDetail(f validation.GalleryForm) models.GalleryDetail {
	req := f.Request()
	return models.GalleryDetail{
		GalleryItem: models.GalleryItem{
			Date:   req.Date,
			Title:  req.Title,
			Image:  req.Image,
			Link:   req.Link,
			Width:  req.Width,
			Height: req.Height,
		},
		Description: req.Description,
		Tags:        req.Tags,
	}
}

func formFile(c *gin.Context, field string) (*apiclient.File, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart form")
	}
	return apiclient.FromFileHeader(fh)
}
