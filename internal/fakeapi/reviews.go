package fakeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

// ownedBy reports whether the caller is an admin or the owner.
func ownedBy(c *gin.Context, ownerID int64) bool {
	claims, authed := middleware.Claims(c)
	return authed && (claims.Role.IsAdmin() || claims.UserID == ownerID)
}

func reviewFilter(c *gin.Context) models.ReviewFilter {
	return models.ReviewFilter{
		Status: models.ReviewStatus(c.Query("status")),
		Search: c.Query("search"),
	}
}

// bindDecision reads a review decision; only terminal states are accepted.
func bindDecision(c *gin.Context) (models.ReviewDecision, bool) {
	var d models.ReviewDecision
	if !bindJSON(c, &d) {
		return d, false
	}
	if !d.Status.Terminal() {
		fail(c, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected"))
		return d, false
	}
	return d, true
}

func (s *Server) listRequests(c *gin.Context) {
	page, limit := paging(c)
	items := s.store.listRequests(reviewFilter(c), func(rec requestRecord) bool {
		return ownedBy(c, rec.ownerID)
	})
	ok(c, http.StatusOK, paginate(items, page, limit))
}

func (s *Server) getRequest(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	rec, err := s.store.request(id)
	if err != nil || !ownedBy(c, rec.ownerID) {
		fail(c, appErrors.Clone(appErrors.ErrNotFound, "request not found"))
		return
	}
	ok(c, http.StatusOK, rec.RequestDetail)
}

func (s *Server) createRequest(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	var body models.CreateRequestPayload
	if !bindJSON(c, &body) {
		return
	}
	payload, err := validation.ValidateAccessRequest(validation.AccessRequestInput{
		Title:       body.Title,
		Type:        body.Type,
		Description: body.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, s.store.createRequest(user, payload))
}

func (s *Server) reviewRequest(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	reviewer, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	decision, valid := bindDecision(c)
	if !valid {
		return
	}
	updated, err := s.store.reviewRequest(id, reviewer.Name, decision)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

func (s *Server) listUploads(c *gin.Context) {
	page, limit := paging(c)
	items := s.store.listUploads(reviewFilter(c), func(rec uploadRecord) bool {
		return ownedBy(c, rec.ownerID)
	})
	ok(c, http.StatusOK, paginate(items, page, limit))
}

func (s *Server) getUpload(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	rec, err := s.store.upload(id)
	if err != nil || !ownedBy(c, rec.ownerID) {
		fail(c, appErrors.Clone(appErrors.ErrNotFound, "upload not found"))
		return
	}
	ok(c, http.StatusOK, rec.UploadDetail)
}

func (s *Server) submitUpload(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	file, closer, err := formFile(c, "file")
	if err != nil {
		fail(c, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	form, err := validation.ValidateUpload(validation.UploadInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		File:        file,
	}, s.cfg.MaxUploadBytes)
	if err != nil {
		fail(c, err)
		return
	}
	url, err := s.storeFile("uploads", form.File)
	if err != nil {
		fail(c, err)
		return
	}
	detail := models.UploadDetail{
		Description: form.Description,
		ContentType: validation.ContentType(form.File),
		FileSize:    validation.FileSize(form.File),
		FileURL:     url,
	}
	detail.Title = form.Title
	detail.FileName = form.File.Name
	ok(c, http.StatusCreated, s.store.createUpload(user, detail))
}

func (s *Server) reviewUpload(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	reviewer, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	decision, valid := bindDecision(c)
	if !valid {
		return
	}
	updated, err := s.store.reviewUpload(id, reviewer.Name, decision)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}
