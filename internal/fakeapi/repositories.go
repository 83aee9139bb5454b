package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

var errRepositoryNotFound = appErrors.Clone(appErrors.ErrNotFound, "repository not found")

// repositoryVisible reports whether the caller may see rec: published
// entries are public, the rest only to their owner and admins.
func repositoryVisible(c *gin.Context) func(repositoryRecord) bool {
	claims, authed := middleware.Claims(c)
	return func(rec repositoryRecord) bool {
		if rec.Status == models.RepositoryPublished {
			return true
		}
		if !authed {
			return false
		}
		return claims.Role.IsAdmin() || claims.UserID == rec.ownerID
	}
}

func canEditRepository(c *gin.Context, rec repositoryRecord) bool {
	claims, authed := middleware.Claims(c)
	return authed && (claims.Role.IsAdmin() || claims.UserID == rec.ownerID)
}

func (s *Server) listRepositories(c *gin.Context) {
	page, limit := paging(c)
	items := s.store.listRepositories(models.RepositoryFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   models.RepositoryStatus(c.Query("status")),
	}, repositoryVisible(c))
	ok(c, http.StatusOK, paginate(items, page, limit))
}

func (s *Server) getRepository(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	rec, err := s.store.repository(id)
	if err != nil || !repositoryVisible(c)(rec) {
		fail(c, errRepositoryNotFound)
		return
	}
	ok(c, http.StatusOK, rec.RepositoryDetail)
}

func (s *Server) bindRepository(c *gin.Context) (models.RepositoryPayload, bool) {
	var body models.RepositoryPayload
	if !bindJSON(c, &body) {
		return models.RepositoryPayload{}, false
	}
	payload, err := validation.ValidateRepository(validation.RepositoryInput{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Link:        body.Link,
		Authors:     strings.Join(body.Authors, ","),
		Tags:        strings.Join(body.Tags, ","),
	})
	if err != nil {
		fail(c, err)
		return models.RepositoryPayload{}, false
	}
	return payload, true
}

func (s *Server) createRepository(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	payload, valid := s.bindRepository(c)
	if !valid {
		return
	}
	ok(c, http.StatusCreated, s.store.createRepository(user.ID, payload))
}

func (s *Server) updateRepository(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	payload, valid := s.bindRepository(c)
	if !valid {
		return
	}
	updated, err := s.store.mutateRepository(id, func(rec *repositoryRecord) error {
		if !canEditRepository(c, *rec) {
			return appErrors.ErrForbidden
		}
		applyRepositoryPayload(&rec.RepositoryDetail, payload)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

func (s *Server) updateRepositoryStatus(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	var body models.RepositoryStatusPayload
	if !bindJSON(c, &body) {
		return
	}
	if !body.Status.Valid() {
		fail(c, appErrors.Clone(appErrors.ErrValidation, "unknown repository status"))
		return
	}
	admin := isAdmin(c)
	updated, err := s.store.mutateRepository(id, func(rec *repositoryRecord) error {
		if !canEditRepository(c, *rec) {
			return appErrors.ErrForbidden
		}
		if !rec.Status.CanTransition(body.Status, admin) {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot move repository from %s to %s", rec.Status, body.Status))
		}
		rec.Status = body.Status
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

func (s *Server) deleteRepository(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	if err := s.store.deleteRepository(id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}
