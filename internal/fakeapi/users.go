package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
)

func (s *Server) getMe(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	ok(c, http.StatusOK, user)
}

func (s *Server) updateMe(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	var body models.UpdateProfileRequest
	if !bindJSON(c, &body) {
		return
	}
	in := validation.ProfileInput{}
	if body.FullName != nil {
		in.FullName = *body.FullName
	}
	if body.Name != nil {
		in.Name = *body.Name
	}
	if body.Email != nil {
		in.Email = *body.Email
	}
	if body.Angkatan != nil {
		in.Angkatan = strconv.Itoa(*body.Angkatan)
	}
	req, err := validation.ValidateProfile(in)
	if err != nil {
		fail(c, err)
		return
	}
	updated, err := s.store.updateUser(user.ID, func(u *models.UserMe) {
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Angkatan != nil {
			angkatan := *req.Angkatan
			u.Angkatan = &angkatan
		}
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	file, closer, err := formFile(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	avatar, err := validation.ValidateAvatar(file)
	if err != nil {
		fail(c, err)
		return
	}
	url, err := s.storeFile("avatars", avatar)
	if err != nil {
		fail(c, err)
		return
	}
	updated, err := s.store.updateUser(user.ID, func(u *models.UserMe) {
		u.AvatarURL = &url
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}
