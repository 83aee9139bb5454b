package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON body"))
		return false
	}
	return true
}

func (s *Server) currentUser(c *gin.Context) (models.UserMe, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		fail(c, appErrors.ErrUnauthorized)
		return models.UserMe{}, false
	}
	u, err := s.store.user(claims.UserID)
	if err != nil {
		fail(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
		return models.UserMe{}, false
	}
	return u, true
}

func isAdmin(c *gin.Context) bool {
	claims, ok := middleware.Claims(c)
	return ok && claims.Role.IsAdmin()
}

func (s *Server) login(c *gin.Context) {
	var body models.LoginRequest
	if !bindJSON(c, &body) {
		return
	}
	req, err := validation.ValidateLogin(validation.LoginInput{NRP: body.NRP, Password: body.Password})
	if err != nil {
		fail(c, err)
		return
	}
	user, err := s.store.authenticate(req.NRP, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		fail(c, err)
		return
	}
	s.logger.Info("login", zap.Int64("user_id", user.ID))
	ok(c, http.StatusOK, models.AuthToken{Token: token, ExpiresAt: &expiresAt, User: user})
}

func (s *Server) register(c *gin.Context) {
	var body models.RegisterRequest
	if !bindJSON(c, &body) {
		return
	}
	in := validation.RegisterInput{
		Name:            body.Name,
		FullName:        body.FullName,
		NRP:             body.NRP,
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.Password,
	}
	if body.Angkatan != nil {
		in.Angkatan = strconv.Itoa(*body.Angkatan)
	}
	req, err := validation.ValidateRegister(in)
	if err != nil {
		fail(c, err)
		return
	}
	user, err := s.store.createUser(req, models.RoleUser)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, user)
}

// forgotPassword answers identically whether or not the email is known.
func (s *Server) forgotPassword(c *gin.Context) {
	var body models.ForgotPasswordRequest
	if !bindJSON(c, &body) {
		return
	}
	req, err := validation.ValidateForgotPassword(body.Email)
	if err != nil {
		fail(c, err)
		return
	}
	if s.store.emailRegistered(req.Email) {
		s.logger.Info("password reset requested", zap.String("email", req.Email))
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "data": nil, "message": "if the email is registered, a reset link has been sent"})
}

func (s *Server) changePassword(c *gin.Context) {
	user, okUser := s.currentUser(c)
	if !okUser {
		return
	}
	var body models.ChangePasswordRequest
	if !bindJSON(c, &body) {
		return
	}
	req, err := validation.ValidateChangePassword(validation.ChangePasswordInput{
		OldPassword:     body.OldPassword,
		NewPassword:     body.NewPassword,
		ConfirmPassword: body.NewPassword,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.store.changePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "data": nil, "message": "password updated"})
}
