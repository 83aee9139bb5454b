package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

type staticValidator map[string]*models.JWTClaims

func (v staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func deny(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	v := staticValidator{
		"admin-token": {UserID: 1, Role: models.RoleAdmin},
		"user-token":  {UserID: 2, Role: models.RoleUser},
	}
	r := gin.New()
	r.GET("/me", JWT(v, deny), func(c *gin.Context) {
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID, "token": Token(c)})
	})
	r.DELETE("/galleries/:id", JWT(v, deny), RequireAdmin(deny), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/public", OptionalJWT(v), func(c *gin.Context) {
		_, ok := Claims(c)
		c.JSON(http.StatusOK, gin.H{"signedIn": ok})
	})
	r.POST("/forward", Bearer(deny), func(c *gin.Context) { c.String(http.StatusOK, Token(c)) })
	return r
}

func do(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	r := authRouter()
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Bearer nope").Code)

	w := do(r, http.MethodGet, "/me", "bearer user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":2,"token":"user-token"}`, w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r := authRouter()
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/galleries/1", "Bearer user-token").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/galleries/1", "Bearer admin-token").Code)
}

func TestOptionalJWTAndBearer(t *testing.T) {
	r := authRouter()
	assert.JSONEq(t, `{"signedIn":false}`, do(r, http.MethodGet, "/public", "Bearer nope").Body.String())
	assert.JSONEq(t, `{"signedIn":true}`, do(r, http.MethodGet, "/public", "Bearer admin-token").Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/forward", "").Code)
	w := do(r, http.MethodPost, "/forward", "Bearer opaque.jwt.value")
	assert.Equal(t, "opaque.jwt.value", w.Body.String())
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{"Bearer abc": "abc", "BEARER  abc ": "abc", "Bearer ": "", "abc": ""} {
		got, ok := BearerToken(header)
		assert.Equal(t, want, got, header)
		assert.Equal(t, want != "", ok, header)
	}
}
