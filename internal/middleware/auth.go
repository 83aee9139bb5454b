package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

// Context keys set by the auth middleware.
const (
	ContextUserKey  = "currentUser"
	ContextTokenKey = "bearerToken"
)

// TokenValidator verifies an access token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// DenyFunc writes the rejection in the caller's response format.
type DenyFunc func(c *gin.Context, err error)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Bearer requires an Authorization header and stores the raw token without
// verifying it. Used where the upstream API is the verifying party.
func Bearer(deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			deny(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// JWT protects routes by requiring a valid access token.
func JWT(v TokenValidator, deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			deny(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token, ok := BearerToken(header)
		if !ok {
			deny(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := v.ValidateToken(token)
		if err != nil {
			deny(c, err)
			c.Abort()
			return
		}

		c.Set(ContextTokenKey, token)
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when a valid token is present but does not block.
func OptionalJWT(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := BearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := v.ValidateToken(token); err == nil {
				c.Set(ContextTokenKey, token)
				c.Set(ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

// Claims returns the claims stored by JWT or OptionalJWT.
func Claims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}

// Token returns the bearer token stored by Bearer or JWT.
func Token(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}
