package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthToken is returned by login.
type AuthToken struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	User      UserMe     `json:"user"`
}

// LoginRequest is the wire payload for /auth/login.
type LoginRequest struct {
	NRP      string `json:"nrp"`
	Password string `json:"password"`
}

// RegisterRequest is the wire payload for /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	NRP      string `json:"nrp"`
	Email    string `json:"email"`
	Angkatan *int   `json:"angkatan,omitempty"`
	Password string `json:"password"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest updates the current user's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// JWTClaims is the access token payload issued by the backend.
type JWTClaims struct {
	UserID int64    `json:"uid"`
	NRP    string   `json:"nrp,omitempty"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
