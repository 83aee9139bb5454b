package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

// AuthService wraps the /auth endpoints and keeps the session current.
type AuthService struct {
	client  *apiclient.Client
	session *Session
	logger  *zap.Logger
}

// NewAuthService constructs an AuthService. session may be nil when the
// caller manages tokens itself.
func NewAuthService(client *apiclient.Client, session *Session, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{client: client, session: session, logger: logger}
}

// Login exchanges credentials for a token. A successful envelope also
// signs the session in.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*apiclient.Envelope[models.AuthToken], error) {
	env, err := apiclient.Post[models.AuthToken](ctx, s.client, "/auth/login", apiclient.WithJSON(req))
	if err != nil {
		return nil, err
	}
	if env.OK() && s.session != nil {
		if err := s.session.Set(env.Data.Token); err != nil {
			return nil, err
		}
		s.logger.Info("signed in", zap.Int64("user_id", env.Data.User.ID), zap.String("role", string(env.Data.User.Role)))
	}
	return env, nil
}

// Register creates an account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*apiclient.Envelope[models.UserMe], error) {
	return apiclient.Post[models.UserMe](ctx, s.client, "/auth/register", apiclient.WithJSON(req))
}

// ForgotPassword starts the reset flow.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*apiclient.Envelope[json.RawMessage], error) {
	return apiclient.Post[json.RawMessage](ctx, s.client, "/auth/forgot-password", apiclient.WithJSON(req))
}

// ChangePassword updates the signed-in user's password.
func (s *AuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*apiclient.Envelope[json.RawMessage], error) {
	return apiclient.Patch[json.RawMessage](ctx, s.client, "/auth/change-password", apiclient.WithJSON(req))
}

// Logout clears the local session.
func (s *AuthService) Logout() {
	if s.session != nil {
		s.session.Clear()
	}
}
