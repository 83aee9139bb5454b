package service

import (
	"context"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

const mePath = "/users/me"

// MeService wraps the signed-in user's profile endpoints.
type MeService struct {
	client *apiclient.Client
}

// NewMeService constructs a MeService.
func NewMeService(client *apiclient.Client) *MeService {
	return &MeService{client: client}
}

// Get returns the current profile. opts may carry a forwarded bearer token.
func (s *MeService) Get(ctx context.Context, opts ...apiclient.RequestOption) (*apiclient.Envelope[models.UserMe], error) {
	return apiclient.Get[models.UserMe](ctx, s.client, mePath, opts...)
}

// Update applies the non-nil fields of req.
func (s *MeService) Update(ctx context.Context, req models.UpdateProfileRequest) (*apiclient.Envelope[models.UserMe], error) {
	return apiclient.Patch[models.UserMe](ctx, s.client, mePath, apiclient.WithJSON(req))
}

// UploadAvatar replaces the profile picture.
func (s *MeService) UploadAvatar(ctx context.Context, avatar *apiclient.File) (*apiclient.Envelope[models.UserMe], error) {
	form := apiclient.NewMultipart().File("avatar", avatar)
	return apiclient.Post[models.UserMe](ctx, s.client, mePath+"/avatar", apiclient.WithMultipart(form))
}
