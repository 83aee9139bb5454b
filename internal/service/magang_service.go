package service

import (
	"context"
	"net/http"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

// MagangFailureMessage is reported when the site answers an application
// with an unreadable error body.
const MagangFailureMessage = "failed to submit magang application"

// MagangService submits magang applications to the site route.
type MagangService struct {
	client *apiclient.Client
}

// NewMagangService constructs a MagangService bound to the site client.
func NewMagangService(site *apiclient.Client) *MagangService {
	return &MagangService{client: site}
}

// Apply sends the application as multipart nama, nrp, kelompokKP and mindmap.
func (s *MagangService) Apply(ctx context.Context, form validation.MagangForm) (*models.ApplyMagangResponse, error) {
	mp := apiclient.NewMultipart().
		Field("nama", form.Nama).
		Field("nrp", form.NRP).
		Field("kelompokKP", form.KelompokKP).
		File("mindmap", form.Mindmap)

	var out models.ApplyMagangResponse
	err := s.client.DoJSON(ctx, http.MethodPost, "/api/apply-magang", &out,
		apiclient.WithMultipart(mp),
		apiclient.WithErrorFallback(MagangFailureMessage),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
