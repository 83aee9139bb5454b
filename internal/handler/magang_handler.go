package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
	"github.com/hmtc-its/hmtc-portal/pkg/response"
)

// MagangHandler serves POST /api/apply-magang.
type MagangHandler struct {
	applicants *service.ApplicantService
}

// NewMagangHandler constructs a MagangHandler.
func NewMagangHandler(applicants *service.ApplicantService) *MagangHandler {
	return &MagangHandler{applicants: applicants}
}

// Apply validates the multipart form and records the applicant.
func (h *MagangHandler) Apply(c *gin.Context) {
	in := validation.MagangInput{
		Nama:       c.PostForm("nama"),
		NRP:        c.PostForm("nrp"),
		KelompokKP: c.PostForm("kelompokKP"),
	}
	if fh, err := c.FormFile("mindmap"); err == nil {
		file, closer, err := apiclient.FromFileHeader(fh)
		if err != nil {
			response.SiteFailure(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable mindmap upload"))
			return
		}
		defer closer.Close()
		in.Mindmap = file
	} else if err != http.ErrMissingFile {
		response.SiteFailure(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart form"))
		return
	}

	form, err := validation.ValidateMagang(in)
	if err != nil {
		response.SiteFailure(c, err)
		return
	}

	applicant, err := h.applicants.Apply(c.Request.Context(), form)
	if err != nil {
		response.SiteFailure(c, err)
		return
	}
	response.Site(c, http.StatusCreated, models.ApplyMagangResponse{
		Message:   "application received",
		Applicant: applicant,
	})
}
