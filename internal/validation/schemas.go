package validation

import (
	"strings"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

// NRPLength is the student number length used by the auth forms.
const NRPLength = 10

// Thumbnail and mindmap limits.
const (
	ThumbnailMaxBytes = 1 * MiB
	MindmapMaxBytes   = 5 * MiB
)

var (
	thumbnailTypes = []string{"image/jpeg", "image/jpg", "image/png"}
	mindmapTypes   = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}
)

// LoginInput is the raw login form.
type LoginInput struct {
	NRP      string
	Password string
}

// ValidateLogin checks the login form.
func ValidateLogin(in LoginInput) (models.LoginRequest, error) {
	var c Collector
	out := models.LoginRequest{
		NRP:      Check(&c, "nrp", strings.TrimSpace(in.NRP), Required(), Digits(NRPLength)),
		Password: Check(&c, "password", in.Password, Required()),
	}
	if err := c.Err(); err != nil {
		return models.LoginRequest{}, err
	}
	return out, nil
}

// RegisterInput is the raw registration form.
type RegisterInput struct {
	Name            string
	FullName        string
	NRP             string
	Email           string
	Angkatan        string
	Password        string
	ConfirmPassword string
}

// ValidateRegister checks the registration form.
func ValidateRegister(in RegisterInput) (models.RegisterRequest, error) {
	var c Collector
	out := models.RegisterRequest{
		Name:     Check(&c, "name", strings.TrimSpace(in.Name), Required(), Length(3, 100)),
		FullName: Check(&c, "fullName", strings.TrimSpace(in.FullName), Required(), Length(3, 100)),
		NRP:      Check(&c, "nrp", strings.TrimSpace(in.NRP), Required(), Digits(NRPLength)),
		Email:    Check(&c, "email", strings.TrimSpace(in.Email), Required(), Email()),
		Angkatan: Convert(&c, "angkatan", in.Angkatan, ToOptionalInt, optionalYear()),
		Password: Check(&c, "password", in.Password, Required(), MinLength(8)),
	}
	Check(&c, "confirmPassword", in.ConfirmPassword, Required(), Equals(in.Password, "passwords do not match"))
	if err := c.Err(); err != nil {
		return models.RegisterRequest{}, err
	}
	return out, nil
}

func optionalYear() Rule[*int] {
	between := Between(1957, 2100)
	return func(v *int) error {
		if v == nil {
			return nil
		}
		return between(*v)
	}
}

// ValidateForgotPassword checks the forgot-password form.
func ValidateForgotPassword(email string) (models.ForgotPasswordRequest, error) {
	var c Collector
	out := models.ForgotPasswordRequest{
		Email: Check(&c, "email", strings.TrimSpace(email), Required(), Email()),
	}
	if err := c.Err(); err != nil {
		return models.ForgotPasswordRequest{}, err
	}
	return out, nil
}

// ChangePasswordInput is the raw change-password form.
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// ValidateChangePassword checks the change-password form.
func ValidateChangePassword(in ChangePasswordInput) (models.ChangePasswordRequest, error) {
	var c Collector
	out := models.ChangePasswordRequest{
		OldPassword: Check(&c, "oldPassword", in.OldPassword, Required()),
		NewPassword: Check(&c, "newPassword", in.NewPassword, Required(), MinLength(8),
			Differs(in.OldPassword, "must differ from the current password")),
	}
	Check(&c, "confirmPassword", in.ConfirmPassword, Required(), Equals(in.NewPassword, "passwords do not match"))
	if err := c.Err(); err != nil {
		return models.ChangePasswordRequest{}, err
	}
	return out, nil
}

// GalleryInput is the raw gallery upload form.
type GalleryInput struct {
	Title       string
	Date        string
	Link        string
	Image       string
	Width       string
	Height      string
	Description string
	Tags        string
	Thumbnail   *apiclient.File
}

// GalleryForm is a validated gallery submission.
type GalleryForm struct {
	Title       string
	Date        string
	Link        string
	Image       string
	Width       int
	Height      int
	Description string
	Tags        []string
	Thumbnail   *apiclient.File
}

// ValidateGallery checks the gallery form. A blank image defaults to the
// Drive thumbnail of the link.
func ValidateGallery(in GalleryInput) (GalleryForm, error) {
	var c Collector
	out := GalleryForm{
		Title:       Check(&c, "title", strings.TrimSpace(in.Title), Required(), Length(3, 100)),
		Date:        Convert(&c, "date", in.Date, ToDate),
		Link:        Check(&c, "link", strings.TrimSpace(in.Link), Required(), DriveLink()),
		Image:       Check(&c, "image", strings.TrimSpace(in.Image), Optional(URL())),
		Width:       Convert(&c, "width", in.Width, ToInt, Positive()),
		Height:      Convert(&c, "height", in.Height, ToInt, Positive()),
		Description: Check(&c, "description", strings.TrimSpace(in.Description), Optional(Length(10, 2000))),
		Tags:        splitTags(in.Tags),
		Thumbnail: Check(&c, "thumbnail", in.Thumbnail,
			OptionalFile(MaxFileSize(ThumbnailMaxBytes), AllowedTypes(thumbnailTypes...))),
	}
	if err := c.Err(); err != nil {
		return GalleryForm{}, err
	}
	if out.Image == "" {
		if id, ok := DriveFileID(out.Link); ok {
			out.Image = DriveImageURL(id)
		}
	}
	return out, nil
}

// Request returns the wire body for the form.
func (f GalleryForm) Request() models.CreateGalleryRequest {
	return models.CreateGalleryRequest{
		Title:       f.Title,
		Date:        f.Date,
		Link:        f.Link,
		Image:       f.Image,
		Width:       f.Width,
		Height:      f.Height,
		Description: f.Description,
		Tags:        f.Tags,
	}
}

// RepositoryInput is the raw repository entry form.
type RepositoryInput struct {
	Title       string
	Description string
	Category    string
	Link        string
	Authors     string
	Tags        string
}

// ValidateRepository checks the repository entry form.
func ValidateRepository(in RepositoryInput) (models.RepositoryPayload, error) {
	var c Collector
	out := models.RepositoryPayload{
		Title:       Check(&c, "title", strings.TrimSpace(in.Title), Required(), Length(3, 200)),
		Description: Check(&c, "description", strings.TrimSpace(in.Description), Required(), Length(10, 2000)),
		Category:    Check(&c, "category", strings.TrimSpace(in.Category), Required()),
		Link:        Check(&c, "link", strings.TrimSpace(in.Link), Optional(URL())),
		Authors:     splitTags(in.Authors),
		Tags:        splitTags(in.Tags),
	}
	if err := c.Err(); err != nil {
		return models.RepositoryPayload{}, err
	}
	return out, nil
}

// MagangInput is the raw magang application form.
type MagangInput struct {
	Nama       string
	NRP        string
	KelompokKP string
	Mindmap    *apiclient.File
}

// MagangForm is a validated magang application.
type MagangForm struct {
	Nama       string
	NRP        string
	KelompokKP string
	Mindmap    *apiclient.File
}

// ValidateMagang checks the magang form; the mindmap file is mandatory.
func ValidateMagang(in MagangInput) (MagangForm, error) {
	var c Collector
	out := MagangForm{
		Nama:       Check(&c, "nama", strings.TrimSpace(in.Nama), Required(), Length(3, 100)),
		NRP:        Check(&c, "nrp", strings.TrimSpace(in.NRP), Required(), Digits(NRPLength)),
		KelompokKP: Check(&c, "kelompokKP", strings.TrimSpace(in.KelompokKP), Required(), Length(1, 50)),
		Mindmap: Check(&c, "mindmap", in.Mindmap,
			RequiredFile(), MaxFileSize(MindmapMaxBytes), AllowedTypes(mindmapTypes...)),
	}
	if err := c.Err(); err != nil {
		return MagangForm{}, err
	}
	return out, nil
}

// UploadInput is the raw dashboard upload form.
type UploadInput struct {
	Title       string
	Description string
	File        *apiclient.File
}

// UploadForm is a validated dashboard upload.
type UploadForm struct {
	Title       string
	Description string
	File        *apiclient.File
}

// ValidateUpload checks a dashboard file submission.
func ValidateUpload(in UploadInput, maxBytes int64) (UploadForm, error) {
	if maxBytes <= 0 {
		maxBytes = 10 * MiB
	}
	var c Collector
	out := UploadForm{
		Title:       Check(&c, "title", strings.TrimSpace(in.Title), Required(), Length(3, 200)),
		Description: Check(&c, "description", strings.TrimSpace(in.Description), Optional(Length(0, 2000))),
		File:        Check(&c, "file", in.File, RequiredFile(), MaxFileSize(maxBytes)),
	}
	if err := c.Err(); err != nil {
		return UploadForm{}, err
	}
	return out, nil
}

// AccessRequestInput is the raw access request form.
type AccessRequestInput struct {
	Title       string
	Type        string
	Description string
}

// ValidateAccessRequest checks an access request submission.
func ValidateAccessRequest(in AccessRequestInput) (models.CreateRequestPayload, error) {
	var c Collector
	out := models.CreateRequestPayload{
		Title:       Check(&c, "title", strings.TrimSpace(in.Title), Required(), Length(3, 200)),
		Type:        Check(&c, "type", strings.TrimSpace(in.Type), Required(), Length(1, 50)),
		Description: Check(&c, "description", strings.TrimSpace(in.Description), Required(), Length(10, 2000)),
	}
	if err := c.Err(); err != nil {
		return models.CreateRequestPayload{}, err
	}
	return out, nil
}

// AvatarMaxBytes bounds profile pictures.
const AvatarMaxBytes = 2 * MiB

// ValidateAvatar checks a profile picture.
func ValidateAvatar(f *apiclient.File) (*apiclient.File, error) {
	var c Collector
	out := Check(&c, "avatar", f, RequiredFile(), MaxFileSize(AvatarMaxBytes), AllowedTypes(thumbnailTypes...))
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileInput is the raw profile edit form; blank fields are left unchanged.
type ProfileInput struct {
	FullName string
	Name     string
	Email    string
	Angkatan string
}

// ValidateProfile checks the profile edit form.
func ValidateProfile(in ProfileInput) (models.UpdateProfileRequest, error) {
	var c Collector
	fullName := Check(&c, "fullName", strings.TrimSpace(in.FullName), Optional(Length(3, 100)))
	name := Check(&c, "name", strings.TrimSpace(in.Name), Optional(Length(3, 100)))
	email := Check(&c, "email", strings.TrimSpace(in.Email), Optional(Email()))
	out := models.UpdateProfileRequest{
		FullName: optionalString(fullName),
		Name:     optionalString(name),
		Email:    optionalString(email),
		Angkatan: Convert(&c, "angkatan", in.Angkatan, ToOptionalInt, optionalYear()),
	}
	if err := c.Err(); err != nil {
		return models.UpdateProfileRequest{}, err
	}
	return out, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
