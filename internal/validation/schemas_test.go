package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	fe, ok := AsFieldErrors(err)
	require.True(t, ok, "expected FieldErrors, got %v", err)
	return fe
}

func TestLoginNRP(t *testing.T) {
	valid := []string{"5025211000", "0000000000", " 5025211000 "}
	for _, nrp := range valid {
		_, err := ValidateLogin(LoginInput{NRP: nrp, Password: "secret"})
		assert.NoError(t, err, nrp)
	}

	invalid := []string{"", "502521100", "50252110000", "50252110a0", "+502521100", "5025.21100", "５０２５２１１０００"}
	for _, nrp := range invalid {
		_, err := ValidateLogin(LoginInput{NRP: nrp, Password: "secret"})
		fe := fieldErrors(t, err)
		assert.Contains(t, fe, "nrp", nrp)
	}
}

func TestLoginReportsAllFieldsAtOnce(t *testing.T) {
	_, err := ValidateLogin(LoginInput{})
	fe := fieldErrors(t, err)
	assert.Len(t, fe, 2)
	assert.Equal(t, "is required", fe["nrp"])
	assert.Equal(t, "is required", fe["password"])
}

func TestRegister(t *testing.T) {
	in := RegisterInput{
		Name:            "Budi",
		FullName:        "Budi Santoso",
		NRP:             "5025211001",
		Email:           "budi@its.ac.id",
		Angkatan:        "2021",
		Password:        "rahasia123",
		ConfirmPassword: "rahasia123",
	}
	out, err := ValidateRegister(in)
	require.NoError(t, err)
	require.NotNil(t, out.Angkatan)
	assert.Equal(t, 2021, *out.Angkatan)

	in.ConfirmPassword = "different1"
	in.Email = "not-an-email"
	in.Angkatan = "20x1"
	_, err = ValidateRegister(in)
	fe := fieldErrors(t, err)
	assert.Equal(t, "passwords do not match", fe["confirmPassword"])
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "angkatan")
	assert.NotContains(t, fe, "nrp")
}

func TestRegisterAngkatanOptional(t *testing.T) {
	out, err := ValidateRegister(RegisterInput{
		Name: "Sari", FullName: "Sari Dewi", NRP: "5025211002", Email: "sari@its.ac.id",
		Password: "rahasia123", ConfirmPassword: "rahasia123",
	})
	require.NoError(t, err)
	assert.Nil(t, out.Angkatan)
}

func TestChangePassword(t *testing.T) {
	_, err := ValidateChangePassword(ChangePasswordInput{OldPassword: "lama12345", NewPassword: "lama12345", ConfirmPassword: "lama12345"})
	fe := fieldErrors(t, err)
	assert.Equal(t, "must differ from the current password", fe["newPassword"])

	out, err := ValidateChangePassword(ChangePasswordInput{OldPassword: "lama12345", NewPassword: "baru12345", ConfirmPassword: "baru12345"})
	require.NoError(t, err)
	assert.Equal(t, "baru12345", out.NewPassword)
}

func TestForgotPassword(t *testing.T) {
	_, err := ValidateForgotPassword("nope")
	assert.Contains(t, fieldErrors(t, err), "email")
	out, err := ValidateForgotPassword(" budi@its.ac.id ")
	require.NoError(t, err)
	assert.Equal(t, "budi@its.ac.id", out.Email)
}

func validGallery() GalleryInput {
	return GalleryInput{
		Title:  "Makrab HMTC",
		Date:   "2026-03-14",
		Link:   "https://drive.google.com/file/d/abc123",
		Width:  "1200",
		Height: "800",
	}
}

func TestGalleryDriveLink(t *testing.T) {
	accepted := []string{
		"https://drive.google.com/file/d/abc123",
		"https://drive.google.com/file/d/1A_b-C/view?usp=sharing",
		"https://drive.google.com/open?id=abc123",
		"https://drive.google.com/uc?export=view&id=abc123",
	}
	for _, link := range accepted {
		in := validGallery()
		in.Link = link
		_, err := ValidateGallery(in)
		assert.NoError(t, err, link)
	}

	rejected := []string{
		"https://example.com/file/d/abc",
		"https://example.com/?id=abc",
		"https://drive.google.com.evil.io/file/d/abc",
		"https://docs.google.com/document/d/abc",
		"drive.google.com/file/d/abc",
		"not a url",
	}
	for _, link := range rejected {
		in := validGallery()
		in.Link = link
		_, err := ValidateGallery(in)
		assert.Equal(t, "must be a Google Drive link", fieldErrors(t, err)["link"], link)
	}
}

func TestGalleryDefaultsImageFromDrive(t *testing.T) {
	out, err := ValidateGallery(validGallery())
	require.NoError(t, err)
	assert.Equal(t, DriveImageURL("abc123"), out.Image)
	assert.Equal(t, 1200, out.Width)
	assert.Equal(t, "2026-03-14", out.Date)
}

func thumbnail(name, contentType string, size int) *apiclient.File {
	return &apiclient.File{Name: name, ContentType: contentType, Content: bytes.NewReader(make([]byte, size))}
}

func TestGalleryThumbnail(t *testing.T) {
	tests := []struct {
		name  string
		file  *apiclient.File
		valid bool
	}{
		{name: "absent", file: nil, valid: true},
		{name: "exactly 1 MiB png", file: thumbnail("a.png", "image/png", 1048576), valid: true},
		{name: "one byte over", file: thumbnail("a.png", "image/png", 1048577), valid: false},
		{name: "gif", file: thumbnail("a.gif", "image/gif", 1024), valid: false},
		{name: "jpeg inferred from extension", file: thumbnail("a.jpg", "", 2048), valid: true},
		{name: "jpg alias", file: thumbnail("a.jpg", "image/jpg", 2048), valid: true},
		{name: "declared size wins", file: &apiclient.File{Name: "a.png", ContentType: "image/png", Size: 2 * MiB, Content: strings.NewReader("x")}, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validGallery()
			in.Thumbnail = tt.file
			_, err := ValidateGallery(in)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), "thumbnail")
		})
	}
}

func TestGalleryTitleBounds(t *testing.T) {
	cases := map[int]bool{2: false, 3: true, 100: true, 101: false}
	for n, ok := range cases {
		in := validGallery()
		in.Title = strings.Repeat("a", n)
		_, err := ValidateGallery(in)
		if ok {
			assert.NoError(t, err, n)
		} else {
			assert.Contains(t, fieldErrors(t, err), "title", n)
		}
	}
}

func TestRepositoryBounds(t *testing.T) {
	base := RepositoryInput{Title: "Laporan KP", Description: "Laporan kerja praktik", Category: "kp"}

	cases := []struct {
		field string
		mut   func(*RepositoryInput)
		ok    bool
	}{
		{"title", func(r *RepositoryInput) { r.Title = strings.Repeat("t", 200) }, true},
		{"title", func(r *RepositoryInput) { r.Title = strings.Repeat("t", 201) }, false},
		{"description", func(r *RepositoryInput) { r.Description = strings.Repeat("d", 10) }, true},
		{"description", func(r *RepositoryInput) { r.Description = strings.Repeat("d", 9) }, false},
		{"description", func(r *RepositoryInput) { r.Description = strings.Repeat("d", 2000) }, true},
		{"description", func(r *RepositoryInput) { r.Description = strings.Repeat("d", 2001) }, false},
		{"link", func(r *RepositoryInput) { r.Link = "ftp//broken" }, false},
	}
	for _, tc := range cases {
		in := base
		tc.mut(&in)
		_, err := ValidateRepository(in)
		if tc.ok {
			assert.NoError(t, err)
		} else {
			assert.Contains(t, fieldErrors(t, err), tc.field)
		}
	}
}

func TestMagangRequiresMindmap(t *testing.T) {
	in := MagangInput{Nama: "Rani", NRP: "5025211003", KelompokKP: "KP-07"}
	_, err := ValidateMagang(in)
	assert.Equal(t, "is required", fieldErrors(t, err)["mindmap"])

	in.Mindmap = thumbnail("mindmap.pdf", "application/pdf", 4096)
	out, err := ValidateMagang(in)
	require.NoError(t, err)
	assert.Equal(t, "KP-07", out.KelompokKP)

	in.Mindmap = thumbnail("mindmap.zip", "application/zip", 4096)
	_, err = ValidateMagang(in)
	assert.Contains(t, fieldErrors(t, err), "mindmap")
}

func TestUploadDefaultsLimit(t *testing.T) {
	_, err := ValidateUpload(UploadInput{Title: "Proposal", File: thumbnail("p.pdf", "application/pdf", int(10*MiB)+1)}, 0)
	assert.Equal(t, "must be 10 MB or smaller", fieldErrors(t, err)["file"])
}

func TestFieldErrorsRendering(t *testing.T) {
	err := FieldErrors{"b": "second", "a": "first"}
	assert.Equal(t, "validation failed: a: first; b: second", err.Error())
}

func TestGalleryDescriptionBounds(t *testing.T) {
	cases := map[int]bool{0: true, 9: false, 10: true, 2000: true, 2001: false}
	for n, ok := range cases {
		in := validGallery()
		in.Description = strings.Repeat("d", n)
		_, err := ValidateGallery(in)
		if ok {
			assert.NoError(t, err, n)
		} else {
			assert.Contains(t, fieldErrors(t, err), "description", n)
		}
	}
}
