package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

func siteClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client, err := apiclient.New(apiclient.Config{BaseURL: ts.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func magangForm(t *testing.T) validation.MagangForm {
	t.Helper()
	form, err := validation.ValidateMagang(validation.MagangInput{
		Nama:       "Rani Putri",
		NRP:        "5025211003",
		KelompokKP: "KP-07",
		Mindmap:    &apiclient.File{Name: "mindmap.pdf", ContentType: "application/pdf", Content: strings.NewReader("%PDF")},
	})
	require.NoError(t, err)
	return form
}

func TestMagangApplySendsMultipart(t *testing.T) {
	client := siteClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/apply-magang", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "Rani Putri", r.FormValue("nama"))
		assert.Equal(t, "5025211003", r.FormValue("nrp"))
		assert.Equal(t, "KP-07", r.FormValue("kelompokKP"))
		if _, fh, err := r.FormFile("mindmap"); assert.NoError(t, err) {
			assert.Equal(t, "mindmap.pdf", fh.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.ApplyMagangResponse{
			Message:   "application received",
			Applicant: models.MagangApplicant{ID: "a1", Nama: "Rani Putri", NRP: "5025211003", KelompokKP: "KP-07"},
		})
	})

	resp, err := NewMagangService(client).Apply(context.Background(), magangForm(t))
	require.NoError(t, err)
	assert.Equal(t, "application received", resp.Message)
	assert.Equal(t, "a1", resp.Applicant.ID)
}

func TestMagangApplyErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "html error page", status: http.StatusInternalServerError, body: "<html>Bad Gateway</html>", message: MagangFailureMessage},
		{name: "empty body", status: http.StatusBadGateway, body: "", message: MagangFailureMessage},
		{name: "json without error", status: http.StatusBadRequest, body: `{"detail":"x"}`, message: MagangFailureMessage},
		{name: "json error", status: http.StatusConflict, body: `{"error":"this NRP has already applied"}`, message: "this NRP has already applied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := siteClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewMagangService(client).Apply(context.Background(), magangForm(t))
			var httpErr *apiclient.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestScheduleClientStatus(t *testing.T) {
	client := siteClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/schedule", r.URL.Path)
		active := r.URL.Query().Get("path") == "/magang"
		_ = json.NewEncoder(w).Encode(models.ScheduleStatus{Active: active})
	})
	sc := NewScheduleClient(client)

	active, err := sc.Status(context.Background(), "/magang")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = sc.Status(context.Background(), "/oprec")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestScheduleClientNetworkError(t *testing.T) {
	client, err := apiclient.New(apiclient.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	_, err = NewScheduleClient(client).Status(context.Background(), "/magang")
	var netErr *apiclient.NetworkError
	assert.True(t, errors.As(err, &netErr))
}
