package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recorderStub struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (r *recorderStub) ObserveAPIRequest(method, route string, status int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route)
	r.status = append(r.status, status)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL + "/v1", DefaultHeaders: map[string]string{"X-App": "portal"}}, opts...)
	require.NoError(t, err)
	return client, server
}

func TestGetDecodesEnvelope(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotApp, gotReqID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotApp = r.Header.Get("X-App")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":7,"title":"Makrab"}}`)
	}, WithTokenSource(staticToken("tkn")))

	env, err := Get[item](context.Background(), client, "/galleries/7", WithQuery(url.Values{"b": {"2"}, "a": {"1"}}))
	require.NoError(t, err)
	assert.True(t, env.OK())
	assert.NoError(t, env.Err())
	assert.Equal(t, item{ID: 7, Title: "Makrab"}, env.Data)
	assert.Equal(t, "/v1/galleries/7", gotPath)
	assert.Equal(t, "a=1&b=2", gotQuery)
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "portal", gotApp)
	assert.NotEmpty(t, gotReqID)
}

func TestPerCallBearerOverridesTokenSource(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"status":true,"data":null}`)
	}, WithTokenSource(staticToken("session")))

	_, err := Delete[struct{}](context.Background(), client, "/galleries/1", WithBearer("forwarded"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer forwarded", gotAuth)
}

func TestDomainFailureIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":false,"data":null,"message":"NRP sudah terdaftar"}`)
	})

	env, err := Post[item](context.Background(), client, "/auth/register", WithJSON(map[string]string{"nrp": "5025211000"}))
	require.NoError(t, err)
	assert.False(t, env.OK())
	var domainErr *DomainError
	require.ErrorAs(t, env.Err(), &domainErr)
	assert.Equal(t, "NRP sudah terdaftar", domainErr.Message)
}

func TestHTTPErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantMsg string
	}{
		{name: "message field", body: `{"status":false,"message":"not found"}`, status: http.StatusNotFound, wantMsg: "not found"},
		{name: "error field", body: `{"error":"bad nrp"}`, status: http.StatusBadRequest, wantMsg: "bad nrp"},
		{name: "html body", body: `<html>oops</html>`, status: http.StatusBadGateway, wantMsg: GenericMessage(http.StatusBadGateway)},
		{name: "empty body", body: ``, status: http.StatusInternalServerError, wantMsg: GenericMessage(http.StatusInternalServerError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := Get[item](context.Background(), client, "/galleries/1")
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestErrorFallbackOverride(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "upstream exploded")
	})

	err := client.DoJSON(context.Background(), http.MethodPost, "/api/apply-magang", nil, WithErrorFallback("custom fallback"))
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "custom fallback", httpErr.Message)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	server.Close()

	_, err = Get[item](context.Background(), client, "/galleries")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.MethodGet, netErr.Method)
}

func TestCancelledContextIsNetworkError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get[item](ctx, client, "/galleries")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDefaultHeadersAreCopied(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-App")
		_, _ = io.WriteString(w, `{"status":true}`)
	}))
	t.Cleanup(server.Close)

	headers := map[string]string{"X-App": "portal"}
	client, err := New(Config{BaseURL: server.URL, DefaultHeaders: headers})
	require.NoError(t, err)
	headers["X-App"] = "mutated"

	_, err = Get[struct{}](context.Background(), client, "/ping")
	require.NoError(t, err)
	assert.Equal(t, "portal", got)
}

func TestMultipartUpload(t *testing.T) {
	var title, fileName, fileType, fileBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		title = r.FormValue("title")
		f, header, err := r.FormFile("thumbnail")
		require.NoError(t, err)
		defer f.Close()
		raw, _ := io.ReadAll(f)
		fileName = header.Filename
		fileType = header.Header.Get("Content-Type")
		fileBody = string(raw)
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":1,"title":"Wisuda"}}`)
	})

	form := NewMultipart().
		Field("title", "Wisuda").
		File("thumbnail", &File{Name: "thumb.png", ContentType: "image/png", Content: strings.NewReader("png-bytes")}).
		File("skipped", nil)
	env, err := Post[item](context.Background(), client, "/galleries", WithMultipart(form))
	require.NoError(t, err)
	assert.Equal(t, 1, env.Data.ID)
	assert.Equal(t, "Wisuda", title)
	assert.Equal(t, "thumb.png", fileName)
	assert.Equal(t, "image/png", fileType)
	assert.Equal(t, "png-bytes", fileBody)
}

func TestRecorderUsesRouteLabels(t *testing.T) {
	rec := &recorderStub{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":true}`)
	}, WithRecorder(rec))

	_, err := Patch[struct{}](context.Background(), client, "/repositories/12/status")
	require.NoError(t, err)
	require.Len(t, rec.routes, 1)
	assert.Equal(t, "PATCH /repositories/:id/status", rec.routes[0])
	assert.Equal(t, http.StatusOK, rec.status[0])
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/galleries", RouteLabel("/galleries"))
	assert.Equal(t, "/galleries/:id", RouteLabel("galleries/42"))
	assert.Equal(t, "/a/:id/:id", RouteLabel("/a/1/2"))
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/api"})
	require.Error(t, err)
	_, err = New(Config{})
	require.Error(t, err)
}
