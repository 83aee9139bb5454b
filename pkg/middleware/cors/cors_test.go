package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(allowed []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.GET("/api/schedule", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/api/schedule", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/api/schedule", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAllowedOrigins(t *testing.T) {
	allowed := []string{"https://hmtc.its.ac.id/", "https://*.hmtc-its.org"}

	w := serve(allowed, http.MethodGet, "https://hmtc.its.ac.id")
	assert.Equal(t, "https://hmtc.its.ac.id", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(allowed, http.MethodGet, "https://portal.hmtc-its.org")
	assert.Equal(t, "https://portal.hmtc-its.org", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(allowed, http.MethodGet, "https://hmtc-its.org.evil.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(allowed, http.MethodGet, "http://portal.hmtc-its.org")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	w := serve(nil, http.MethodOptions, "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}
