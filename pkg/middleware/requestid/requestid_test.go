package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = Value(c) })

	incoming := uuid.NewString()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderKey, incoming)
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, seen)
	assert.Equal(t, incoming, w.Header().Get(HeaderKey))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderKey, "not-a-uuid")
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", seen)
}
