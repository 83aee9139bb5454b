package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// forwardBearer passes the caller's token on to the backend.
func forwardBearer(c *gin.Context) []apiclient.RequestOption {
	if token := middleware.Token(c); token != "" {
		return []apiclient.RequestOption{apiclient.WithBearer(token)}
	}
	return nil
}
