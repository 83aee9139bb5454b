package fakeapi

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

const filesPrefix = BasePath + "/files/"

// storeFile saves f under dir and returns its public URL path.
func (s *Server) storeFile(dir string, f *apiclient.File) (string, error) {
	name, err := s.files.Store(dir, f.Name, f.Content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}
	return filesPrefix + name, nil
}

func (s *Server) serveFile(c *gin.Context) {
	name := strings.TrimPrefix(path.Clean("/"+c.Param("name")), "/")
	f, err := s.files.Open(name)
	if err != nil {
		fail(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		fail(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	contentType := validation.ContentType(&apiclient.File{Name: name})
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
