package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// File is an attachment sent in a multipart field.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

type multipartField struct {
	name  string
	value string
	file  *File
}

// Multipart accumulates scalar and file fields in insertion order.
type Multipart struct {
	fields []multipartField
}

// NewMultipart starts an empty form.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field appends a scalar field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, multipartField{name: name, value: value})
	return m
}

// File appends a file field; a nil file is skipped.
func (m *Multipart) File(name string, f *File) *Multipart {
	if f != nil {
		m.fields = append(m.fields, multipartField{name: name, file: f})
	}
	return m
}

// Encode renders the form body and its content type.
func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if f.file == nil {
			if err := w.WriteField(f.name, f.value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
			}
			continue
		}
		if f.file.Content == nil {
			return nil, "", fmt.Errorf("file field %s has no content", f.name)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.name), escapeQuotes(f.file.Name)))
		contentType := f.file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.name, err)
		}
		if _, err := io.Copy(part, f.file.Content); err != nil {
			return nil, "", fmt.Errorf("copy part %s: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// FromFileHeader opens a received multipart file as a File. The caller must
// close the returned closer.
func FromFileHeader(fh *multipart.FileHeader) (*File, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	return &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}
