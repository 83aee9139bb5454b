package validation

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

const (
	// KiB and MiB are binary size units.
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
)

// RequiredFile rejects a missing file.
func RequiredFile() Rule[*apiclient.File] {
	return func(f *apiclient.File) error {
		if f == nil {
			return errors.New("is required")
		}
		return nil
	}
}

// OptionalFile applies rules only when a file is present.
func OptionalFile(rules ...Rule[*apiclient.File]) Rule[*apiclient.File] {
	return func(f *apiclient.File) error {
		if f == nil {
			return nil
		}
		for _, rule := range rules {
			if err := rule(f); err != nil {
				return err
			}
		}
		return nil
	}
}

// MaxFileSize caps the file size at limit bytes, inclusive.
func MaxFileSize(limit int64) Rule[*apiclient.File] {
	return func(f *apiclient.File) error {
		if f == nil {
			return nil
		}
		if FileSize(f) > limit {
			return fmt.Errorf("must be %s or smaller", formatBytes(limit))
		}
		return nil
	}
}

// AllowedTypes restricts the MIME type of the file.
func AllowedTypes(types ...string) Rule[*apiclient.File] {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	msg := fmt.Sprintf("must be one of: %s", strings.Join(types, ", "))
	return func(f *apiclient.File) error {
		if f == nil {
			return nil
		}
		if _, ok := allowed[ContentType(f)]; !ok {
			return errors.New(msg)
		}
		return nil
	}
}

// FileSize returns the declared size, falling back to the reader length.
func FileSize(f *apiclient.File) int64 {
	if f.Size > 0 {
		return f.Size
	}
	if l, ok := f.Content.(interface{ Len() int }); ok {
		return int64(l.Len())
	}
	return 0
}

// ContentType returns the normalised MIME type, inferring it from the file
// extension when the caller did not provide one.
func ContentType(f *apiclient.File) string {
	ct := f.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mediaType
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func formatBytes(n int64) string {
	switch {
	case n >= MiB && n%MiB == 0:
		return fmt.Sprintf("%d MB", n/MiB)
	case n >= KiB && n%KiB == 0:
		return fmt.Sprintf("%d KB", n/KiB)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
