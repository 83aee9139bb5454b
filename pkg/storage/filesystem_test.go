package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndOpen(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := s.Store("mindmaps", "Mindmap Rani.PDF", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "mindmaps/"))
	assert.Equal(t, ".pdf", filepath.Ext(name))

	f, err := s.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, s.Delete(name))
	require.NoError(t, s.Delete(name))
	_, err = s.Open(name)
	assert.Error(t, err)
}

func TestRejectsEscapingNames(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../secret", "a/../../b", "/etc/passwd", "", "."} {
		_, err := s.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	_, err = s.Save("avatars/ok.png", []byte("x"))
	assert.NoError(t, err)
}
