package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster() Dataset {
	return Dataset{
		Title:   "Magang applicants",
		Headers: []string{"NRP", "Nama"},
		Rows: []map[string]string{
			{"NRP": "5025211001", "Nama": "Budi Santoso"},
			{"Nama": "Sari, Dewi", "NRP": "5025211002"},
		},
	}
}

func TestCSVRendersHeaderOrder(t *testing.T) {
	out, err := NewCSVExporter().Render(roster())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "NRP,Nama\n5025211001,Budi Santoso\n5025211002,\"Sari, Dewi\"\n", string(out[len(utf8BOM):]))
}

func TestPDFRenders(t *testing.T) {
	out, err := NewPDFExporter().Render(roster())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", r.Extension())
	r, err = ForFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", r.ContentType())
	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}
