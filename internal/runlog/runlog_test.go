package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blorders/internal/artwork"
)

func TestStamp(t *testing.T) {
	ts := time.Date(2026, 10, 17, 14, 25, 1, 0, time.UTC)
	assert.Equal(t, "17-10-2026 - 142501", Stamp(ts))
}

func TestLog_CreatedOnFirstWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l := New(dir, "error_log", "17-10-2026 - 142501", nil)
	assert.Equal(t, filepath.Join(dir, "error_log - 17-10-2026 - 142501.txt"), l.Path())

	_, err := os.Stat(l.Path())
	assert.True(t, os.IsNotExist(err))

	l.Printf("Order file id not found: %s - %s", "1001", "KOSZ_MES_B_FOO_01B_M")
	l.Printf("second\n")
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, "Order file id not found: 1001 - KOSZ_MES_B_FOO_01B_M\nsecond\n", string(data))
}

func TestSearchLog(t *testing.T) {
	dir := t.TempDir()
	s := NewSearchLog(dir, "x", nil)
	s.Searched("FOO_01C", []string{"FOO", "01C", "H999"})
	s.NotFound("FOO_01C")
	s.Found("FOOC", artwork.File{ID: "id1", Name: "FOOC.png"})

	data, err := os.ReadFile(filepath.Join(dir, "search_log - x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Search: FOO_01C [FOO 01C H999]\nNot found: FOO_01C\nFound file for FOOC: FOOC.png, id1\n", string(data))
}
