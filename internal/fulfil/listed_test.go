package fulfil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blorders/internal/artwork"
	"blorders/internal/metrics"
)

func TestListed_ShortensUntilFound(t *testing.T) {
	root := mirror(t)
	sub := filepath.Join(root, "ws", "animals")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "PSY_LZ 01C.png"), []byte("dog"), 0o644))

	m := metrics.NewRegistry()
	d := newDriver(t, artwork.NewDirStore(root), m)
	list := writeCSV(t, "FOO_01B;note\nPSY_LZ_TOARG_01C\nGONE_09B\n")
	dest := t.TempDir()

	sum, err := d.Listed(context.Background(), list, ListedOptions{Folder: "ws", Dest: dest, Kind: artwork.KindImage})
	require.NoError(t, err)
	assert.Equal(t, ListedSummary{Requested: 3, Downloaded: 2, Missing: []string{"GONE_09B"}}, sum)

	b, err := os.ReadFile(filepath.Join(dest, "FOO_01B.png"))
	require.NoError(t, err)
	assert.Equal(t, "foo-art", string(b))
	b, err = os.ReadFile(filepath.Join(dest, "PSY_LZ_01C.png"))
	require.NoError(t, err)
	assert.Equal(t, "dog", string(b))
	assert.Greater(t, testutil.ToFloat64(m.StoreQueries), 3.0)
}

func TestListed_UnreadableList(t *testing.T) {
	d := newDriver(t, artwork.NewDirStore(mirror(t)), nil)
	_, err := d.Listed(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), ListedOptions{Folder: "ws", Dest: t.TempDir()})
	assert.ErrorContains(t, err, "open design list")
}
