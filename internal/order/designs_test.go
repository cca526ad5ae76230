package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDesigns(t *testing.T) {
	in := "\ufeffPSY_LZ_TOARG_04C;x\n\n;ignored\nMAMA_01B\nNOEND\n"
	got, err := ReadDesigns(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, Design{Line: 1, Code: "PSY_LZ_TOARG_04C", Name: "PSY_LZ_TOARG", EndCode: "04C"}, got[0])
	assert.Equal(t, "MAMA", got[1].Name)
	assert.Equal(t, "01B", got[1].EndCode)
	assert.Equal(t, Design{Line: 5, Code: "NOEND", Name: "NOEND"}, got[2])
}

func TestReadDesignsFile_Missing(t *testing.T) {
	_, err := ReadDesignsFile(t.TempDir() + "/nope.csv")
	assert.ErrorContains(t, err, "open design list")
}
