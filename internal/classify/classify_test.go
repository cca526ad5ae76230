package classify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blorders/internal/order"
	"blorders/internal/sku"
)

func setup(t *testing.T) (*Classifier, *sku.Normalizer) {
	t.Helper()
	r, err := sku.DefaultRules()
	require.NoError(t, err)
	n := sku.New(r)
	return New(n), n
}

func TestCategory(t *testing.T) {
	c, n := setup(t)
	cases := []struct {
		sku  string
		want string
	}{
		{"KOSZ_MES_B_FOO_01B_M", "KOSZ_DOROSLI"},
		{"KOSZ_DZIEC_B_FOO_01B_5-6", "KOSZ_DZIECIECE"},
		{"KOSZ_MES_C_FOO_H999_01C_L", "HALFTONE_KOSZ_DOROSLI"},
		{"KOSZ_DZIEC_C_FOO_H999_01C_3-4", "HALFTONE_KOSZ_DZIECIECE"},
		{"BLUZA_C_FOO_H999_01C_L", "HALFTONE_BLUZY"},
		{"V1_LEZAK_FOO_01B", "LEZAK"},
		{"POD_ZW_FOO_01B", "POD"},
		{"KB_ZW_FOO_01B", "Kubki"},
		{"V2_KB_MAG_FOO_01B", "Kubki"},
		{"KB_FUN_C_FOO_01C", "Kubki"},
		{"KB_GOLD_FOO_01B", "Kubki"},
	}
	for _, tc := range cases {
		o, _ := order.New(n, order.Row{OrderID: "1", Quantity: 1, SKU: tc.sku})
		got, err := c.Category(o)
		require.NoError(t, err, tc.sku)
		assert.Equal(t, tc.want, got, tc.sku)
	}
}

func TestCategory_Unrecognised(t *testing.T) {
	c, n := setup(t)
	o, _ := order.New(n, order.Row{OrderID: "1", Quantity: 1, SKU: "MYSTERY_FOO_01B"})
	_, err := c.Category(o)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "MYSTERY_FOO_01B", ce.SKU)
}

func TestFileNameAndDir(t *testing.T) {
	o := order.Order{OrderID: "1001", Quantity: 5, Color: sku.ColorWhite}
	assert.Equal(t, "KOSZ_DOROSLI - 1001 - x5 - FOO_01B.png", FileName("KOSZ_DOROSLI", o, "FOO_01B.png"))
	assert.Equal(t, filepath.Join("run", "white", "KOSZ_DOROSLI"), Dir("run", "KOSZ_DOROSLI", o))

	o.Color = sku.ColorUnknown
	assert.Equal(t, filepath.Join("run", "none", "Kubki"), Dir("run", "Kubki", o))
}

func TestCategory_UsesOrderChildSize(t *testing.T) {
	c, _ := setup(t)
	o := order.Order{OrderID: "1", Quantity: 1, SKU: "KOSZ_MES_B_FOO_01B", Color: sku.ColorWhite, ChildSize: true}
	got, err := c.Category(o)
	require.NoError(t, err)
	assert.Equal(t, "KOSZ_DZIECIECE", got)

	o.ChildSize = false
	got, err = c.Category(o)
	require.NoError(t, err)
	assert.Equal(t, "KOSZ_DOROSLI", got)
}
