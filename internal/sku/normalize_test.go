package sku

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blorders/internal/artwork"
)

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	r, err := DefaultRules()
	require.NoError(t, err)
	return New(r)
}

func TestCanonicalize(t *testing.T) {
	n := newNormalizer(t)
	cases := []struct {
		sku  string
		want string
	}{
		{"KOSZ_MES_B_FOO_01B_M", "FOO_01B"},
		{"KOSZ_MES_C_ZAJZAW_GEODE_04C_XXL", "ZAJZAW_GEODE_04C"},
		{"KOSZ_DZIEC_CHLOP_B_KOT_12B_5-6", "KOT_12B"},
		{"KOSZ_DZIEC_C_KOT_12C_3-4", "KOT_12C"},
		{"V1_KB_ZW_PSY_LZ_TOARG_04B", "PSY_LZ_TOARG_04B"},
		{"2_KB_ZW_MAMA_01B", "MAMA_01B"},
		{"V2_KB_FUN_C_TATA_07C", "TATA_07C"},
		{"KOSZ_MES_C_FOO_H999_01C_L", "FOO_01C"},
		{"KOSZ_DAM_B_FOO_M_01B_XL", "FOO_01B"},
		{"V1_LEZAK_PLAZA_03B", "PLAZA_03B"},
		{"", ""},
		{"___", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, n.Canonicalize(c.sku), "sku %q", c.sku)
	}
}

func TestCanonicalize_NoStandaloneSizeSegment(t *testing.T) {
	n := newNormalizer(t)
	skus := []string{
		"KOSZ_MES_B_FOO_01B_M",
		"KOSZ_MES_B_FOO_S_M_01B",
		"KOSZ_DAM_C_BAR_XL_02C_XXL",
		"KOSZ_DZIEC_B_BAZ_9-11_05B_12-14",
		"KOSZ_MES_B_QUX_L_L_01B_XS",
	}
	for _, s := range skus {
		code := n.Canonicalize(s)
		for _, seg := range strings.Split(code, "_") {
			assert.NotContains(t, n.Rules().SizeTokens, seg, "sku %q -> %q", s, code)
		}
	}
}

func TestEndCodeAndDesignName(t *testing.T) {
	end, ok := EndCode("PSY_LZ_TOARG_04C")
	require.True(t, ok)
	assert.Equal(t, "04C", end)
	assert.Equal(t, "PSY_LZ_TOARG", DesignName("PSY_LZ_TOARG_04C"))

	_, ok = EndCode("NO_SUFFIX")
	assert.False(t, ok)
	assert.Equal(t, "NO_SUFFIX", DesignName("NO_SUFFIX"))

	// Segments after the end-code stay part of the design.
	assert.Equal(t, "FOO_EXTRA", DesignName("FOO_1234B_EXTRA"))
	assert.Equal(t, "FOO_GEO", DesignName("FOO_01B_GEO"))
	assert.Equal(t, "GEO", DesignName("01B_GEO"))
	assert.Equal(t, "", DesignName("01B"))
}

func TestDesignNameEndCodeComposition(t *testing.T) {
	for _, code := range []string{"FOO_01B", "ZAJZAW_GEODE_04C", "A_B_C_2024X"} {
		design := DesignName(code)
		end, ok := EndCode(code)
		require.True(t, ok)
		rebuilt := design + "_" + end
		assert.Equal(t, code, rebuilt)
		again, _ := EndCode(rebuilt)
		assert.Equal(t, end, again)
	}
}

func TestShorten(t *testing.T) {
	s, ok := Shorten("PSY_LZ_TOARG")
	require.True(t, ok)
	assert.Equal(t, "PSY_LZ", s)

	_, ok = Shorten("PSY")
	assert.False(t, ok)
}

func TestProductTypeAndFileKind(t *testing.T) {
	n := newNormalizer(t)
	assert.Equal(t, ProductType("KOSZ"), n.ProductType("KOSZ_MES_B_FOO_01B_M"))
	assert.Equal(t, ProductType("KB_MAG"), n.ProductType("V1_KB_MAG_FOO_01B"))
	assert.Equal(t, ProductType("LEZAK"), n.ProductType("V1_LEZAK_FOO_01B"))
	assert.Equal(t, ProductNone, n.ProductType("MYSTERY_FOO_01B"))

	assert.Equal(t, artwork.KindImage, n.FileKind("KOSZ"))
	assert.Equal(t, artwork.KindDocument, n.FileKind("KB_FUN"))
	assert.Equal(t, artwork.KindNone, n.FileKind(ProductNone))
}

func TestColor(t *testing.T) {
	n := newNormalizer(t)
	cases := []struct {
		sku  string
		want Color
	}{
		{"KOSZ_MES_C_FOO_H999_01C_L", ColorBlackHalftone},
		{"KB_GOLD_FOO_01B", ColorGold},
		{"KOSZ_MES_C_FOO_01B_M", ColorWhite},
		{"KOSZ_MES_B_FOO_01C_M", ColorBlack},
		{"KOSZ_MES_B_FOO_M", ColorWhite},
		{"KB_FUN_C_FOO", ColorBlack},
		{"KOSZ_MES_B_FOO_01X_M", ColorUnknown},
		{"KOSZ_MES_B_FOO_01A_M", ColorUnknown},
		{"KB_FUN_C_FOO_07A", ColorUnknown},
		{"MYSTERY_FOO", ColorUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, n.Color(c.sku, n.Canonicalize(c.sku)), "sku %q", c.sku)
	}
	assert.Equal(t, "none", ColorUnknown.Dir())
	assert.Equal(t, "B", ColorWhite.Letter())
	assert.Equal(t, "", ColorGold.Letter())
}

func TestIsAdultSize(t *testing.T) {
	n := newNormalizer(t)

	adult, err := n.IsAdultSize("KOSZ_MES_B_FOO_01B_L")
	require.NoError(t, err)
	assert.True(t, adult)

	adult, err = n.IsAdultSize("KOSZ_DZIEC_B_FOO_01B_5-6")
	require.NoError(t, err)
	assert.False(t, adult)

	adult, err = n.IsAdultSize("KB_ZW_FOO_01B")
	require.NoError(t, err)
	assert.False(t, adult)

	_, err = n.IsAdultSize("MYSTERY_FOO")
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestParseRules_Validation(t *testing.T) {
	_, err := ParseRules([]byte("products: []"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("products:\n  - {type: X, marker: X, kind: video, group: shirt}\n"))
	assert.ErrorContains(t, err, "unknown kind")

	r, err := ParseRules([]byte("products:\n  - {type: X, marker: X, kind: image, group: cup}\n"))
	require.NoError(t, err)
	assert.Equal(t, GroupCup, r.Products[0].Group)
}
