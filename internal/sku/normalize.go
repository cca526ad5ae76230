// Package sku turns raw marketplace SKUs such as KOSZ_MES_C_ZAJZAW_GEODE_04C_XXL
// into the design codes artwork files are named after.
package sku

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"blorders/internal/artwork"
)

// ErrUnknownProduct is returned when no product marker matches a SKU.
var ErrUnknownProduct = errors.New("unknown product type")

// Color is the print color class of a design.
type Color string

const (
	ColorUnknown       Color = "unknown"
	ColorWhite         Color = "white"
	ColorBlack         Color = "black"
	ColorBlackHalftone Color = "black-halftone"
	ColorGold          Color = "gold"
)

// Dir is the output directory name for the color.
func (c Color) Dir() string {
	if c == ColorUnknown || c == "" {
		return "none"
	}
	return string(c)
}

// Letter is the code suffix letter artwork files use for the color, or "".
func (c Color) Letter() string {
	switch c {
	case ColorWhite:
		return "B"
	case ColorBlack:
		return "C"
	default:
		return ""
	}
}

const sep = "_"

var endCodeRe = regexp.MustCompile(`\d{2,4}[A-Z]`)

// Normalizer applies a rule table to SKUs. It is safe for concurrent use.
type Normalizer struct {
	rules     *Rules
	tokenRe   *regexp.Regexp
	midSizeRe *regexp.Regexp
	endSizeRe *regexp.Regexp
}

func New(r *Rules) *Normalizer {
	n := &Normalizer{rules: r}
	if len(r.StripTokens) > 0 {
		n.tokenRe = regexp.MustCompile(alternation(r.StripTokens))
	}
	if len(r.SizeTokens) > 0 {
		sizes := alternation(r.SizeTokens)
		n.midSizeRe = regexp.MustCompile(`_(?:` + sizes + `)_`)
		n.endSizeRe = regexp.MustCompile(`_(?:` + sizes + `)$`)
	}
	return n
}

// alternation builds a longest-first regexp alternation so compound tokens
// (KOSZ_DZIEC_CHLOP_B) win over their prefixes (KOSZ_DZIEC_C).
func alternation(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(quoted, "|")
}

func (n *Normalizer) Rules() *Rules { return n.rules }

// Canonicalize strips product, variant and size tokens from a SKU and returns the design code.
//
//	KOSZ_MES_C_ZAJZAW_GEODE_04C_XXL => ZAJZAW_GEODE_04C
func (n *Normalizer) Canonicalize(s string) string {
	code := s
	if n.tokenRe != nil {
		code = n.tokenRe.ReplaceAllString(code, "")
	}
	if n.midSizeRe != nil {
		for {
			next := n.midSizeRe.ReplaceAllString(code, sep)
			if next == code {
				break
			}
			code = next
		}
		for {
			next := n.endSizeRe.ReplaceAllString(code, "")
			if next == code {
				break
			}
			code = next
		}
	}
	// A color letter left behind by a partially matched variant token.
	for _, p := range []string{"_B_", "_C_"} {
		if strings.HasPrefix(code, p) {
			code = code[len(p)-1:]
			break
		}
	}
	code = trimSeparators(code)
	if m := n.rules.HalftoneMarker; m != "" {
		code = strings.ReplaceAll(code, sep+m, "")
		code = strings.TrimPrefix(code, m+sep)
		code = trimSeparators(code)
	}
	return code
}

func trimSeparators(s string) string {
	return strings.Trim(s, "_- ")
}

// EndCode returns the first "2-4 digits + uppercase letter" part of a code.
//
//	PSY_LZ_TOARG_04C => 04C
func EndCode(code string) (string, bool) {
	m := endCodeRe.FindString(code)
	return m, m != ""
}

// DesignName removes the end-code and its separator from a code. Segments
// after the end-code are kept.
//
//	PSY_LZ_TOARG_04C => PSY_LZ_TOARG
//	FOO_01B_GEO      => FOO_GEO
func DesignName(code string) string {
	loc := endCodeRe.FindStringIndex(code)
	if loc == nil {
		return code
	}
	start, end := loc[0], loc[1]
	if start > 0 && code[start-1] == '_' {
		start--
	} else if end < len(code) && code[end] == '_' {
		end++
	}
	return trimSeparators(code[:start] + code[end:])
}

// Shorten drops the last segment of a design name.
//
//	PSY_LZ_TOARG => PSY_LZ
func Shorten(design string) (string, bool) {
	i := strings.LastIndex(design, sep)
	if i <= 0 {
		return "", false
	}
	return design[:i], true
}

// ProductType returns the first product whose marker appears in the SKU.
func (n *Normalizer) ProductType(s string) ProductType {
	if p, ok := n.product(s); ok {
		return p.Type
	}
	return ProductNone
}

func (n *Normalizer) product(s string) (Product, bool) {
	for _, p := range n.rules.Products {
		if strings.Contains(s, p.Marker) {
			return p, true
		}
	}
	return Product{}, false
}

// Product looks up the rule entry of a product type.
func (n *Normalizer) Product(t ProductType) (Product, bool) {
	for _, p := range n.rules.Products {
		if p.Type == t {
			return p, true
		}
	}
	return Product{}, false
}

// FileKind returns the artwork kind printed for a product type.
func (n *Normalizer) FileKind(t ProductType) artwork.Kind {
	if p, ok := n.Product(t); ok {
		return p.Kind
	}
	return artwork.KindNone
}

// Color classifies the print color. Explicit markers in the SKU win over the
// end-code letter. Product variant markers only decide codes without an
// end-code; an end-code lettered other than B or C is ColorUnknown.
func (n *Normalizer) Color(s, code string) Color {
	r := n.rules
	if r.HalftoneMarker != "" && strings.Contains(s, r.HalftoneMarker) {
		return ColorBlackHalftone
	}
	if containsAny(s, r.GoldMarkers) {
		return ColorGold
	}
	if end, ok := EndCode(code); ok {
		switch end[len(end)-1] {
		case 'B':
			return ColorWhite
		case 'C':
			return ColorBlack
		}
		return ColorUnknown
	}
	if containsAny(s, r.WhiteMarkers) {
		return ColorWhite
	}
	if containsAny(s, r.BlackMarkers) {
		return ColorBlack
	}
	return ColorUnknown
}

// IsChildSize reports whether the SKU carries one of the children size tokens.
func (n *Normalizer) IsChildSize(s string) bool {
	return containsAny(s, n.rules.ChildSizes)
}

// IsAdultSize reports whether the SKU is printed in the large format. Only the
// size-split apparel type has a children format; other products are never adult
// sized. Unrecognised SKUs return ErrUnknownProduct.
func (n *Normalizer) IsAdultSize(s string) (bool, error) {
	p, ok := n.product(s)
	if !ok {
		return false, ErrUnknownProduct
	}
	if !p.SizeSplit {
		return false, nil
	}
	return !n.IsChildSize(s), nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
