package resolve

import (
	"fmt"

	"blorders/internal/sku"
)

// ScopeKey selects the folder tree searched for an order.
type ScopeKey struct {
	Group sku.Group
	Color sku.Color
}

func (k ScopeKey) String() string {
	return fmt.Sprintf("%s/%s", k.Group, k.Color)
}

// Scopes maps product group and color to a store folder id.
type Scopes map[ScopeKey]string

// For returns the folder of a group and color. Missing and empty entries are
// both reported as absent.
func (s Scopes) For(g sku.Group, c sku.Color) (string, bool) {
	id, ok := s[ScopeKey{Group: g, Color: c}]
	return id, ok && id != ""
}
