// Package classify decides where a fulfilled order is written.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"

	"blorders/internal/order"
	"blorders/internal/sku"
)

// Error is returned for orders no category rule matches.
type Error struct {
	SKU         string
	ProductType sku.ProductType
}

func (e *Error) Error() string {
	return fmt.Sprintf("could not label where to save %q", e.SKU)
}

type Classifier struct {
	norm *sku.Normalizer
}

func New(n *sku.Normalizer) *Classifier {
	return &Classifier{norm: n}
}

// Category returns the output folder label of an order: the first category
// whose marker appears in the SKU, split by size format and halftone print
// where the category defines it.
func (c *Classifier) Category(o order.Order) (string, error) {
	for _, cat := range c.norm.Rules().Categories {
		if !strings.Contains(o.SKU, cat.Marker) {
			continue
		}
		label := cat.Label
		if cat.ChildLabel != "" && o.ChildSize {
			label = cat.ChildLabel
		}
		if cat.HalftonePrefix != "" && o.Color == sku.ColorBlackHalftone {
			label = cat.HalftonePrefix + label
		}
		return label, nil
	}
	return "", &Error{SKU: o.SKU, ProductType: o.ProductType}
}

// FileName is the saved file name: category, order id, quantity and the
// resolved artwork name.
//
//	KOSZ_DOROSLI - 1001 - x5 - FOO_01B.png
func FileName(category string, o order.Order, resolved string) string {
	return strings.Join([]string{category, o.OrderID, fmt.Sprintf("x%d", o.Quantity), resolved}, " - ")
}

// Dir is the folder an order is written to below the run root.
func Dir(root, category string, o order.Order) string {
	return filepath.Join(root, o.Color.Dir(), category)
}
