// Package order reads marketplace order exports and folds their rows into
// one Order per printed design.
package order

import (
	"fmt"

	"blorders/internal/artwork"
	"blorders/internal/sku"
)

// Row is one line item of the order export.
type Row struct {
	Line     int    `json:"line"`
	OrderID  string `json:"orderId"`
	Quantity int    `json:"quantity"`
	SKU      string `json:"sku"`
}

// Order is one printed design of a customer order. Quantity is the only field
// that changes, and only while rows are being aggregated.
type Order struct {
	OrderID  string `json:"orderId"`
	Quantity int    `json:"quantity"`
	// SKU of the first row folded into this order.
	SKU string `json:"sku"`
	// Code is the search key; FirstCode is kept for matching rows during aggregation.
	Code        string          `json:"code"`
	FirstCode   string          `json:"firstCode"`
	DesignName  string          `json:"designName"`
	EndCode     string          `json:"endCode,omitempty"`
	ProductType sku.ProductType `json:"productType"`
	FileKind    artwork.Kind    `json:"fileKind"`
	Color       sku.Color       `json:"color"`
	IsAdultSize bool            `json:"isAdultSize"`
	ChildSize   bool            `json:"childSize"`
}

// New derives an Order from a row. A SKU without a recognised product type
// still yields an Order (with an empty ProductType) together with sku.ErrUnknownProduct.
func New(n *sku.Normalizer, r Row) (Order, error) {
	code := n.Canonicalize(r.SKU)
	pt := n.ProductType(r.SKU)
	adult, err := n.IsAdultSize(r.SKU)
	end, _ := sku.EndCode(code)
	o := Order{
		OrderID:     r.OrderID,
		Quantity:    r.Quantity,
		SKU:         r.SKU,
		Code:        code,
		FirstCode:   code,
		DesignName:  sku.DesignName(code),
		EndCode:     end,
		ProductType: pt,
		FileKind:    n.FileKind(pt),
		Color:       n.Color(r.SKU, code),
		IsAdultSize: adult,
		ChildSize:   n.IsChildSize(r.SKU),
	}
	if err != nil {
		return o, fmt.Errorf("sku %q: %w", r.SKU, err)
	}
	return o, nil
}

// Key identifies the aggregate: orderId#productType#firstCode#adult.
func (o Order) Key() string {
	return fmt.Sprintf("%s#%s#%s#%t", o.OrderID, o.ProductType, o.FirstCode, o.IsAdultSize)
}

func (o Order) String() string {
	return fmt.Sprintf("%s - %s - x%d", o.OrderID, o.SKU, o.Quantity)
}
