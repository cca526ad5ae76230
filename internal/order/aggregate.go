package order

import (
	"go.uber.org/zap"

	"blorders/internal/sku"
)

// Aggregator folds rows into orders.
type Aggregator struct {
	norm *sku.Normalizer
	log  *zap.Logger
}

func NewAggregator(n *sku.Normalizer, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{norm: n, log: log}
}

// Aggregate merges rows of the same order, product type and size format whose
// code matches an existing order's code or first code. Output keeps the order
// in which each aggregate first appeared.
func (a *Aggregator) Aggregate(rows []Row) []Order {
	var out []Order
	for _, r := range rows {
		code := a.norm.Canonicalize(r.SKU)
		pt := a.norm.ProductType(r.SKU)
		adult, err := a.norm.IsAdultSize(r.SKU)
		if err != nil {
			a.log.Warn("could not determine product type",
				zap.Int("line", r.Line), zap.String("sku", r.SKU), zap.Error(err))
		}
		if i := find(out, r.OrderID, pt, adult, code); i >= 0 {
			out[i].Quantity += r.Quantity
			continue
		}
		o, _ := New(a.norm, r)
		out = append(out, o)
	}
	return out
}

func find(orders []Order, orderID string, pt sku.ProductType, adult bool, code string) int {
	for i := range orders {
		o := &orders[i]
		if o.OrderID == orderID && o.ProductType == pt && o.IsAdultSize == adult &&
			(o.Code == code || o.FirstCode == code) {
			return i
		}
	}
	return -1
}
