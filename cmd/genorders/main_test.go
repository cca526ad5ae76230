package main

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blorders/internal/order"
	"blorders/internal/sku"
)

func TestGenerateOrders_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, generateOrders(50, path, rand.New(rand.NewPCG(7, 7)), true))

	rows, skipped, err := order.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Len(t, rows, 50)

	rules, err := sku.DefaultRules()
	require.NoError(t, err)
	n := sku.New(rules)
	for _, r := range rows {
		assert.NotEqual(t, sku.ProductNone, n.ProductType(r.SKU), r.SKU)
		_, ok := sku.EndCode(n.Canonicalize(r.SKU))
		assert.True(t, ok, r.SKU)
	}
}
