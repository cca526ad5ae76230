package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blorders/internal/sku"
)

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blorders.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scopes:
  white_shirt: ws
  black_shirt: bs
  black_halftone_shirt: hs
  white_cup: wc
  black_cup: bc
  gold_cup: gc
output:
  dir: /srv/orders
cache:
  dir: /var/cache/blorders
  max_age: 24h
kafka:
  brokers: "k1:9092,k2:9092"
`), 0o644))
	t.Setenv("BLORDERS_SCOPES_GOLD_CUP", "gold-from-env")
	t.Setenv("BLORDERS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws", cfg.Scopes.WhiteShirt)
	assert.Equal(t, "gold-from-env", cfg.Scopes.GoldCup)
	assert.Equal(t, "/srv/orders", cfg.OutputDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheMaxAge)
	assert.Equal(t, "k1:9092,k2:9092", cfg.Kafka.Brokers)
	assert.Equal(t, "blorders.events", cfg.Kafka.TopicEvents)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.MaxDepth)
	require.NoError(t, cfg.Validate())

	table := cfg.Scopes.Table()
	id, ok := table.For(sku.GroupShirt, sku.ColorBlackHalftone)
	assert.True(t, ok)
	assert.Equal(t, "hs", id)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_ReportsMissingScopes(t *testing.T) {
	cfg := &Config{MaxDepth: 8, Scopes: ScopeConfig{WhiteShirt: "ws", BlackShirt: "bs"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scopes.black_cup, scopes.black_halftone_shirt, scopes.gold_cup, scopes.white_cup")
}

func TestLocalTable(t *testing.T) {
	id, ok := LocalTable().For(sku.GroupCup, sku.ColorGold)
	assert.True(t, ok)
	assert.Equal(t, "gold_cup", id)
}

func TestRules_Default(t *testing.T) {
	r, err := (&Config{}).Rules()
	require.NoError(t, err)
	assert.NotEmpty(t, r.Products)
}
