package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFetchAndReport_LocalMirror(t *testing.T) {
	dir := t.TempDir()
	mirror := filepath.Join(dir, "mirror")
	writeFile(t, filepath.Join(mirror, "white_shirt", "FOO_01B.png"), "art")
	writeFile(t, filepath.Join(mirror, "black_shirt", "keep"), "")
	csv := filepath.Join(dir, "orders.csv")
	writeFile(t, csv, "Nr zamówienia;Ilość sztuk nadruku;SKU\n1001;2;KOSZ_MES_B_FOO_01B_M\n1002;1;KOSZ_MES_C_GONE_02C_L\n")
	out := filepath.Join(dir, "out")
	conf := filepath.Join(dir, "blorders.yaml")
	writeFile(t, conf, "output:\n  dir: "+out+"\nlog:\n  level: error\n")

	got := execute(t, "--config", conf, "--local-root", mirror, "fetch", csv)
	assert.Contains(t, got, "Orders:     2")
	assert.Contains(t, got, "Downloaded: 1")
	assert.Contains(t, got, "Missing:    GONE_02C")

	runs, err := filepath.Glob(filepath.Join(out, "Baselinker - *"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	_, err = os.Stat(filepath.Join(runs[0], "white", "KOSZ_DOROSLI", "KOSZ_DOROSLI - 1001 - x2 - FOO_01B.png"))
	assert.NoError(t, err)

	got = execute(t, "--config", conf, "report", runs[0])
	assert.Contains(t, got, "Orders 2, resolved 1, downloaded 1")
	assert.Contains(t, got, "Missing designs: GONE_02C")
	assert.Contains(t, got, "downloaded")
}

func TestMergePDF_Empty(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "blorders.yaml")
	writeFile(t, conf, "log:\n  level: error\n")
	got := execute(t, "--config", conf, "merge-pdf", t.TempDir(), t.TempDir())
	assert.Contains(t, got, "No PDF files found")
}
