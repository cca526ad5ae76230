package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.Orders.Add(3)
	r.Missing.Inc()

	if got := testutil.ToFloat64(r.Orders); got != 3 {
		t.Fatalf("orders: got=%v want=3", got)
	}

	path := filepath.Join(t.TempDir(), "blorders.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"blorders_orders_total 3", "blorders_missing_total 1"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("textfile missing %q:\n%s", want, data)
		}
	}
}
