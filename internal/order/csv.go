package order

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Header names of the order export, in the Polish and English panel locales.
var (
	orderIDHeaders  = []string{"Nr zamówienia", "Order number"}
	quantityHeaders = []string{"Ilość sztuk nadruku", "Print quantity"}
	skuHeaders      = []string{"SKU"}
)

// ParseError describes a skipped CSV row.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

type columns struct {
	orderID, quantity, sku int
}

func (c columns) max() int {
	return max(c.orderID, c.quantity, c.sku)
}

// ReadRows parses a semicolon separated export. Without a header row the columns
// are order id, quantity and SKU in that order. Malformed rows are skipped and
// reported as ParseErrors; only I/O failures are returned as err.
func ReadRows(r io.Reader) ([]Row, []*ParseError, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	cols := columns{0, 1, 2}
	var rows []Row
	var skipped []*ParseError
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped = append(skipped, &ParseError{Line: pe.Line, Reason: pe.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		line, _ := cr.FieldPos(0)
		if first {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		if h, ok := headerColumns(rec); ok {
			cols = h
			continue
		}
		if len(rec) <= cols.max() {
			if !blank(rec) {
				skipped = append(skipped, &ParseError{Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", cols.max()+1, len(rec))})
			}
			continue
		}
		id, qty, code := strings.TrimSpace(rec[cols.orderID]), strings.TrimSpace(rec[cols.quantity]), strings.TrimSpace(rec[cols.sku])
		if len(id) <= 1 && len(qty) <= 1 && len(code) <= 1 {
			continue
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n < 1 {
			skipped = append(skipped, &ParseError{Line: line, Reason: fmt.Sprintf("bad quantity %q", qty)})
			continue
		}
		rows = append(rows, Row{Line: line, OrderID: id, Quantity: n, SKU: code})
	}
	return rows, skipped, nil
}

// ReadFile is ReadRows over a file path.
func ReadFile(path string) ([]Row, []*ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadRows(f)
}

// FindCSV returns the first .csv file in dir by name.
func FindCSV(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return "", fmt.Errorf("glob: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no csv file in %s", dir)
	}
	sort.Strings(matches)
	return matches[0], nil
}

func headerColumns(rec []string) (columns, bool) {
	id, ok1 := indexOf(rec, orderIDHeaders)
	qty, ok2 := indexOf(rec, quantityHeaders)
	code, ok3 := indexOf(rec, skuHeaders)
	if ok1 && ok2 && ok3 {
		return columns{orderID: id, quantity: qty, sku: code}, true
	}
	return columns{}, false
}

func indexOf(rec []string, names []string) (int, bool) {
	for i, f := range rec {
		f = strings.TrimSpace(f)
		for _, n := range names {
			if f == n {
				return i, true
			}
		}
	}
	return -1, false
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
