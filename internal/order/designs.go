package order

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"blorders/internal/sku"
)

// Design is one entry of a design list: a DESIGN_ENDCODE value taken from the
// first column of a semicolon separated file.
type Design struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	EndCode string `json:"endCode,omitempty"`
}

// ReadDesigns parses a design list. Empty first columns are ignored; rows
// whose code has no end-code are kept and searched by name alone.
func ReadDesigns(r io.Reader) ([]Design, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out []Design
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read design list: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		code := strings.TrimSpace(rec[0])
		if first {
			code = strings.TrimPrefix(code, "\ufeff")
		}
		if code == "" {
			continue
		}
		line, _ := cr.FieldPos(0)
		end, _ := sku.EndCode(code)
		out = append(out, Design{Line: line, Code: code, Name: sku.DesignName(code), EndCode: end})
	}
}

func ReadDesignsFile(path string) ([]Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open design list: %w", err)
	}
	defer f.Close()
	return ReadDesigns(f)
}
