// Package pdfmerge concatenates the print-ready mug documents of a folder.
package pdfmerge

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"blorders/internal/runlog"
)

var now = time.Now

// Collect returns every .pdf file below dir in walk order.
func Collect(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return out, nil
}

// Merge writes all PDFs found below src into dst/PDF-<stamp>.pdf and returns
// the output path and the number of merged files. An empty src writes nothing.
func Merge(src, dst string, log *zap.Logger) (string, int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	files, err := Collect(src)
	if err != nil {
		return "", 0, err
	}
	if len(files) == 0 {
		log.Warn("no pdf files to merge", zap.String("src", src))
		return "", 0, nil
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", 0, fmt.Errorf("mkdir: %w", err)
	}
	out := filepath.Join(dst, fmt.Sprintf("PDF-%s.pdf", runlog.Stamp(now())))
	if err := api.MergeCreateFile(files, out, false, nil); err != nil {
		return "", 0, fmt.Errorf("merge %d files: %w", len(files), err)
	}
	log.Info("pdf merged", zap.String("path", out), zap.Int("files", len(files)))
	return out, len(files), nil
}
