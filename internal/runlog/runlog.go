// Package runlog writes the plain text logs an operator reads after a run:
// "error_log - <stamp>.txt" and "search_log - <stamp>.txt" under <run-root>/logs.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"blorders/internal/artwork"
)

// StampLayout formats run timestamps, e.g. 17-10-2026 - 142501.
const StampLayout = "02-01-2006 - 150405"

func Stamp(t time.Time) string { return t.Format(StampLayout) }

// Log is an append-only text file. The file is created on first write so runs
// without errors leave no empty error log behind.
type Log struct {
	mu   sync.Mutex
	path string
	zl   *zap.Logger
}

func New(dir, name, stamp string, zl *zap.Logger) *Log {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Log{path: filepath.Join(dir, fmt.Sprintf("%s - %s.txt", name, stamp)), zl: zl}
}

func (l *Log) Path() string { return l.path }

// Printf appends one line. Write failures are reported to the process log;
// they never stop a run.
func (l *Log) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if err := l.append(line); err != nil {
		l.zl.Warn("run log write failed", zap.String("path", l.path), zap.Error(err))
	}
}

func (l *Log) append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// SearchLog records resolver searches.
type SearchLog struct {
	*Log
}

func NewSearchLog(dir, stamp string, zl *zap.Logger) *SearchLog {
	return &SearchLog{New(dir, "search_log", stamp, zl)}
}

func (s *SearchLog) Searched(code string, keywords []string) {
	s.Printf("Search: %s [%s]", code, strings.Join(keywords, " "))
}

func (s *SearchLog) Found(code string, f artwork.File) {
	s.Printf("Found file for %s: %s, %s", code, f.Name, f.ID)
}

func (s *SearchLog) NotFound(code string) {
	s.Printf("Not found: %s", code)
}
