package artwork

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Mirror copies every file below folderID into dest, keeping the folder
// layout. Spaces in names become underscores. A failed file does not stop the
// copy; all failures are returned together with the number of files copied.
func Mirror(ctx context.Context, src Store, folderID, dest string, maxDepth int) (int, error) {
	m := &mirror{src: src, seen: map[string]bool{}, maxDepth: maxDepth}
	err := m.copyTree(ctx, folderID, dest, 0)
	return m.copied, errors.Join(append(m.errs, err)...)
}

type mirror struct {
	src      Store
	seen     map[string]bool
	maxDepth int
	copied   int
	errs     []error
}

func (m *mirror) copyTree(ctx context.Context, folderID, dest string, depth int) error {
	if m.seen[folderID] {
		return nil
	}
	m.seen[folderID] = true
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	files, err := m.src.Search(ctx, folderID, nil, KindNone)
	if err != nil {
		return fmt.Errorf("list files of %s: %w", folderID, err)
	}
	for _, f := range files {
		if err := m.copyFile(ctx, f, filepath.Join(dest, LocalName(f.Name))); err != nil {
			m.errs = append(m.errs, err)
			continue
		}
		m.copied++
	}
	if m.maxDepth > 0 && depth >= m.maxDepth {
		return nil
	}
	children, err := m.src.ListChildren(ctx, folderID)
	if err != nil {
		return fmt.Errorf("list folders of %s: %w", folderID, err)
	}
	for _, c := range children {
		if err := m.copyTree(ctx, c.ID, filepath.Join(dest, LocalName(c.Name)), depth+1); err != nil {
			m.errs = append(m.errs, err)
		}
	}
	return nil
}

func (m *mirror) copyFile(ctx context.Context, f File, path string) error {
	rc, err := m.src.Fetch(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", f.Name, err)
	}
	defer rc.Close()
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// LocalName is the file system name of a store entry.
func LocalName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
