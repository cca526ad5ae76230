package artwork

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirStore serves a local mirror of the artwork tree. Folder and file ids are
// slash separated paths relative to the root; the root itself is "".
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: filepath.Clean(root)}
}

func (d *DirStore) abs(id string) (string, error) {
	p := filepath.Join(d.root, filepath.FromSlash(id))
	rel, err := filepath.Rel(d.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("id %q escapes store root", id)
	}
	return p, nil
}

func (d *DirStore) entries(folderID string) ([]os.DirEntry, error) {
	dir, err := d.abs(folderID)
	if err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	sort.Slice(ents, func(i, j int) bool { return ents[i].Name() < ents[j].Name() })
	return ents, nil
}

func (d *DirStore) ListChildren(_ context.Context, folderID string) ([]File, error) {
	ents, err := d.entries(folderID)
	if err != nil {
		return nil, err
	}
	var out []File
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, File{ID: pathJoin(folderID, e.Name()), Name: e.Name()})
		}
	}
	return out, nil
}

func (d *DirStore) Search(_ context.Context, folderID string, keywords []string, kind Kind) ([]File, error) {
	ents, err := d.entries(folderID)
	if err != nil {
		return nil, err
	}
	var out []File
	for _, e := range ents {
		if e.IsDir() || !matchesKind(e.Name(), kind) || !containsAll(e.Name(), keywords) {
			continue
		}
		out = append(out, File{ID: pathJoin(folderID, e.Name()), Name: e.Name()})
	}
	return out, nil
}

func (d *DirStore) Fetch(_ context.Context, fileID string) (io.ReadCloser, error) {
	p, err := d.abs(fileID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return f, nil
}

// Ping checks that the mirror root exists.
func (d *DirStore) Ping(context.Context) error {
	st, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", d.root)
	}
	return nil
}

func pathJoin(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func matchesKind(name string, kind Kind) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch kind {
	case KindImage:
		return ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".webp"
	case KindDocument:
		return ext == ".pdf"
	default:
		return true
	}
}

// Name matching is case-insensitive, like Drive's "name contains".
func containsAll(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if !strings.Contains(lower, strings.ToLower(k)) {
			return false
		}
	}
	return true
}
