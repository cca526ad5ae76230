// Package artwork holds the types shared by the artwork stores and the resolver.
package artwork

import (
	"context"
	"io"
)

// Kind is the file type an order needs: raster artwork for apparel and mats,
// print-ready documents for mugs.
type Kind string

const (
	KindNone     Kind = ""
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// Ext returns the file extension used for the kind.
func (k Kind) Ext() string {
	switch k {
	case KindImage:
		return ".png"
	case KindDocument:
		return ".pdf"
	default:
		return ""
	}
}

// File identifies a remote file or folder.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store is the hierarchical file store the resolver searches.
type Store interface {
	// ListChildren returns the sub-folders of folderID.
	ListChildren(ctx context.Context, folderID string) ([]File, error)
	// Search returns files directly inside folderID whose name contains every keyword.
	Search(ctx context.Context, folderID string, keywords []string, kind Kind) ([]File, error)
	// Fetch opens the content of a file. Callers close the reader.
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Pinger is implemented by stores that can verify connectivity up front.
type Pinger interface {
	Ping(ctx context.Context) error
}
