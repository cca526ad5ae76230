// Package gdrive serves artwork from Google Drive.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"

	"blorders/internal/artwork"
)

const (
	folderMime = "application/vnd.google-apps.folder"
	pdfMime    = "application/pdf"
	listFields = "nextPageToken, files(id, name)"
	pageSize   = 1000
)

// Store implements artwork.Store on the Drive v3 API.
type Store struct {
	srv *drive.Service
	log *zap.Logger
}

func NewStore(srv *drive.Service, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{srv: srv, log: log}
}

func (s *Store) ListChildren(ctx context.Context, folderID string) ([]artwork.File, error) {
	return s.list(ctx, childrenQuery(folderID))
}

func (s *Store) Search(ctx context.Context, folderID string, keywords []string, kind artwork.Kind) ([]artwork.File, error) {
	return s.list(ctx, searchQuery(folderID, keywords, kind))
}

func (s *Store) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := s.srv.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return resp.Body, nil
}

// Ping asks Drive who the caller is, which fails fast on bad credentials.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.srv.About.Get().Fields("user").Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive about: %w", err)
	}
	return nil
}

func (s *Store) list(ctx context.Context, q string) ([]artwork.File, error) {
	var out []artwork.File
	call := s.srv.Files.List().
		Q(q).
		Spaces("drive").
		Fields(listFields).
		PageSize(pageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)
	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			out = append(out, artwork.File{ID: f.Id, Name: f.Name})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("files.list: %w", err)
	}
	s.log.Debug("drive list", zap.String("q", q), zap.Int("files", len(out)))
	return out, nil
}

// quote escapes a value for a Drive query string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func childrenQuery(folderID string) string {
	return fmt.Sprintf("%s in parents and mimeType = '%s' and trashed = false", quote(folderID), folderMime)
}

func searchQuery(folderID string, keywords []string, kind artwork.Kind) string {
	parts := []string{quote(folderID) + " in parents"}
	for _, k := range keywords {
		parts = append(parts, "name contains "+quote(k))
	}
	switch kind {
	case artwork.KindImage:
		parts = append(parts, "mimeType contains 'image/'")
	case artwork.KindDocument:
		parts = append(parts, "mimeType = '"+pdfMime+"'")
	default:
		parts = append(parts, "mimeType != '"+folderMime+"'")
	}
	parts = append(parts, "trashed = false")
	return strings.Join(parts, " and ")
}
