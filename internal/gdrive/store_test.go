package gdrive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"blorders/internal/artwork"
)

func TestSearchQuery(t *testing.T) {
	got := searchQuery("folder1", []string{"FOO", "O'NEIL"}, artwork.KindImage)
	assert.Equal(t,
		`'folder1' in parents and name contains 'FOO' and name contains 'O\'NEIL' and mimeType contains 'image/' and trashed = false`,
		got)

	got = searchQuery("f", nil, artwork.KindDocument)
	assert.Equal(t, `'f' in parents and mimeType = 'application/pdf' and trashed = false`, got)

	got = searchQuery("f", nil, artwork.KindNone)
	assert.Contains(t, got, "mimeType != 'application/vnd.google-apps.folder'")
}

func TestChildrenQuery(t *testing.T) {
	assert.Equal(t,
		`'a\\b' in parents and mimeType = 'application/vnd.google-apps.folder' and trashed = false`,
		childrenQuery(`a\b`))
}

type fakeDrive struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/files":
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query().Get("q"))
		f.mu.Unlock()
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = io.WriteString(w, `{"nextPageToken":"p2","files":[{"id":"1","name":"FOO_GEO_01B.png"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"files":[{"id":"2","name":"FOO_01B.png"}]}`)
	case "/files/2":
		if r.URL.Query().Get("alt") != "media" {
			http.Error(w, "want media", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, "png-bytes")
	case "/about":
		_, _ = io.WriteString(w, `{"user":{"displayName":"printer"}}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestStore(t *testing.T) (*Store, *fakeDrive) {
	t.Helper()
	fd := &fakeDrive{}
	ts := httptest.NewServer(fd)
	t.Cleanup(ts.Close)
	srv, err := drive.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return NewStore(srv, nil), fd
}

func TestStore_SearchFollowsPages(t *testing.T) {
	s, fd := newTestStore(t)
	files, err := s.Search(context.Background(), "ws", []string{"FOO", "01B"}, artwork.KindImage)
	require.NoError(t, err)
	assert.Equal(t, []artwork.File{{ID: "1", Name: "FOO_GEO_01B.png"}, {ID: "2", Name: "FOO_01B.png"}}, files)
	require.Len(t, fd.queries, 2)
	assert.Equal(t, searchQuery("ws", []string{"FOO", "01B"}, artwork.KindImage), fd.queries[0])
}

func TestStore_FetchAndPing(t *testing.T) {
	s, _ := newTestStore(t)
	rc, err := s.Fetch(context.Background(), "2")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, s.Ping(context.Background()))

	_, err = s.Fetch(context.Background(), "missing")
	assert.Error(t, err)
}
