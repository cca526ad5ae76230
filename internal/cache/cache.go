// Package cache remembers artwork search answers, for the length of a run or
// across runs when backed by Pebble.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"blorders/internal/artwork"
)

// NowUnix is the clock used to stamp and age entries. Tests replace it.
var NowUnix = func() int64 { return time.Now().Unix() }

// Entry is one cached search answer.
type Entry struct {
	Files    []artwork.File `json:"files"`
	StoredAt int64          `json:"storedAt"`
}

// Store abstracts the cache backend.
type Store interface {
	Put(key string, e Entry) error
	Get(key string) (Entry, bool)
	Range(fn func(key string, e Entry) error) error
	LoadAll(all map[string]Entry) error
}

// Key identifies a search: folder, kind and the keyword set in any order.
func Key(folderID string, keywords []string, kind artwork.Kind) string {
	kw := append([]string(nil), keywords...)
	sort.Strings(kw)
	return folderID + "|" + string(kind) + "|" + strings.Join(kw, ",")
}

// InMemoryStore is a simple thread-safe map store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]Entry)}
}

// LoadAll replaces the store contents with the provided snapshot.
func (s *InMemoryStore) LoadAll(all map[string]Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]Entry, len(all))
	for k, v := range all {
		s.data[k] = v
	}
	return nil
}

func (s *InMemoryStore) Put(key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return nil
}

func (s *InMemoryStore) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	return e, ok
}

func (s *InMemoryStore) Range(fn func(key string, e Entry) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.data {
		if err := fn(k, v); err != nil {
			return fmt.Errorf("range callback failed: %w", err)
		}
	}
	return nil
}
