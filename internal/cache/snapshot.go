package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSnapshot dumps every entry of st as one JSON object keyed by search key.
func WriteSnapshot(path string, st Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	dump := make(map[string]Entry)
	if err := st.Range(func(key string, e Entry) error {
		dump[key] = e
		return nil
	}); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// LoadSnapshot replaces the contents of st with a snapshot written by WriteSnapshot.
func LoadSnapshot(path string, st Store) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read snapshot: %w", err)
	}
	var dump map[string]Entry
	if err := json.Unmarshal(data, &dump); err != nil {
		return 0, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := st.LoadAll(dump); err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	return len(dump), nil
}
