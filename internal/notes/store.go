// Package notes implements the note list: its storage adapter and the
// controller that renders it into writer and reader pages.
package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/storage"
)

// Key is the storage slot holding the serialized note list.
const Key = "notes"

// Store loads and saves the whole note list as one JSON array.
type Store struct {
	kv  storage.Provider
	key string
}

// NewStore creates a Store over the given key-value provider.
func NewStore(kv storage.Provider) *Store {
	return &Store{kv: kv, key: Key}
}

// Load reads the note list. A missing slot yields an empty list; a malformed
// one yields an error wrapping apperr.ErrCorrupt.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("notes: load: %w", err)
	}
	return Decode(data)
}

// Save overwrites the stored list with notes in a single provider write.
func (s *Store) Save(ctx context.Context, notes []string) error {
	data, err := Encode(notes)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("notes: save: %w", err)
	}
	return nil
}

// Encode serializes notes as a JSON array that a browser's JSON.parse reads
// back unchanged for valid UTF-8 text: no HTML escaping, no trailing newline, and [] rather than
// null for an empty list. It is not byte-identical to JSON.stringify: U+2028
// and U+2029 are written as escapes, and invalid UTF-8 becomes U+FFFD.
func Encode(notes []string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(nonNilSlice(notes)); err != nil {
		return nil, fmt.Errorf("notes: encode: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses a stored blob. An empty blob or JSON null is an empty list.
func Decode(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}
	var notes []string
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("notes: decode: %w: %w", apperr.ErrCorrupt, err)
	}
	return nonNilSlice(notes), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
