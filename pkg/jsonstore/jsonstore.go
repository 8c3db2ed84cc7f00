// Package jsonstore is a tiny JSON-file key/value store used for state that
// predates the database, such as guild prefixes and the global blacklist.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"
)

var ErrNotFound = errors.New("jsonstore: key not found")

// Store maps string keys to arbitrary JSON values. Every mutation is written
// back atomically so a crash never leaves a torn file behind.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]json.RawMessage
}

func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", path, err)
	}
	return s, nil
}

func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(s.path, raw, 0o644)
}

// Get unmarshals the value for key into out.
func (s *Store) Get(key string, out interface{}) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// Put stores value under key and persists the file.
func (s *Store) Put(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.save()
}

// Remove deletes key. Removing a missing key returns ErrNotFound.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return ErrNotFound
	}
	delete(s.data, key)
	return s.save()
}

// Keys returns all stored keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
