package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used in tests. It reproduces the
// remote store's semantics exactly: independent documents per path,
// whole-document overwrite, last-writer-wins, listeners per path.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string][]byte
	listeners map[string]map[int]func(data []byte)
	nextID    int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string][]byte),
		listeners: make(map[string]map[int]func(data []byte)),
	}
}

func (s *MemoryStore) Get(_ context.Context, path string, dest interface{}) error {
	s.mu.RLock()
	raw, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, path, err)
	}
	return nil
}

func (s *MemoryStore) Set(_ context.Context, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[path] = raw
	fns := make([]func(data []byte), 0, len(s.listeners[path]))
	for _, fn := range s.listeners[path] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(raw)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Subscribe(_ context.Context, path string, fn func(data []byte)) (UnsubscribeFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners[path] == nil {
		s.listeners[path] = make(map[int]func(data []byte))
	}
	id := s.nextID
	s.nextID++
	s.listeners[path][id] = fn

	return func() {
		s.mu.Lock()
		delete(s.listeners[path], id)
		s.mu.Unlock()
	}, nil
}
