package cache

import "sync"

// Store is an in-memory, write-once cache. Values are never expired, so it
// suits immutable values that are expensive to build.
type Store[K comparable, V any] struct {
	items map[K]V
	mu    sync.RWMutex
}

func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		items: make(map[K]V),
	}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok
}

// GetOrCreate returns the cached value for key, building it with create on
// the first request. A failed build is not cached.
func (s *Store[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.items[key]; ok {
		return v, nil
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	s.items[key] = v
	return v, nil
}
