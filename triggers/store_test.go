package triggers

import (
	"context"
	"fmt"
	"sync"
)

// memStore is an in-memory Store used to exercise trigger logic without a
// live database.
type memStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		collections: make(map[string]map[string]map[string]interface{}),
	}
}

func (s *memStore) coll(name string) map[string]map[string]interface{} {
	if s.collections[name] == nil {
		s.collections[name] = make(map[string]map[string]interface{})
	}
	return s.collections[name]
}

func (s *memStore) Get(_ context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *memStore) Put(_ context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll(collection)[id] = copyDoc(data)
	return nil
}

func (s *memStore) Insert(_ context.Context, collection string, data map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("auto-%d", s.nextID)
	s.coll(collection)[id] = copyDoc(data)
	return id, nil
}

func (s *memStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.coll(collection), id)
	return nil
}

func (s *memStore) AtomicIncrement(_ context.Context, collection, id, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return ErrNotFound
	}
	current, _ := doc[field].(int64)
	doc[field] = current + delta
	return nil
}

func (s *memStore) QueryByField(_ context.Context, collection string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []map[string]interface{}
	for _, doc := range s.coll(collection) {
		matched := true
		for field, want := range filter {
			if doc[field] != want {
				matched = false
				break
			}
		}
		if matched {
			results = append(results, copyDoc(doc))
		}
	}
	return results, nil
}

func (s *memStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.coll(collection))
}

func (s *memStore) field(collection, id, field string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return nil
	}
	return doc[field]
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
