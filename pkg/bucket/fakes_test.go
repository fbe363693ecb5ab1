package bucket

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type fakeStore struct {
	mu       sync.Mutex
	docs     map[string]json.RawMessage
	expiries map[string]time.Duration
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:     make(map[string]json.RawMessage),
		expiries: make(map[string]time.Duration),
	}
}

func (s *fakeStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[key]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *fakeStore) Upsert(ctx context.Context, key string, value interface{}, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.docs[key] = data
	s.expiries[key] = expiry
	return nil
}

func (s *fakeStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, ok := s.docs[key]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.docs, key)
	return nil
}

type fakeExecutor struct {
	statement string
	params    map[string]interface{}
	calls     int
	result    *RawResult
	err       error
}

func (e *fakeExecutor) Query(ctx context.Context, statement string, params map[string]interface{}) (*RawResult, error) {
	e.calls++
	e.statement = statement
	e.params = params
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
