package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockObjectStore keeps objects in memory for tests
type MockObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
	FailPut error // returned by PutObject when set
}

// NewMockObjectStore creates an empty in-memory store
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// PutObject stores a copy of body under key
func (m *MockObjectStore) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	m.types[key] = contentType
	return nil
}

// PresignGet returns a fake URL for a stored object
func (m *MockObjectStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object not found in mock store: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.amazonaws.com/%s?expires=%d", key, int(ttl.Seconds())), nil
}

// Object returns a stored object and whether it exists
func (m *MockObjectStore) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[key]
	return body, ok
}

// ContentType returns the content type an object was stored with
func (m *MockObjectStore) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.types[key]
}

// Keys lists the stored keys
func (m *MockObjectStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
