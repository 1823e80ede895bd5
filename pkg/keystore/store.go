package keystore

import (
	"context"
	"sync"
)

// Store is the secure key-value contract the crypto core depends on.
// Implementations must be safe for concurrent use; the crypto core issues
// concurrent reads during fallback decryption.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the value stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Store for tests and ephemeral sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate stored key material in place.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = stored
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// namespaced prefixes every logical key with a fixed scope.
type namespaced struct {
	inner Store
	scope string
}

// Namespaced returns a view of store scoped to the given namespace, typically
// a user identifier. An empty namespace returns the store unchanged.
func Namespaced(store Store, namespace string) Store {
	if namespace == "" {
		return store
	}
	return &namespaced{inner: store, scope: namespace + "/"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.scope+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.scope+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.scope+key)
}
