package session

import (
	"context"
	"sync"

	"github.com/desertthunder/waslerr/internal/models"
)

// MemoryStore is an in-process [Store]. Tests use SetRaw to plant values
// that arrive as if written by another process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	broker *Broker
	// FailClear, when set, is returned by Clear after the values are left untouched.
	FailClear error
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string), broker: NewBroker(0)}
}

func (m *MemoryStore) Read(_ context.Context) (*models.Session, error) {
	m.mu.Lock()
	token, user := m.values[KeyToken], m.values[KeyUser]
	m.mu.Unlock()
	return Decode(token, user)
}

func (m *MemoryStore) Write(_ context.Context, s models.Session) error {
	token, user, err := Encode(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.values[KeyToken] = token
	m.values[KeyUser] = user
	m.mu.Unlock()

	m.broker.Publish(Change{Key: KeyToken})
	m.broker.Publish(Change{Key: KeyUser})
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	if m.FailClear != nil {
		return m.FailClear
	}

	m.mu.Lock()
	delete(m.values, KeyToken)
	delete(m.values, KeyUser)
	m.mu.Unlock()

	m.broker.Publish(Change{Key: KeyToken})
	m.broker.Publish(Change{Key: KeyUser})
	return nil
}

func (m *MemoryStore) Subscribe() (<-chan Change, func()) {
	return m.broker.Subscribe()
}

// SetRaw stores value under key without validation and publishes an external change.
// An empty value removes the key.
func (m *MemoryStore) SetRaw(key, value string) {
	m.mu.Lock()
	if value == "" {
		delete(m.values, key)
	} else {
		m.values[key] = value
	}
	m.mu.Unlock()

	m.broker.Publish(Change{Key: key, External: true})
}

// Raw returns the stored value under key.
func (m *MemoryStore) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
