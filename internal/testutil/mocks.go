// Package testutil holds shared fakes and filesystem helpers for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/lingocard/internal/translator"
)

// MockProvider is a scripted translation provider.
type MockProvider struct {
	mu           sync.Mutex
	Translations map[string]*translator.Response
	Errors       map[string]error
	Calls        []translator.Request
}

// Translate serves the scripted response for the request text.
func (m *MockProvider) Translate(_ context.Context, req translator.Request) (*translator.Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if err, ok := m.Errors[req.Text]; ok {
		return nil, err
	}
	if resp, ok := m.Translations[req.Text]; ok {
		return resp, nil
	}
	return &translator.Response{
		TranslatedText: fmt.Sprintf("mock translation of %s", req.Text),
	}, nil
}

// CallCount returns how many times Translate was invoked.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockStore is an in-memory key-value store with injectable failures.
type MockStore struct {
	mu     sync.Mutex
	Values map[string]string
	GetErr error
	SetErr error
}

// NewMockStore creates an empty store.
func NewMockStore() *MockStore {
	return &MockStore{Values: make(map[string]string)}
}

func (m *MockStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

func (m *MockStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values[key] = value
	return nil
}

func (m *MockStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Values, key)
	return nil
}

// Clock is a settable time source for quota tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at the given time.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
