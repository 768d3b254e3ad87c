package testhelper

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/clock"
	"reactor.de/certext/internal/infra/config"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/hash"
)

// --- Mocks for Dependencies ---

// MockConfigLoader returns a fixed profile, or Err.
type MockConfigLoader struct {
	Profile *domain.ProfileConfig
	Err     error
}

func (m *MockConfigLoader) LoadProfile(string) (*domain.ProfileConfig, error) { return m.Profile, m.Err }
func (m *MockConfigLoader) ParseProfile([]byte) (*domain.ProfileConfig, error) {
	return m.Profile, m.Err
}
func (m *MockConfigLoader) ValidateProfile([]byte) error { return m.Err }

// MemStore is an in-memory domain.Store keyed by path.
type MemStore struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewMemStore() *MemStore { return &MemStore{Files: map[string][]byte{}} }

func (m *MemStore) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[path]
	return ok, nil
}

func (m *MemStore) Read(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemStore) Write(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = append([]byte(nil), data...)
	return nil
}

// MockLogger records messages by level.
type MockLogger struct {
	mu       sync.Mutex
	Infos    []string
	Warnings []string
	Errors   []string
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Infos = append(m.Infos, fmt.Sprintf(msg, args...))
}
func (m *MockLogger) Warning(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Warnings = append(m.Warnings, fmt.Sprintf(msg, args...))
}
func (m *MockLogger) Error(msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, fmt.Sprintf(msg, args...))
}
func (m *MockLogger) Log(msg string) { m.Info("%s", msg) }

// --- Test Setup Helper ---

// Mocks contains the replaceable dependencies of the Application.
type Mocks struct {
	Store  *MemStore
	Logger *MockLogger
}

// SetupTestApplication wires an Application with an in-memory store, a
// recording logger, the real YAML profile loader and a clock fixed at now.
func SetupTestApplication(t *testing.T, now time.Time) (*app.Application, *Mocks) {
	t.Helper()
	mocks := &Mocks{Store: NewMemStore(), Logger: &MockLogger{}}
	registry := extensions.DefaultRegistry()
	application := app.NewApplication(
		mocks.Logger,
		config.NewYAMLConfigLoader(registry),
		mocks.Store,
		hash.NewProvider(),
		registry,
		clock.Fixed(now),
	)
	return application, mocks
}

// SortedKeys returns the stored paths in order.
func (m *MemStore) SortedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Files))
	for k := range m.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
