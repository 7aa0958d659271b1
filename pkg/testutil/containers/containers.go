//go:build integration

// Package containers provides testcontainers-based fixtures for integration tests.
// These containers are designed for reuse across test suites within a package.
package containers

import (
	"sync"
	"testing"
)

// Manager provides thread-safe access to shared containers.
// Containers are started on first request and reused across test suites.
type Manager struct {
	mu       sync.Mutex
	dynamodb *DynamoDBContainer
}

var (
	globalManager *Manager
	initOnce      sync.Once
)

// GetManager returns the singleton container manager.
// The manager is lazily initialized and shared across all tests in the same package.
func GetManager() *Manager {
	initOnce.Do(func() {
		globalManager = &Manager{}
	})
	return globalManager
}

// GetDynamoDB returns a DynamoDB Local container, starting it if necessary.
// The container persists across test suites in the same package.
func (m *Manager) GetDynamoDB(t *testing.T) *DynamoDBContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dynamodb == nil {
		m.dynamodb = NewDynamoDBContainer(t)
	}
	return m.dynamodb
}
