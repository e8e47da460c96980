package api_test

import (
	"context"
	"sync"
)

type mockAcquirer struct {
	mu      sync.Mutex
	calls   [][2]string
	attempt string
	err     error
}

func (m *mockAcquirer) Submit(_ context.Context, domain, provider string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, [2]string{domain, provider})
	return m.attempt, m.err
}

type mockTask struct {
	running bool
}

func (m mockTask) Running() bool { return m.running }
