package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of BackendClient for testing
type MockClient struct {
	// Mock return values
	AnswerVal  string
	AskErr     error
	PingVal    string
	PingErr    error
	BaseURLVal string

	// AskFunc, when set, replaces AnswerVal/AskErr.
	AskFunc func(ctx context.Context, question string) (string, error)

	mu          sync.Mutex
	questions   []string
	pingCalled  bool
	closeCalled bool
}

// Ensure MockClient implements BackendClient
var _ BackendClient = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	fn := m.AskFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question)
	}
	return m.AnswerVal, m.AskErr
}

func (m *MockClient) Ping(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.pingCalled = true
	m.mu.Unlock()
	return m.PingVal, m.PingErr
}

func (m *MockClient) BaseURL() string {
	return m.BaseURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// Questions returns every question received, in call order
func (m *MockClient) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.questions...)
}

// PingCalled reports whether Ping was invoked
func (m *MockClient) PingCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingCalled
}

// CloseCalled reports whether Close was invoked
func (m *MockClient) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
