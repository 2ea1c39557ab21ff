// File: internal/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"sync"
	"time"
)

// mockExecutor records every dispatched event instead of driving a browser.
// Behavior is customized per test through the Mock* function fields.
type mockExecutor struct {
	mu sync.Mutex

	events []MouseEvent
	keys   []string
	presses []string
	sleeps []time.Duration

	MockElementGeometry func(ctx context.Context, selector string) (*Geometry, error)
	MockDispatchMouse   func(ctx context.Context, ev MouseEvent) error
	MockSendKeys        func(ctx context.Context, keys string) error
	MockPressKey        func(ctx context.Context, key string) error
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{}
}

func (m *mockExecutor) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.sleeps = append(m.sleeps, d)
	m.mu.Unlock()
	return nil
}

func (m *mockExecutor) DispatchMouseEvent(ctx context.Context, ev MouseEvent) error {
	if m.MockDispatchMouse != nil {
		if err := m.MockDispatchMouse(ctx, ev); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	return nil
}

func (m *mockExecutor) SendKeys(ctx context.Context, keys string) error {
	if m.MockSendKeys != nil {
		if err := m.MockSendKeys(ctx, keys); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.keys = append(m.keys, keys)
	m.mu.Unlock()
	return nil
}

func (m *mockExecutor) PressKey(ctx context.Context, key string) error {
	if m.MockPressKey != nil {
		if err := m.MockPressKey(ctx, key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.presses = append(m.presses, key)
	m.mu.Unlock()
	return nil
}

func (m *mockExecutor) ElementGeometry(ctx context.Context, selector string) (*Geometry, error) {
	if m.MockElementGeometry != nil {
		return m.MockElementGeometry(ctx, selector)
	}
	return nil, ErrNotVisible
}

func (m *mockExecutor) recordedEvents() []MouseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MouseEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockExecutor) recordedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *mockExecutor) recordedSleeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.sleeps))
	copy(out, m.sleeps)
	return out
}
