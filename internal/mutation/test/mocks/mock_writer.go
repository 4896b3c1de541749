package mocks

import (
	"context"
	"sync"
)

// Call records one invocation of MockWriter.
type Call struct {
	Op   string
	ID   string
	Body any
}

// MockWriter is a mock implementation of mutation.Writer for testing.
type MockWriter struct {
	CreateFunc func(ctx context.Context, body any) error
	UpdateFunc func(ctx context.Context, id string, body any) error
	DeleteFunc func(ctx context.Context, id string) error

	mu    sync.Mutex
	Calls []Call
}

func (m *MockWriter) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
}

func (m *MockWriter) Create(ctx context.Context, body any) error {
	m.record(Call{Op: "create", Body: body})
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, body)
	}
	return nil
}

func (m *MockWriter) Update(ctx context.Context, id string, body any) error {
	m.record(Call{Op: "update", ID: id, Body: body})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, body)
	}
	return nil
}

func (m *MockWriter) Delete(ctx context.Context, id string) error {
	m.record(Call{Op: "delete", ID: id})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockInvalidator is a mock implementation of mutation.Invalidator for testing.
type MockInvalidator struct {
	InvalidateFunc func(ctx context.Context, route string) error
	Routes         []string
}

func (m *MockInvalidator) Invalidate(ctx context.Context, route string) error {
	m.Routes = append(m.Routes, route)
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, route)
	}
	return nil
}
