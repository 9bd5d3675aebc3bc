package authz

import (
	"context"
	"sync"
)

// PredicateCall is one recorded predicate invocation.
type PredicateCall struct {
	Actor   any
	Subject string
	Field   FieldValue
	Rule    string
}

// MockPredicate records every call and answers through a decide function.
// Used by tests in this module; kept here so other packages can reuse it.
type MockPredicate struct {
	mu     sync.Mutex
	calls  []PredicateCall
	decide func(actor any, subject string, field FieldValue, rule string) (bool, error)
}

// NewMockPredicate builds a MockPredicate answering via decide.
func NewMockPredicate(decide func(actor any, subject string, field FieldValue, rule string) (bool, error)) *MockPredicate {
	return &MockPredicate{decide: decide}
}

// NewStaticPredicate builds a MockPredicate that always answers verdict.
func NewStaticPredicate(verdict bool) *MockPredicate {
	return NewMockPredicate(func(any, string, FieldValue, string) (bool, error) {
		return verdict, nil
	})
}

func (m *MockPredicate) Authorize(ctx context.Context, actor any, subject string, field FieldValue, rule string) (bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, PredicateCall{Actor: actor, Subject: subject, Field: field, Rule: rule})
	m.mu.Unlock()
	return m.decide(actor, subject, field, rule)
}

// Calls returns a copy of the recorded invocations in order.
func (m *MockPredicate) Calls() []PredicateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PredicateCall(nil), m.calls...)
}
