// Package mocks provides testify mocks for the providers package.
package mocks

import (
	"context"

	"github.com/andrelmaraujo/mandacaru/core/providers"
	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of providers.Generator.
type MockGenerator struct {
	mock.Mock
}

// NewMockGenerator creates a MockGenerator whose expectations are asserted
// when the test ends.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Generate provides a mock function with given fields: ctx, messages
func (m *MockGenerator) Generate(ctx context.Context, messages []providers.Message) (string, error) {
	ret := m.Called(ctx, messages)

	if fn, ok := ret.Get(0).(func(context.Context, []providers.Message) (string, error)); ok {
		return fn(ctx, messages)
	}

	return ret.String(0), ret.Error(1)
}

var _ providers.Generator = (*MockGenerator)(nil)
