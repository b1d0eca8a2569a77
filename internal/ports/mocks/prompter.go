package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPrompter is a testify mock of ports.Prompter.
// Progress runs the action after recording the call.
type MockPrompter struct {
	mock.Mock
}

// NewMockPrompter creates a MockPrompter that asserts its expectations on cleanup
func NewMockPrompter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPrompter {
	m := &MockPrompter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPrompter) Confirm(title, description string) (bool, error) {
	ret := m.Called(title, description)
	return ret.Bool(0), ret.Error(1)
}

func (m *MockPrompter) Progress(ctx context.Context, title string, action func(ctx context.Context) error) error {
	if err := m.Called(ctx, title).Error(0); err != nil {
		return err
	}
	return action(ctx)
}
