package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockCommandRunner is a testify mock of ports.CommandRunner.
// The stdin reader is drained and passed to Called as a string.
type MockCommandRunner struct {
	mock.Mock
}

// NewMockCommandRunner creates a MockCommandRunner that asserts its expectations on cleanup
func NewMockCommandRunner(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCommandRunner {
	m := &MockCommandRunner{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Run implements ports.CommandRunner
func (m *MockCommandRunner) Run(ctx context.Context, dir string, stdin io.Reader, subcommand string, args ...string) (string, error) {
	input := ""
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		input = string(data)
	}
	ret := m.Called(ctx, dir, input, subcommand, args)
	return ret.String(0), ret.Error(1)
}
