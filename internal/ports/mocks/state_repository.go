package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"merc/internal/domain"
)

// MockStateRepository is a testify mock of ports.StateRepository
type MockStateRepository struct {
	mock.Mock
}

// NewMockStateRepository creates a MockStateRepository that asserts its expectations on cleanup
func NewMockStateRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStateRepository {
	m := &MockStateRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStateRepository) Close() error {
	return m.Called().Error(0)
}

func (m *MockStateRepository) Delete(ctx context.Context, sourceRepoRoot string) error {
	return m.Called(ctx, sourceRepoRoot).Error(0)
}

func (m *MockStateRepository) Get(ctx context.Context, sourceRepoRoot string) (*domain.RepoState, error) {
	ret := m.Called(ctx, sourceRepoRoot)
	state, _ := ret.Get(0).(*domain.RepoState)
	return state, ret.Error(1)
}

func (m *MockStateRepository) Save(ctx context.Context, state *domain.RepoState) error {
	return m.Called(ctx, state).Error(0)
}
