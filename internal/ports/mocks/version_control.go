package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"merc/internal/domain"
)

// MockVersionControl is a testify mock of ports.VersionControl
type MockVersionControl struct {
	mock.Mock
}

// NewMockVersionControl creates a MockVersionControl that asserts its expectations on cleanup
func NewMockVersionControl(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVersionControl {
	m := &MockVersionControl{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVersionControl) CurrentRevision(ctx context.Context, repoRoot string) (string, error) {
	ret := m.Called(ctx, repoRoot)
	return ret.String(0), ret.Error(1)
}

func (m *MockVersionControl) MergeBase(ctx context.Context, repoRoot, rev string) (string, error) {
	ret := m.Called(ctx, repoRoot, rev)
	return ret.String(0), ret.Error(1)
}

func (m *MockVersionControl) RepoRoot(ctx context.Context, dir string) (string, error) {
	ret := m.Called(ctx, dir)
	return ret.String(0), ret.Error(1)
}

func (m *MockVersionControl) Subtree(ctx context.Context, repoRoot, rev string) (*domain.CommitTree, error) {
	ret := m.Called(ctx, repoRoot, rev)
	tree, _ := ret.Get(0).(*domain.CommitTree)
	return tree, ret.Error(1)
}

func (m *MockVersionControl) Add(ctx context.Context, repoRoot string, files ...string) error {
	return m.Called(ctx, repoRoot, files).Error(0)
}

func (m *MockVersionControl) Commit(ctx context.Context, repoRoot, message string) error {
	return m.Called(ctx, repoRoot, message).Error(0)
}

func (m *MockVersionControl) Init(ctx context.Context, repoRoot string) error {
	return m.Called(ctx, repoRoot).Error(0)
}

func (m *MockVersionControl) Revert(ctx context.Context, repoRoot string) error {
	return m.Called(ctx, repoRoot).Error(0)
}

func (m *MockVersionControl) SetPhase(ctx context.Context, repoRoot string, phase domain.Phase, rev string) error {
	return m.Called(ctx, repoRoot, phase, rev).Error(0)
}

func (m *MockVersionControl) Update(ctx context.Context, repoRoot, rev string) error {
	return m.Called(ctx, repoRoot, rev).Error(0)
}

func (m *MockVersionControl) Export(ctx context.Context, repoRoot, rev string) (string, error) {
	ret := m.Called(ctx, repoRoot, rev)
	return ret.String(0), ret.Error(1)
}

func (m *MockVersionControl) Import(ctx context.Context, repoRoot, patch string) error {
	return m.Called(ctx, repoRoot, patch).Error(0)
}

func (m *MockVersionControl) Strip(ctx context.Context, repoRoot, rev string) error {
	return m.Called(ctx, repoRoot, rev).Error(0)
}

func (m *MockVersionControl) Status(ctx context.Context, repoRoot, baseRev string) ([]domain.FileStatus, error) {
	ret := m.Called(ctx, repoRoot, baseRev)
	statuses, _ := ret.Get(0).([]domain.FileStatus)
	return statuses, ret.Error(1)
}
