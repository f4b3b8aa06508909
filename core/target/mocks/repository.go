package mocks

import (
	"context"

	"device-sync/core/target"

	"github.com/stretchr/testify/mock"
)

// Repository is a mock implementation of target.Repository
type Repository struct {
	mock.Mock
}

func (m *Repository) ReadConstant(ctx context.Context, table, name string) (int, error) {
	args := m.Called(ctx, table, name)
	return args.Int(0), args.Error(1)
}

func (m *Repository) WriteConstant(ctx context.Context, table, name string, value int) error {
	args := m.Called(ctx, table, name, value)
	return args.Error(0)
}

func (m *Repository) ListConstants(ctx context.Context, table string) ([]target.Constant, error) {
	args := m.Called(ctx, table)
	if list, ok := args.Get(0).([]target.Constant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) CreateConstant(ctx context.Context, table, name string, value int) (target.Handle, error) {
	args := m.Called(ctx, table, name, value)
	if h, ok := args.Get(0).(target.Handle); ok {
		return h, args.Error(1)
	}
	return target.Handle{}, args.Error(1)
}

func (m *Repository) RenameConstant(ctx context.Context, h target.Handle, newName string) error {
	args := m.Called(ctx, h, newName)
	return args.Error(0)
}

func (m *Repository) DeleteConstant(ctx context.Context, h target.Handle) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *Repository) SetComment(ctx context.Context, h target.Handle, text string) error {
	args := m.Called(ctx, h, text)
	return args.Error(0)
}

func (m *Repository) Compile(ctx context.Context, block string) (target.CompileResult, error) {
	args := m.Called(ctx, block)
	if res, ok := args.Get(0).(target.CompileResult); ok {
		return res, args.Error(1)
	}
	return target.CompileResult{}, args.Error(1)
}

func (m *Repository) ExportDocument(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	switch doc := args.Get(0).(type) {
	case []byte:
		return doc, args.Error(1)
	case func() []byte:
		return doc(), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) ImportDocument(ctx context.Context, block string, document []byte, policy target.OverridePolicy) error {
	args := m.Called(ctx, block, document, policy)
	return args.Error(0)
}
