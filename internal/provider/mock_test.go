package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fundquote/internal/fund"
)

type MockProvider struct {
	mock.Mock
	id fund.ProviderID
}

func newMockProvider(id fund.ProviderID) *MockProvider {
	return &MockProvider{id: id}
}

func (m *MockProvider) ID() fund.ProviderID { return m.id }

func (m *MockProvider) FetchQuote(ctx context.Context, code string) (*fund.Quote, error) {
	args := m.Called(ctx, code)
	q, _ := args.Get(0).(*fund.Quote)
	return q, args.Error(1)
}

type MockNameResolver struct {
	mock.Mock
}

func (m *MockNameResolver) ResolveName(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}
