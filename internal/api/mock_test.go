package api

import (
	"context"

	"fundquote/internal/fund"
	"fundquote/internal/provider"
	"fundquote/internal/service"
)

// mockFundService implements service.FundServiceInterface for testing.
type mockFundService struct {
	resolveQuoteFunc      func(ctx context.Context, code, source string) (*fund.Quote, error)
	fetchHistoryFunc      func(ctx context.Context, code string, days int) (*fund.HistoryResult, error)
	requestResolutionFunc func(ctx context.Context, code, source string) (string, string, error)
	getResolutionFunc     func(ctx context.Context, id string) (*service.ResolutionResult, error)
}

func (m *mockFundService) ResolveQuote(ctx context.Context, code, source string) (*fund.Quote, error) {
	return m.resolveQuoteFunc(ctx, code, source)
}

func (m *mockFundService) ListProviders() []provider.Info {
	return provider.DefaultRegistry().List()
}

func (m *mockFundService) FetchHistory(ctx context.Context, code string, days int) (*fund.HistoryResult, error) {
	return m.fetchHistoryFunc(ctx, code, days)
}

func (m *mockFundService) RequestResolution(ctx context.Context, code, source string) (string, string, error) {
	return m.requestResolutionFunc(ctx, code, source)
}

func (m *mockFundService) GetResolution(ctx context.Context, id string) (*service.ResolutionResult, error) {
	return m.getResolutionFunc(ctx, id)
}

func (m *mockFundService) ProcessResolution(_ context.Context, _, _, _ string) error {
	return nil // Not used in handler tests
}
