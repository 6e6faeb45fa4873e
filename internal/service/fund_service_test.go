package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fundquote/internal/fund"
	"fundquote/internal/provider"
	"fundquote/internal/repository"
)

// Mock repository
type mockResolutionRepo struct {
	createFunc      func(ctx context.Context, id, code, preferred string) (string, error)
	markRunningFunc func(ctx context.Context, id string) error
	markSuccessFunc func(ctx context.Context, id string, q *fund.Quote) error
	markFailedFunc  func(ctx context.Context, id, errorMsg string, attempts []fund.Attempt) error
	getByIDFunc     func(ctx context.Context, id string) (*repository.Resolution, error)
}

func (m *mockResolutionRepo) CreateResolution(ctx context.Context, id, code, preferred string) (string, error) {
	return m.createFunc(ctx, id, code, preferred)
}

func (m *mockResolutionRepo) MarkRunning(ctx context.Context, id string) error {
	return m.markRunningFunc(ctx, id)
}

func (m *mockResolutionRepo) MarkSuccess(ctx context.Context, id string, q *fund.Quote) error {
	return m.markSuccessFunc(ctx, id, q)
}

func (m *mockResolutionRepo) MarkFailed(ctx context.Context, id, errorMsg string, attempts []fund.Attempt) error {
	return m.markFailedFunc(ctx, id, errorMsg, attempts)
}

func (m *mockResolutionRepo) GetByID(ctx context.Context, id string) (*repository.Resolution, error) {
	return m.getByIDFunc(ctx, id)
}

// Mock failover
type mockResolver struct {
	resolveFunc func(ctx context.Context, code string, preferred fund.ProviderID) (*fund.Quote, error)
}

func (m *mockResolver) ResolveQuote(ctx context.Context, code string, preferred fund.ProviderID) (*fund.Quote, error) {
	return m.resolveFunc(ctx, code, preferred)
}

func (m *mockResolver) Providers() []provider.Info {
	return provider.DefaultRegistry().List()
}

type mockHistory struct {
	gotDays int
	result  *fund.HistoryResult
	err     error
}

func (m *mockHistory) FetchHistory(_ context.Context, code string, days int) (*fund.HistoryResult, error) {
	m.gotDays = days
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockEnqueuer struct {
	payloads []ResolveFundPayload
	err      error
}

func (m *mockEnqueuer) EnqueueResolveTask(_ context.Context, payload ResolveFundPayload) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

func testQuote() *fund.Quote {
	return &fund.Quote{
		Code:          "110022",
		Name:          "E Fund Consumer",
		NetValue:      "3.2150",
		EstimateValue: "3.2391",
		Source:        provider.Tiantian,
	}
}

func newTestService(resolver QuoteResolver, history HistoryFetcher, repo repository.ResolutionRepository, enq TaskEnqueuer) *FundService {
	logger, _ := zap.NewDevelopment()
	return NewFundService(resolver, history, repo, enq, NewValidator(), logger.Sugar(), 30)
}

func TestValidator(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"110022", true},
		{"000001", true},
		{"F001", true},
		{"1234567890123", false}, // too long
		{"11-022", false},
		{"110 022", false},
		{"", false},
	}

	v := NewValidator()
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.valid, v.IsValid(tc.code))
		})
	}

	code, err := v.Normalize("  110022 ")
	require.NoError(t, err)
	assert.Equal(t, "110022", code)
}

func TestResolveQuote(t *testing.T) {
	t.Run("passes normalized source", func(t *testing.T) {
		var gotPreferred fund.ProviderID
		resolver := &mockResolver{resolveFunc: func(_ context.Context, code string, preferred fund.ProviderID) (*fund.Quote, error) {
			gotPreferred = preferred
			return testQuote(), nil
		}}
		svc := newTestService(resolver, nil, nil, nil)

		q, err := svc.ResolveQuote(context.Background(), "110022", " Danjuan ")
		require.NoError(t, err)
		assert.Equal(t, "110022", q.Code)
		assert.Equal(t, provider.Danjuan, gotPreferred)
	})

	t.Run("invalid code never reaches providers", func(t *testing.T) {
		resolver := &mockResolver{resolveFunc: func(context.Context, string, fund.ProviderID) (*fund.Quote, error) {
			t.Fatal("resolver must not be called")
			return nil, nil
		}}
		svc := newTestService(resolver, nil, nil, nil)

		_, err := svc.ResolveQuote(context.Background(), "../etc", "")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("aggregate failure passes through", func(t *testing.T) {
		agg := &fund.AggregateFailure{Code: "110022"}
		resolver := &mockResolver{resolveFunc: func(context.Context, string, fund.ProviderID) (*fund.Quote, error) {
			return nil, agg
		}}
		svc := newTestService(resolver, nil, nil, nil)

		_, err := svc.ResolveQuote(context.Background(), "110022", "")
		var got *fund.AggregateFailure
		require.ErrorAs(t, err, &got)
		assert.Same(t, agg, got)
	})
}

func TestListProviders(t *testing.T) {
	svc := newTestService(&mockResolver{}, nil, nil, nil)
	list := svc.ListProviders()
	require.Len(t, list, 5)
	assert.Equal(t, provider.Tiantian, list[0].ID)
}

func TestFetchHistory(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		h := &mockHistory{result: &fund.HistoryResult{Code: "110022"}}
		svc := newTestService(nil, h, nil, nil)

		res, err := svc.FetchHistory(context.Background(), "110022", 0)
		require.NoError(t, err)
		assert.Equal(t, "110022", res.Code)
		assert.Equal(t, 30, h.gotDays)
	})

	t.Run("explicit window", func(t *testing.T) {
		h := &mockHistory{result: &fund.HistoryResult{Code: "110022"}}
		svc := newTestService(nil, h, nil, nil)

		_, err := svc.FetchHistory(context.Background(), "110022", 90)
		require.NoError(t, err)
		assert.Equal(t, 90, h.gotDays)
	})

	t.Run("negative window", func(t *testing.T) {
		svc := newTestService(nil, &mockHistory{}, nil, nil)
		_, err := svc.FetchHistory(context.Background(), "110022", -1)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})

	t.Run("not found propagates", func(t *testing.T) {
		h := &mockHistory{err: fund.NotFoundFailure("eastmoney_f10", "no NAV rows")}
		svc := newTestService(nil, h, nil, nil)
		_, err := svc.FetchHistory(context.Background(), "110022", 30)
		assert.ErrorIs(t, err, fund.ErrNotFound)
	})
}

func TestRequestResolution(t *testing.T) {
	t.Run("new job is enqueued", func(t *testing.T) {
		repo := &mockResolutionRepo{
			createFunc: func(_ context.Context, id, code, preferred string) (string, error) {
				assert.Equal(t, "110022", code)
				assert.Equal(t, "danjuan", preferred)
				return id, nil
			},
		}
		enq := &mockEnqueuer{}
		svc := newTestService(nil, nil, repo, enq)

		id, status, err := svc.RequestResolution(context.Background(), "110022", "danjuan")
		require.NoError(t, err)
		assert.Equal(t, "PENDING", status)
		require.Len(t, enq.payloads, 1)
		assert.Equal(t, ResolveFundPayload{ResolutionID: id, Code: "110022", Source: "danjuan"}, enq.payloads[0])
	})

	t.Run("pending duplicate is reused", func(t *testing.T) {
		repo := &mockResolutionRepo{
			createFunc: func(context.Context, string, string, string) (string, error) {
				return "11111111-1111-1111-1111-111111111111", nil
			},
		}
		enq := &mockEnqueuer{}
		svc := newTestService(nil, nil, repo, enq)

		id, _, err := svc.RequestResolution(context.Background(), "110022", "")
		require.NoError(t, err)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", id)
		assert.Empty(t, enq.payloads)
	})

	t.Run("enqueue failure marks job failed", func(t *testing.T) {
		var failedReason string
		repo := &mockResolutionRepo{
			createFunc: func(_ context.Context, id, _, _ string) (string, error) { return id, nil },
			markFailedFunc: func(_ context.Context, _ string, msg string, _ []fund.Attempt) error {
				failedReason = msg
				return nil
			},
		}
		svc := newTestService(nil, nil, repo, &mockEnqueuer{err: errors.New("redis down")})

		_, _, err := svc.RequestResolution(context.Background(), "110022", "")
		assert.ErrorIs(t, err, ErrInternalQueue)
		assert.Equal(t, "enqueue error", failedReason)
	})

	t.Run("db failure", func(t *testing.T) {
		repo := &mockResolutionRepo{
			createFunc: func(context.Context, string, string, string) (string, error) {
				return "", errors.New("db down")
			},
		}
		svc := newTestService(nil, nil, repo, &mockEnqueuer{})
		_, _, err := svc.RequestResolution(context.Background(), "110022", "")
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("invalid code", func(t *testing.T) {
		svc := newTestService(nil, nil, &mockResolutionRepo{}, &mockEnqueuer{})
		_, _, err := svc.RequestResolution(context.Background(), "", "")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestGetResolution(t *testing.T) {
	id := "0b8f3c2e-7a61-4d0e-9d55-3a4f1c0e2b11"

	t.Run("invalid uuid", func(t *testing.T) {
		svc := newTestService(nil, nil, nil, nil)
		_, err := svc.GetResolution(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidResolutionID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockResolutionRepo{getByIDFunc: func(context.Context, string) (*repository.Resolution, error) {
			return nil, nil
		}}
		_, err := newTestService(nil, nil, repo, nil).GetResolution(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success exposes quote", func(t *testing.T) {
		updated := time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC)
		repo := &mockResolutionRepo{getByIDFunc: func(context.Context, string) (*repository.Resolution, error) {
			return &repository.Resolution{
				ID: id, FundCode: "110022", Status: repository.StatusSuccess,
				Quote: testQuote(), UpdatedAt: &updated,
			}, nil
		}}
		res, err := newTestService(nil, nil, repo, nil).GetResolution(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", res.Status)
		require.NotNil(t, res.Quote)
		assert.Equal(t, "2026-10-19T06:30:00Z", *res.UpdatedAt)
		assert.Nil(t, res.ErrorMsg)
	})

	t.Run("failed exposes attempts", func(t *testing.T) {
		msg := "all sources unavailable: Tiantian Fund: request failed"
		repo := &mockResolutionRepo{getByIDFunc: func(context.Context, string) (*repository.Resolution, error) {
			return &repository.Resolution{
				ID: id, FundCode: "110022", Status: repository.StatusFailed, ErrorMsg: &msg,
				Attempts: []fund.Attempt{{Provider: provider.Tiantian, DisplayName: "Tiantian Fund", Kind: fund.KindTransport}},
			}, nil
		}}
		res, err := newTestService(nil, nil, repo, nil).GetResolution(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, msg, *res.ErrorMsg)
		assert.Len(t, res.Attempts, 1)
		assert.Nil(t, res.Quote)
	})
}

func TestProcessResolution_Success(t *testing.T) {
	var stored *fund.Quote
	repo := &mockResolutionRepo{
		markRunningFunc: func(context.Context, string) error { return nil },
		markSuccessFunc: func(_ context.Context, _ string, q *fund.Quote) error {
			stored = q
			return nil
		},
	}
	resolver := &mockResolver{resolveFunc: func(_ context.Context, _ string, preferred fund.ProviderID) (*fund.Quote, error) {
		assert.Equal(t, provider.EastmoneyF10, preferred)
		return testQuote(), nil
	}}

	svc := newTestService(resolver, nil, repo, nil)
	err := svc.ProcessResolution(context.Background(), "id-1", "110022", "eastmoney_f10")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, fund.Numeric("3.2150"), stored.NetValue)
}

func TestProcessResolution_AggregateFailure(t *testing.T) {
	agg := &fund.AggregateFailure{Code: "110022", Attempts: []fund.Attempt{
		{Provider: provider.Tiantian, DisplayName: "Tiantian Fund", Kind: fund.KindNotFound, Message: "empty estimate payload"},
	}}
	var gotMsg string
	var gotAttempts []fund.Attempt
	repo := &mockResolutionRepo{
		markRunningFunc: func(context.Context, string) error { return nil },
		markFailedFunc: func(_ context.Context, _ string, msg string, attempts []fund.Attempt) error {
			gotMsg, gotAttempts = msg, attempts
			return nil
		},
	}
	resolver := &mockResolver{resolveFunc: func(context.Context, string, fund.ProviderID) (*fund.Quote, error) {
		return nil, agg
	}}

	err := newTestService(resolver, nil, repo, nil).ProcessResolution(context.Background(), "id-1", "110022", "")
	require.Error(t, err)
	assert.Equal(t, "all sources unavailable: Tiantian Fund: empty estimate payload", gotMsg)
	assert.Equal(t, agg.Attempts, gotAttempts)
}

func TestProcessResolution_InvalidCode(t *testing.T) {
	var failed bool
	repo := &mockResolutionRepo{
		markFailedFunc: func(context.Context, string, string, []fund.Attempt) error {
			failed = true
			return nil
		},
	}
	err := newTestService(&mockResolver{}, nil, repo, nil).ProcessResolution(context.Background(), "id-1", "bad code", "")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.True(t, failed)
}
