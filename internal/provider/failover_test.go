package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fundquote/internal/fund"
)

func quoteFrom(id fund.ProviderID) *fund.Quote {
	return &fund.Quote{
		Code:          "110022",
		Name:          "E Fund Consumer",
		NetValue:      "3.2150",
		EstimateValue: "3.2391",
		Source:        id,
	}
}

func newMocks() map[fund.ProviderID]*MockProvider {
	mocks := make(map[fund.ProviderID]*MockProvider)
	for _, info := range DefaultRegistry().List() {
		mocks[info.ID] = newMockProvider(info.ID)
	}
	return mocks
}

func newTestFailover(t *testing.T, mocks map[fund.ProviderID]*MockProvider) *Failover {
	t.Helper()
	adapters := make([]QuoteProvider, 0, len(mocks))
	for _, m := range mocks {
		adapters = append(adapters, m)
	}
	f, err := NewFailover(DefaultRegistry(), zap.NewNop().Sugar(), adapters...)
	require.NoError(t, err)
	return f
}

func TestFailover_ResolveQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("first succeeds", func(t *testing.T) {
		mocks := newMocks()
		mocks[Tiantian].On("FetchQuote", mock.Anything, "110022").Return(quoteFrom(Tiantian), nil)

		q, err := newTestFailover(t, mocks).ResolveQuote(ctx, "110022", "")
		require.NoError(t, err)
		assert.Equal(t, Tiantian, q.Source)
		for id, m := range mocks {
			if id != Tiantian {
				m.AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
			}
		}
	})

	t.Run("falls through to third", func(t *testing.T) {
		mocks := newMocks()
		mocks[Tiantian].On("FetchQuote", mock.Anything, "110022").
			Return(nil, fund.TransportFailure(string(Tiantian), nil, "upstream returned status 502")).Once()
		mocks[EastmoneyMobile].On("FetchQuote", mock.Anything, "110022").
			Return(nil, fund.NotFoundFailure(string(EastmoneyMobile), "no Datas entries")).Once()
		mocks[EastmoneyLSJZ].On("FetchQuote", mock.Anything, "110022").Return(quoteFrom(EastmoneyLSJZ), nil).Once()

		q, err := newTestFailover(t, mocks).ResolveQuote(ctx, "110022", "")
		require.NoError(t, err)
		assert.Equal(t, EastmoneyLSJZ, q.Source)
		mocks[Tiantian].AssertExpectations(t)
		mocks[EastmoneyMobile].AssertExpectations(t)
		mocks[EastmoneyLSJZ].AssertExpectations(t)
		mocks[Danjuan].AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
		mocks[EastmoneyF10].AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
	})

	t.Run("preferred is tried first", func(t *testing.T) {
		mocks := newMocks()
		mocks[Danjuan].On("FetchQuote", mock.Anything, "110022").Return(quoteFrom(Danjuan), nil).Once()

		q, err := newTestFailover(t, mocks).ResolveQuote(ctx, "110022", Danjuan)
		require.NoError(t, err)
		assert.Equal(t, Danjuan, q.Source)
		mocks[Tiantian].AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
	})

	t.Run("all fail in trial order", func(t *testing.T) {
		mocks := newMocks()
		for id, m := range mocks {
			m.On("FetchQuote", mock.Anything, "110022").
				Return(nil, fund.NotFoundFailure(string(id), "nothing for %s", string(id))).Once()
		}

		_, err := newTestFailover(t, mocks).ResolveQuote(ctx, "110022", EastmoneyF10)
		require.Error(t, err)

		var agg *fund.AggregateFailure
		require.ErrorAs(t, err, &agg)
		require.Len(t, agg.Attempts, 5)
		got := make([]fund.ProviderID, 0, 5)
		for _, a := range agg.Attempts {
			got = append(got, a.Provider)
			assert.Equal(t, fund.KindNotFound, a.Kind)
		}
		assert.Equal(t, []fund.ProviderID{EastmoneyF10, Tiantian, EastmoneyMobile, EastmoneyLSJZ, Danjuan}, got)
		assert.Equal(t, "Eastmoney (F10)", agg.Attempts[0].DisplayName)
		assert.Contains(t, err.Error(), "all sources unavailable: Eastmoney (F10): nothing for eastmoney_f10; Tiantian Fund:")
		for _, m := range mocks {
			m.AssertNumberOfCalls(t, "FetchQuote", 1)
		}
	})

	t.Run("panic and invalid quote are recorded as parse errors", func(t *testing.T) {
		mocks := newMocks()
		mocks[Tiantian].On("FetchQuote", mock.Anything, "110022").Run(func(mock.Arguments) {
			panic("index out of range")
		})
		mocks[EastmoneyMobile].On("FetchQuote", mock.Anything, "110022").
			Return(&fund.Quote{Code: "110022", NetValue: "1.0"}, nil)
		mocks[EastmoneyLSJZ].On("FetchQuote", mock.Anything, "110022").Return(nil, errors.New("dial tcp: refused"))
		mocks[Danjuan].On("FetchQuote", mock.Anything, "110022").Return(nil, nil)
		mocks[EastmoneyF10].On("FetchQuote", mock.Anything, "110022").
			Return(&fund.Quote{Code: "110022", NetValue: "1.0", EstimateValue: "1.0", Source: EastmoneyF10}, nil)

		q, err := newTestFailover(t, mocks).ResolveQuote(ctx, "110022", "")
		require.NoError(t, err)
		assert.Equal(t, EastmoneyF10, q.Source)
		assert.Equal(t, "110022", q.Name)
	})

	t.Run("panic only", func(t *testing.T) {
		mocks := newMocks()
		for _, m := range mocks {
			m.On("FetchQuote", mock.Anything, "110022").Run(func(mock.Arguments) {
				panic("boom")
			})
		}

		_, err := newTestFailover(t, mocks).ResolveQuote(ctx, "110022", "")
		var agg *fund.AggregateFailure
		require.ErrorAs(t, err, &agg)
		assert.Equal(t, fund.KindParse, agg.Attempts[0].Kind)
		assert.Contains(t, agg.Attempts[0].Message, "adapter panic: boom")
	})
}

func TestNewFailover_RequiresEveryAdapter(t *testing.T) {
	_, err := NewFailover(DefaultRegistry(), nil, newMockProvider(Tiantian))
	assert.ErrorContains(t, err, "no adapter for provider")

	_, err = NewFailover(DefaultRegistry(), nil, newMockProvider("sina"))
	assert.ErrorContains(t, err, "not registered")
}
