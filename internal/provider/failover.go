package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fundquote/internal/fund"
)

// Failover tries providers one at a time in registry order until one returns a valid quote.
type Failover struct {
	registry *Registry
	adapters map[fund.ProviderID]QuoteProvider
	log      *zap.SugaredLogger
}

// NewFailover binds an adapter to every registered provider.
func NewFailover(registry *Registry, logger *zap.SugaredLogger, adapters ...QuoteProvider) (*Failover, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	byID := make(map[fund.ProviderID]QuoteProvider, len(adapters))
	for _, a := range adapters {
		if _, ok := registry.Lookup(a.ID()); !ok {
			return nil, fmt.Errorf("adapter %q is not registered", a.ID())
		}
		byID[a.ID()] = a
	}
	for _, info := range registry.List() {
		if _, ok := byID[info.ID]; !ok {
			return nil, fmt.Errorf("no adapter for provider %q", info.ID)
		}
	}
	return &Failover{registry: registry, adapters: byID, log: logger}, nil
}

// trial is the fold state: the winning quote, or the failures collected so far.
type trial struct {
	quote    *fund.Quote
	attempts []fund.Attempt
}

// ResolveQuote returns the first valid quote, trying preferred first when it is registered.
// When every provider fails the error is a *fund.AggregateFailure with one attempt per provider.
func (f *Failover) ResolveQuote(ctx context.Context, code string, preferred fund.ProviderID) (*fund.Quote, error) {
	order := f.registry.OrderedProviders(preferred)
	state := trial{attempts: make([]fund.Attempt, 0, len(order))}

	for _, id := range order {
		state = f.step(ctx, state, id, code)
		if state.quote != nil {
			return state.quote, nil
		}
	}

	return nil, &fund.AggregateFailure{Code: code, Attempts: state.attempts}
}

// Providers lists the registered providers by rank.
func (f *Failover) Providers() []Info {
	return f.registry.List()
}

func (f *Failover) step(ctx context.Context, state trial, id fund.ProviderID, code string) trial {
	info, _ := f.registry.Lookup(id)

	q, err := f.call(ctx, f.adapters[id], code)
	if err == nil {
		f.log.Infow("Quote resolved", "code", code, "provider", id)
		return trial{quote: q, attempts: state.attempts}
	}

	fail := fund.AsFailure(string(id), err)
	f.log.Warnw("Provider failed", "code", code, "provider", id, "kind", fail.Kind, "error", fail.Reason())
	return trial{attempts: append(state.attempts, fund.Attempt{
		Provider:    id,
		DisplayName: info.DisplayName,
		Kind:        fail.Kind,
		Message:     fail.Reason(),
	})}
}

// call runs one adapter and turns panics and incomplete quotes into parse failures.
func (f *Failover) call(ctx context.Context, p QuoteProvider, code string) (q *fund.Quote, err error) {
	id := p.ID()
	defer func() {
		if r := recover(); r != nil {
			q, err = nil, fund.ParseFailure(string(id), nil, "adapter panic: %v", r)
		}
	}()

	q, err = p.FetchQuote(ctx, code)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fund.ParseFailure(string(id), nil, "adapter returned no quote")
	}
	if q.Name == "" {
		named := *q
		named.Name = code
		q = &named
	}
	if vErr := q.Validate(); vErr != nil {
		return nil, fund.ParseFailure(string(id), vErr, "incomplete quote")
	}
	return q, nil
}
