// Package provider implements the upstream fund data sources, their registry and the failover orchestrator.
package provider

import (
	"context"
	"math"
	"strconv"
	"strings"

	"fundquote/internal/fund"
)

// QuoteProvider fetches a fund quote from one upstream source.
// Every error it returns is a *fund.Failure.
type QuoteProvider interface {
	ID() fund.ProviderID
	FetchQuote(ctx context.Context, code string) (*fund.Quote, error)
}

// NameResolver looks up a fund's display name.
type NameResolver interface {
	ResolveName(ctx context.Context, code string) (string, error)
}

// displayName tries the resolver and falls back to the code on any failure.
func displayName(ctx context.Context, r NameResolver, code string) string {
	if r == nil {
		return code
	}
	name, err := r.ResolveName(ctx, code)
	if err != nil || strings.TrimSpace(name) == "" {
		return code
	}
	return name
}

// parsePercent reads values like "1.23", "-0.5%" or " +2 ".
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// firstPercent returns the first parseable candidate, or 0.
func firstPercent(candidates ...string) float64 {
	for _, c := range candidates {
		if v, ok := parsePercent(c); ok {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func validated(id fund.ProviderID, q *fund.Quote) (*fund.Quote, error) {
	if err := q.Validate(); err != nil {
		return nil, fund.ParseFailure(string(id), err, "incomplete quote")
	}
	return q, nil
}
