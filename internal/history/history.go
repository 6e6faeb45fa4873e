// Package history builds a fund's NAV history and trailing returns from the F10 table page.
package history

import (
	"context"
	"math"
	"regexp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fundquote/internal/fund"
)

const (
	source  = "eastmoney_f10"
	maxPage = 365
)

// Trading-day offsets from the most recent record.
const (
	dayOffset   = 1
	weekOffset  = 5
	monthOffset = 22
	yearOffset  = 250
)

var rowPattern = regexp.MustCompile(
	`<tr><td>(\d{4}-\d{2}-\d{2})</td><td class='tor bold'>([0-9.]+)</td><td class='tor bold'>([0-9.]+)</td>` +
		`(?:<td class='tor bold ?(grn|red)?'>([+-]?[0-9.]+)?%?</td>)?`)

// PageSource downloads the raw NAV table for a fund.
type PageSource interface {
	FetchHistoryPage(ctx context.Context, code string, per int) ([]byte, error)
}

// Engine fetches one history page and derives the result. It never fails over.
type Engine struct {
	pages PageSource
	log   *zap.SugaredLogger
}

func NewEngine(pages PageSource, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{pages: pages, log: logger}
}

// PageSize is the number of rows requested for a window of days.
func PageSize(days int) int {
	return min(int(math.Ceil(float64(days)*1.5)), maxPage)
}

// FetchHistory returns up to days records, oldest first, with trailing returns.
func (e *Engine) FetchHistory(ctx context.Context, code string, days int) (*fund.HistoryResult, error) {
	page, err := e.pages.FetchHistoryPage(ctx, code, PageSize(days))
	if err != nil {
		return nil, err
	}

	records := ParseRows(page, days)
	if len(records) == 0 {
		return nil, fund.NotFoundFailure(source, "no NAV rows for %s", code)
	}

	changes := ComputeChanges(records)

	history := slices.Clone(records)
	slices.Reverse(history)

	e.log.Debugw("History parsed", "code", code, "days", days, "rows", len(history))
	return &fund.HistoryResult{Code: code, History: history, Changes: changes}, nil
}

// ParseRows extracts at most limit rows, most recent first. A missing change cell counts as 0.
func ParseRows(page []byte, limit int) []fund.HistoryRecord {
	if limit <= 0 {
		return nil
	}
	matches := rowPattern.FindAllSubmatch(page, limit)
	out := make([]fund.HistoryRecord, 0, len(matches))
	for _, m := range matches {
		out = append(out, fund.HistoryRecord{
			Date:   string(m[1]),
			NAV:    parseFloat(m[2]),
			AccNAV: parseFloat(m[3]),
			Change: parseFloat(m[5]),
		})
	}
	return out
}

// ComputeChanges measures returns from records[0] (most recent) back to each offset.
func ComputeChanges(records []fund.HistoryRecord) fund.Changes {
	return fund.Changes{
		Day:   changeAt(records, dayOffset),
		Week:  changeAt(records, weekOffset),
		Month: changeAt(records, monthOffset),
		Year:  changeAt(records, yearOffset),
	}
}

func changeAt(records []fund.HistoryRecord, offset int) *string {
	if len(records) <= offset {
		return nil
	}
	target := decimal.NewFromFloat(records[offset].NAV)
	if target.IsZero() {
		return nil
	}
	latest := decimal.NewFromFloat(records[0].NAV)
	pct := latest.Sub(target).Div(target).Mul(decimal.NewFromInt(100)).StringFixed(2)
	return &pct
}

func parseFloat(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0
	}
	return v
}
