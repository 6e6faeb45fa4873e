// Package service implements the fund quote, history and resolution job use cases.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundquote/internal/fund"
	"fundquote/internal/provider"
	"fundquote/internal/repository"
)

// FundServiceInterface defines the operations exposed to the HTTP and CLI layers.
type FundServiceInterface interface {
	ResolveQuote(ctx context.Context, code, source string) (*fund.Quote, error)
	ListProviders() []provider.Info
	FetchHistory(ctx context.Context, code string, days int) (*fund.HistoryResult, error)
	RequestResolution(ctx context.Context, code, source string) (resolutionID, status string, err error)
	GetResolution(ctx context.Context, resolutionID string) (*ResolutionResult, error)
	ProcessResolution(ctx context.Context, resolutionID, code, source string) error
}

// QuoteResolver runs the provider failover for one code.
type QuoteResolver interface {
	ResolveQuote(ctx context.Context, code string, preferred fund.ProviderID) (*fund.Quote, error)
	Providers() []provider.Info
}

// HistoryFetcher builds the history view for one code.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, code string, days int) (*fund.HistoryResult, error)
}

// TaskEnqueuer schedules resolution jobs on the background queue.
type TaskEnqueuer interface {
	EnqueueResolveTask(ctx context.Context, payload ResolveFundPayload) error
}

// TaskTypeResolveFund is the Asynq task type for resolution jobs.
const TaskTypeResolveFund = "fund:resolve"

// ResolveFundPayload is the payload structure for resolution Asynq tasks.
type ResolveFundPayload struct {
	ResolutionID string `json:"resolution_id"`
	Code         string `json:"code"`
	Source       string `json:"source,omitempty"`
}

// FundService defines business logic for fund quotes and history.
type FundService struct {
	quotes      QuoteResolver
	history     HistoryFetcher
	repo        repository.ResolutionRepository
	enqueuer    TaskEnqueuer
	validator   Validator
	log         *zap.SugaredLogger
	defaultDays int
}

// NewFundService creates a new FundService. repo and enqueuer may be nil when resolution jobs are not used.
func NewFundService(quotes QuoteResolver, history HistoryFetcher, repo repository.ResolutionRepository, enqueuer TaskEnqueuer, validator Validator, logger *zap.SugaredLogger, defaultDays int) *FundService {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &FundService{
		quotes:      quotes,
		history:     history,
		repo:        repo,
		enqueuer:    enqueuer,
		validator:   validator,
		log:         logger,
		defaultDays: defaultDays,
	}
}

// DefaultDays is the history window used when the caller gives none.
func (s *FundService) DefaultDays() int { return s.defaultDays }

// ResolveQuote returns the first valid quote across providers, trying source first when it names one.
func (s *FundService) ResolveQuote(ctx context.Context, code, source string) (*fund.Quote, error) {
	code, err := s.validator.Normalize(code)
	if err != nil {
		return nil, err
	}
	return s.quotes.ResolveQuote(ctx, code, normalizeSource(source))
}

// ListProviders returns the registered providers by priority.
func (s *FundService) ListProviders() []provider.Info {
	return s.quotes.Providers()
}

// FetchHistory returns up to days NAV records. A zero days value selects the default window.
func (s *FundService) FetchHistory(ctx context.Context, code string, days int) (*fund.HistoryResult, error) {
	code, err := s.validator.Normalize(code)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = s.defaultDays
	}
	if days < 0 {
		return nil, ErrInvalidDays
	}
	return s.history.FetchHistory(ctx, code, days)
}

// RequestResolution records a resolution job and schedules it.
// A job already pending for the same code and source is returned instead of a new one.
func (s *FundService) RequestResolution(ctx context.Context, code, source string) (resolutionID, status string, err error) {
	code, err = s.validator.Normalize(code)
	if err != nil {
		return "", "", err
	}
	preferred := string(normalizeSource(source))

	uid := uuid.New().String()
	id, err := s.repo.CreateResolution(ctx, uid, code, preferred)
	if err != nil {
		s.log.Errorw("CreateResolution DB error", "error", err)
		return "", "", ErrInternal
	}

	if id != uid {
		return id, string(repository.StatusPending), nil
	}

	payload := ResolveFundPayload{ResolutionID: id, Code: code, Source: preferred}
	if err := s.enqueuer.EnqueueResolveTask(ctx, payload); err != nil {
		s.log.Errorw("Failed to enqueue task", "resolution_id", id, "error", err)
		s.markFailed(ctx, id, "enqueue error", nil)
		return "", "", ErrInternalQueue
	}

	s.log.Infow("Enqueued resolution task", "resolution_id", id, "code", code, "source", preferred)
	return id, string(repository.StatusPending), nil
}

// GetResolution retrieves a resolution job by ID.
func (s *FundService) GetResolution(ctx context.Context, resolutionID string) (*ResolutionResult, error) {
	if _, err := uuid.Parse(resolutionID); err != nil {
		return nil, ErrInvalidResolutionID
	}
	r, err := s.repo.GetByID(ctx, resolutionID)
	if err != nil {
		s.log.Errorw("DB error fetching resolution by ID", "resolution_id", resolutionID, "error", err)
		return nil, ErrInternal
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return resolutionResultFromRepo(r), nil
}

// ProcessResolution runs the failover for a job and stores the outcome (called by background worker).
func (s *FundService) ProcessResolution(ctx context.Context, resolutionID, code, source string) error {
	code, err := s.validator.Normalize(code)
	if err != nil {
		s.completeFailure(ctx, resolutionID, err)
		return err
	}

	s.log.Infow("Processing resolution", "resolution_id", resolutionID, "code", code, "source", source)
	s.markRunning(ctx, resolutionID)

	q, err := s.quotes.ResolveQuote(ctx, code, normalizeSource(source))
	if err != nil {
		s.completeFailure(ctx, resolutionID, err)
		return err
	}

	if err := s.repo.MarkSuccess(ctx, resolutionID, q); err != nil {
		s.log.Errorw("DB update error on success", "resolution_id", resolutionID, "error", err)
		return err
	}

	s.log.Infow("Resolution success", "resolution_id", resolutionID, "source", q.Source)
	return nil
}

func (s *FundService) markFailed(ctx context.Context, resolutionID, reason string, attempts []fund.Attempt) {
	if err := s.repo.MarkFailed(ctx, resolutionID, reason, attempts); err != nil {
		s.log.Warnw("Failed to mark record as FAILED", "resolution_id", resolutionID, "error", err)
	}
}

func (s *FundService) markRunning(ctx context.Context, resolutionID string) {
	if err := s.repo.MarkRunning(ctx, resolutionID); err != nil {
		s.log.Warnw("Failed to mark record as RUNNING", "resolution_id", resolutionID, "error", err)
	}
}

func (s *FundService) completeFailure(ctx context.Context, resolutionID string, cause error) {
	s.log.Errorw("Resolution failed", "resolution_id", resolutionID, "error", cause)
	var attempts []fund.Attempt
	var agg *fund.AggregateFailure
	if errors.As(cause, &agg) {
		attempts = agg.Attempts
	}
	s.markFailed(ctx, resolutionID, cause.Error(), attempts)
}

func normalizeSource(source string) fund.ProviderID {
	return fund.ProviderID(strings.ToLower(strings.TrimSpace(source)))
}
