// Package worker implements background task handlers for async fund resolution.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fundquote/internal/service"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewResolveFundHandler returns a function to handle resolution tasks.
func NewResolveFundHandler(svc service.FundServiceInterface, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload service.ResolveFundPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Errorw("Invalid task payload", "type", t.Type(), "error", err)
			return nil
		}

		err := svc.ProcessResolution(ctx, payload.ResolutionID, payload.Code, payload.Source)
		if err != nil {
			logger.Errorw("Task processing failed", "resolution_id", payload.ResolutionID, "error", err)
			if errors.Is(err, service.ErrInvalidCode) {
				return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
			}
			return err
		}

		logger.Infow("Task completed", "resolution_id", payload.ResolutionID)
		return nil
	}
}

// AsynqEnqueuer enqueues resolution tasks with fixed retry and timeout settings.
type AsynqEnqueuer struct {
	client   *asynq.Client
	maxRetry int
	timeout  time.Duration
}

// NewAsynqEnqueuer creates a new AsynqEnqueuer with the given client, retry limit, and task timeout duration.
func NewAsynqEnqueuer(client *asynq.Client, maxRetry int, timeout time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client:   client,
		maxRetry: maxRetry,
		timeout:  timeout,
	}
}

// NewResolveFundTask builds the asynq task for a resolution job.
func NewResolveFundTask(payload service.ResolveFundPayload, maxRetry int, timeout time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(service.TaskTypeResolveFund, data,
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(timeout),
	), nil
}

// EnqueueResolveTask enqueues a resolution task with the specified payload using Asynq.
func (e *AsynqEnqueuer) EnqueueResolveTask(ctx context.Context, payload service.ResolveFundPayload) error {
	task, err := NewResolveFundTask(payload, e.maxRetry, e.timeout)
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task)
	return err
}

var _ service.TaskEnqueuer = (*AsynqEnqueuer)(nil)
