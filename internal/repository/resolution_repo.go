package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fundquote/internal/fund"
)

// Status represents the state of a resolution job.
type Status string

// Status values for the resolution job lifecycle.
const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Resolution is one asynchronous quote lookup job.
// The stored quote is an outcome record, never reused to answer a new lookup.
type Resolution struct {
	ID              string
	FundCode        string
	PreferredSource string
	Status          Status
	Quote           *fund.Quote
	ErrorMsg        *string
	Attempts        []fund.Attempt
	RequestedAt     time.Time
	UpdatedAt       *time.Time
}

// ResolutionRepository defines DB operations for resolution jobs.
type ResolutionRepository interface {
	CreateResolution(ctx context.Context, id, code, preferred string) (string, error)
	MarkRunning(ctx context.Context, id string) error
	MarkSuccess(ctx context.Context, id string, q *fund.Quote) error
	MarkFailed(ctx context.Context, id, errorMsg string, attempts []fund.Attempt) error
	GetByID(ctx context.Context, id string) (*Resolution, error)
}

// PostgresResolutionRepository is an implementation of ResolutionRepository using PostgreSQL.
type PostgresResolutionRepository struct {
	db *sql.DB
}

// NewPostgresResolutionRepository creates a new PostgresResolutionRepository.
func NewPostgresResolutionRepository(db *sql.DB) ResolutionRepository {
	return &PostgresResolutionRepository{db: db}
}

// CreateResolution inserts a PENDING job. If a job for the same code and preferred source is
// already pending or running, it returns that job's ID instead.
func (r *PostgresResolutionRepository) CreateResolution(ctx context.Context, id, code, preferred string) (string, error) {
	query := `INSERT INTO resolutions (id, fund_code, preferred_source, status, requested_at)
              VALUES ($1::uuid, $2, $3, 'PENDING'::resolution_status, NOW())
              ON CONFLICT (fund_code, preferred_source) WHERE status IN ('PENDING', 'RUNNING')
              DO UPDATE SET fund_code = resolutions.fund_code
              RETURNING id::text`

	var returnedID string
	if err := r.db.QueryRowContext(ctx, query, id, code, preferred).Scan(&returnedID); err != nil {
		return "", fmt.Errorf("failed to create resolution: %w", err)
	}
	return returnedID, nil
}

// MarkRunning moves a job to RUNNING. FAILED jobs are accepted again on asynq retry.
func (r *PostgresResolutionRepository) MarkRunning(ctx context.Context, id string) error {
	query := `UPDATE resolutions
				SET status=$1::resolution_status, updated_at=NOW()
				WHERE id=$2::uuid AND status IN ($3::resolution_status, $4::resolution_status)`
	result, err := r.db.ExecContext(ctx, query, StatusRunning, id, StatusPending, StatusFailed)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("resolution %s not found or not in PENDING/FAILED status", id)
	}
	return nil
}

// MarkSuccess stores the resolved quote snapshot.
func (r *PostgresResolutionRepository) MarkSuccess(ctx context.Context, id string, q *fund.Quote) error {
	snapshot, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote snapshot: %w", err)
	}

	query := `UPDATE resolutions
				SET status=$1::resolution_status,
				    source=$2,
				    quote=$3::jsonb,
				    error=NULL,
				    attempts=NULL,
				    updated_at=NOW()
				WHERE id=$4::uuid AND status=$5::resolution_status`

	result, err := r.db.ExecContext(ctx, query, StatusSuccess, string(q.Source), string(snapshot), id, StatusRunning)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, id)
}

// MarkFailed records the failure message and the per-provider attempts.
func (r *PostgresResolutionRepository) MarkFailed(ctx context.Context, id, errorMsg string, attempts []fund.Attempt) error {
	var attemptsJSON sql.NullString
	if len(attempts) > 0 {
		b, err := json.Marshal(attempts)
		if err != nil {
			return fmt.Errorf("encode attempts: %w", err)
		}
		attemptsJSON = sql.NullString{String: string(b), Valid: true}
	}

	query := `UPDATE resolutions
				SET status=$1::resolution_status,
				    quote=NULL,
				    error=$2,
				    attempts=$3::jsonb,
				    updated_at=NOW()
				WHERE id=$4::uuid AND status IN ($5::resolution_status, $6::resolution_status)`

	result, err := r.db.ExecContext(ctx, query, StatusFailed, errorMsg, attemptsJSON, id, StatusPending, StatusRunning)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, id)
}

func checkRowsAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("resolution %s not found", id)
	}
	return nil
}

// GetByID retrieves a resolution job by its ID.
func (r *PostgresResolutionRepository) GetByID(ctx context.Context, id string) (*Resolution, error) {
	query := `SELECT id::text, fund_code, preferred_source, status, quote::text, error, attempts::text, requested_at, updated_at
              FROM resolutions
              WHERE id=$1::uuid`

	row := r.db.QueryRowContext(ctx, query, id)
	return scanResolution(row)
}

// scanResolution maps a single row into a Resolution, returning (nil, nil) for sql.ErrNoRows.
func scanResolution(row *sql.Row) (*Resolution, error) {
	var res Resolution
	var statusStr string
	var quoteJSON, errMsg, attemptsJSON sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&res.ID, &res.FundCode, &res.PreferredSource, &statusStr,
		&quoteJSON, &errMsg, &attemptsJSON, &res.RequestedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	res.Status = Status(statusStr)
	if quoteJSON.Valid {
		var q fund.Quote
		if err := json.Unmarshal([]byte(quoteJSON.String), &q); err != nil {
			return nil, fmt.Errorf("decode quote snapshot: %w", err)
		}
		res.Quote = &q
	}
	if attemptsJSON.Valid {
		if err := json.Unmarshal([]byte(attemptsJSON.String), &res.Attempts); err != nil {
			return nil, fmt.Errorf("decode attempts: %w", err)
		}
	}
	if errMsg.Valid {
		res.ErrorMsg = &errMsg.String
	}
	if updatedAt.Valid {
		res.UpdatedAt = &updatedAt.Time
	}
	return &res, nil
}
