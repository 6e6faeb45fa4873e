package service

import (
	"time"

	"fundquote/internal/fund"
	"fundquote/internal/repository"
)

// ResolutionResult is a resolution job as returned by the service layer.
// Fields are populated according to the job's status:
//   - SUCCESS: Quote and UpdatedAt are set.
//   - FAILED:  ErrorMsg is set, Attempts lists the providers that declined.
//   - PENDING/RUNNING: only the identifying fields are set.
type ResolutionResult struct {
	ID              string
	Code            string
	PreferredSource string
	Status          string
	Quote           *fund.Quote
	ErrorMsg        *string
	Attempts        []fund.Attempt
	UpdatedAt       *string
}

func resolutionResultFromRepo(r *repository.Resolution) *ResolutionResult {
	res := &ResolutionResult{
		ID:              r.ID,
		Code:            r.FundCode,
		PreferredSource: r.PreferredSource,
		Status:          string(r.Status),
	}

	switch r.Status {
	case repository.StatusSuccess:
		res.Quote = r.Quote
		if r.UpdatedAt != nil {
			ts := r.UpdatedAt.Format(time.RFC3339)
			res.UpdatedAt = &ts
		}
	case repository.StatusFailed:
		res.ErrorMsg = r.ErrorMsg
		res.Attempts = r.Attempts
	}

	return res
}
