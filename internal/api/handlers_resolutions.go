package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fundquote/internal/fund"
	"fundquote/internal/service"
)

// ResolutionRequest represents the request body for an asynchronous resolution
type ResolutionRequest struct {
	Code   string `json:"code" example:"110022"`
	Source string `json:"source,omitempty" example:"danjuan"`
}

// ResolutionAccepted represents the response for an accepted resolution request
type ResolutionAccepted struct {
	ResolutionID string `json:"resolution_id" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// ResolutionResponse represents a resolution job and its outcome
type ResolutionResponse struct {
	ResolutionID string         `json:"resolution_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code         string         `json:"code" example:"110022"`
	Source       string         `json:"source,omitempty" example:"danjuan"`
	Status       string         `json:"status" example:"SUCCESS"`
	Quote        *fund.Quote    `json:"quote,omitempty"`
	UpdatedAt    *string        `json:"updated_at,omitempty" example:"2026-10-19T06:30:00Z"`
	Error        *string        `json:"error,omitempty" example:"all sources unavailable: Tiantian Fund: request failed"`
	Attempts     []fund.Attempt `json:"attempts,omitempty"`
}

// HandleRequestResolution godoc
// @Summary Request asynchronous quote resolution
// @Description Records a resolution job and returns immediately with its id. A job already pending for the same code and source is reused.
// @Tags resolutions
// @Accept json
// @Produce json
// @Param request body ResolutionRequest true "Fund code and optional preferred source"
// @Success 202 {object} ResolutionAccepted "Resolution accepted"
// @Failure 400 {object} ErrorResponse "Invalid fund code"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /resolutions [post]
func HandleRequestResolution(svc service.FundServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResolutionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
			return
		}
		if strings.TrimSpace(req.Code) == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "code is required"})
			return
		}

		id, _, err := svc.RequestResolution(r.Context(), req.Code, req.Source)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCode):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusAccepted, ResolutionAccepted{ResolutionID: id})
	}
}

// HandleGetResolution godoc
// @Summary Get resolution status and result by ID
// @Description Returns the job status, the resolved quote when SUCCESS, or the per-provider failures when FAILED.
// @Tags resolutions
// @Produce json
// @Param resolution_id path string true "Resolution ID (UUID)" format(uuid)
// @Success 200 {object} ResolutionResponse "Resolution found"
// @Failure 400 {object} ErrorResponse "Invalid resolution_id format"
// @Failure 404 {object} ErrorResponse "Unknown resolution_id"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /resolutions/{resolution_id} [get]
func HandleGetResolution(svc service.FundServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resolution_id")
		if id == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "resolution_id is required"})
			return
		}

		res, err := svc.GetResolution(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidResolutionID):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			case errors.Is(err, service.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown resolution_id"})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, ResolutionResponse{
			ResolutionID: res.ID,
			Code:         res.Code,
			Source:       res.PreferredSource,
			Status:       res.Status,
			Quote:        res.Quote,
			UpdatedAt:    res.UpdatedAt,
			Error:        res.ErrorMsg,
			Attempts:     res.Attempts,
		})
	}
}
