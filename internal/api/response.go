// Package api implements HTTP handlers for the fund quote service.
package api

import (
	"encoding/json"
	"net/http"

	"fundquote/internal/fund"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid fund code"`
}

// AggregateErrorResponse is returned when every provider failed.
type AggregateErrorResponse struct {
	Error    string         `json:"error" example:"all sources unavailable: Tiantian Fund: request failed; Danjuan Fund: non-zero result_code"`
	Attempts []fund.Attempt `json:"attempts"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
