package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fundquote/internal/fund"
	"fundquote/internal/provider"
	"fundquote/internal/service"
)

// ProvidersResponse lists the registered sources in trial order.
type ProvidersResponse struct {
	Sources []provider.Info `json:"sources"`
}

// HandleGetQuote godoc
// @Summary Get the current quote for a fund
// @Description Tries providers one at a time in priority order and returns the first valid quote. A registered source is tried first.
// @Tags funds
// @Produce json
// @Param code path string true "Fund code" minlength(1) maxlength(12)
// @Param source query string false "Preferred provider id" Enums(tiantian, eastmoney_mobile, eastmoney_lsjz, danjuan, eastmoney_f10)
// @Success 200 {object} fund.Quote "Quote resolved"
// @Failure 400 {object} ErrorResponse "Invalid fund code"
// @Failure 502 {object} AggregateErrorResponse "Every provider failed"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /funds/{code} [get]
func HandleGetQuote(svc service.FundServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		q, err := svc.ResolveQuote(r.Context(), code, r.URL.Query().Get("source"))
		if err != nil {
			var agg *fund.AggregateFailure
			switch {
			case errors.Is(err, service.ErrInvalidCode):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			case errors.As(err, &agg):
				writeJSON(w, http.StatusBadGateway, AggregateErrorResponse{Error: agg.Error(), Attempts: agg.Attempts})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, q)
	}
}

// HandleGetHistory godoc
// @Summary Get NAV history and trailing returns
// @Description Returns up to `days` NAV records (oldest first) and day/week/month/year returns from the F10 table. No failover.
// @Tags funds
// @Produce json
// @Param code path string true "Fund code" minlength(1) maxlength(12)
// @Param days query int false "Number of records (default 30)" minimum(1)
// @Success 200 {object} fund.HistoryResult "History found"
// @Failure 400 {object} ErrorResponse "Invalid fund code or days"
// @Failure 404 {object} ErrorResponse "No NAV rows for the fund"
// @Failure 502 {object} ErrorResponse "Upstream unavailable or unreadable"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /funds/{code}/history [get]
func HandleGetHistory(svc service.FundServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: service.ErrInvalidDays.Error()})
				return
			}
			days = n
		}

		res, err := svc.FetchHistory(r.Context(), code, days)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrInvalidDays):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			case errors.Is(err, fund.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No history available for " + code})
			case errors.Is(err, fund.ErrTransport), errors.Is(err, fund.ErrParse):
				writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

// HandleListProviders godoc
// @Summary List data providers
// @Description Returns the registered providers in default trial order.
// @Tags funds
// @Produce json
// @Success 200 {object} ProvidersResponse "Provider list"
// @Router /providers [get]
func HandleListProviders(svc service.FundServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ProvidersResponse{Sources: svc.ListProviders()})
	}
}
