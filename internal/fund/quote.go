// Package fund defines the canonical records every provider adapter produces.
package fund

import "errors"

// ProviderID identifies an upstream data source.
type ProviderID string

// Quote is one fund's current valuation snapshot.
// NetValue and EstimateValue keep the provider's own textual precision.
type Quote struct {
	Code           string     `json:"code" example:"110022"`
	Name           string     `json:"name" example:"E Fund Consumer Industry"`
	NetValue       Numeric    `json:"netValue" swaggertype:"string" example:"3.2150"`
	NetValueDate   string     `json:"netValueDate" example:"2026-10-16"`
	EstimateValue  Numeric    `json:"estimateValue" swaggertype:"string" example:"3.2391"`
	EstimateChange float64    `json:"estimateChange" example:"0.75"`
	UpdateTime     string     `json:"updateTime" example:"2026-10-19 14:35"`
	Source         ProviderID `json:"source" swaggertype:"string" example:"tiantian"`
}

var (
	errMissingCode     = errors.New("missing fund code")
	errMissingNetValue = errors.New("missing net value")
	errMissingEstimate = errors.New("missing estimate value")
)

// Validate checks the fields every returned quote must carry.
func (q *Quote) Validate() error {
	switch {
	case q.Code == "":
		return errMissingCode
	case q.NetValue.IsEmpty():
		return errMissingNetValue
	case q.EstimateValue.IsEmpty():
		return errMissingEstimate
	}
	return nil
}

// HistoryRecord is one trading day's NAV entry.
type HistoryRecord struct {
	Date   string  `json:"date" example:"2026-10-16"`
	NAV    float64 `json:"nav" example:"3.215"`
	AccNAV float64 `json:"accNav" example:"5.871"`
	Change float64 `json:"change" example:"-0.42"`
}

// Changes holds trailing returns in percent, nil when the window is too short.
type Changes struct {
	Day   *string `json:"day" example:"0.35"`
	Week  *string `json:"week" example:"-1.20"`
	Month *string `json:"month" example:"2.48"`
	Year  *string `json:"year" example:"12.07"`
}

// HistoryResult is the history view for one fund, oldest record first.
type HistoryResult struct {
	Code    string          `json:"code" example:"110022"`
	History []HistoryRecord `json:"history"`
	Changes Changes         `json:"changes"`
}
