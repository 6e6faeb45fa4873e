package fund

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a provider declined a request.
type ErrorKind string

// Failure kinds reported by adapters.
const (
	KindTransport ErrorKind = "TransportError"
	KindParse     ErrorKind = "ParseError"
	KindNotFound  ErrorKind = "NotFound"
)

// Sentinels for errors.Is checks against a *Failure.
var (
	ErrTransport = errors.New("transport error")
	ErrParse     = errors.New("parse error")
	ErrNotFound  = errors.New("fund data not found")
)

var kindSentinels = map[ErrorKind]error{
	KindTransport: ErrTransport,
	KindParse:     ErrParse,
	KindNotFound:  ErrNotFound,
}

// Failure is the only error shape an adapter returns.
type Failure struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (f *Failure) Error() string {
	var sb strings.Builder
	if f.Provider != "" {
		sb.WriteString(f.Provider)
		sb.WriteString(": ")
	}
	sb.WriteString(f.Message)
	if f.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(f.Err.Error())
	}
	return sb.String()
}

// Reason is the message without the provider prefix.
func (f *Failure) Reason() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches the sentinel for the failure's kind.
func (f *Failure) Is(target error) bool {
	return kindSentinels[f.Kind] == target
}

// TransportFailure builds a TransportError.
func TransportFailure(provider string, err error, format string, args ...any) *Failure {
	return &Failure{Provider: provider, Kind: KindTransport, Message: fmt.Sprintf(format, args...), Err: err}
}

// ParseFailure builds a ParseError.
func ParseFailure(provider string, err error, format string, args ...any) *Failure {
	return &Failure{Provider: provider, Kind: KindParse, Message: fmt.Sprintf(format, args...), Err: err}
}

// NotFoundFailure builds a NotFound failure.
func NotFoundFailure(provider string, format string, args ...any) *Failure {
	return &Failure{Provider: provider, Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// AsFailure converts any error into a *Failure. Untyped errors count as transport errors.
func AsFailure(provider string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Provider: provider, Kind: KindTransport, Message: "request failed", Err: err}
}

// Attempt records one provider trial that failed.
type Attempt struct {
	Provider    ProviderID `json:"provider" swaggertype:"string" example:"danjuan"`
	DisplayName string     `json:"name" example:"Danjuan Fund"`
	Kind        ErrorKind  `json:"kind" swaggertype:"string" example:"NotFound"`
	Message     string     `json:"message" example:"no nav items in response"`
}

// AggregateFailure is returned when every provider in the trial order failed.
type AggregateFailure struct {
	Code     string
	Attempts []Attempt
}

func (a *AggregateFailure) Error() string {
	parts := make([]string, 0, len(a.Attempts))
	for _, at := range a.Attempts {
		parts = append(parts, at.DisplayName+": "+at.Message)
	}
	return "all sources unavailable: " + strings.Join(parts, "; ")
}
