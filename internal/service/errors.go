package service

import "errors"

// ErrInvalidDays indicates the history window is not a positive integer.
var ErrInvalidDays = errors.New("days must be a positive integer")

// ErrInvalidResolutionID indicates the resolution ID format is invalid.
var ErrInvalidResolutionID = errors.New("invalid resolution_id")

// ErrNotFound indicates the requested resource was not found.
var ErrNotFound = errors.New("not found")

// ErrInternal indicates an internal server error.
var ErrInternal = errors.New("internal error")

// ErrInternalQueue indicates an internal queue error.
var ErrInternalQueue = errors.New("internal queue error")
