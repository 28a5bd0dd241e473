package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the engine.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindInvalidInput         ErrorKind = "invalid_input"
	KindInvalidRange         ErrorKind = "invalid_range"
	KindNothingToSchedule    ErrorKind = "nothing_to_schedule"
	KindUnschedulableBacklog ErrorKind = "unschedulable_backlog"
)

// Error is a structured failure carrying a machine-readable kind alongside a
// human-readable message. All validation errors are raised before any write.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf builds a KindInvalidInput error.
func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidRangef builds a KindInvalidRange error.
func InvalidRangef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidRange, Message: fmt.Sprintf(format, args...)}
}

// NothingToSchedulef builds a KindNothingToSchedule error.
func NothingToSchedulef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNothingToSchedule, Message: fmt.Sprintf(format, args...)}
}

// UnschedulableBacklogf builds a KindUnschedulableBacklog error.
func UnschedulableBacklogf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnschedulableBacklog, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
