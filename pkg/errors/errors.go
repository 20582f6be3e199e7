// Package errors defines the coded errors returned by the dashboard API.
// Each code maps to one HTTP status; handlers render them through the
// response envelope and the CLI reports their message.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a dashboard failure carrying a stable code and the HTTP status it
// is served with. Two errors with the same code match under errors.Is, so a
// cloned or wrapped sentinel still matches the original.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on the error code.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New declares a coded error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a cause to a coded error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WrapAs wraps err under the code, status and message of base.
func WrapAs(err error, base *Error) *Error {
	return Wrap(err, base.Code, base.Status, base.Message)
}

// Request and transport errors.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Dashboard and chart errors.
var (
	ErrDatasetUnavailable = New("DATASET_UNAVAILABLE", http.StatusServiceUnavailable, "dataset could not be loaded")
	ErrChartNotMounted    = New("CHART_NOT_MOUNTED", http.StatusConflict, "chart is not mounted in the active view")
	ErrUnknownElement     = New("UNKNOWN_ELEMENT", http.StatusNotFound, "chart element not found")
	ErrNotSelectable      = New("NOT_SELECTABLE", http.StatusBadRequest, "chart element cannot be selected")
	ErrStaleRender        = New("STALE_RENDER", http.StatusConflict, "chart was remounted while rendering")
	ErrDashboardClosed    = New("DASHBOARD_CLOSED", http.StatusServiceUnavailable, "dashboard has been disposed")
	ErrExportDisabled     = New("EXPORT_DISABLED", http.StatusNotFound, "chart exports are disabled")
)

// FromError returns the coded error in err's chain, or err wrapped as an
// internal error when it carries no code.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapAs(err, ErrInternal)
}

// Clone copies a sentinel, replacing its message when one is given.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
