package main

import "fmt"

// Exit codes for mhdash.
const (
	ExitOK          = 0 // Command succeeded.
	ExitInvalidArgs = 1 // Bad flags or unreadable dataset.
	ExitMismatch    = 2 // check found charts that disagree.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the process exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
