package commands

import (
	"context"
	"errors"
	"syscall"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitError    = 1 // bad arguments, invalid data, filesystem errors
	ExitAbnormal = 2 // broken output pipe or interrupt
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, syscall.EPIPE), errors.Is(err, context.Canceled):
		return ExitAbnormal
	default:
		return ExitError
	}
}
