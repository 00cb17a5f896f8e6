package cli

import (
	"context"
	"errors"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
)

// Process exit codes, following sysexits(3) where one fits.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 64  // unsupported format or feature
	ExitDataErr     = 65  // malformed input or a rejected edit
	ExitNoInput     = 66  // missing board, document or node
	ExitUnavailable = 69  // store, cache or converter failure
	ExitInterrupted = 130 // SIGINT or a cancelled prompt
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, errCancelled) {
		return ExitInterrupted
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindInput, apperrors.KindConflict:
		return ExitDataErr
	case apperrors.KindNotFound:
		return ExitNoInput
	case apperrors.KindUnsupported:
		return ExitUsage
	case apperrors.KindUnavailable:
		return ExitUnavailable
	}
	return ExitFailure
}
