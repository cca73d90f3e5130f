// Package exception holds the sentinel errors shared by connectors, repositories and jobs.
// Callers wrap them with fmt.Errorf("%w") and test with errors.Is.
package exception

import "errors"

var (
	// ErrExternalProcess is returned when the quote command exits non-zero or cannot be started.
	ErrExternalProcess = errors.New("external process failed")

	// ErrParse is returned when no valid JSON can be extracted from the quote command output.
	ErrParse = errors.New("unparseable quote output")

	// ErrQuoteRejected marks a single quote or history point that carries its own error.
	ErrQuoteRejected = errors.New("quote rejected by source")

	// ErrDatabase wraps query and transaction failures.
	ErrDatabase = errors.New("database error")

	// ErrNetwork wraps execution service transport failures and non-2xx responses.
	ErrNetwork = errors.New("execution service call failed")

	ErrAlreadyRunning = errors.New("job already running")
	ErrUnknownJob     = errors.New("unknown job")
)
