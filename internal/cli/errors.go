package cli

import "errors"

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Index errors
	ErrIndexFetchFailed = "INDEX_FETCH_FAILED"
	ErrSectionNotFound  = "SECTION_NOT_FOUND"

	// Config errors
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrNotInteractive  = "NOT_INTERACTIVE"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnInvalidEntry = "INVALID_ENTRY"
)

// errSilent is returned after an error has already been written as JSON, so
// the process still exits non-zero without printing it twice.
var errSilent = errors.New("error already reported")
