package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Set by the global --json flag.
var jsonOutput bool

// Response is the envelope every --json invocation prints exactly once.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed command. Code is one of the Err* constants.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning is a non-fatal problem, such as an index entry that was skipped.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// Meta carries the result count and how long the search took.
type Meta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

func isJSONOutput() bool {
	return jsonOutput
}

func writeResponse(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(data interface{}, meta *Meta) {
	writeResponse(Response{OK: true, Data: data, Meta: meta})
}

func outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	writeResponse(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

// handleError reports err under code. In JSON mode the error envelope is
// printed and errSilent is returned so Execute only sets the exit status;
// in text mode err comes back (with the suggestion appended) for Execute to print.
func handleError(code string, err error, suggestion string) error {
	return reportError(code, err, suggestion, nil)
}

func handleErrorMsg(code, message, suggestion string) error {
	return reportError(code, errors.New(message), suggestion, nil)
}

// handleErrorWithDetails is handleError with structured details for the
// JSON envelope, e.g. the list of valid section slugs.
func handleErrorWithDetails(code, message, suggestion string, details interface{}) error {
	return reportError(code, errors.New(message), suggestion, details)
}

func reportError(code string, err error, suggestion string, details interface{}) error {
	if jsonOutput {
		writeResponse(Response{Error: &ErrorInfo{
			Code:       code,
			Message:    err.Error(),
			Details:    details,
			Suggestion: suggestion,
		}})
		return errSilent
	}
	if suggestion != "" {
		return fmt.Errorf("%w\n\n%s", err, suggestion)
	}
	return err
}
