package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/leprechaun/internal/rainbow"
)

// Process exit codes. Failed wordlists do not change the code of a run
// that produced its table.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // interrupted run, unflushed sink, lookup read error
	ExitCommandError = 2 // bad flags or config, sink or database unavailable
)

// ExitError carries the exit code a command wants alongside its error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError wrapping err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code for the error a command returned.
// Errors that are not ExitErrors exit with ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// exitCodeFor maps a leprechaun error to its exit code: configuration
// errors and an unavailable sink are command errors, anything else is a
// failure.
func exitCodeFor(err error) int {
	if rainbow.IsFatal(err) {
		return ExitCommandError
	}
	return ExitFailure
}

// wrapError wraps err with the exit code exitCodeFor picks.
func wrapError(message string, err error) *ExitError {
	return WrapExitError(exitCodeFor(err), message, err)
}

// errorCode returns the code reported for err in CLI output: its
// rainbow.ErrorCode, or "ERROR" for anything else.
func errorCode(err error) string {
	if code := rainbow.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

// errorDetails returns the location fields of a rainbow.Error, or nil.
func errorDetails(err error) *ErrorDetails {
	var rerr *rainbow.Error
	if !errors.As(err, &rerr) || (rerr.Op == "" && rerr.Path == "" && rerr.Line == 0) {
		return nil
	}
	return &ErrorDetails{Op: rerr.Op, Path: rerr.Path, Line: rerr.Line}
}

// OutputFormatter prints command results as text or as a JSON envelope.
//
// Text results go to Writer verbatim. In JSON mode every result, the error
// of a failed command included, is one CLIResponse on Writer, so a script
// reading stdout sees exactly one JSON value per invocation.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose diagnostics; Writer when nil
	Verbose   bool

	// RunID is attached to JSON responses once a generate run has an id.
	RunID string
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
	RunID  string      `json:"run_id,omitempty"`
}

// CLIError is the error member of a CLIResponse.
type CLIError struct {
	Code    string        `json:"code"` // rainbow.ErrorCode or "ERROR"
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails locates a failure in a wordlist, table or database.
type ErrorDetails struct {
	Op   string `json:"op,omitempty"`
	Path string `json:"path,omitempty"`
	Line int    `json:"line,omitempty"`
}

// Success prints data: the JSON envelope, or data's default text form.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
			RunID:  f.RunID,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error prints err with its error code. Verbose text output adds the
// operation, file and line of a rainbow.Error.
func (f *OutputFormatter) Error(err error) error {
	code, details := errorCode(err), errorDetails(err)

	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: err.Error(), Details: details},
			RunID:  f.RunID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, err)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "  op: %s  path: %s  line: %d\n", details.Op, details.Path, details.Line)
	}
	return nil
}

// VerboseLog prints a diagnostic line with --verbose. It never writes to
// Writer when ErrWriter is set, so JSON on stdout stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
