package rainbow

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures of a rainbow table run.
type ErrorCode string

const (
	// ErrCodeConfig indicates an invalid chain or run configuration.
	// Fatal: reported before any wordlist is opened.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeDecode indicates a wordlist line that is not valid text.
	// Local: only that line is skipped.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"

	// ErrCodeIO indicates an open, read or write failure on a wordlist or sink.
	// Contained to the affected file.
	ErrCodeIO ErrorCode = "IO_ERROR"

	// ErrCodeSinkUnavailable indicates the output sink could not be constructed.
	// Fatal: no wordlist is processed.
	ErrCodeSinkUnavailable ErrorCode = "SINK_UNAVAILABLE"
)

// Error is the error type shared by every leprechaun package.
//
// Path and Line are set when the failure can be attributed to a wordlist
// file or a line within it.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failing operation ("open wordlist", "append", ...).
	Op string

	// Path is the file the error relates to, if any.
	Path string

	// Line is the 1-based line number, if any.
	Line int

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.Path != "" {
		msg += " " + e.Path
		if e.Line > 0 {
			msg += fmt.Sprintf(":%d", e.Line)
		}
	} else if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigError creates an Error with ErrCodeConfig.
func NewConfigError(op string, err error) *Error {
	return &Error{Code: ErrCodeConfig, Op: op, Err: err}
}

// NewDecodeError creates an Error with ErrCodeDecode for a single line.
func NewDecodeError(path string, line int, err error) *Error {
	return &Error{Code: ErrCodeDecode, Op: "decode line", Path: path, Line: line, Err: err}
}

// NewIOError creates an Error with ErrCodeIO.
func NewIOError(op, path string, err error) *Error {
	return &Error{Code: ErrCodeIO, Op: op, Path: path, Err: err}
}

// NewSinkUnavailable creates an Error with ErrCodeSinkUnavailable.
func NewSinkUnavailable(path string, err error) *Error {
	return &Error{Code: ErrCodeSinkUnavailable, Op: "open sink", Path: path, Err: err}
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsConfigError returns true if err is a configuration error.
func IsConfigError(err error) bool {
	return CodeOf(err) == ErrCodeConfig
}

// IsDecodeError returns true if err is a line decode error.
func IsDecodeError(err error) bool {
	return CodeOf(err) == ErrCodeDecode
}

// IsIOError returns true if err is a wordlist or sink I/O error.
func IsIOError(err error) bool {
	return CodeOf(err) == ErrCodeIO
}

// IsSinkUnavailable returns true if err reports a sink that could not be built.
func IsSinkUnavailable(err error) bool {
	return CodeOf(err) == ErrCodeSinkUnavailable
}

// IsFatal returns true for errors that abort a run before any hashing:
// configuration errors and unavailable sinks.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case ErrCodeConfig, ErrCodeSinkUnavailable:
		return true
	}
	return false
}
