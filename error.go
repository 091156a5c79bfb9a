package lrc

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the failures surfaced by the compiler and its collaborators.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	// InvalidScheme is returned for a malformed scheme descriptor.
	InvalidScheme
	// ConfigurationConflict is returned when derived constants or a stored record disagree
	// with what the caller asked for.
	ConfigurationConflict
	RepositoryFailure ErrorCode = 77 + iota
	SearchFailure
	HarnessFailure
)

var codeNames = map[ErrorCode]string{
	Unknown:               "unknown",
	InvalidScheme:         "invalid scheme",
	ConfigurationConflict: "configuration conflict",
	RepositoryFailure:     "repository failure",
	SearchFailure:         "search failure",
	HarnessFailure:        "harness failure",
}

// String returns the human readable name of the error code.
func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("code %d", int(c))
}

// LRC custom error.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	if e.UserData == nil {
		return fmt.Errorf("%s: %w", e.Code, e.Err).Error()
	}
	return fmt.Errorf("%s: %w, user data: %v", e.Code, e.Err, e.UserData).Error()
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with code. userData is optional context, e.g. the offending descriptor.
func NewError(code ErrorCode, err error, userData any) Error {
	return Error{
		Code:     code,
		Err:      err,
		UserData: userData,
	}
}

// Errorf formats a message and wraps it with code.
func Errorf(code ErrorCode, format string, args ...any) Error {
	return Error{
		Code: code,
		Err:  fmt.Errorf(format, args...),
	}
}

// CodeOf returns the ErrorCode carried by err, or Unknown.
func CodeOf(err error) ErrorCode {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

// IsInvalidScheme reports whether err is (or wraps) an InvalidScheme error.
func IsInvalidScheme(err error) bool {
	return CodeOf(err) == InvalidScheme
}

// IsConfigurationConflict reports whether err is (or wraps) a ConfigurationConflict error.
func IsConfigurationConflict(err error) bool {
	return CodeOf(err) == ConfigurationConflict
}
