package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeSource     ErrorType = "SOURCE"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// Process exit codes. 1 is left for untyped failures.
const (
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitSource     = 4
)

type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Message: message,
		Code:    ExitNotFound,
		Err:     err,
	}
}

func ValidationError(message string, details any) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    ExitValidation,
		Details: details,
	}
}

// SourceError reports a failure to obtain diff text, with the tool's own
// output as details.
func SourceError(message string, err error, details any) *Error {
	return &Error{
		Type:    ErrorTypeSource,
		Message: message,
		Code:    ExitSource,
		Details: details,
		Err:     err,
	}
}

func Internal(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    ExitInternal,
		Err:     err,
	}
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := As(err); ok && e.Code != 0 {
		return e.Code
	}
	return ExitInternal
}
