// Package errors carries the coded errors foodweb reports to users.
//
// Every rejection in the domain has a [Code]: a blank creature name is
// BLANK_NAME, a taken one DUPLICATE_NAME, an unknown layout mode
// INVALID_OPTION. The CLI prints [UserMessage], the editor turns some
// codes into form flags, and the HTTP API answers with [HTTPStatus] and
// the code in the JSON body.
//
//	err := errors.New(errors.ErrCodeDuplicateName, "creature %q already exists", name)
//	if errors.Is(err, errors.ErrCodeDuplicateName) {
//	    // raise the duplicate-name flag
//	}
//
// Errors from other packages are attached with [Wrap] and stay reachable
// through the standard library's errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	// rejected input
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeBlankName       Code = "BLANK_NAME"
	ErrCodeDuplicateName   Code = "DUPLICATE_NAME"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidOption   Code = "INVALID_OPTION"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// missing records
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeOutOfRange   Code = "INDEX_OUT_OF_RANGE"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// rendering
	ErrCodeRenderFailed  Code = "RENDER_FAILED"
	ErrCodeSurfaceBusy   Code = "SURFACE_BUSY"
	ErrCodeSessionClosed Code = "SESSION_CLOSED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code prefix or cause. Errors
// without a code print as they are.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeBlankName:       http.StatusBadRequest,
	ErrCodeInvalidColor:    http.StatusBadRequest,
	ErrCodeInvalidOption:   http.StatusBadRequest,
	ErrCodeInvalidFormat:   http.StatusBadRequest,
	ErrCodeInvalidSnapshot: http.StatusUnprocessableEntity,
	ErrCodeDuplicateName:   http.StatusConflict,
	ErrCodeSurfaceBusy:     http.StatusConflict,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeOutOfRange:      http.StatusNotFound,
	ErrCodeFileNotFound:    http.StatusNotFound,
	ErrCodeUnsupported:     http.StatusNotImplemented,
	ErrCodeSessionClosed:   http.StatusServiceUnavailable,
}

// HTTPStatus maps an error to the status code the API responds with.
// Uncoded errors are internal failures.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
