package tools

import (
	"errors"
	"fmt"
)

// Kind classifies dispatcher failures.
type Kind int

const (
	// KindInternal covers store failures and anything unexpected.
	KindInternal Kind = iota
	// KindInvalidInput means the caller's arguments failed validation.
	KindInvalidInput
	// KindMethodNotFound means the tool name is unknown.
	KindMethodNotFound
)

// JSON-RPC 2.0 error codes.
const (
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindMethodNotFound:
		return "MethodNotFound"
	default:
		return "InternalError"
	}
}

// Code returns the JSON-RPC error code for k.
func (k Kind) Code() int {
	switch k {
	case KindInvalidInput:
		return CodeInvalidParams
	case KindMethodNotFound:
		return CodeMethodNotFound
	default:
		return CodeInternalError
	}
}

// Error is the only error type Dispatcher.Call returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
