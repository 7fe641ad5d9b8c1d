package model

import (
	"errors"
	"fmt"
)

// ErrorCode distinguishes the caller-contract violations a model can report.
type ErrorCode int

const (
	CodeMethodNotFound ErrorCode = iota + 1
	CodePropertyNotFound
	CodeConstantNotFound
	CodeNoDefaultValue
	CodeExtensionNotFound
	CodeExtensionNotLoaded
)

var codeNames = map[ErrorCode]string{
	CodeMethodNotFound:     "METHOD_NOT_FOUND",
	CodePropertyNotFound:   "PROPERTY_NOT_FOUND",
	CodeConstantNotFound:   "CONSTANT_NOT_FOUND",
	CodeNoDefaultValue:     "NO_DEFAULT_VALUE",
	CodeExtensionNotFound:  "EXTENSION_NOT_FOUND",
	CodeExtensionNotLoaded: "EXTENSION_NOT_LOADED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(c))
}

// ModelError is returned when a caller asks a model for something it does
// not have: a missing method, a default value on a required parameter, and
// so on. Scanning itself never produces a ModelError.
type ModelError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...any) error {
	return &ModelError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a ModelError carrying code.
func IsCode(err error, code ErrorCode) bool {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
