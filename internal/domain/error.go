package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidParams  ErrorCode = "INVALID_PARAMS"
	CodeMethodNotFound ErrorCode = "METHOD_NOT_FOUND"
	CodeInternal       ErrorCode = "INTERNAL"
)

var (
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrEmptyPaths       = errors.New("no image paths")
	ErrPathNotFound     = errors.New("image path not found")
	ErrUnknownTool      = errors.New("unknown tool")
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, ErrEmptyPaths), errors.Is(err, ErrPathNotFound):
		return CodeInvalidParams, true
	case errors.Is(err, ErrUnknownTool):
		return CodeMethodNotFound, true
	default:
		return "", false
	}
}

// MessageFrom returns the client-facing message of err.
func MessageFrom(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return err.Error()
}
