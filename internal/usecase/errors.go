package usecase

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrorKind classifies service failures independently of the transport.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// ServiceError carries a kind and a message that is safe to show to the caller.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string) error {
	return &ServiceError{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, message string, err error) error {
	return &ServiceError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for errors not raised by a service.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "Internal server error"
}

// passwordHashError classifies a bcrypt failure: over-long input is the
// caller's fault, anything else is internal.
func passwordHashError(log *zap.Logger, err error) error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return wrapError(KindBadRequest, "Password must be at most 72 bytes", err)
	}
	log.Error("Failed to hash password", zap.Error(err))
	return wrapError(KindInternal, "Failed to process password", err)
}
