package main

import (
	"errors"
	"net/http"
)

// Kind categorizes an apperr for HTTP status mapping. Distinct domain
// errors below carry their own sentinel so callers can branch with
// errors.Is while still getting a uniform status via Kind().
type Kind int

const (
	KindInvalidInput Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindDomainRule
	KindStorage
	KindTransient
)

// Error wraps a sentinel cause with the taxonomy Kind used to pick an
// HTTP status and log severity.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func newErr(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// wrapStorage lifts an unexpected backend error into the Storage kind.
func wrapStorage(err error) *Error {
	return &Error{kind: KindStorage, msg: "storage error", err: err}
}

// Sentinel domain errors, grounded on the flat error-var style of the
// repository this was adapted from, generalized with a Kind each.
var (
	ErrInvalidCredentials    = newErr(KindUnauthenticated, "invalid credentials")
	ErrEventNotFound         = newErr(KindNotFound, "event not found")
	ErrConversationNotFound  = newErr(KindNotFound, "conversation not found")
	ErrAlreadyMember         = newErr(KindConflict, "user already a conversation member")
	ErrJoinRequestExists     = newErr(KindConflict, "join request already pending")
	ErrJoinRequestNotFound   = newErr(KindNotFound, "join request not found")
	ErrNotEventHost          = newErr(KindForbidden, "user is not the event host")
	ErrCannotRemoveHost      = newErr(KindDomainRule, "event host cannot be removed from the conversation")
	ErrNotConversationMember = newErr(KindForbidden, "user is not a conversation member")
	ErrConversationMissing   = newErr(KindStorage, "event has no conversation")

	ErrInvalidInput    = newErr(KindInvalidInput, "invalid input")
	ErrUnauthenticated = newErr(KindUnauthenticated, "unauthenticated")
)

// statusFor maps an error to an HTTP status per the taxonomy. Errors
// not produced by this package (e.g. a bare GORM error that slipped
// through) default to 500.
func statusFor(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		switch appErr.Kind() {
		case KindInvalidInput:
			return http.StatusBadRequest
		case KindUnauthenticated:
			return http.StatusUnauthorized
		case KindForbidden:
			return http.StatusForbidden
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindDomainRule:
			return http.StatusBadRequest
		case KindTransient:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
