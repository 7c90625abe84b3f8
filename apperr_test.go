package main

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusForMapsKindToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", ErrNotEventHost, http.StatusForbidden},
		{"not found", ErrEventNotFound, http.StatusNotFound},
		{"conflict", ErrAlreadyMember, http.StatusConflict},
		{"domain rule", ErrCannotRemoveHost, http.StatusBadRequest},
		{"storage", wrapStorage(errors.New("boom")), http.StatusInternalServerError},
		{"unrecognized error", errors.New("not ours"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := wrapStorage(cause)

	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected wrapStorage error to unwrap to the underlying cause")
	}
}

func TestErrorIsDistinguishesSentinels(t *testing.T) {
	if errors.Is(ErrEventNotFound, ErrConversationNotFound) {
		t.Fatalf("distinct sentinels must not compare equal")
	}
	if !errors.Is(ErrEventNotFound, ErrEventNotFound) {
		t.Fatalf("a sentinel must compare equal to itself")
	}
}
