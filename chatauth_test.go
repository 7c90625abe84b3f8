package main

import (
	"strings"
	"testing"
	"time"
)

func TestTokenSignerIssueVerifyRoundTrip(t *testing.T) {
	signer := newTokenSigner("test-secret")

	token, claims, err := signer.issue(42, "user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	verified, appErr := signer.verify(token)
	if appErr != nil {
		t.Fatalf("verify: %v", appErr)
	}
	if verified.UserID != 42 || verified.Email != "user@example.com" {
		t.Fatalf("verified claims mismatch: %+v", verified)
	}
}

func TestTokenSignerRejectsExpiredToken(t *testing.T) {
	signer := newTokenSigner("test-secret")
	signer.ttl = -time.Minute // already expired the instant it's issued

	token, _, err := signer.issue(1, "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, appErr := signer.verify(token); appErr == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestTokenSignerRejectsTamperedSignature(t *testing.T) {
	signer := newTokenSigner("test-secret")

	token, _, err := signer.issue(1, "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.SplitN(token, ".", 2)
	tampered := parts[0] + ".not-the-real-signature"

	if _, appErr := signer.verify(tampered); appErr == nil {
		t.Fatalf("expected tampered signature to be rejected")
	}
}

func TestTokenSignerRejectsWrongSecret(t *testing.T) {
	issuer := newTokenSigner("secret-a")
	verifier := newTokenSigner("secret-b")

	token, _, err := issuer.issue(1, "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, appErr := verifier.verify(token); appErr == nil {
		t.Fatalf("expected token signed with a different secret to be rejected")
	}
}

func TestTokenSignerRejectsMalformedToken(t *testing.T) {
	signer := newTokenSigner("test-secret")

	cases := []string{"", "no-dot-here", "too.many.dots", "."}
	for _, token := range cases {
		if _, appErr := signer.verify(token); appErr == nil {
			t.Fatalf("expected malformed token %q to be rejected", token)
		}
	}
}
