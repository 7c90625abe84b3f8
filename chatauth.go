package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// defaultSessionTTL controls how long an issued chat session token
// remains valid.
const defaultSessionTTL = 12 * time.Hour

// sessionClaims is serialized into the token payload so both REST and
// WebSocket layers can identify the caller without re-querying the
// database on every request.
type sessionClaims struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// tokenSigner is a lightweight HMAC-based signer/verifier for the
// opaque session token: base64url(payload).base64url(hmac(payload)).
type tokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func newTokenSigner(secret string) *tokenSigner {
	return &tokenSigner{secret: []byte(secret), ttl: defaultSessionTTL}
}

func (s *tokenSigner) issue(userID uint, email string) (string, *sessionClaims, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		UserID:    userID,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", nil, fmt.Errorf("encode claims: %w", err)
	}

	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	signature := s.sign([]byte(payload))
	token := payload + "." + signature
	return token, &claims, nil
}

// verify checks signature and expiry and rebuilds the claims. Clock
// skew tolerance is implicitly zero: an expiresAt strictly in the past
// rejects.
func (s *tokenSigner) verify(token string) (*sessionClaims, *Error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, newErr(KindUnauthenticated, "malformed session token")
	}

	payloadPart, signaturePart := parts[0], parts[1]

	expected := s.sign([]byte(payloadPart))
	if !hmac.Equal([]byte(signaturePart), []byte(expected)) {
		return nil, newErr(KindUnauthenticated, "invalid session token signature")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, newErr(KindUnauthenticated, "malformed session token")
	}

	var claims sessionClaims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, newErr(KindUnauthenticated, "malformed session token")
	}

	if time.Now().UTC().After(claims.ExpiresAt) {
		return nil, newErr(KindUnauthenticated, "session token expired")
	}

	return &claims, nil
}

func (s *tokenSigner) sign(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
