// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/stacklok/gatekeeper/pkg/storage"
)

// DefaultTolerance is the freshness window applied when no tolerance is
// configured: a signature timestamp may deviate from the verifier's clock by
// at most this much in either direction.
const DefaultTolerance = 300 * time.Second

// Signature verification failures. The authorizer maps these to decision
// reasons; the ordering of checks inside verifyCandidate guarantees that
// expired/tampered are only ever reported for a signature that verified, so
// an attacker without the secret learns nothing from the distinction.
var (
	// ErrSignatureMismatch means the recomputed signature differs.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrSignatureExpired means the signature verified but its timestamp is
	// outside the freshness window or unparseable.
	ErrSignatureExpired = errors.New("signature timestamp outside freshness window")
	// ErrBodyTampered means the signature verified but the body hash does
	// not cover the received body.
	ErrBodyTampered = errors.New("body does not match signed hash")
)

// Clock abstracts wall time so tests can freeze and advance it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CanonicalString builds the signed serialization of a request: four fields
// joined by single newline bytes, no trailing newline. Signer and verifier
// must agree on it byte for byte.
func CanonicalString(method, path, timestamp, bodyHash string) string {
	return method + "\n" + path + "\n" + timestamp + "\n" + bodyHash
}

// ComputeSignature returns the lowercase hex HMAC-SHA-256 of the canonical
// string under the given shared secret.
func ComputeSignature(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashBody returns the lowercase hex SHA-256 of the request body.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// constantTimeEqual compares two strings without short-circuiting on the
// first differing byte. Unequal lengths fail immediately; that leaks only
// the expected length, which is fixed for hex digests.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Verifier validates signature bundles against candidate shared secrets.
type Verifier struct {
	clock     Clock
	tolerance time.Duration
}

// NewVerifier creates a Verifier using the system clock. A non-positive
// tolerance falls back to DefaultTolerance.
func NewVerifier(tolerance time.Duration) *Verifier {
	return NewVerifierWithClock(tolerance, systemClock{})
}

// NewVerifierWithClock creates a Verifier with an injected clock. Used by
// tests to pin wall time.
func NewVerifierWithClock(tolerance time.Duration, clock Clock) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{clock: clock, tolerance: tolerance}
}

// Verify checks the bundle against each candidate secret in order and
// returns the first candidate for which signature, timestamp, and body all
// check out.
//
// When no candidate fully passes, the error is the specific failure
// (ErrSignatureExpired or ErrBodyTampered) of the first candidate whose
// signature verified, so an honest client learns why its request was
// rejected; if no candidate even produced the signature, the error is
// ErrSignatureMismatch.
func (v *Verifier) Verify(candidates []storage.SecretCandidate, method, path string, creds Credentials, body []byte) (*storage.SecretCandidate, error) {
	var ownerErr error
	for i := range candidates {
		err := v.verifyCandidate(candidates[i].Secret, method, path, creds, body)
		if err == nil {
			return &candidates[i], nil
		}
		if !errors.Is(err, ErrSignatureMismatch) && ownerErr == nil {
			ownerErr = err
		}
	}
	if ownerErr != nil {
		return nil, ownerErr
	}
	return nil, ErrSignatureMismatch
}

// verifyCandidate runs the three checks for one secret in the fixed order
// signature, timestamp, body. The signature covers the timestamp and body
// hash strings as received, so a forged bundle fails the first check and
// never reaches the more specific ones.
func (v *Verifier) verifyCandidate(secret, method, path string, creds Credentials, body []byte) error {
	expected := ComputeSignature(secret, CanonicalString(method, path, creds.Timestamp, creds.BodyHash))
	if !constantTimeEqual(expected, creds.Signature) {
		return ErrSignatureMismatch
	}

	ts, err := strconv.ParseInt(creds.Timestamp, 10, 64)
	if err != nil {
		return ErrSignatureExpired
	}
	now := v.clock.Now().Unix()
	tol := int64(v.tolerance / time.Second)
	if ts < now-tol || ts > now+tol {
		return ErrSignatureExpired
	}

	if !constantTimeEqual(HashBody(body), creds.BodyHash) {
		return ErrBodyTampered
	}
	return nil
}
