package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerificationResult is the outcome of checking a payment assertion.
// There is no partial state: a payment is either accepted or rejected.
type VerificationResult int

const (
	Rejected VerificationResult = iota
	Accepted
)

func (r VerificationResult) String() string {
	if r == Accepted {
		return "ACCEPTED"
	}
	return "REJECTED"
}

// Verifier checks that a completion assertion was signed by the gateway.
type Verifier interface {
	Verify(orderID, paymentID, signature string) (VerificationResult, error)
}

type hmacVerifier struct {
	secret string
}

// NewVerifier builds a verifier around the gateway's shared signing key.
func NewVerifier(secret string) Verifier {
	return &hmacVerifier{secret: secret}
}

// Verify recomputes HMAC-SHA256 over "orderID|paymentID" with the shared
// secret and compares the hex digest against the supplied signature in
// constant time. Pure and deterministic: identical inputs always yield
// identical results.
func (v *hmacVerifier) Verify(orderID, paymentID, signature string) (VerificationResult, error) {
	if v.secret == "" {
		// A configuration failure must never surface as "payment failed".
		return Rejected, ErrSecretNotConfigured
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if hmac.Equal([]byte(expected), []byte(signature)) {
		return Accepted, nil
	}
	return Rejected, nil
}
