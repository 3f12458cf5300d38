// Package domain holds the rules for accepting GitHub push webhooks.
package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the HMAC of the request body.
const (
	SignatureHeader = "X-Hub-Signature-256"
	EventHeader     = "X-GitHub-Event"

	signaturePrefix = "sha256="
)

// VerifySignature checks header against the HMAC-SHA256 of body keyed by
// secret. Requests are rejected while no secret is configured.
func VerifySignature(secret string, body []byte, header string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if header == "" {
		return ErrMissingSignature
	}
	hexSig, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(hexSig)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(got, Sign(secret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the raw HMAC-SHA256 of body.
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureFor formats the header value GitHub would send for body.
func SignatureFor(secret string, body []byte) string {
	return signaturePrefix + hex.EncodeToString(Sign(secret, body))
}
