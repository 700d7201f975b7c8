package ingest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign computes the hex HMAC-SHA256 signature of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks that provided is the HMAC-SHA256 hex digest of the
// exact raw body bytes under secret. An optional "sha256=" prefix is
// accepted. Returns false for absent or malformed signatures; never errors.
// The comparison is constant-time.
func VerifySignature(body []byte, provided, secret string) bool {
	provided = strings.TrimPrefix(provided, "sha256=")
	if provided == "" {
		return false
	}

	providedBytes, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), providedBytes)
}
