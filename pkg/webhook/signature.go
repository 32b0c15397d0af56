package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign computes the lowercase hex HMAC-SHA256 of payload under secret. It is
// what providers are expected to send and what receivers verify against;
// exported for outbound use and tests.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the HMAC-SHA256 hex digest of
// the exact raw payload under secret. It is the sole gate for webhook
// processing: any changed payload byte flips the result.
//
// It never returns an error. An empty secret fails closed (a receiver
// without a shared secret must not accept anything), as do an empty or
// non-hex signature. Comparison is constant-time.
func VerifySignature(payload []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	provided, err := hex.DecodeString(strings.ToLower(signature))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), provided)
}
