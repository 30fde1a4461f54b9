package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

// SignConfirmation returns the signature Dotpay computes for a notification:
// SHA-256 over pin, seller id and the notification's signature fields.
func SignConfirmation(pin, sellerID string, n domain.Notification) string {
	var b strings.Builder
	b.WriteString(pin)
	b.WriteString(sellerID)
	for _, f := range n.SignatureFields() {
		b.WriteString(f)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func VerifyConfirmation(pin, sellerID string, n domain.Notification) bool {
	if n.Signature == "" {
		return false
	}
	expected := SignConfirmation(pin, sellerID, n)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(n.Signature)))
}
