package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	SignatureHeader = "X-Hub-Signature-256"
	signaturePrefix = "sha256="
)

// VerifySignature checks the provider's HMAC-SHA256 of the raw body.
// An empty secret disables verification and always accepts; that mode is
// meant for demo deployments only.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" {
		return true
	}
	hexSig, ok := strings.CutPrefix(strings.TrimSpace(header), signaturePrefix)
	if !ok {
		return false
	}
	got, err := hex.DecodeString(hexSig)
	if err != nil {
		return false
	}
	return hmac.Equal(got, computeMAC(secret, body))
}

// Sign renders the header value the provider would send for body.
func Sign(secret string, body []byte) string {
	return signaturePrefix + hex.EncodeToString(computeMAC(secret, body))
}

func computeMAC(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// VerifyChallenge answers the one-time subscription handshake. An empty
// configured token never matches.
func VerifyChallenge(mode, token, expected string) bool {
	if expected == "" {
		return false
	}
	return mode == "subscribe" && hmac.Equal([]byte(token), []byte(expected))
}
