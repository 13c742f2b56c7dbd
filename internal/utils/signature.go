package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// UnsubscribeToken creates the HMAC-SHA256 token that authorizes removing
// an email address from the newsletter list.
func UnsubscribeToken(email, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyUnsubscribeToken validates an unsubscribe token in constant time.
func VerifyUnsubscribeToken(email, token, secret string) bool {
	expected := UnsubscribeToken(email, secret)
	return hmac.Equal([]byte(token), []byte(expected))
}

// SecureCompare compares two strings in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
