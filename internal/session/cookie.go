package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

func mac(id, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(id))
	return h.Sum(nil)
}

// SignID returns the cookie value for a session id: the id, a dot and an
// HMAC-SHA256 of the id.
func SignID(id, secret string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(mac(id, secret))
}

// VerifyCookie extracts the session id from a signed cookie value.
func VerifyCookie(value, secret string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" || sig == "" {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, mac(id, secret)) {
		return "", false
	}
	return id, true
}
