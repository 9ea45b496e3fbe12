package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var b64 = base64.RawURLEncoding

// ErrInvalidToken indicates a cookie value that is malformed or carries a
// bad signature.
var ErrInvalidToken = errors.New("invalid session token")

// signToken binds a session id to this deployment's secret so a stolen or
// forged id is rejected before the store is consulted.
func signToken(sessionID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(sessionID))
	return sessionID + "." + b64.EncodeToString(mac.Sum(nil))
}

// verifyToken checks the signature and returns the embedded session id.
func verifyToken(token string, secret []byte) (string, error) {
	sessionID, sig, ok := strings.Cut(token, ".")
	if !ok || sessionID == "" {
		return "", ErrInvalidToken
	}
	sigBytes, err := b64.DecodeString(sig)
	if err != nil {
		return "", ErrInvalidToken
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(sessionID))
	if !hmac.Equal(sigBytes, mac.Sum(nil)) {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}
