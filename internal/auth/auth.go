package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid token")

// MintToken issues a bearer token for a user: the user ID plus an HMAC tag,
// both URL-safe base64 without padding. Tokens are deterministic per
// (userID, secret) and verifiable without storage.
func MintToken(userID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID))
	tag := strings.TrimRight(base64.URLEncoding.EncodeToString(mac.Sum(nil)), "=")
	id := strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(userID)), "=")
	return id + "." + tag
}

// VerifyToken checks a bearer token and returns the user ID it names.
func VerifyToken(token, secret string) (string, error) {
	idPart, tagPart, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrInvalidToken
	}
	idBytes, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(idPart)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID := string(idBytes)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID))
	want := strings.TrimRight(base64.URLEncoding.EncodeToString(mac.Sum(nil)), "=")
	if !hmac.Equal([]byte(tagPart), []byte(want)) {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// BearerToken extracts the token from an Authorization header value.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
