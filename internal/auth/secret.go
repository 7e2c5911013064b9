package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerToken returns the token from an Authorization header. A value with a
// "Bearer" scheme yields the part after the scheme; a value without a space is
// returned as is. Any other scheme yields "".
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found {
		return header
	}
	if strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// APISecretValid reports whether the request carries the configured secret,
// either as a bearer token or in the X-API-Key header. An empty secret never
// matches.
func APISecretValid(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	candidate := BearerToken(r)
	if candidate == "" {
		candidate = r.Header.Get("X-API-Key")
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) == 1
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
