package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is the lifetime of issued session tokens.
const DefaultTokenTTL = 24 * time.Hour

// Token errors.
var (
	ErrMissingSecret = errors.New("Server misconfigured: missing JWT_SECRET")
	ErrInvalidToken  = errors.New("invalid token")
)

// Issuer signs and verifies HS256 session tokens whose subject is the user's
// email.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer for secret. A non-positive ttl selects
// DefaultTokenTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Ready reports whether a signing secret is configured.
func (i *Issuer) Ready() bool {
	return i != nil && len(i.secret) > 0
}

// Issue returns a signed token for email.
func (i *Issuer) Issue(email string) (string, error) {
	if !i.Ready() {
		return "", ErrMissingSecret
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Subject verifies token and returns its subject. Tokens signed with a
// non-HMAC method, expired tokens and malformed tokens yield ErrInvalidToken.
func (i *Issuer) Subject(token string) (string, error) {
	if !i.Ready() {
		return "", ErrMissingSecret
	}
	if token == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(i.now()) {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
