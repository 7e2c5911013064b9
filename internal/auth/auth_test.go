package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer scheme", "Bearer abc.def", "abc.def"},
		{"lowercase scheme", "bearer  tok ", "tok"},
		{"bare value", "s3cret", "s3cret"},
		{"other scheme", "Basic dXNlcg==", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(r))
		})
	}
}

func TestAPISecretValid(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		auth   string
		apiKey string
		wantOK bool
	}{
		{"no secret configured", "", "", "", false},
		{"bearer match", "s3cret", "Bearer s3cret", "", true},
		{"api key match", "s3cret", "", "s3cret", true},
		{"bearer wins over api key", "s3cret", "Bearer wrong", "s3cret", false},
		{"mismatch", "s3cret", "", "nope", false},
		{"missing", "s3cret", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			if tt.auth != "" {
				r.Header.Set("Authorization", tt.auth)
			}
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			assert.Equal(t, tt.wantOK, APISecretValid(r, tt.secret))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("jwt-secret", 0)
	assert.Equal(t, DefaultTokenTTL, iss.ttl)

	token, err := iss.Issue("ada@example.com")
	require.NoError(t, err)

	sub, err := iss.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sub)
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("jwt-secret", time.Hour)

	t.Run("expired", func(t *testing.T) {
		old := NewIssuer("jwt-secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := old.Issue("ada@example.com")
		require.NoError(t, err)
		_, err = iss.Subject(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewIssuer("other", time.Hour).Issue("ada@example.com")
		require.NoError(t, err)
		_, err = iss.Subject(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "x"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = iss.Subject(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := iss.Subject("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = iss.Subject("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssuer_MissingSecret(t *testing.T) {
	iss := NewIssuer("", time.Hour)
	assert.False(t, iss.Ready())
	_, err := iss.Issue("ada@example.com")
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = iss.Subject("tok")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
