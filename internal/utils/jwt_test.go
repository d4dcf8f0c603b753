package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func TestGenerateAndParseJWT(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		email  string
		role   string
	}{
		{name: "customer", userID: 1, email: "a@x.com", role: "customer"},
		{name: "admin", userID: 42, email: "admin@localcafe.com", role: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateJWT(tt.userID, tt.email, tt.role, testSecret, 7*24*time.Hour)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ParseJWT(token, testSecret)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestParseJWT_InvalidTokens(t *testing.T) {
	valid, err := GenerateJWT(1, "a@x.com", "customer", testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := GenerateJWT(1, "a@x.com", "customer", testSecret, -time.Hour)
	require.NoError(t, err)

	otherSecret, err := GenerateJWT(1, "a@x.com", "customer", "wrong_secret", time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "invalid.token.here"},
		{"expired token", expired},
		{"wrong secret", otherSecret},
		{"alg none", unsigned},
		{"appended bytes", valid + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseJWT(tt.token, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestParseJWT_SignatureByteFlip(t *testing.T) {
	token, err := GenerateJWT(7, "flip@x.com", "customer", testSecret, time.Hour)
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	sigStart := strings.LastIndex(token, ".") + 1
	// Change every byte of the signature in turn. Flipping bit 4 of the
	// sextet keeps it inside the alphabet and never lands on padding bits.
	for i := sigStart; i < len(token); i++ {
		b := []byte(token)
		v := strings.IndexByte(alphabet, b[i])
		require.GreaterOrEqual(t, v, 0)
		b[i] = alphabet[v^0x10]
		_, err := ParseJWT(string(b), testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}
