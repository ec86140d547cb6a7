package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

// The signing key arrives via SetJWTSecret after config is loaded, which
// may be well after package init (a .env file is one such source). Tokens
// signed with that key must verify.
func TestParseTokenUsesInjectedSecret(t *testing.T) {
	SetJWTSecret("secret-from-dotenv")
	defer SetJWTSecret("")

	signed := signToken(t, "secret-from-dotenv", jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := parseToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", claims["user_id"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("current-secret")
	defer SetJWTSecret("")

	signed := signToken(t, "some-other-secret", jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := parseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsNonHMAC(t *testing.T) {
	SetJWTSecret("current-secret")
	defer SetJWTSecret("")

	// alg=none must never be accepted.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u-1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = parseToken(signed)
	assert.Error(t, err)
}
