package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testTokens() TokenService {
	return TokenService{Secret: []byte("test-secret"), Issuer: "sheetstack", TTL: time.Hour}
}

func TestHashAndVerifyArgon2id(t *testing.T) {
	tokens := testTokens()
	hash, err := tokens.HashPassword("pw1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.True(t, tokens.VerifyPassword("pw1", hash))
	assert.False(t, tokens.VerifyPassword("pw2", hash))

	other, err := tokens.HashPassword("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts must differ")
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	digest, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := testTokens()
	assert.True(t, tokens.VerifyPassword("pw1", string(digest)))
	assert.False(t, tokens.VerifyPassword("nope", string(digest)))
}

func TestVerifyRejectsGarbageDigests(t *testing.T) {
	tokens := testTokens()
	assert.False(t, tokens.VerifyPassword("pw1", ""))
	assert.False(t, tokens.VerifyPassword("pw1", "pw1"))
	assert.False(t, tokens.VerifyPassword("pw1", "$argon2id$v=19$m=x$salt$key"))
}

func TestIssueAndParseToken(t *testing.T) {
	tokens := testTokens()
	signed, exp, err := tokens.IssueToken("u1", "a@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tokens.ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestParseExpiredToken(t *testing.T) {
	tokens := testTokens()
	tokens.TTL = -time.Minute
	signed, _, err := tokens.IssueToken("u1", "a@x.com")
	require.NoError(t, err)

	_, err = testTokens().ParseToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	tokens := testTokens()

	other := TokenService{Secret: []byte("other"), Issuer: "sheetstack", TTL: time.Hour}
	signed, _, err := other.IssueToken("u1", "a@x.com")
	require.NoError(t, err)
	_, err = tokens.ParseToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIssuer := TokenService{Secret: tokens.Secret, Issuer: "someone-else", TTL: time.Hour}
	signed, _, err = wrongIssuer.IssueToken("u1", "a@x.com")
	require.NoError(t, err)
	_, err = tokens.ParseToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, SessionClaims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sheetstack", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(tokens.Secret)
	require.NoError(t, err)
	_, err = tokens.ParseToken(hs384)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tokens.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
