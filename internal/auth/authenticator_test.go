package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func TestVerifyAcceptsAValidToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	userID, err := verifier.Verify(mintToken(t, testSecret, "u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestVerifyRejectsMissingToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	_, err := verifier.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyRejectsStructurallyInvalidJunkBeforeParsing(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	for _, junk := range []string{"not-a-token", "a.b", "a.b.c.d", "<script>"} {
		_, err := verifier.Verify(junk)
		assert.ErrorIs(t, err, ErrMalformedToken, "junk %q", junk)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	_, err := verifier.Verify(mintToken(t, "other-secret", "u1"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTokenWithoutUserID(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRefusesRevokedTokens(t *testing.T) {
	tokenString := mintToken(t, testSecret, "u1")
	authenticator := NewAuthenticator(
		NewTokenVerifier(testSecret),
		&fakeRevocations{revoked: map[string]bool{tokenString: true}},
	)

	_, err := authenticator.Authenticate(context.Background(), tokenString)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthenticatePassesUnrevokedTokens(t *testing.T) {
	authenticator := NewAuthenticator(
		NewTokenVerifier(testSecret),
		&fakeRevocations{},
	)

	userID, err := authenticator.Authenticate(context.Background(), mintToken(t, testSecret, "u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestAuthenticateSkipsRevocationForInvalidTokens(t *testing.T) {
	authenticator := NewAuthenticator(
		NewTokenVerifier(testSecret),
		&fakeRevocations{err: errors.New("should not be called")},
	)

	_, err := authenticator.Authenticate(context.Background(), "junk")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestAuthenticateFailsOpenWhenRevocationStoreIsDown(t *testing.T) {
	authenticator := NewAuthenticator(
		NewTokenVerifier(testSecret),
		&fakeRevocations{err: errors.New("connection refused")},
	)

	userID, err := authenticator.Authenticate(context.Background(), mintToken(t, testSecret, "u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}
