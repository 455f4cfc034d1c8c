// file: service/token_service_test.go

package service

import (
	"go-auth-api/config"
	"go-auth-api/logger"
	"go-auth-api/model"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:        "test-secret",
		AccessTokenTTL:   "15m",
		RefreshTokenDays: 30,
	}
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokenService(testJWTConfig())
	assert.NoError(t, err)

	tokenString, err := tokens.IssueAccessToken(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := tokens.Verify(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	// Access tokens carry no type claim.
	assert.Empty(t, claims.Type)
}

func TestTokenService_RefreshTokenCarriesType(t *testing.T) {
	tokens, err := NewTokenService(testJWTConfig())
	assert.NoError(t, err)

	tokenString, err := tokens.IssueRefreshToken(7)
	assert.NoError(t, err)

	claims, err := tokens.Verify(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, model.TokenTypeRefresh, claims.Type)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = "-1m" // already expired when issued
	tokens, err := NewTokenService(cfg)
	assert.NoError(t, err)

	tokenString, err := tokens.IssueAccessToken(1)
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	tokens, err := NewTokenService(testJWTConfig())
	assert.NoError(t, err)

	other := testJWTConfig()
	other.SecretKey = "a-different-secret"
	otherTokens, err := NewTokenService(other)
	assert.NoError(t, err)

	tokenString, err := tokens.IssueAccessToken(1)
	assert.NoError(t, err)

	_, err = otherTokens.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	tokens, err := NewTokenService(testJWTConfig())
	assert.NoError(t, err)

	_, err = tokens.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenService_InvalidTTL(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = "soon"

	_, err := NewTokenService(cfg)
	assert.Error(t, err)
}
