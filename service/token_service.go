// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"go-auth-api/config"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// signing method, malformed token, or expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies signed bearer tokens. It holds no state
// beyond its immutable signing configuration; whether a refresh token is
// still the current one is decided against the store, not here.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a token service from the jwt config section.
func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	accessTTL, err := cfg.AccessTTL()
	if err != nil {
		return nil, fmt.Errorf("invalid access token ttl %q: %w", cfg.AccessTokenTTL, err)
	}
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  accessTTL,
		refreshTTL: cfg.RefreshTTL(),
	}, nil
}

// IssueAccessToken signs a short-lived token carrying the user id.
func (s *TokenService) IssueAccessToken(userID int) (string, error) {
	return s.sign(&model.AppClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// IssueRefreshToken signs a long-lived token carrying the user id and the
// refresh type claim.
func (s *TokenService) IssueRefreshToken(userID int) (string, error) {
	return s.sign(&model.AppClaims{
		UserID: userID,
		Type:   model.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (s *TokenService) sign(claims *model.AppClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// Verify parses a token and returns its claims, or ErrInvalidToken on any
// signature or expiry failure.
func (s *TokenService) Verify(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
