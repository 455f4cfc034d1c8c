package model

import "github.com/golang-jwt/jwt/v5"

// TokenTypeRefresh marks refresh tokens; access tokens carry no type claim.
const TokenTypeRefresh = "refresh"

type AppClaims struct {
	UserID int    `json:"userId"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}
