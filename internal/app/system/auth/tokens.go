// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes.
const (
	DefaultAccessExpiry  = 7 * 24 * time.Hour
	DefaultRefreshExpiry = 30 * 24 * time.Hour
)

// ErrInvalidToken is returned when a token fails parsing, signature
// verification, or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the application JWT claims. Role is a snapshot taken at
// issue time; it is refreshed when the user next logs in.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates application JWTs (HS256). Access
// and refresh tokens use separate secrets so a leaked refresh secret
// cannot mint access tokens and vice versa.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenManager builds a TokenManager. Zero expiries fall back to the
// package defaults (7 days access, 30 days refresh).
func NewTokenManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	if accessExpiry <= 0 {
		accessExpiry = DefaultAccessExpiry
	}
	if refreshExpiry <= 0 {
		refreshExpiry = DefaultRefreshExpiry
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Generate issues an access token for the user.
func (tm *TokenManager) Generate(userID, email, name, role string) (string, error) {
	return tm.sign(userID, email, name, role, tm.accessSecret, tm.accessExpiry)
}

// GenerateRefresh issues a refresh token for the user.
func (tm *TokenManager) GenerateRefresh(userID, email, name, role string) (string, error) {
	return tm.sign(userID, email, name, role, tm.refreshSecret, tm.refreshExpiry)
}

// Validate parses and verifies an access token.
func (tm *TokenManager) Validate(token string) (*Claims, error) {
	return tm.parse(token, tm.accessSecret)
}

// ValidateRefresh parses and verifies a refresh token.
func (tm *TokenManager) ValidateRefresh(token string) (*Claims, error) {
	return tm.parse(token, tm.refreshSecret)
}

func (tm *TokenManager) sign(userID, email, name, role string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (tm *TokenManager) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
