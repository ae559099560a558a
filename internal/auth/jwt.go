package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/utafrali/BackofficeGo/internal/domain"
)

// DefaultExpiryMinutes is used when the configured token expiry is unset or
// not a positive number.
const DefaultExpiryMinutes = 60

// Claims represents the JWT claims for an access token.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager handles access token generation and validation.
type JWTManager struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
}

// NewJWTManager creates a JWT manager. A non-positive expiryMinutes falls
// back to DefaultExpiryMinutes.
func NewJWTManager(secret, issuer, audience string, expiryMinutes int) *JWTManager {
	if expiryMinutes <= 0 {
		expiryMinutes = DefaultExpiryMinutes
	}
	return &JWTManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		expiry:   time.Duration(expiryMinutes) * time.Minute,
	}
}

// Issue creates a signed access token for the given user.
func (m *JWTManager) Issue(user *domain.User) (*domain.AuthToken, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(m.expiry)

	claims := &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &domain.AuthToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Validate parses and validates an access token, returning the claims.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}

	return claims, nil
}
