package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates operator session tokens. There is a single
// operator identity whose bcrypt password hash lives in configuration; no
// user table is involved.
type AuthService struct {
	passwordHash []byte
	signingKey   []byte
	tokenTTL     time.Duration
}

// TokenClaims is the payload carried by operator session tokens.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAuthService validates the configured credentials and constructs the service.
func NewAuthService(passwordHash, jwtSecret string, tokenTTL time.Duration) (*AuthService, error) {
	if passwordHash == "" {
		return nil, errors.New("admin password hash is required")
	}
	if jwtSecret == "" {
		return nil, errors.New("admin jwt secret is required")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &AuthService{
		passwordHash: []byte(passwordHash),
		signingKey:   []byte(jwtSecret),
		tokenTTL:     tokenTTL,
	}, nil
}

// CheckPassword reports whether password matches the configured hash.
func (s *AuthService) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}

// IssueToken creates a signed session token.
func (s *AuthService) IssueToken() (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// TokenTTL exposes the session lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
