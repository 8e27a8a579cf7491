package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when a bearer token fails validation
var ErrInvalidToken = errors.New("invalid admin token")

// AdminGate issues and validates bearer tokens for destructive operations
// (clearing collections, resetting the database). When no password hash is
// configured the gate is open: a single-user local deployment does not need
// the extra step.
type AdminGate struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

// NewAdminGate creates a gate from a bcrypt password hash and a signing
// secret. Either value empty disables the gate.
func NewAdminGate(passwordHash, secret string, ttl time.Duration) *AdminGate {
	if passwordHash == "" || secret == "" {
		return &AdminGate{}
	}
	return &AdminGate{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
	}
}

// Enabled reports whether destructive operations require a token
func (g *AdminGate) Enabled() bool {
	return len(g.secret) > 0
}

// Login verifies the password and issues a signed token
func (g *AdminGate) Login(password string) (string, error) {
	if !g.Enabled() {
		return "", errors.New("admin gate is not configured")
	}

	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return "", fmt.Errorf("password verification failed: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks a bearer token. Always succeeds when the gate is disabled.
func (g *AdminGate) Validate(tokenString string) error {
	if !g.Enabled() {
		return nil
	}
	if tokenString == "" {
		return ErrInvalidToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if claims.Subject != "admin" {
		return ErrInvalidToken
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
