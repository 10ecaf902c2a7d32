// Package auth holds the customer session's authentication state. Tokens are
// issued by the backend; this side only verifies and reads them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the customer identity claims carried in the bearer token.
type Claims struct {
	UserID string `json:"user_id"`
	Mobile string `json:"mobile"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens against the shared signing secret.
type Verifier struct {
	secretKey []byte
}

func NewVerifier(secretKey string) *Verifier {
	return &Verifier{secretKey: []byte(secretKey)}
}

// Parse validates a token string and returns its claims.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Generate mints a token for the given user. Used by tests and local
// development; production tokens come from the backend's login flow.
func (v *Verifier) Generate(userID, mobile string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Mobile: mobile,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Session is the per-request authentication state. A guest session has no
// claims and no token; guest checkout is permitted, split billing is not.
type Session struct {
	token  string
	claims *Claims
}

// Guest returns an unauthenticated session.
func Guest() *Session {
	return &Session{}
}

// SessionFromToken builds a session from a raw bearer token. An empty token
// yields a guest session; an invalid token also degrades to guest so an
// expired login behaves like no login.
func (v *Verifier) SessionFromToken(tokenString string) *Session {
	if tokenString == "" {
		return Guest()
	}
	claims, err := v.Parse(tokenString)
	if err != nil {
		return Guest()
	}
	return &Session{token: tokenString, claims: claims}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.claims != nil
}

func (s *Session) UserID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.claims.UserID
}

// BearerToken returns the raw token, empty for guests.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.token
}
