// Package auth answers one question for the save gate: is the caller signed
// in? Tokens are HS256 JWTs issued by the hosted auth provider.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken       = errors.New("no bearer token")
	ErrNotConfigured = errors.New("auth not configured")
)

// Checker reports who, if anyone, is signed in on a request.
type Checker interface {
	SignedIn(r *http.Request) (subject string, err error)
}

// JWTChecker verifies HS256 bearer tokens with a shared secret.
type JWTChecker struct {
	secret []byte
}

// NewJWTChecker returns a checker. An empty secret treats every caller as
// signed out.
func NewJWTChecker(secret string) *JWTChecker {
	return &JWTChecker{secret: []byte(secret)}
}

func (c *JWTChecker) SignedIn(r *http.Request) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNotConfigured
	}
	raw, ok := bearerToken(r)
	if !ok {
		return "", ErrNoToken
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
