// Package security contains everything related to passcodes and session tokens
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const sessionIDSize = 32

var ErrTokenInvalid = errors.New("session token invalid")

// NewSessionID returns a random opaque session identifier
func NewSessionID() (string, error) {
	return gonanoid.New(sessionIDSize)
}

// SessionSigner wraps session IDs into HS256 signed tokens so cookies can
// be rejected before they ever hit the store. Expiry is decided by the
// stored session, not by the token
type SessionSigner struct {
	secret []byte
}

func NewSessionSigner(secret string) (*SessionSigner, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 characters long")
	}

	return &SessionSigner{secret: []byte(secret)}, nil
}

func (s *SessionSigner) Sign(sessionID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":  sessionID,
		"type": "session",
		"iat":  time.Now().Unix(),
	})

	return t.SignedString(s.secret)
}

// Parse verifies the token and returns the session ID it carries
func (s *SessionSigner) Parse(token string) (string, error) {
	t, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w, %w", ErrTokenInvalid, err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return "", ErrTokenInvalid
	}

	if typ, _ := claims["type"].(string); typ != "session" {
		return "", ErrTokenInvalid
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrTokenInvalid
	}

	return sid, nil
}
