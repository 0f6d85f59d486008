// Package token issues and verifies the signed action tokens handed to host
// pages with each widget session. An action request without a token minted
// for that session is rejected, so hosts cannot trigger actions on sessions
// they do not own.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "proxyauth/pkg/domain-errors"
	pstrings "proxyauth/pkg/platform/strings"

	"proxyauth/internal/widget/models"
)

// ActionClaims are the JWT claims carried by a widget action token.
type ActionClaims struct {
	SessionID string   `json:"session_id"`
	EmbedType string   `json:"embed_type"`
	Actions   []string `json:"actions,omitempty"`
	jwt.RegisteredClaims
}

// AllowsAction reports whether the token covers a named action.
func (c *ActionClaims) AllowsAction(name string) bool {
	for _, a := range c.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// Signer creates and validates action tokens.
type Signer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewSigner creates a signer. TTL bounds how long a session's action token
// stays usable.
func NewSigner(signingKey, issuer string, ttl time.Duration) *Signer {
	return &Signer{signingKey: []byte(signingKey), issuer: issuer, ttl: ttl}
}

// Sign mints a token for the given session covering the listed actions.
func (s *Signer) Sign(sessionID string, embedType models.Type, actions []string) (string, error) {
	now := time.Now()
	claims := &ActionClaims{
		SessionID: sessionID,
		EmbedType: embedType.String(),
		Actions:   pstrings.DedupeAndTrim(actions),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign action token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *Signer) Verify(raw string) (*ActionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &ActionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "action token expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid action token")
	}
	claims, ok := parsed.Claims.(*ActionClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid action token")
	}
	return claims, nil
}
