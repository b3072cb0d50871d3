package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/coined/internal/model"
)

// ErrOpaque is returned for credentials that are not JWTs.
var ErrOpaque = errors.New("credential is not a jwt")

// Claims mirrors what the remote service puts into session tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Inspector reads session token claims without checking the signature.
// The client never holds the signing secret, so the remote gateway stays
// the only authority on validity; the inspector only spots tokens that
// are already past their expiry.
type Inspector struct {
	parser *jwt.Parser
}

var _ model.TokenInspector = (*Inspector)(nil)

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

// Inspect extracts the subject and expiry of tokenString.
func (i *Inspector) Inspect(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	_, _, err := i.parser.ParseUnverified(tokenString, claims)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrOpaque, err)
	}

	out := model.TokenClaims{Subject: claims.Subject}
	if out.Subject == "" {
		out.Subject = claims.UserID
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether claims carry an expiry that is before now.
func Expired(claims model.TokenClaims, now time.Time) bool {
	return !claims.ExpiresAt.IsZero() && !now.Before(claims.ExpiresAt)
}
