package auth

import (
	"time"

	"planes-utils/flightnoise/internal/common"
)

// Claims identifies the caller of an authenticated request.
type Claims struct {
	Subject   string
	Scope     string
	TokenID   string
	ExpiresAt time.Time
}

// FromAccessToken converts a validated token into request claims.
func FromAccessToken(tok *common.AccessToken) *Claims {
	if tok == nil {
		return nil
	}
	return &Claims{
		Subject:   tok.Subject,
		Scope:     tok.Scope,
		TokenID:   tok.TokenID,
		ExpiresAt: tok.ExpiresAt,
	}
}

func (c *Claims) Source() string { return "JWT" }

// HasScope reports whether the claims grant scope. Admin implies read.
func (c *Claims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	return c.Scope == scope || c.Scope == common.ScopeAdmin
}
