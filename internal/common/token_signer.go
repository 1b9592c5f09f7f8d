package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token scopes
const (
	ScopeRead  = "read"
	ScopeAdmin = "admin"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// AccessToken is a validated bearer token
type AccessToken struct {
	Subject   string
	Scope     string
	TokenID   string
	ExpiresAt time.Time
}

type accessClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenSignerService issues and validates HS256 bearer tokens for the API.
// Revoked token IDs are kept in the cache until the token would expire.
type TokenSignerService struct {
	secretKey []byte
	cache     CacheInterface
	now       func() time.Time
}

func NewTokenSignerService(secretKey []byte, cache CacheInterface) *TokenSignerService {
	return &TokenSignerService{
		secretKey: secretKey,
		cache:     cache,
		now:       time.Now,
	}
}

// Issue signs a token for subject with the given scope.
func (s *TokenSignerService) Issue(subject, scope string, ttl time.Duration) (string, *AccessToken, error) {
	if len(s.secretKey) == 0 {
		return "", nil, errors.New("token secret is not configured")
	}
	if scope != ScopeRead && scope != ScopeAdmin {
		return "", nil, fmt.Errorf("unknown scope %q", scope)
	}

	now := s.now()
	tok := &AccessToken{
		Subject:   subject,
		Scope:     scope,
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(ttl),
	}

	claims := accessClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        tok.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(tok.ExpiresAt),
			Issuer:    "flightnoise",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, tok, nil
}

// Validate parses tokenString and rejects expired or revoked tokens.
func (s *TokenSignerService) Validate(tokenString string) (*AccessToken, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer("flightnoise"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	if s.cache != nil {
		if _, revoked := s.cache.Get(revokedKey(claims.ID)); revoked {
			return nil, ErrTokenRevoked
		}
	}

	return &AccessToken{
		Subject:   claims.Subject,
		Scope:     claims.Scope,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blocks a token until its expiry.
func (s *TokenSignerService) Revoke(tok *AccessToken) {
	if s.cache == nil || tok == nil {
		return
	}
	ttl := tok.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	s.cache.Set(revokedKey(tok.TokenID), true, ttl)
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
