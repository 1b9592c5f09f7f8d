package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planes-utils/flightnoise/internal/common"
)

func TestClaimsHasScope(t *testing.T) {
	admin := FromAccessToken(&common.AccessToken{Subject: "ops", Scope: common.ScopeAdmin, ExpiresAt: time.Now()})
	read := FromAccessToken(&common.AccessToken{Subject: "dash", Scope: common.ScopeRead})

	assert.True(t, admin.HasScope(common.ScopeRead))
	assert.True(t, admin.HasScope(common.ScopeAdmin))
	assert.True(t, read.HasScope(common.ScopeRead))
	assert.False(t, read.HasScope(common.ScopeAdmin))

	var none *Claims
	assert.False(t, none.HasScope(common.ScopeRead))
	assert.Nil(t, FromAccessToken(nil))
}

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetClaims(ctx))
	assert.Empty(t, GetRequestID(ctx))

	ctx = SetClaims(ctx, &Claims{Subject: "ops", Scope: common.ScopeAdmin})
	ctx = SetRequestID(ctx, "req-1")

	claims := GetClaims(ctx)
	require.NotNil(t, claims)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "JWT", claims.Source())
	assert.Equal(t, "req-1", GetRequestID(ctx))
}
