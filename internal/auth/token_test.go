package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:   "test-secret-at-least-32-characters!!",
		Issuer:   "blog-api",
		Audience: "blog-api-clients",
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testConfig(), nil)

	token, err := m.Issue(42)
	require.NoError(t, err)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.NotEmpty(t, claims.ID)
	assert.Nil(t, claims.ExpiresAt, "zero TTL must not set exp")
}

func TestIssue_WithTTLSetsExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = time.Hour
	m := NewTokenManager(cfg, nil)

	token, err := m.Issue(1)
	require.NoError(t, err)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParse_Rejects(t *testing.T) {
	m := NewTokenManager(testConfig(), nil)
	good, err := m.Issue(7)
	require.NoError(t, err)

	otherSecret := testConfig()
	otherSecret.Secret = "another-secret-that-is-long-enough!!"
	forged, err := NewTokenManager(otherSecret, nil).Issue(7)
	require.NoError(t, err)

	otherIssuer := testConfig()
	otherIssuer.Issuer = "someone-else"
	wrongIssuer, err := NewTokenManager(otherIssuer, nil).Issue(7)
	require.NoError(t, err)

	expiredCfg := testConfig()
	expiredCfg.TTL = time.Minute
	expiredManager := NewTokenManager(expiredCfg, nil)
	expiredManager.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredManager.Issue(7)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "7", "iss": "blog-api", "aud": "blog-api-clients",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"tampered", good + "x"},
		{"wrong secret", forged},
		{"wrong issuer", wrongIssuer},
		{"expired", expired},
		{"alg none", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRevoke(t *testing.T) {
	mr, client := newRedis(t)
	m := NewTokenManager(testConfig(), client)
	ctx := context.Background()

	token, err := m.Issue(3)
	require.NoError(t, err)
	claims, err := m.Parse(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))
	assert.True(t, mr.Exists("blacklist:"+claims.ID))

	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestRevoke_ExpiringTokenGetsTTL(t *testing.T) {
	mr, client := newRedis(t)
	cfg := testConfig()
	cfg.TTL = 2 * time.Hour
	m := NewTokenManager(cfg, client)
	ctx := context.Background()

	token, err := m.Issue(3)
	require.NoError(t, err)
	claims, err := m.Parse(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))
	ttl := mr.TTL("blacklist:" + claims.ID)
	assert.True(t, ttl > time.Hour && ttl <= 2*time.Hour, "ttl %v", ttl)
}

func TestRevoke_WithoutRedisIsNoop(t *testing.T) {
	m := NewTokenManager(testConfig(), nil)
	assert.NoError(t, m.Revoke(context.Background(), &Claims{}))
}
