// Package auth issues, verifies and revokes the JWT session tokens handed out at login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

var (
	// ErrInvalidToken is returned for tokens that fail signature, claim or expiry checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrRevokedToken is returned for tokens whose jti was revoked at logout.
	ErrRevokedToken = errors.New("token has been revoked")
)

// Config carries the signing parameters. A zero TTL issues tokens without exp.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims are the registered claims carried by every session token.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

// TokenManager signs and verifies tokens. Revocation state lives in Redis;
// with a nil client tokens cannot be revoked.
type TokenManager struct {
	cfg   Config
	redis *redis.Client
	now   func() time.Time
}

// NewTokenManager creates a TokenManager. rdb may be nil.
func NewTokenManager(cfg Config, rdb *redis.Client) *TokenManager {
	return &TokenManager{cfg: cfg, redis: rdb, now: time.Now}
}

// Issue signs a new HS256 token for userID.
func (m *TokenManager) Issue(userID uint) (string, error) {
	if m.cfg.Secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(userID), 10),
			Issuer:   m.cfg.Issuer,
			Audience: jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}
	if m.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.cfg.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

// Parse verifies tokenString and checks it against the revocation list.
func (m *TokenManager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	if claims.ID != "" && m.redis != nil {
		revoked, err := m.redis.Exists(ctx, blacklistPrefix+claims.ID).Result()
		if err == nil && revoked > 0 {
			return nil, ErrRevokedToken
		}
	}

	return claims, nil
}

// Revoke blacklists the token's jti until the token would have expired.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return nil
		}
	}

	if err := m.redis.Set(ctx, blacklistPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
