// Package session issues and resolves the signed session cookie that carries
// the authenticated user id between requests.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"warbler/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie the session token travels in.
const CookieName = "warbler_session"

// TTL is how long an issued session stays valid.
const TTL = 7 * 24 * time.Hour

// Manager signs and verifies session tokens. Revoked token ids are kept in
// redis until the token would have expired anyway; with no redis client
// configured, Revoke is a no-op and sessions expire naturally.
type Manager struct {
	secret []byte
	redis  *redis.Client
}

// NewManager returns a Manager signing with the given secret.
func NewManager(secret string, rdb *redis.Client) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret not configured")
	}
	return &Manager{secret: []byte(secret), redis: rdb}, nil
}

// Issue creates a signed token for the given user.
func (m *Manager) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "warbler-api",
		"aud": "warbler-client",
		"exp": now.Add(TTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Resolve verifies the token and returns the user id it was issued for.
// Expired, malformed, tampered, and revoked tokens all resolve to (0, false).
func (m *Manager) Resolve(ctx context.Context, tokenString string) (uint, bool) {
	if tokenString == "" {
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	if m.revoked(ctx, claims) {
		return 0, false
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}
	return uint(userID), true
}

// Revoke invalidates the token ahead of its expiry by denylisting its jti.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	if m.redis == nil {
		return nil
	}
	if _, ok := m.Resolve(ctx, tokenString); !ok {
		return nil
	}

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims := token.Claims.(jwt.MapClaims)
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	ttl := TTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if remaining := time.Until(exp.Time); remaining > 0 {
			ttl = remaining
		}
	}

	if err := m.redis.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("session_revoke").Inc()
		return err
	}
	return nil
}

func (m *Manager) revoked(ctx context.Context, claims jwt.MapClaims) bool {
	if m.redis == nil {
		return false
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return false
	}
	n, err := m.redis.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		// Redis being down must not lock everyone out.
		middleware.RedisErrors.WithLabelValues("session_check").Inc()
		return false
	}
	return n > 0
}

func revocationKey(jti string) string {
	return fmt.Sprintf("session_revoked:%s", jti)
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
