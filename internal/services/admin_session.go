package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// AdminSessionDuration is 7 days
	AdminSessionDuration = 7 * 24 * time.Hour
	// AdminSessionKeyPrefix is the Redis key prefix for admin sessions
	AdminSessionKeyPrefix = "admin_session:"
)

// AdminSessions issues opaque admin tokens and keeps them in Redis.
type AdminSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAdminSessions(client *redis.Client) *AdminSessions {
	return &AdminSessions{client: client, ttl: AdminSessionDuration}
}

// Create stores a new session token valid for AdminSessionDuration.
func (s *AdminSessions) Create(ctx context.Context) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.RawURLEncoding.EncodeToString(tokenBytes)

	issuedAt := time.Now().UTC().Format(time.RFC3339)
	if err := s.client.Set(ctx, AdminSessionKeyPrefix+sessionToken, issuedAt, s.ttl).Err(); err != nil {
		return "", err
	}
	return sessionToken, nil
}

// Validate reports whether the token belongs to a live session.
func (s *AdminSessions) Validate(ctx context.Context, sessionToken string) (bool, error) {
	if sessionToken == "" {
		return false, nil
	}
	err := s.client.Get(ctx, AdminSessionKeyPrefix+sessionToken).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate removes a session. Unknown tokens are ignored.
func (s *AdminSessions) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return s.client.Del(ctx, AdminSessionKeyPrefix+sessionToken).Err()
}
