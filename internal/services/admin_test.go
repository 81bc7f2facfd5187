package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ishow/feedback-backend/pkg/utils"
	"github.com/redis/go-redis/v9"
)

func TestAdminAuthPlainSecret(t *testing.T) {
	auth := NewAdminAuth("s3cret-key")
	tests := []struct {
		key  string
		want error
	}{
		{"s3cret-key", nil},
		{"wrong", ErrUnauthorized},
		{"s3cret-key ", ErrUnauthorized},
		{"", ErrMissingKey},
	}
	for _, tt := range tests {
		if err := auth.Check(tt.key); !errors.Is(err, tt.want) {
			t.Errorf("Check(%q) = %v, want %v", tt.key, err, tt.want)
		}
	}
}

func TestAdminAuthHashedSecret(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-key")
	if err != nil {
		t.Fatal(err)
	}
	auth := NewAdminAuth(hash)
	if err := auth.Check("s3cret-key"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := auth.Check(hash); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("the hash itself must not authenticate, got %v", err)
	}
}

func TestAdminAuthWithoutSecret(t *testing.T) {
	if err := NewAdminAuth("").Check("anything"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized with no secret configured, got %v", err)
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestAdminSessions(t *testing.T) {
	mr, client := newTestRedis(t)
	sessions := NewAdminSessions(client)
	ctx := context.Background()

	token, err := sessions.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if ttl := mr.TTL(AdminSessionKeyPrefix + token); ttl != AdminSessionDuration {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	ok, err := sessions.Validate(ctx, token)
	if err != nil || !ok {
		t.Fatalf("fresh token must validate: ok=%v err=%v", ok, err)
	}
	if ok, _ := sessions.Validate(ctx, "forged"); ok {
		t.Fatal("unknown token must not validate")
	}
	if ok, _ := sessions.Validate(ctx, ""); ok {
		t.Fatal("empty token must not validate")
	}

	if err := sessions.Invalidate(ctx, token); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if ok, _ := sessions.Validate(ctx, token); ok {
		t.Fatal("invalidated token must not validate")
	}
}

func TestAdminSessionsExpire(t *testing.T) {
	mr, client := newTestRedis(t)
	sessions := NewAdminSessions(client)
	ctx := context.Background()

	token, err := sessions.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(AdminSessionDuration + time.Second)
	if ok, _ := sessions.Validate(ctx, token); ok {
		t.Fatal("expired token must not validate")
	}
}
