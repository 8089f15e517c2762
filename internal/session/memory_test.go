package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCreateValidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(24 * time.Hour)

	token, err := m.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("create: expected non-empty token")
	}

	s, err := m.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if s.Username != "admin" {
		t.Errorf("username = %q, want %q", s.Username, "admin")
	}
}

func TestMemoryUnknownToken(t *testing.T) {
	m := NewMemory(24 * time.Hour)

	if _, err := m.Validate(context.Background(), "bogus"); err != ErrNoSession {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(24 * time.Hour)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, err := m.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// One minute before expiry: still valid.
	m.now = func() time.Time { return now.Add(23*time.Hour + 59*time.Minute) }
	if _, err := m.Validate(ctx, token); err != nil {
		t.Errorf("at T+23h59m: expected valid session, got %v", err)
	}

	// One minute past expiry: rejected and evicted.
	m.now = func() time.Time { return now.Add(24*time.Hour + time.Minute) }
	if _, err := m.Validate(ctx, token); err != ErrNoSession {
		t.Errorf("at T+24h01m: expected ErrNoSession, got %v", err)
	}

	// Evicted: rejected even if the clock rolls back.
	m.now = func() time.Time { return now }
	if _, err := m.Validate(ctx, token); err != ErrNoSession {
		t.Errorf("after eviction: expected ErrNoSession, got %v", err)
	}
}

func TestMemoryCreateSweepsExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(24 * time.Hour)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale, _ := m.Create(ctx, "admin")

	// A login two days later sweeps the stale session.
	m.now = func() time.Time { return now.Add(48 * time.Hour) }
	fresh, err := m.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	m.mu.Lock()
	_, staleExists := m.sessions[stale]
	_, freshExists := m.sessions[fresh]
	m.mu.Unlock()

	if staleExists {
		t.Error("expected stale session to be swept on create")
	}
	if !freshExists {
		t.Error("expected fresh session to exist")
	}
}

func TestMemoryRevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(24 * time.Hour)

	token, _ := m.Create(ctx, "admin")

	if err := m.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := m.Validate(ctx, token); err != ErrNoSession {
		t.Errorf("after revoke: expected ErrNoSession, got %v", err)
	}
	// Revoking twice is not an error.
	if err := m.Revoke(ctx, token); err != nil {
		t.Errorf("second revoke: %v", err)
	}
}
