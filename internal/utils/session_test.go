package utils

import (
	"errors"
	"testing"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, RoleGuest, 60)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	id, role, err := ParseSessionToken("test-secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if id != 42 || role != RoleGuest {
		t.Fatalf("got id=%d role=%q, want 42/GUEST", id, role)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret-a", 7, RoleStaff, 60)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, _, err := ParseSessionToken("secret-b", tok.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, _, err := ParseSessionToken("secret", raw); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("raw %q: expected ErrInvalidSession, got %v", raw, err)
		}
	}
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", 9, RoleGuest, -5)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, _, err := ParseSessionToken("secret", tok.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for expired token, got %v", err)
	}
}

func TestSessionTokenRoles(t *testing.T) {
	guestTok, _ := NewSessionToken("secret", 1, RoleGuest, 60)
	staffTok, _ := NewSessionToken("secret", 2, RoleStaff, 60)

	if _, role, _ := ParseSessionToken("secret", guestTok.Token); role != RoleGuest {
		t.Errorf("guest token role = %q", role)
	}
	if _, role, _ := ParseSessionToken("secret", staffTok.Token); role != RoleStaff {
		t.Errorf("staff token role = %q", role)
	}
}
