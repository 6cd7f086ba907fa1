package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-signing-secret-0123456789abcdef"

func TestNewProvider_RejectsShortSecret(t *testing.T) {
	if _, err := NewProvider("too-short", time.Hour); err == nil {
		t.Fatal("NewProvider() accepted a secret shorter than 32 bytes")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	p, err := NewProvider(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	roles := []string{"ADMIN", "USER"}
	signed, err := p.Issue("alice", "user-1", roles)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := p.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", claims.Subject)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "ADMIN" || claims.Roles[1] != "USER" {
		t.Errorf("Roles = %v, want %v", claims.Roles, roles)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	p, _ := NewProvider(testSecret, time.Hour)
	p.ttl = -time.Minute // force an already-expired token

	signed, err := p.Issue("alice", "user-1", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := p.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	p, _ := NewProvider(testSecret, time.Hour)
	signed, _ := p.Issue("alice", "user-1", nil)

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", signed)
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	if _, err := p.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	p1, _ := NewProvider(testSecret, time.Hour)
	p2, _ := NewProvider("another-signing-secret-0123456789abcdef!", time.Hour)

	signed, _ := p1.Issue("alice", "user-1", nil)
	if _, err := p2.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	p, _ := NewProvider(testSecret, time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := p.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestExtractors_MatchVerify(t *testing.T) {
	p, _ := NewProvider(testSecret, time.Hour)
	signed, _ := p.Issue("bob", "user-2", []string{"USER"})

	sub, err := p.ExtractSubject(signed)
	if err != nil || sub != "bob" {
		t.Errorf("ExtractSubject() = %q, %v, want bob, nil", sub, err)
	}

	roles, err := p.ExtractRoles(signed)
	if err != nil || len(roles) != 1 || roles[0] != "USER" {
		t.Errorf("ExtractRoles() = %v, %v, want [USER], nil", roles, err)
	}

	// Extractors fail exactly like Verify on invalid input.
	if _, err := p.ExtractSubject("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ExtractSubject(garbage) error = %v, want ErrInvalidToken", err)
	}
	if _, err := p.ExtractRoles("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ExtractRoles(garbage) error = %v, want ErrInvalidToken", err)
	}
}
