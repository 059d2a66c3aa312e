package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 7*24*time.Hour)

	token, err := issuer.Issue("user_123", "a@x.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}

	if claims.Subject != "user_123" {
		t.Errorf("expected subject user_123, got %q", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %q", claims.Email)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry claim to be set")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 6*24*time.Hour || ttl > 7*24*time.Hour {
		t.Errorf("expected roughly 7 day validity, got %v", ttl)
	}
}

func TestTokenIssuer_RejectsTamperedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user_123", "a@x.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := issuer.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-one", time.Hour)
	other := NewTokenIssuer("secret-two", time.Hour)

	token, err := issuer.Issue("user_123", "a@x.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user_123", "a@x.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q): expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
