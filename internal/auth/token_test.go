package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/coursehub/coursehub-api/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "student@example.com",
		Role:  domain.RoleStudent,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != string(domain.RoleStudent) {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Verify(%q): err = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Millisecond)

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized for expired token", err)
	}
}

func TestZeroTTLIssuesWithoutExpiry(t *testing.T) {
	svc := NewTokenService("test-secret", 0)

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want none for ttl 0", claims.ExpiresAt)
	}
}
