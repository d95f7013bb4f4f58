package account

import (
	"errors"
	"strings"
	"testing"

	"github.com/coursehub/coursehub-api/internal/domain"
)

func validParams() NewAccountParams {
	return NewAccountParams{
		Email:    "student@example.com",
		Password: "password123",
		Name:     "Alex Student",
	}
}

func TestNewDefaults(t *testing.T) {
	user, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}

	if user.ID == "" {
		t.Error("expected generated ID")
	}
	if user.Role != domain.RoleStudent {
		t.Errorf("Role = %q, want default STUDENT", user.Role)
	}
	if user.Avatar == "" {
		t.Error("expected default avatar")
	}
	if user.Password == "password123" {
		t.Error("password must be stored as a hash, not plaintext")
	}
}

func TestNewValidationOrder(t *testing.T) {
	// Rules apply in a fixed order; an input violating several rules
	// reports the first one.
	params := NewAccountParams{
		Email:    "not-an-email",
		Password: "short",
		Name:     "A",
	}
	_, err := New(params)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("err = %v, want the email rule to fire first", err)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewAccountParams)
		errHas string
	}{
		{
			name:   "malformed email",
			mutate: func(p *NewAccountParams) { p.Email = "user@nodot" },
			errHas: "email",
		},
		{
			name:   "email with spaces",
			mutate: func(p *NewAccountParams) { p.Email = "user name@example.com" },
			errHas: "email",
		},
		{
			name:   "password too short",
			mutate: func(p *NewAccountParams) { p.Password = "1234567" },
			errHas: "password",
		},
		{
			name:   "name too short",
			mutate: func(p *NewAccountParams) { p.Name = " A " },
			errHas: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := New(params)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.errHas) {
				t.Errorf("err = %v, want mention of %q", err, tt.errHas)
			}
		})
	}
}

func TestInstructorBioGate(t *testing.T) {
	shortBio := strings.Repeat("x", 49)
	longBio := strings.Repeat("x", 50)

	params := validParams()
	params.Role = domain.RoleInstructor
	params.Bio = shortBio
	if _, err := New(params); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("49-char bio: err = %v, want ErrValidation", err)
	}

	params.Bio = longBio
	user, err := New(params)
	if err != nil {
		t.Fatalf("50-char bio rejected: %v", err)
	}
	if user.Role != domain.RoleInstructor {
		t.Errorf("Role = %q, want INSTRUCTOR", user.Role)
	}

	// Students have no bio requirement.
	params = validParams()
	params.Bio = ""
	if _, err := New(params); err != nil {
		t.Errorf("student without bio rejected: %v", err)
	}
}

func TestNewNormalizesEmail(t *testing.T) {
	params := validParams()
	params.Email = "  Student@Example.COM "

	user, err := New(params)
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "student@example.com" {
		t.Errorf("Email = %q, want normalized form", user.Email)
	}
}

func TestVerifyPassword(t *testing.T) {
	user, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}

	if !VerifyPassword(user.Password, "password123") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(user.Password, "password124") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword(user.Password, "") {
		t.Error("empty password accepted")
	}
}

func TestCustomAvatarKept(t *testing.T) {
	params := validParams()
	params.Avatar = "https://example.com/me.png"

	user, err := New(params)
	if err != nil {
		t.Fatal(err)
	}
	if user.Avatar != params.Avatar {
		t.Errorf("Avatar = %q, want the provided one", user.Avatar)
	}
}
