package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursehub/coursehub-api/internal/account"
	"github.com/coursehub/coursehub-api/internal/auth"
	"github.com/coursehub/coursehub-api/internal/domain"
)

func newAuthFixture() (*AuthUseCase, *fakeUserRepo) {
	users := newFakeUserRepo()
	uc := &AuthUseCase{
		Logger:      testLogger(),
		RUser:       users,
		REnrollment: newFakeEnrollmentRepo(),
		Tokens:      auth.NewTokenService("test-secret", time.Hour),
	}
	return uc, users
}

func registerParams() account.NewAccountParams {
	return account.NewAccountParams{
		Email:    "student@example.com",
		Password: "password123",
		Name:     "Alex Student",
	}
}

func TestRegister(t *testing.T) {
	uc, users := newAuthFixture()

	result, err := uc.Register(context.Background(), registerParams())
	if err != nil {
		t.Fatal(err)
	}

	if result.Token == "" {
		t.Error("expected signed token")
	}
	if result.User.Password == "password123" {
		t.Error("plaintext password leaked into the user record")
	}
	if len(users.created) != 1 {
		t.Errorf("created %d users, want 1", len(users.created))
	}

	claims, err := uc.Tokens.Verify(result.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("token UserID = %q, want %q", claims.UserID, result.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newAuthFixture()

	if _, err := uc.Register(context.Background(), registerParams()); err != nil {
		t.Fatal(err)
	}

	_, err := uc.Register(context.Background(), registerParams())
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	uc, users := newAuthFixture()

	params := registerParams()
	params.Password = "short"

	_, err := uc.Register(context.Background(), params)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if len(users.created) != 0 {
		t.Error("invalid registration must not persist a user")
	}
}

func TestLogin(t *testing.T) {
	uc, _ := newAuthFixture()

	registered, err := uc.Register(context.Background(), registerParams())
	if err != nil {
		t.Fatal(err)
	}

	result, err := uc.Login(context.Background(), "student@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if result.User.ID != registered.User.ID {
		t.Error("login resolved a different user")
	}
	if result.Token == "" {
		t.Error("expected signed token")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	uc, _ := newAuthFixture()
	if _, err := uc.Register(context.Background(), registerParams()); err != nil {
		t.Fatal(err)
	}

	if _, err := uc.Login(context.Background(), "  Student@Example.COM ", "password123"); err != nil {
		t.Errorf("case-insensitive login failed: %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	uc, _ := newAuthFixture()
	if _, err := uc.Register(context.Background(), registerParams()); err != nil {
		t.Fatal(err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := uc.Login(context.Background(), "nobody@example.com", "password123")
	_, wrongErr := uc.Login(context.Background(), "student@example.com", "wrong-password")

	if !errors.Is(unknownErr, domain.ErrUnauthorized) {
		t.Errorf("unknown email: err = %v, want ErrUnauthorized", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrUnauthorized) {
		t.Errorf("wrong password: err = %v, want ErrUnauthorized", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("error texts differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestGetProfile(t *testing.T) {
	uc, _ := newAuthFixture()

	registered, err := uc.Register(context.Background(), registerParams())
	if err != nil {
		t.Fatal(err)
	}

	profile, err := uc.GetProfile(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.User.ID != registered.User.ID {
		t.Error("profile resolved a different user")
	}

	_, err = uc.GetProfile(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
