package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/account"
	"github.com/coursehub/coursehub-api/internal/auth"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

// AuthUseCase implements registration, login and profile lookup.
type AuthUseCase struct {
	Logger      *logrus.Logger
	RUser       port.UserRepository
	REnrollment port.EnrollmentRepository
	Tokens      *auth.TokenService
}

// AuthResult is a user plus their signed token.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Profile is a user plus their enrollments.
type Profile struct {
	User        *domain.User         `json:"user"`
	Enrollments []*domain.Enrollment `json:"enrollments"`
}

// Register validates the input, creates the account and issues a token.
// A duplicate email surfaces as ErrConflict.
func (uc *AuthUseCase) Register(ctx context.Context, params account.NewAccountParams) (*AuthResult, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.register")
	defer span.Finish()

	span.SetTag("user.role", string(params.Role))

	user, err := account.New(params)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Registration input rejected", err, nil)
		return nil, err
	}

	// The insert relies on the unique email constraint; checking first and
	// inserting after would leave a race window.
	if err := uc.RUser.Create(ctx, user); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		if errors.Is(err, domain.ErrConflict) {
			logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Email already registered", err, nil)
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to create user", err, nil)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	span.SetTag("user.id", user.ID)

	token, err := uc.Tokens.Issue(user)
	if err != nil {
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to issue token", err, nil)
		return nil, err
	}

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "User registered", logrus.Fields{
		"user.id":   user.ID,
		"user.role": user.Role,
	})

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the email/password pair and issues a token. Both an
// unknown email and a wrong password produce the same ErrUnauthorized so
// the response never reveals which half was wrong.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.login")
	defer span.Finish()

	user, err := uc.RUser.FindByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		span.SetTag("login.success", false)
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Login failed", err, nil)
		return nil, domain.ErrUnauthorized
	}

	if !account.VerifyPassword(user.Password, password) {
		span.SetTag("login.success", false)
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Login failed", domain.ErrUnauthorized, nil)
		return nil, domain.ErrUnauthorized
	}

	token, err := uc.Tokens.Issue(user)
	if err != nil {
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to issue token", err, nil)
		return nil, err
	}

	span.SetTag("login.success", true)
	span.SetTag("user.id", user.ID)

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "User logged in", logrus.Fields{
		"user.id": user.ID,
	})

	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile loads a user with their enrollments.
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.get_profile")
	defer span.Finish()

	span.SetTag("user.id", userID)

	user, err := uc.RUser.FindByID(ctx, userID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	enrollments, err := uc.REnrollment.FindByUser(ctx, userID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to load enrollments", err, nil)
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	return &Profile{User: user, Enrollments: enrollments}, nil
}
