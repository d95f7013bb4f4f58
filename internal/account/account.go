// Package account builds validated user records for registration. Rules
// apply in a fixed order so the first failure always produces the same
// message; on success the email is normalized and the password is stored
// only as a bcrypt hash.
package account

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursehub/coursehub-api/internal/domain"
)

const (
	minPasswordLength = 8
	minNameLength     = 2
	minBioLength      = 50
	bcryptCost        = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewAccountParams is the registration input.
type NewAccountParams struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	Avatar   string
	Bio      string
}

var defaultAvatars = map[domain.Role]string{
	domain.RoleStudent:    "https://api.dicebear.com/7.x/avataaars/svg?seed=student",
	domain.RoleInstructor: "https://api.dicebear.com/7.x/avataaars/svg?seed=instructor",
	domain.RoleAdmin:      "https://api.dicebear.com/7.x/avataaars/svg?seed=admin",
}

// New validates params in order (email shape, password length, name length,
// then the instructor bio gate), normalizes the account fields and hashes
// the password. Validation failures wrap domain.ErrValidation.
func New(params NewAccountParams) (*domain.User, error) {
	if !emailPattern.MatchString(strings.TrimSpace(params.Email)) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrValidation)
	}
	if len(params.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, domain.ErrValidation)
	}
	name := strings.TrimSpace(params.Name)
	if len(name) < minNameLength {
		return nil, fmt.Errorf("name must be at least %d characters: %w", minNameLength, domain.ErrValidation)
	}

	role := params.Role
	if role == "" {
		role = domain.RoleStudent
	}

	bio := strings.TrimSpace(params.Bio)
	if role == domain.RoleInstructor && len(bio) < minBioLength {
		return nil, fmt.Errorf("instructor bio must be at least %d characters: %w", minBioLength, domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar := params.Avatar
	if avatar == "" {
		avatar = defaultAvatars[role]
	}

	return &domain.User{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(params.Email),
		Password:  string(hash),
		Name:      name,
		Role:      role,
		Avatar:    avatar,
		Bio:       bio,
		CreatedAt: time.Now(),
	}, nil
}

// NormalizeEmail lowercases and trims an email. Storage and lookup both go
// through this so "Foo@Bar.COM" and "foo@bar.com" locate the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyPassword reports whether password matches the stored hash. The hash
// is never compared by equality.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
