package ports

import (
	"context"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// AuthService implements account registration, login and verification.
type AuthService interface {
	// Login validates credentials and returns a signed bearer token. The
	// account must be verified and not disabled.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Register creates an unverified account and returns it together with
	// the verification token that would be e-mailed to the user.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Verify marks the account in a verification token as verified.
	Verify(ctx context.Context, token string) (string, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update UserUpdate, currentPassword string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
