package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// AuthService implements registration, login and e-mail verification.
//
// There is no role field on the user document: the admin role is granted at
// login time when the account's e-mail matches the configured admin
// address. Verification tokens carry the verify role and are rejected by
// the auth middleware for regular API access.
type AuthService struct {
	users      ports.UserRepository
	jwtSecret  string
	adminEmail string
	tokenTTL   time.Duration
	log        zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret, adminEmail string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, adminEmail: adminEmail, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !user.Verified {
		return "", nil, domain.ErrAccountNotVerified
	}
	if user.Disabled {
		return "", nil, domain.ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	role := domain.RoleLogin
	if s.adminEmail != "" && email == s.adminEmail {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}
	user.LastLogin = now

	token, err := s.signToken(jwt.MapClaims{
		"userID":    user.ID,
		"firstname": user.Firstname,
		"lastname":  user.Lastname,
		"email":     user.Email,
		"role":      role,
		"exp":       now.Add(s.tokenTTL).Unix(),
	})
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("login succeeded")
	return token, user, nil
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	if input.Email == "" || input.Password == "" || input.Firstname == "" || input.Lastname == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, "", domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Firstname:        input.Firstname,
		Lastname:         input.Lastname,
		Email:            input.Email,
		PasswordHash:     string(hash),
		Verified:         false,
		Disabled:         false,
		RegistrationDate: time.Now().UTC(),
		Cart:             []domain.CartLine{},
		Wishlist:         []string{},
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	// Verification tokens have no expiry so the link never goes stale.
	// Mail delivery is out of scope; the token is surfaced to the caller
	// and logged so the verification link can be followed manually.
	verifyToken, err := s.signToken(jwt.MapClaims{
		"email": created.Email,
		"role":  domain.RoleVerify,
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("account registered, verification pending")
	return created, verifyToken, nil
}

// Verify consumes a verification token and marks the account verified.
// Returns the verified e-mail address.
func (s *AuthService) Verify(ctx context.Context, token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidCredentials
	}

	role, _ := claims["role"].(string)
	if role != domain.RoleVerify {
		return "", domain.ErrInvalidCredentials
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.Verified {
		return "", domain.ErrAlreadyVerified
	}

	if err := s.users.SetVerified(ctx, email); err != nil {
		return "", fmt.Errorf("set verified: %w", err)
	}

	s.log.Info().Str("email", email).Msg("account verified")
	return email, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile changes name or e-mail after re-checking the password.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ports.UserUpdate, currentPassword string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if update.Email != nil && *update.Email != user.Email {
		if existing, err := s.users.FindByEmail(ctx, *update.Email); err == nil && existing.ID != userID {
			return nil, domain.ErrUserExists
		}
	}

	update.Disabled = nil // not self-serviceable
	return s.users.UpdateFields(ctx, userID, update)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
