package ports

import (
	"context"
	"time"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// UserUpdate carries the admin-editable user fields; nil pointers leave
// the field untouched.
type UserUpdate struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Disabled  *bool
}

// UserRepository defines persistence operations on the users collection,
// wishlist included (it is embedded in the user document).
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Search matches firstname, lastname or email case-insensitively;
	// empty search returns everyone.
	Search(ctx context.Context, search string) ([]domain.User, error)
	UpdateFields(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Delete(ctx context.Context, id string) error

	SetVerified(ctx context.Context, email string) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// Names resolves user ids to "Firstname Lastname" display names.
	// Unknown ids are simply absent from the result.
	Names(ctx context.Context, ids []string) (map[string]string, error)

	AddWishlistItem(ctx context.Context, userID, listingID string) error
	RemoveWishlistItem(ctx context.Context, userID, listingID string) error
	GetWishlist(ctx context.Context, userID string) ([]string, error)
}
