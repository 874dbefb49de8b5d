package domain

import (
	"errors"
	"time"
)

// Token roles. RoleLogin is issued on a normal login, RoleAdmin when the
// configured admin account signs in, and RoleVerify only for the e-mail
// verification flow; a verify token is never valid for API access.
const (
	RoleAdmin  = "admin"
	RoleLogin  = "login"
	RoleVerify = "verify"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDisabled = errors.New("account disabled")
var ErrAccountNotVerified = errors.New("account not verified")
var ErrAlreadyVerified = errors.New("account already verified")
var ErrForbidden = errors.New("access forbidden")

var ErrCartNotFound = errors.New("cart not found")
var ErrEmptyCart = errors.New("cart is empty")
var ErrItemNotInCart = errors.New("item not in cart")

// CartLine is a (listing, quantity) pair held by a buyer. A user's cart
// contains at most one line per item id; adds merge into the existing line.
type CartLine struct {
	ItemID   string `json:"itemID" bson:"itemID"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// User is a marketplace account. Cart and Wishlist are embedded in the
// user document; the checkout flow only ever writes the cart field.
type User struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	Firstname        string     `json:"firstname" bson:"firstname"`
	Lastname         string     `json:"lastname" bson:"lastname"`
	Email            string     `json:"email" bson:"email"`
	PasswordHash     string     `json:"-" bson:"password"`
	Verified         bool       `json:"verified" bson:"verified"`
	Disabled         bool       `json:"disabled" bson:"disabled"`
	RegistrationDate time.Time  `json:"registrationDate" bson:"registrationDate"`
	LastLogin        time.Time  `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	Cart             []CartLine `json:"cart" bson:"cart"`
	Wishlist         []string   `json:"wishlist" bson:"wishlist"`
}

// DisplayName is the "Firstname Lastname" form used on orders and reviews.
func (u *User) DisplayName() string {
	return u.Firstname + " " + u.Lastname
}
