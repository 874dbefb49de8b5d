package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(usersCollection)}
}

// cartLineDoc stores the item reference as a real ObjectID, matching how
// the rest of the document model references listings.
type cartLineDoc struct {
	ItemID   primitive.ObjectID `bson:"itemID"`
	Quantity int                `bson:"quantity"`
}

type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Firstname        string             `bson:"firstname"`
	Lastname         string             `bson:"lastname"`
	Email            string             `bson:"email"`
	Password         string             `bson:"password"`
	Verified         bool               `bson:"verified"`
	Disabled         bool               `bson:"disabled"`
	RegistrationDate time.Time          `bson:"registrationDate"`
	LastLogin        time.Time          `bson:"lastLogin,omitempty"`
	Cart             []cartLineDoc      `bson:"cart"`
	Wishlist         []string           `bson:"wishlist"`
}

func (d *userDoc) toDomain() *domain.User {
	cart := make([]domain.CartLine, len(d.Cart))
	for i, l := range d.Cart {
		cart[i] = domain.CartLine{ItemID: l.ItemID.Hex(), Quantity: l.Quantity}
	}
	wishlist := d.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	return &domain.User{
		ID:               d.ID.Hex(),
		Firstname:        d.Firstname,
		Lastname:         d.Lastname,
		Email:            d.Email,
		PasswordHash:     d.Password,
		Verified:         d.Verified,
		Disabled:         d.Disabled,
		RegistrationDate: d.RegistrationDate,
		LastLogin:        d.LastLogin,
		Cart:             cart,
		Wishlist:         wishlist,
	}
}

func parseUserID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound
	}
	return oid, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		Firstname:        user.Firstname,
		Lastname:         user.Lastname,
		Email:            user.Email,
		Password:         user.PasswordHash,
		Verified:         user.Verified,
		Disabled:         user.Disabled,
		RegistrationDate: user.RegistrationDate,
		Cart:             []cartLineDoc{},
		Wishlist:         []string{},
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.Cart = []domain.CartLine{}
	created.Wishlist = []string{}
	return &created, nil
}

func (r *UserRepository) Search(ctx context.Context, search string) ([]domain.User, error) {
	filter := bson.M{}
	if search != "" {
		re := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"firstname": re},
			bson.M{"lastname": re},
			bson.M{"email": re},
		}
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, *doc.toDomain())
	}
	return users, cur.Err()
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	oid, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Firstname != nil {
		set["firstname"] = *update.Firstname
	}
	if update.Lastname != nil {
		set["lastname"] = *update.Lastname
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Disabled != nil {
		set["disabled"] = *update.Disabled
	}

	if len(set) > 0 {
		if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	oid, err := parseUserID(id)
	if err != nil {
		return err
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"disabled": disabled}})
	if err != nil {
		return fmt.Errorf("set user disabled: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseUserID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, email string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	oid, err := parseUserID(id)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"lastLogin": t.UTC()}})
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	oid, err := parseUserID(id)
	if err != nil {
		return err
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Names resolves user ids to display names in a single query. Ids that do
// not parse or do not exist are left out of the map.
func (r *UserRepository) Names(ctx context.Context, ids []string) (map[string]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	names := make(map[string]string, len(oids))
	if len(oids) == 0 {
		return names, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}},
		options.Find().SetProjection(bson.M{"firstname": 1, "lastname": 1}))
	if err != nil {
		return nil, fmt.Errorf("resolve names: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			ID        primitive.ObjectID `bson:"_id"`
			Firstname string             `bson:"firstname"`
			Lastname  string             `bson:"lastname"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		names[doc.ID.Hex()] = doc.Firstname + " " + doc.Lastname
	}
	return names, cur.Err()
}

func (r *UserRepository) AddWishlistItem(ctx context.Context, userID, listingID string) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return err
	}
	// $addToSet keeps the wishlist free of duplicates.
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$addToSet": bson.M{"wishlist": listingID}})
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) RemoveWishlistItem(ctx context.Context, userID, listingID string) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{"wishlist": listingID}})
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetWishlist(ctx context.Context, userID string) ([]string, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Wishlist []string `bson:"wishlist"`
	}
	if err := r.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"wishlist": 1})).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	if doc.Wishlist == nil {
		return []string{}, nil
	}
	return doc.Wishlist, nil
}

// EnsureIndexes creates the unique e-mail index on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
