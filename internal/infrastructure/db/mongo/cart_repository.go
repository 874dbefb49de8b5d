package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// CartRepository manipulates the embedded cart array on user documents.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(usersCollection)}
}

func (r *CartRepository) GetLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	var doc struct {
		Cart []cartLineDoc `bson:"cart"`
	}
	err = r.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"cart": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	lines := make([]domain.CartLine, len(doc.Cart))
	for i, l := range doc.Cart {
		lines[i] = domain.CartLine{ItemID: l.ItemID.Hex(), Quantity: l.Quantity}
	}
	return lines, nil
}

// SetLineQuantity updates the quantity of an existing cart line via the
// positional operator. matched reports whether the line was present, so
// callers can fall back to PushLine for new items.
func (r *CartRepository) SetLineQuantity(ctx context.Context, userID, itemID string, quantity int) (bool, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return false, domain.ErrCartNotFound
	}
	itemOID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return false, nil
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "cart.itemID": itemOID},
		bson.M{"$set": bson.M{"cart.$.quantity": quantity}},
	)
	if err != nil {
		return false, fmt.Errorf("set cart quantity: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *CartRepository) PushLine(ctx context.Context, userID string, line domain.CartLine) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return domain.ErrCartNotFound
	}
	itemOID, err := primitive.ObjectIDFromHex(line.ItemID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"cart": cartLineDoc{ItemID: itemOID, Quantity: line.Quantity}}},
	)
	if err != nil {
		return fmt.Errorf("push cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

func (r *CartRepository) PullLine(ctx context.Context, userID, itemID string) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return domain.ErrCartNotFound
	}
	itemOID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return domain.ErrItemNotInCart
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"cart": bson.M{"itemID": itemOID}}},
	)
	if err != nil {
		return fmt.Errorf("pull cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return domain.ErrCartNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"cart": []cartLineDoc{}}},
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}
