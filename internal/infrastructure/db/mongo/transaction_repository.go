package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

const transactionsCollection = "transactions"

// TransactionRepository implements ports.TransactionRepository. Records
// are insert-only; nothing here updates or deletes.
type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(transactionsCollection)}
}

type transactionDoc struct {
	ID        primitive.ObjectID       `bson:"_id,omitempty"`
	BuyerID   primitive.ObjectID       `bson:"buyerID"`
	BuyerName string                   `bson:"buyerName"`
	Cart      []domain.TransactionLine `bson:"cart"`
	Total     float64                  `bson:"total"`
	Timestamp time.Time                `bson:"timestamp"`
	Delivered bool                     `bson:"delivered"`
}

func (d *transactionDoc) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:        d.ID.Hex(),
		BuyerID:   d.BuyerID.Hex(),
		BuyerName: d.BuyerName,
		Cart:      d.Cart,
		Total:     d.Total,
		Timestamp: d.Timestamp,
		Delivered: d.Delivered,
	}
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) (string, error) {
	buyerOID, err := primitive.ObjectIDFromHex(tx.BuyerID)
	if err != nil {
		return "", domain.ErrUserNotFound
	}

	doc := transactionDoc{
		BuyerID:   buyerOID,
		BuyerName: tx.BuyerName,
		Cart:      tx.Cart,
		Total:     tx.Total,
		Timestamp: tx.Timestamp,
		Delivered: tx.Delivered,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *TransactionRepository) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error) {
	buyerOID, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		return []domain.Transaction{}, nil
	}
	return r.findAll(ctx, bson.M{"buyerID": buyerOID})
}

func (r *TransactionRepository) List(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from
	}
	if !to.IsZero() {
		window["$lte"] = to
	}
	filter := bson.M{}
	if len(window) > 0 {
		filter["timestamp"] = window
	}
	return r.findAll(ctx, filter)
}

func (r *TransactionRepository) findAll(ctx context.Context, filter bson.M) ([]domain.Transaction, error) {
	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	txs := []domain.Transaction{}
	for cur.Next(ctx) {
		var doc transactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		txs = append(txs, *doc.toDomain())
	}
	return txs, cur.Err()
}

// EnsureIndexes creates the buyer lookup index.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "buyerID", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
