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

const notificationsCollection = "notifications"

// NotificationRepository implements ports.NotificationRepository. The log
// is append-only: there is no update or delete path.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(notificationsCollection)}
}

type notificationDoc struct {
	ID            primitive.ObjectID        `bson:"_id,omitempty"`
	Type          string                    `bson:"type"`
	TransactionID string                    `bson:"transactionId"`
	BuyerID       string                    `bson:"buyerID"`
	BuyerName     string                    `bson:"buyerName"`
	Items         []domain.NotificationItem `bson:"items"`
	Total         float64                   `bson:"total"`
	Timestamp     time.Time                 `bson:"timestamp"`
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	doc := notificationDoc{
		Type:          n.Type,
		TransactionID: n.TransactionID,
		BuyerID:       n.BuyerID,
		BuyerName:     n.BuyerName,
		Items:         n.Items,
		Total:         n.Total,
		Timestamp:     n.Timestamp,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.Notification{}
	for cur.Next(ctx) {
		var doc notificationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, domain.Notification{
			ID:            doc.ID.Hex(),
			Type:          doc.Type,
			TransactionID: doc.TransactionID,
			BuyerID:       doc.BuyerID,
			BuyerName:     doc.BuyerName,
			Items:         doc.Items,
			Total:         doc.Total,
			Timestamp:     doc.Timestamp,
		})
	}
	return out, cur.Err()
}
