package domain

import "time"

// NotificationOrderPlaced is the only event type the purchase flow emits.
const NotificationOrderPlaced = "order_placed"

// NotificationItem is the compact (item, quantity) pair recorded on an
// order_placed event.
type NotificationItem struct {
	ItemID   string `json:"itemID" bson:"itemID"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// Notification is an append-only admin-visible event written exactly once
// per successful checkout.
type Notification struct {
	ID            string             `json:"id" bson:"_id,omitempty"`
	Type          string             `json:"type" bson:"type"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	BuyerID       string             `json:"buyerID" bson:"buyerID"`
	BuyerName     string             `json:"buyerName" bson:"buyerName"`
	Items         []NotificationItem `json:"items" bson:"items"`
	Total         float64            `json:"total" bson:"total"`
	Timestamp     time.Time          `json:"timestamp" bson:"timestamp"`
}
