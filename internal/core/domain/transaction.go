package domain

import "time"

// TransactionLine is a cart line frozen at checkout time, enriched with the
// listing and seller details that were current when the purchase happened.
// Price is the line total (unit price × quantity).
type TransactionLine struct {
	ItemID     string  `json:"itemID" bson:"itemID"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	Name       string  `json:"name" bson:"name"`
	Brand      string  `json:"brand" bson:"brand"`
	Image      string  `json:"image" bson:"image"`
	Price      float64 `json:"price" bson:"price"`
	SellerID   string  `json:"sellerID" bson:"sellerID"`
	SellerName string  `json:"sellerName" bson:"sellerName"`
}

// Transaction is the immutable record of a completed checkout. Nothing in
// the purchase flow ever mutates one; Delivered belongs to fulfillment.
type Transaction struct {
	ID        string            `json:"id" bson:"_id,omitempty"`
	BuyerID   string            `json:"buyerID" bson:"buyerID"`
	BuyerName string            `json:"buyerName" bson:"buyerName"`
	Cart      []TransactionLine `json:"cart" bson:"cart"`
	Total     float64           `json:"total" bson:"total"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
	Delivered bool              `json:"delivered" bson:"delivered"`
}
