package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

const phonesCollection = "phones"

// ListingRepository implements ports.ListingRepository on the phones
// collection.
type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(phonesCollection)}
}

type reviewDoc struct {
	Reviewer string `bson:"reviewer"`
	Rating   int    `bson:"rating"`
	Comment  string `bson:"comment"`
	Hidden   bool   `bson:"hidden,omitempty"`
}

type listingDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Brand    string             `bson:"brand"`
	Price    float64            `bson:"price"`
	Stock    int                `bson:"stock"`
	Image    string             `bson:"image"`
	Seller   string             `bson:"seller"`
	Disabled bool               `bson:"disabled,omitempty"`
	Reviews  []reviewDoc        `bson:"reviews"`
}

func (d *listingDoc) toDomain() *domain.Listing {
	reviews := make([]domain.Review, len(d.Reviews))
	for i, r := range d.Reviews {
		reviews[i] = domain.Review{
			Reviewer: r.Reviewer,
			Rating:   r.Rating,
			Comment:  r.Comment,
			Hidden:   r.Hidden,
		}
	}
	return &domain.Listing{
		ID:       d.ID.Hex(),
		Title:    d.Title,
		Brand:    d.Brand,
		Price:    d.Price,
		Stock:    d.Stock,
		Image:    d.Image,
		Seller:   d.Seller,
		Disabled: d.Disabled,
		Reviews:  reviews,
	}
}

func parseListingID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrListingNotFound
	}
	return oid, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := parseListingID(id)
	if err != nil {
		return nil, err
	}

	var doc listingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) FindManyByID(ctx context.Context, ids []string) ([]domain.Listing, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []domain.Listing{}, nil
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *ListingRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return r.findAll(ctx, bson.M{"seller": sellerID}, nil)
}

func (r *ListingRepository) FindByReviewer(ctx context.Context, reviewerID string) ([]domain.Listing, error) {
	return r.findAll(ctx,
		bson.M{"reviews.reviewer": reviewerID},
		options.Find().SetProjection(bson.M{"title": 1, "reviews": 1}),
	)
}

func (r *ListingRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Listing, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)

	listings := []domain.Listing{}
	for cur.Next(ctx) {
		var doc listingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		listings = append(listings, *doc.toDomain())
	}
	return listings, cur.Err()
}

// activeFilter excludes disabled listings from public views.
func activeFilter() bson.M {
	return bson.M{"disabled": bson.M{"$ne": true}}
}

// summaryProjection computes averageRating server-side; listings with
// fewer than two reviews get null so the storefront can show "no rating
// yet" instead of a single opinion.
var summaryProjection = bson.M{
	"title": 1,
	"brand": 1,
	"image": 1,
	"price": 1,
	"stock": 1,
	"averageRating": bson.M{
		"$cond": bson.A{
			bson.M{"$gte": bson.A{bson.M{"$size": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}}, 2}},
			bson.M{"$avg": "$reviews.rating"},
			nil,
		},
	},
}

type summaryDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	Brand         string             `bson:"brand"`
	Image         string             `bson:"image"`
	Price         float64            `bson:"price"`
	Stock         int                `bson:"stock"`
	AverageRating *float64           `bson:"averageRating"`
}

func (d *summaryDoc) toSummary() ports.ListingSummary {
	return ports.ListingSummary{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Brand:         d.Brand,
		Image:         d.Image,
		Price:         d.Price,
		Stock:         d.Stock,
		AverageRating: d.AverageRating,
	}
}

func (r *ListingRepository) Search(ctx context.Context, filter ports.ListingFilter) ([]ports.ListingSummary, error) {
	match := activeFilter()
	if filter.Search != "" {
		match["title"] = primitive.Regex{Pattern: filter.Search, Options: "i"}
	}
	if filter.Brand != "" {
		match["brand"] = filter.Brand
	}
	if filter.MaxPrice > 0 {
		match["price"] = bson.M{"$lte": filter.MaxPrice}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$project", Value: summaryProjection}},
	}
	return r.aggregateSummaries(ctx, pipeline)
}

func (r *ListingRepository) aggregateSummaries(ctx context.Context, pipeline mongo.Pipeline) ([]ports.ListingSummary, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate listings: %w", err)
	}
	defer cur.Close(ctx)

	summaries := []ports.ListingSummary{}
	for cur.Next(ctx) {
		var doc summaryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		summaries = append(summaries, doc.toSummary())
	}
	return summaries, cur.Err()
}

func (r *ListingRepository) AdminList(ctx context.Context, search string) ([]domain.Listing, error) {
	filter := bson.M{}
	if search != "" {
		re := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"brand": re},
		}
	}
	return r.findAll(ctx, filter, nil)
}

func (r *ListingRepository) Metadata(ctx context.Context) ([]string, float64, error) {
	raw, err := r.col.Distinct(ctx, "brand", activeFilter())
	if err != nil {
		return nil, 0, fmt.Errorf("distinct brands: %w", err)
	}
	brands := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			brands = append(brands, s)
		}
	}
	sort.Strings(brands)

	var top struct {
		Price float64 `bson:"price"`
	}
	err = r.col.FindOne(ctx, activeFilter(),
		options.FindOne().
			SetSort(bson.D{{Key: "price", Value: -1}}).
			SetProjection(bson.M{"price": 1}),
	).Decode(&top)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return brands, 0, nil
		}
		return nil, 0, fmt.Errorf("max price: %w", err)
	}
	return brands, top.Price, nil
}

func (r *ListingRepository) SoldOutSoon(ctx context.Context) ([]domain.Listing, error) {
	filter := activeFilter()
	filter["stock"] = bson.M{"$gt": 0}
	return r.findAll(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "stock", Value: 1}}).
			SetLimit(5),
	)
}

func (r *ListingRepository) BestSellers(ctx context.Context) ([]ports.ListingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter()}},
		{{Key: "$project", Value: summaryProjection}},
		{{Key: "$match", Value: bson.M{"averageRating": bson.M{"$ne": nil}}}},
		{{Key: "$sort", Value: bson.D{{Key: "averageRating", Value: -1}}}},
		{{Key: "$limit", Value: 5}},
	}
	return r.aggregateSummaries(ctx, pipeline)
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (string, error) {
	doc := listingDoc{
		Title:   l.Title,
		Brand:   l.Brand,
		Price:   l.Price,
		Stock:   l.Stock,
		Image:   l.Image,
		Seller:  l.Seller,
		Reviews: []reviewDoc{},
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert listing: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *ListingRepository) UpdateFields(ctx context.Context, id string, update ports.ListingUpdate) (*domain.Listing, error) {
	oid, err := parseListingID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.Disabled != nil {
		set["disabled"] = *update.Disabled
	}

	if len(set) > 0 {
		res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			return nil, fmt.Errorf("update listing: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrListingNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *ListingRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	oid, err := parseListingID(id)
	if err != nil {
		return err
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"disabled": disabled}})
	if err != nil {
		return fmt.Errorf("set listing disabled: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseListingID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) PushReview(ctx context.Context, id string, review domain.Review) error {
	oid, err := parseListingID(id)
	if err != nil {
		return err
	}

	doc := reviewDoc{Reviewer: review.Reviewer, Rating: review.Rating, Comment: review.Comment}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"reviews": doc}})
	if err != nil {
		return fmt.Errorf("push review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) SetReviewHidden(ctx context.Context, id string, index int, hidden bool) error {
	oid, err := parseListingID(id)
	if err != nil {
		return err
	}
	if index < 0 {
		return domain.ErrReviewNotFound
	}

	// Guard the index against the current array length so a stale index
	// cannot create a sparse element.
	field := fmt.Sprintf("reviews.%d.hidden", index)
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, fmt.Sprintf("reviews.%d", index): bson.M{"$exists": true}},
		bson.M{"$set": bson.M{field: hidden}},
	)
	if err != nil {
		return fmt.Errorf("set review hidden: %w", err)
	}
	if res.MatchedCount == 0 {
		if exists, err := r.exists(ctx, oid); err != nil {
			return err
		} else if !exists {
			return domain.ErrListingNotFound
		}
		return domain.ErrReviewNotFound
	}
	return nil
}

// DecrementStock subtracts quantity only when the listing still holds at
// least that much stock. The filter and $inc run as one atomic update, so
// two concurrent checkouts cannot both take the last unit.
func (r *ListingRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	oid, err := parseListingID(id)
	if err != nil {
		return err
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		if exists, err := r.exists(ctx, oid); err != nil {
			return err
		} else if !exists {
			return domain.ErrListingNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ListingRepository) exists(ctx context.Context, oid primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the browse indexes on the phones collection.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "brand", Value: 1}}},
		{Keys: bson.D{{Key: "seller", Value: 1}}},
	})
	return err
}
