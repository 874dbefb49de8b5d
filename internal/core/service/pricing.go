package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// Pricer joins raw cart lines with live listing and seller data. Both the
// cart view and the checkout snapshot are built through it, so the total a
// buyer sees is computed the same way it is persisted.
type Pricer struct {
	listings ports.ListingRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewPricer(listings ports.ListingRepository, users ports.UserRepository, log zerolog.Logger) *Pricer {
	return &Pricer{listings: listings, users: users, log: log}
}

// Enrich materializes cart lines against current listings. Lines whose
// listing no longer exists are dropped with a warning rather than failing
// the whole cart. Line prices and the total use decimal arithmetic and are
// only converted back to float64 at the edge.
func (p *Pricer) Enrich(ctx context.Context, lines []domain.CartLine) ([]ports.EnrichedLine, float64, error) {
	enriched := make([]ports.EnrichedLine, 0, len(lines))
	sellerIDs := make([]string, 0, len(lines))
	total := decimal.Zero

	type resolved struct {
		line    domain.CartLine
		listing *domain.Listing
	}
	found := make([]resolved, 0, len(lines))

	for _, line := range lines {
		listing, err := p.listings.FindByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				p.log.Warn().Str("item_id", line.ItemID).Msg("cart line skipped, listing gone")
				continue
			}
			return nil, 0, err
		}
		found = append(found, resolved{line: line, listing: listing})
		sellerIDs = append(sellerIDs, listing.Seller)
	}

	sellerNames, err := p.users.Names(ctx, sellerIDs)
	if err != nil {
		return nil, 0, err
	}

	for _, r := range found {
		linePrice := decimal.NewFromFloat(r.listing.Price).
			Mul(decimal.NewFromInt(int64(r.line.Quantity)))
		total = total.Add(linePrice)

		enriched = append(enriched, ports.EnrichedLine{
			ItemID:     r.line.ItemID,
			Quantity:   r.line.Quantity,
			Name:       r.listing.Title,
			Brand:      r.listing.Brand,
			Image:      r.listing.Image,
			Price:      linePrice.InexactFloat64(),
			SellerID:   r.listing.Seller,
			SellerName: sellerNames[r.listing.Seller],
		})
	}

	return enriched, total.InexactFloat64(), nil
}
