package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

// listingRepository implements matching.ListingRepository using PostgreSQL
type listingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository creates a new listing repository
func NewListingRepository(pool *pgxpool.Pool) matching.ListingRepository {
	return &listingRepository{pool: pool}
}

// FindCandidates applies the hard filters at the database layer: active
// status, positive availability, price bounds, minimum quantity, and exact
// section membership. Fuzzy section comparison is a scoring concern and
// deliberately not part of this query.
func (r *listingRepository) FindCandidates(ctx context.Context, filters matching.CandidateFilters) ([]*listing.Listing, error) {
	if filters.Limit <= 0 {
		return nil, ErrInvalidInput
	}

	query := `
		SELECT
			l.id, l.event_id, l.seller_id, l.section_id, l.section_name, l.seat_row,
			l.price, l.available_quantity, l.status, l.event_date,
			l.created_at, l.updated_at,
			s.rating, s.total_sales, s.member_since
		FROM listings l
		JOIN sellers s ON s.id = l.seller_id
		WHERE l.status = 'active'
		  AND l.available_quantity > 0
		  AND l.price >= $1
		  AND l.price <= $2
		  AND l.available_quantity >= $3
		  AND ($4::uuid IS NULL OR l.event_id = $4)
		  AND ($5::text[] IS NULL OR l.section_name = ANY($5))
		ORDER BY l.price ASC, l.created_at ASC
		LIMIT $6
	`

	var sections []string
	if len(filters.Sections) > 0 {
		sections = filters.Sections
	}

	rows, err := r.pool.Query(ctx, query,
		filters.MinPrice.Amount(), filters.MaxPrice.Amount(),
		filters.MinQuantity, filters.EventID, sections, filters.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate listings: %w", err)
	}
	defer rows.Close()

	listings := make([]*listing.Listing, 0, filters.Limit)
	for rows.Next() {
		var l listing.Listing
		var status string

		err := rows.Scan(
			&l.ID, &l.EventID, &l.SellerID, &l.SectionID, &l.SectionName, &l.Row,
			&l.Price, &l.AvailableQuantity, &status, &l.EventDate,
			&l.CreatedAt, &l.UpdatedAt,
			&l.Seller.Rating, &l.Seller.TotalSales, &l.Seller.MemberSince,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}

		l.Status = listing.StatusFromString(status)
		l.Seller.ID = l.SellerID
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidate listings: %w", err)
	}

	return listings, nil
}
