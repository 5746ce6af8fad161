package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"

	"go.uber.org/zap"
)

// Postgres-backed implementation of the ListingRepository port.
type PostgresListingRepository struct{ DB *sql.DB }

func NewPostgresListingRepository(db *sql.DB) *PostgresListingRepository {
	return &PostgresListingRepository{DB: db}
}

const findListingsQuery = `
	SELECT
		id,
		owner_id,
		title,
		description,
		category,
		size,
		gender,
		condition,
		brand,
		color,
		image_urls,
		points_value,
		available,
		location,
		created_at
	FROM listings
	WHERE size = $1
		AND gender = $2
		AND available = $3
		AND owner_id <> $4
	ORDER BY created_at, id;
	`

// Stream listings matching q. Rows are ordered by creation time, then id.
func (s *PostgresListingRepository) FindListings(ctx context.Context, q ports.ListingQuery) iter.Seq2[domain.Listing, error] {
	return func(yield func(domain.Listing, error) bool) {
		var err error
		defer obs.Time(ctx, "listings.FindListings")(&err)

		if s.DB == nil {
			err = fmt.Errorf("postgres listing repository: %w: db is nil", domain.ErrStoreUnavailable)
			yield(domain.Listing{}, err)
			return
		}

		rows, qerr := s.DB.QueryContext(ctx, findListingsQuery, q.Size, q.Gender, q.Available, q.ExcludeOwnerID)
		if qerr != nil {
			err = fmt.Errorf("find listings: query listings table: %w: %w", domain.ErrStoreUnavailable, qerr)
			yield(domain.Listing{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			l, serr := scanListing(ctx, rows)
			if serr != nil {
				err = fmt.Errorf("find listings: scan row: %w", serr)
				yield(domain.Listing{}, err)
				return
			}
			if !yield(l, nil) {
				return
			}
		}

		if rerr := rows.Err(); rerr != nil {
			err = fmt.Errorf("find listings: row iteration: %w: %w", domain.ErrStoreUnavailable, rerr)
			yield(domain.Listing{}, err)
		}
	}
}

func (s *PostgresListingRepository) Ping(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("postgres listing repository: %w: db is nil", domain.ErrStoreUnavailable)
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping listings store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func scanListing(ctx context.Context, rows *sql.Rows) (domain.Listing, error) {
	var (
		l         domain.Listing
		imagesRaw []byte
		locRaw    []byte
	)

	err := rows.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Title,
		&l.Description,
		&l.Category,
		&l.Size,
		&l.Gender,
		&l.Condition,
		&l.Brand,
		&l.Color,
		&imagesRaw,
		&l.PointsValue,
		&l.Available,
		&locRaw,
		&l.CreatedAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}

	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &l.ImageURLs); err != nil {
			return domain.Listing{}, fmt.Errorf("listing %s: decode image_urls: %w", l.ID, err)
		}
	}

	// A malformed location leaves Position nil; ranking skips the listing.
	pos, err := decodeLocation(locRaw)
	if err != nil {
		obs.Logger(ctx).Debug("listing has unusable location", zap.String("listing_id", l.ID), zap.Error(err))
	}
	l.Position = pos

	return l, nil
}
