package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"swap-match-service/internal/domain"
)

// SeedListings upserts listings into the listings table in one transaction.
func SeedListings(ctx context.Context, db *sql.DB, listings []domain.Listing) error {
	if db == nil {
		return errors.New("seed listings: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed listings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO listings (
		id, owner_id, title, description, category, size, gender,
		condition, brand, color, image_urls, points_value, available, location,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, COALESCE($15, now()))
	ON CONFLICT (id) DO UPDATE
	SET owner_id = EXCLUDED.owner_id,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		category = EXCLUDED.category,
		size = EXCLUDED.size,
		gender = EXCLUDED.gender,
		condition = EXCLUDED.condition,
		brand = EXCLUDED.brand,
		color = EXCLUDED.color,
		image_urls = EXCLUDED.image_urls,
		points_value = EXCLUDED.points_value,
		available = EXCLUDED.available,
		location = EXCLUDED.location;
	`)
	if err != nil {
		return fmt.Errorf("seed listings: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		images := l.ImageURLs
		if images == nil {
			images = []string{}
		}
		imagesJSON, err := json.Marshal(images)
		if err != nil {
			return fmt.Errorf("seed listings: id=%s: encode image_urls: %w", l.ID, err)
		}

		loc, err := encodeLocation(l.Position)
		if err != nil {
			return fmt.Errorf("seed listings: id=%s: encode location: %w", l.ID, err)
		}

		var createdAt sql.NullTime
		if !l.CreatedAt.IsZero() {
			createdAt = sql.NullTime{Time: l.CreatedAt, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			l.ID, l.OwnerID, l.Title, l.Description, l.Category, l.Size, l.Gender,
			l.Condition, l.Brand, l.Color, string(imagesJSON), l.PointsValue, l.Available, nullableJSON(loc),
			createdAt,
		); err != nil {
			return fmt.Errorf("seed listings: insert id=%s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed listings: commit tx: %w", err)
	}

	return nil
}

func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
