package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rewear/rewear/internal/model"
)

// ErrListingNotFound is returned when no listing has the requested id.
var ErrListingNotFound = errors.New("listing not found")

const listingColumns = `id, name, owner_username, image_key, price, contact_info, size, created_at`

// CreateListing inserts a listing. The price is sent as text and cast by
// PostgreSQL, so malformed input is rejected there.
func (r *Repository) CreateListing(ctx context.Context, in model.NewListing) (*model.Listing, error) {
	query := `
		INSERT INTO listings (name, owner_username, image_key, price, contact_info, size)
		VALUES ($1, $2, $3, $4::text::double precision, $5, $6)
		RETURNING id, price, created_at
	`

	listing := &model.Listing{
		Name:          in.Name,
		OwnerUsername: in.OwnerUsername,
		ImageKey:      in.ImageKey,
		ContactInfo:   in.ContactInfo,
		Size:          in.Size,
	}

	err := r.db.QueryRowContext(ctx, query,
		in.Name,
		in.OwnerUsername,
		nullString(in.ImageKey),
		in.Price,
		in.ContactInfo,
		nullString(in.Size),
	).Scan(&listing.ID, &listing.Price, &listing.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// ListListings returns every listing in id order.
func (r *Repository) ListListings(ctx context.Context) ([]*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	return listings, nil
}

// GetListing retrieves a listing by id.
func (r *Repository) GetListing(ctx context.Context, id int64) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return listing, nil
}

// DeleteListing removes a listing by id.
func (r *Repository) DeleteListing(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if n == 0 {
		return ErrListingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*model.Listing, error) {
	var (
		listing  model.Listing
		imageKey sql.NullString
		size     sql.NullString
	)
	if err := row.Scan(
		&listing.ID,
		&listing.Name,
		&listing.OwnerUsername,
		&imageKey,
		&listing.Price,
		&listing.ContactInfo,
		&size,
		&listing.CreatedAt,
	); err != nil {
		return nil, err
	}
	listing.ImageKey = imageKey.String
	listing.Size = size.String
	return &listing, nil
}
