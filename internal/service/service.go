// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/rewear/rewear/internal/model"
)

// Service errors.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrListingNotFound    = errors.New("listing not found")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// ListingStore persists listings.
type ListingStore interface {
	CreateListing(ctx context.Context, in model.NewListing) (*model.Listing, error)
	ListListings(ctx context.Context) ([]*model.Listing, error)
	GetListing(ctx context.Context, id int64) (*model.Listing, error)
	DeleteListing(ctx context.Context, id int64) error
}

// ImageStore holds listing images.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DeleteImage(ctx context.Context, key string)
	SignedURL(ctx context.Context, key string) (string, bool)
}
