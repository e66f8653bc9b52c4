package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/metrics"
	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/repository"
	"github.com/rewear/rewear/internal/storage"
)

// ListingService handles listing business logic.
type ListingService struct {
	listings ListingStore
	images   ImageStore
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewListingService creates a new ListingService.
func NewListingService(listings ListingStore, images ImageStore, logger *slog.Logger, recorder metrics.Recorder) *ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ListingService{
		listings: listings,
		images:   images,
		logger:   logger,
		metrics:  recorder,
	}
}

// ImageUpload is an uploaded image file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddListingInput defines input for creating a listing.
type AddListingInput struct {
	Name        string
	Price       string
	ContactInfo string
	Size        string
	Image       *ImageUpload // nil when no file was sent
}

// ListAll returns every listing with a freshly signed image URL.
// A listing whose URL cannot be signed is returned without one.
func (s *ListingService) ListAll(ctx context.Context) ([]model.ListingView, error) {
	listings, err := s.listings.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.ListingView, 0, len(listings))
	for _, l := range listings {
		view := model.ListingView{Listing: *l}
		if l.HasImage() {
			if url, ok := s.images.SignedURL(ctx, l.ImageKey); ok {
				view.ImageURL = url
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// AddListing uploads the optional image and records a listing owned by the
// session user.
func (s *ListingService) AddListing(ctx context.Context, sess *auth.Session, in AddListingInput) (*model.Listing, error) {
	owner, err := auth.RequireSession(sess)
	if err != nil {
		return nil, err
	}

	var imageKey string
	if in.Image != nil && in.Image.Filename != "" {
		imageKey = objectKey(in.Image.Filename)
		if err := s.images.Upload(ctx, imageKey, in.Image.Body, in.Image.Size, in.Image.ContentType); err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
	}

	listing, err := s.listings.CreateListing(ctx, model.NewListing{
		Name:          in.Name,
		OwnerUsername: owner,
		ImageKey:      imageKey,
		Price:         in.Price,
		ContactInfo:   in.ContactInfo,
		Size:          in.Size,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncListingCreated()
	s.logger.Info("listing created", "listing_id", listing.ID, "owner", owner, "image_key", imageKey)
	return listing, nil
}

// DeleteListing removes a listing owned by the session user. The image is
// removed first on a best-effort basis.
func (s *ListingService) DeleteListing(ctx context.Context, sess *auth.Session, id int64) error {
	if _, err := auth.RequireSession(sess); err != nil {
		s.metrics.IncListingDeleteDenied("unauthenticated")
		return err
	}

	listing, err := s.listings.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			s.metrics.IncListingDeleteDenied("not_found")
			return ErrListingNotFound
		}
		return err
	}

	if err := auth.AuthorizeOwner(sess, listing.OwnerUsername); err != nil {
		s.metrics.IncListingDeleteDenied("forbidden")
		return err
	}

	if listing.HasImage() {
		s.images.DeleteImage(ctx, listing.ImageKey)
	}

	if err := s.listings.DeleteListing(ctx, id); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	s.metrics.IncListingDeleted()
	s.logger.Info("listing deleted", "listing_id", id, "owner", listing.OwnerUsername)
	return nil
}

// objectKey sanitizes the uploaded filename. Names that sanitize to nothing
// get a ULID so the upload still has a usable key.
func objectKey(filename string) string {
	if key := storage.SanitizeFilename(filename); key != "" {
		return key
	}
	return ulid.Make().String()
}
