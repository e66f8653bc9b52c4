package model

import "time"

// Listing is a clothing item offered for sale.
// Ownership is recorded by username, not by user id.
type Listing struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	OwnerUsername string    `json:"owner_username"`
	ImageKey      string    `json:"image_key,omitempty"`
	Price         float64   `json:"price"`
	ContactInfo   string    `json:"contact_info"`
	Size          string    `json:"size,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasImage reports whether an object key is stored for the listing.
func (l *Listing) HasImage() bool {
	return l.ImageKey != ""
}

// OwnedBy reports whether username owns the listing.
func (l *Listing) OwnedBy(username string) bool {
	return username != "" && l.OwnerUsername == username
}

// NewListing holds the values written when a listing is created.
// Price is kept as submitted; the database performs the numeric conversion.
type NewListing struct {
	Name          string
	OwnerUsername string
	ImageKey      string
	Price         string
	ContactInfo   string
	Size          string
}

// ListingView is a listing together with its short-lived image URL.
type ListingView struct {
	Listing
	ImageURL string `json:"image_url,omitempty"`
}
