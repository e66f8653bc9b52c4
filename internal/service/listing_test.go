package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/metrics"
	"github.com/rewear/rewear/internal/storage"
)

type listingFixture struct {
	svc    *ListingService
	store  *memStore
	images *memImages
	rec    *metrics.InMemoryRecorder
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	f := &listingFixture{
		store:  newMemStore(),
		images: newMemImages(),
		rec:    metrics.NewInMemory(),
	}
	f.svc = NewListingService(f.store, f.images, nil, f.rec)
	return f
}

func session(username string) *auth.Session {
	return &auth.Session{Username: username}
}

func image(name, body string) *ImageUpload {
	return &ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func TestListingService_AddListing(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	listing, err := f.svc.AddListing(ctx, session("alice"), AddListingInput{
		Name:        "Denim jacket",
		Price:       "12.5",
		ContactInfo: "alice@example.com",
		Size:        "M",
		Image:       image("my jacket.png", "png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", listing.OwnerUsername)
	assert.Equal(t, "my_jacket.png", listing.ImageKey)
	assert.Equal(t, 12.5, listing.Price)
	assert.Equal(t, []byte("png-bytes"), f.images.objects["my_jacket.png"])
	assert.Equal(t, uint64(1), f.rec.Snapshot().ListingsCreated)
}

func TestListingService_AddListingWithoutImage(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	for _, img := range []*ImageUpload{nil, image("", "ignored")} {
		listing, err := f.svc.AddListing(ctx, session("alice"), AddListingInput{Name: "Scarf", Price: "5", Image: img})
		require.NoError(t, err)
		assert.False(t, listing.HasImage())
	}
	assert.Empty(t, f.images.objects)
}

func TestListingService_AddListingUnsafeFilename(t *testing.T) {
	f := newListingFixture(t)

	listing, err := f.svc.AddListing(context.Background(), session("alice"), AddListingInput{
		Name:  "Hat",
		Price: "3",
		Image: image("../", "bytes"),
	})
	require.NoError(t, err)

	require.True(t, listing.HasImage())
	assert.Len(t, listing.ImageKey, 26)
	assert.Equal(t, listing.ImageKey, storage.SanitizeFilename(listing.ImageKey))
	assert.Contains(t, f.images.objects, listing.ImageKey)
}

func TestListingService_AddListingRequiresSession(t *testing.T) {
	f := newListingFixture(t)

	_, err := f.svc.AddListing(context.Background(), &auth.Session{}, AddListingInput{
		Name:  "Hat",
		Price: "3",
		Image: image("hat.png", "bytes"),
	})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	assert.Empty(t, f.store.listings)
	assert.Empty(t, f.images.objects)
}

func TestListingService_AddListingUploadFailure(t *testing.T) {
	f := newListingFixture(t)
	f.images.uploadErr = storage.ErrStorageUnavailable

	_, err := f.svc.AddListing(context.Background(), session("alice"), AddListingInput{
		Name:  "Hat",
		Price: "3",
		Image: image("hat.png", "bytes"),
	})
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	assert.Empty(t, f.store.listings)
}

func TestListingService_AddListingBadPrice(t *testing.T) {
	f := newListingFixture(t)

	_, err := f.svc.AddListing(context.Background(), session("alice"), AddListingInput{Name: "Hat", Price: "cheap"})
	require.Error(t, err)
	assert.Empty(t, f.store.listings)
}

func TestListingService_ListAll(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddListing(ctx, session("alice"), AddListingInput{Name: "A", Price: "1", Image: image("a.png", "a")})
	require.NoError(t, err)
	_, err = f.svc.AddListing(ctx, session("bob"), AddListingInput{Name: "B", Price: "2"})
	require.NoError(t, err)
	_, err = f.svc.AddListing(ctx, session("carol"), AddListingInput{Name: "C", Price: "3", Image: image("c.png", "c")})
	require.NoError(t, err)
	f.images.signFail["c.png"] = true

	views, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "A", views[0].Name)
	assert.Contains(t, views[0].ImageURL, "a.png")
	assert.Empty(t, views[1].ImageURL)
	assert.Empty(t, views[2].ImageURL)
	assert.Equal(t, "c.png", views[2].ImageKey)
}

func TestListingService_ListAllEmpty(t *testing.T) {
	f := newListingFixture(t)

	views, err := f.svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestListingService_DeleteListing(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	listing, err := f.svc.AddListing(ctx, session("alice"), AddListingInput{Name: "A", Price: "1", Image: image("a.png", "a")})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteListing(ctx, session("alice"), listing.ID))

	_, err = f.store.GetListing(ctx, listing.ID)
	assert.Error(t, err)
	assert.Equal(t, []string{"a.png"}, f.images.deleted)
	assert.Equal(t, uint64(1), f.rec.Snapshot().ListingsDeleted)
}

func TestListingService_DeleteListingWithoutImage(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	listing, err := f.svc.AddListing(ctx, session("alice"), AddListingInput{Name: "A", Price: "1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteListing(ctx, session("alice"), listing.ID))
	assert.Empty(t, f.images.deleted)
}

func TestListingService_DeleteListingDenied(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	listing, err := f.svc.AddListing(ctx, session("alice"), AddListingInput{Name: "A", Price: "1", Image: image("a.png", "a")})
	require.NoError(t, err)

	tests := []struct {
		name    string
		session *auth.Session
		id      int64
		wantErr error
	}{
		{"anonymous", &auth.Session{}, listing.ID, auth.ErrUnauthenticated},
		{"anonymous unknown id", &auth.Session{}, 999, auth.ErrUnauthenticated},
		{"other user", session("bob"), listing.ID, auth.ErrForbidden},
		{"unknown id", session("alice"), 999, ErrListingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.DeleteListing(ctx, tt.session, tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = f.store.GetListing(ctx, listing.ID)
	assert.NoError(t, err, "listing must survive refused deletes")
	assert.Empty(t, f.images.deleted)

	snap := f.rec.Snapshot()
	assert.Equal(t, uint64(2), snap.DeleteDenied["unauthenticated"])
	assert.Equal(t, uint64(1), snap.DeleteDenied["forbidden"])
	assert.Equal(t, uint64(1), snap.DeleteDenied["not_found"])
}

func TestListingService_StorageErrorPropagates(t *testing.T) {
	f := newListingFixture(t)
	dbErr := errors.New("connection reset")
	f.store.createListingErr = dbErr

	_, err := f.svc.AddListing(context.Background(), session("alice"), AddListingInput{Name: "A", Price: "1"})
	assert.ErrorIs(t, err, dbErr)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "shirt.png", objectKey("shirt.png"))
	assert.Equal(t, "etc_passwd", objectKey("../../etc/passwd"))

	k1, k2 := objectKey("..."), objectKey("...")
	assert.Len(t, k1, 26)
	assert.NotEqual(t, k1, k2)
}

var (
	_ ListingStore = (*memStore)(nil)
	_ UserStore    = (*memStore)(nil)
	_ ImageStore   = (*memImages)(nil)
)
