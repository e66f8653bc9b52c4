package handler

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/repository"
)

// memStore is an in-memory user and listing store.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	listings map[int64]*model.Listing
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		listings: make(map[int64]*model.Listing),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.Username] = &cp
	return nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateListing(_ context.Context, in model.NewListing) (*model.Listing, error) {
	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil {
		return nil, errors.New("invalid input syntax for type double precision")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	l := &model.Listing{
		ID:            m.nextID,
		Name:          in.Name,
		OwnerUsername: in.OwnerUsername,
		ImageKey:      in.ImageKey,
		Price:         price,
		ContactInfo:   in.ContactInfo,
		Size:          in.Size,
		CreatedAt:     time.Now(),
	}
	m.listings[l.ID] = l
	cp := *l
	return &cp, nil
}

func (m *memStore) ListListings(_ context.Context) ([]*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetListing(_ context.Context, id int64) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) DeleteListing(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return repository.ErrListingNotFound
	}
	delete(m.listings, id)
	return nil
}

func (m *memStore) listingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listings)
}

// memImages is an in-memory image store.
type memImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemImages() *memImages {
	return &memImages{objects: make(map[string][]byte)}
}

func (m *memImages) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = b
	m.mu.Unlock()
	return nil
}

func (m *memImages) DeleteImage(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
}

func (m *memImages) SignedURL(_ context.Context, key string) (string, bool) {
	return "https://signed.example.com/" + key + "?X-Amz-Expires=3600", true
}

func (m *memImages) object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}
