// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rewear/rewear/internal/model"
)

// TestPasswordHash is a well-formed argon2id PHC string for rows that are
// never used to log in.
const TestPasswordHash = "$argon2id$v=19$m=65536,t=3,p=4$c29tZXNhbHRzb21lc2FsdA$Zm9vYmFyZm9vYmFyZm9vYmFyZm9vYmFyZm9vYmFyMTI"

var listingSeq atomic.Int64

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewTestUser returns a user row ready to insert.
func NewTestUser(username string) *model.User {
	return &model.User{
		Username:     username,
		PasswordHash: TestPasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestListing returns listing input owned by owner. An empty imageKey
// produces a listing without an image.
func NewTestListing(owner, imageKey string) model.NewListing {
	n := listingSeq.Add(1)
	return model.NewListing{
		Name:          fmt.Sprintf("Item %d", n),
		OwnerUsername: owner,
		ImageKey:      imageKey,
		Price:         "19.99",
		ContactInfo:   owner + "@example.com",
		Size:          "M",
	}
}
