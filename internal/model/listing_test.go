package model

import "testing"

func TestListing_OwnedBy(t *testing.T) {
	l := &Listing{OwnerUsername: "alice"}

	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"bob", false},
		{"Alice", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := l.OwnedBy(tt.username); got != tt.want {
			t.Errorf("OwnedBy(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestListing_HasImage(t *testing.T) {
	if (&Listing{}).HasImage() {
		t.Error("expected no image for empty key")
	}
	if !(&Listing{ImageKey: "a.png"}).HasImage() {
		t.Error("expected image for non-empty key")
	}
}
