package auth

import (
	"errors"
	"testing"
)

func TestRequireSession(t *testing.T) {
	t.Parallel()

	if _, err := RequireSession(&Session{}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty session: got %v, want ErrUnauthenticated", err)
	}
	if _, err := RequireSession(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil session: got %v, want ErrUnauthenticated", err)
	}

	username, err := RequireSession(&Session{Username: "alice"})
	if err != nil || username != "alice" {
		t.Errorf("got (%q, %v), want (alice, nil)", username, err)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *Session
		owner   string
		wantErr error
	}{
		{"owner", &Session{Username: "alice"}, "alice", nil},
		{"other user", &Session{Username: "bob"}, "alice", ErrForbidden},
		{"case differs", &Session{Username: "Alice"}, "alice", ErrForbidden},
		{"anonymous", &Session{}, "alice", ErrUnauthenticated},
		{"anonymous empty owner", &Session{}, "", ErrUnauthenticated},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := AuthorizeOwner(tt.session, tt.owner)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizeOwner() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
