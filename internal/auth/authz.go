package auth

import "errors"

var (
	// ErrUnauthenticated indicates the session has no logged-in user.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrForbidden indicates the user does not own the resource.
	ErrForbidden = errors.New("not the owner")
)

// RequireSession returns the session's username, or ErrUnauthenticated.
func RequireSession(s *Session) (string, error) {
	if !s.LoggedIn() {
		return "", ErrUnauthenticated
	}
	return s.Username, nil
}

// AuthorizeOwner allows the action only when the session user is owner.
// Comparison is exact and case-sensitive.
func AuthorizeOwner(s *Session, owner string) error {
	username, err := RequireSession(s)
	if err != nil {
		return err
	}
	if username != owner {
		return ErrForbidden
	}
	return nil
}
