package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookieName is the cookie carrying the signed session.
	SessionCookieName = "session"

	sessionIssuer = "rewear"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the per-browser state: the logged-in username and pending flashes.
// It lives entirely in the signed cookie.
type Session struct {
	Username string
	Flashes  []Flash

	dirty bool
}

// LoggedIn reports whether a user is bound to the session.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Username != ""
}

// SetUser binds username to the session.
func (s *Session) SetUser(username string) {
	s.Username = username
	s.dirty = true
}

// Clear removes the username. Pending flashes are kept.
func (s *Session) Clear() {
	s.Username = ""
	s.dirty = true
}

// AddFlash queues a notice.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns the queued notices and empties the queue.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	if len(flashes) > 0 {
		s.Flashes = nil
		s.dirty = true
	}
	return flashes
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	return s.dirty
}

type sessionClaims struct {
	Username string  `json:"username,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager reads and writes the session cookie.
// The token is an HS256 JWT with no expiry; the cookie has no Max-Age so it
// ends with the browser session.
type SessionManager struct {
	secret []byte
	secure bool
}

// NewSessionManager creates a SessionManager signing with secret.
// secure sets the cookie's Secure attribute.
func NewSessionManager(secret string, secure bool) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("auth: session secret must not be empty")
	}
	return &SessionManager{secret: []byte(secret), secure: secure}, nil
}

// Load returns the session carried by r. A missing, tampered or unparsable
// cookie yields an empty session.
func (m *SessionManager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}
	}

	c, err := m.parse(cookie.Value)
	if err != nil {
		return &Session{}
	}
	return &Session{Username: c.Username, Flashes: c.Flashes}
}

// Save writes the session cookie when the session changed. An empty session
// deletes the cookie.
func (m *SessionManager) Save(w http.ResponseWriter, s *Session) error {
	if !s.Modified() {
		return nil
	}

	if s.Username == "" && len(s.Flashes) == 0 {
		http.SetCookie(w, m.cookie("", -1))
		return nil
	}

	token, err := m.sign(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(token, 0))
	s.dirty = false
	return nil
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *SessionManager) sign(s *Session) (string, error) {
	c := sessionClaims{
		Username: s.Username,
		Flashes:  s.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   sessionIssuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) parse(token string) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&sessionClaims{},
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid session: %w", err)
	}

	c, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("auth: invalid session claims")
	}
	return c, nil
}
