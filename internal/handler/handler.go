// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/middleware"
	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/service"
	"github.com/rewear/rewear/internal/view"
)

// Flash messages shown after a redirect.
const (
	msgLogInFirst         = "Log in first!"
	msgProductAdded       = "Product added!"
	msgUsernameExists     = "Username already exists."
	msgMissingCredentials = "Username and password are required."
	msgAccountCreated     = "Account created! Log in."
	msgLoggedIn           = "Logged in!"
	msgInvalidLogIn       = "Invalid login."
	msgLoggedOut          = "Logged out."
	msgDeleteLogIn        = "You must be logged in to delete a product."
	msgItemDeleted        = "Item deleted."
	msgNotOwner           = "You can only delete your own items."
	msgItemNotFound       = "Item not found."
)

// sessionHandlerFunc is a handler that receives the request's session explicitly.
type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *auth.Session)

// Web serves the HTML pages and form posts.
type Web struct {
	accounts *service.AccountService
	listings *service.ListingService
	sessions *auth.SessionManager
	views    *view.Renderer
	logger   *slog.Logger
}

// NewWeb creates a new Web handler.
func NewWeb(
	accounts *service.AccountService,
	listings *service.ListingService,
	sessions *auth.SessionManager,
	views *view.Renderer,
	logger *slog.Logger,
) *Web {
	return &Web{
		accounts: accounts,
		listings: listings,
		sessions: sessions,
		views:    views,
		logger:   logger,
	}
}

// Register mounts the page routes on r.
func (h *Web) Register(r chi.Router) {
	r.Get("/", h.withSession(h.Home))

	r.Get("/add", h.withSession(h.AddForm))
	r.Post("/add", h.withSession(h.Add))
	r.Post("/delete/{id:[0-9]+}", h.withSession(h.Delete))

	r.Get("/sign-up", h.withSession(h.SignUpForm))
	r.Post("/sign-up", h.withSession(h.SignUp))
	r.Get("/log-in", h.withSession(h.LogInForm))
	r.Post("/log-in", h.withSession(h.LogIn))
	r.Post("/log-out", h.withSession(h.LogOut))
}

func (h *Web) withSession(fn sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, h.sessions.Load(r))
	}
}

// render pops the pending flashes into the page and persists the session
// before the body is written.
func (h *Web) render(w http.ResponseWriter, r *http.Request, sess *auth.Session, page string, listings []model.ListingView) {
	data := view.Data{
		Username: sess.Username,
		Flashes:  sess.PopFlashes(),
		Listings: listings,
	}
	if err := h.sessions.Save(w, sess); err != nil {
		h.serverError(w, r, err)
		return
	}
	if err := h.views.Render(w, page, data); err != nil {
		h.serverError(w, r, err)
	}
}

// redirectWithFlash queues a notice and sends the browser to target with 303.
func (h *Web) redirectWithFlash(w http.ResponseWriter, r *http.Request, sess *auth.Session, category, message, target string) {
	sess.AddFlash(category, message)
	if err := h.sessions.Save(w, sess); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseForm parses a urlencoded or multipart body. It answers 413 or 400 and
// returns false when the body cannot be read.
func (h *Web) parseForm(w http.ResponseWriter, r *http.Request, multipart bool) bool {
	var err error
	if multipart {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}

	if middleware.IsBodyTooLarge(err) {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return false
	}
	h.logger.Warn("malformed form",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	return false
}

// serverError logs err and answers a generic 500.
func (h *Web) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
