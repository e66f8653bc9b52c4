package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/service"
	"github.com/rewear/rewear/internal/view"
)

// SignUpForm handles GET /sign-up.
func (h *Web) SignUpForm(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	h.render(w, r, sess, view.PageSignUp, nil)
}

// SignUp handles POST /sign-up.
func (h *Web) SignUp(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if !h.parseForm(w, r, false) {
		return
	}

	err := h.accounts.SignUp(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	switch {
	case err == nil:
		h.redirectWithFlash(w, r, sess, auth.FlashSuccess, msgAccountCreated, "/")
	case errors.Is(err, service.ErrDuplicateUsername):
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgUsernameExists, "/sign-up")
	case errors.Is(err, service.ErrMissingCredentials):
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgMissingCredentials, "/sign-up")
	default:
		h.serverError(w, r, err)
	}
}

// LogInForm handles GET /log-in.
func (h *Web) LogInForm(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	h.render(w, r, sess, view.PageLogIn, nil)
}

// LogIn handles POST /log-in. On success the username is written into the
// signed session cookie.
func (h *Web) LogIn(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if !h.parseForm(w, r, false) {
		return
	}

	user, err := h.accounts.LogIn(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.redirectWithFlash(w, r, sess, auth.FlashError, msgInvalidLogIn, "/log-in")
			return
		}
		h.serverError(w, r, err)
		return
	}

	sess.SetUser(user.Username)
	h.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	h.redirectWithFlash(w, r, sess, auth.FlashSuccess, msgLoggedIn, "/")
}

// LogOut handles POST /log-out.
func (h *Web) LogOut(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	sess.Clear()
	h.redirectWithFlash(w, r, sess, auth.FlashSuccess, msgLoggedOut, "/")
}
