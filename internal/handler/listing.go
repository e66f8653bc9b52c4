package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/service"
	"github.com/rewear/rewear/internal/view"
)

// maxMultipartMemory bounds the in-memory part of a parsed upload.
// Bodies are already capped by middleware.MaxBodySize.
const maxMultipartMemory = 32 << 20

// Home handles GET /.
func (h *Web) Home(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	listings, err := h.listings.ListAll(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, sess, view.PageHome, listings)
}

// AddForm handles GET /add.
func (h *Web) AddForm(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if !sess.LoggedIn() {
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgLogInFirst, "/")
		return
	}
	h.render(w, r, sess, view.PageAdd, nil)
}

// Add handles POST /add.
func (h *Web) Add(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if !sess.LoggedIn() {
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgLogInFirst, "/")
		return
	}
	if !h.parseForm(w, r, true) {
		return
	}

	input := service.AddListingInput{
		Name:        r.PostForm.Get("title"),
		Price:       r.PostForm.Get("price"),
		ContactInfo: r.PostForm.Get("contact"),
		Size:        r.PostForm.Get("size"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.serverError(w, r, err)
		return
	default:
		defer file.Close()
		if header.Filename != "" {
			input.Image = &service.ImageUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
		}
	}

	if _, err := h.listings.AddListing(r.Context(), sess, input); err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			h.redirectWithFlash(w, r, sess, auth.FlashError, msgLogInFirst, "/")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.redirectWithFlash(w, r, sess, auth.FlashSuccess, msgProductAdded, "/")
}

// Delete handles POST /delete/{id}.
func (h *Web) Delete(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		NotFound(w, r)
		return
	}

	err = h.listings.DeleteListing(r.Context(), sess, id)
	switch {
	case err == nil:
		h.redirectWithFlash(w, r, sess, auth.FlashSuccess, msgItemDeleted, "/")
	case errors.Is(err, auth.ErrUnauthenticated):
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgDeleteLogIn, "/")
	case errors.Is(err, service.ErrListingNotFound):
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgItemNotFound, "/")
	case errors.Is(err, auth.ErrForbidden):
		h.redirectWithFlash(w, r, sess, auth.FlashError, msgNotOwner, "/")
	default:
		h.serverError(w, r, err)
	}
}
