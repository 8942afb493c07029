package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/models"
	"github.com/villageveggies/backend/internal/respond"
)

// Store defines the account and listing reads the profile needs.
type Store interface {
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	ListByOwner(ctx context.Context, userID int64) ([]models.Listing, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// Handler serves the caller's own profile.
type Handler struct {
	store    Store
	sessions auth.SessionStore
	cookies  auth.Cookies
}

func NewHandler(store Store, sessions auth.SessionStore, cookies auth.Cookies) *Handler {
	return &Handler{store: store, sessions: sessions, cookies: cookies}
}

// Get returns the caller's account and all of their listings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())

	account, err := h.store.GetAccountByID(r.Context(), sess.AccountID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	listings, err := h.store.ListByOwner(r.Context(), account.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, models.Profile{Account: account, Listings: listings})
}

// Delete removes the caller's account and listings and ends the session.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())

	if err := h.store.DeleteAccount(r.Context(), sess.AccountID); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
		respond.Error(w, r, apperr.Internal("session delete failed", err))
		return
	}
	h.cookies.Clear(w)

	slog.InfoContext(r.Context(), "account deleted", "account_id", sess.AccountID)
	respond.Message(w, http.StatusOK, "account deleted")
}
