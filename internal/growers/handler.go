// Package growers serves the grower directory: a grower's public profile and
// current inventory, looked up by id, name or email.
package growers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/models"
	"github.com/villageveggies/backend/internal/respond"
)

type Store interface {
	ListGrowers(ctx context.Context, limit int) ([]models.GrowerCard, error)
	FindGrower(ctx context.Context, ref string) (*models.GrowerCard, error)
	ListGrowerInventory(ctx context.Context, userID int64) ([]models.Listing, error)
}

type Handler struct {
	store Store
	limit int
}

func NewHandler(store Store, limit int) *Handler {
	return &Handler{store: store, limit: limit}
}

// List returns the directory index, most recently stocked growers first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.store.ListGrowers(r.Context(), h.limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, cards)
}

func (h *Handler) resolve(r *http.Request) (*models.GrowerCard, []models.Listing, error) {
	ref := strings.TrimSpace(chi.URLParam(r, "ref"))
	if ref == "" {
		return nil, nil, apperr.Missing("grower not found")
	}
	grower, err := h.store.FindGrower(r.Context(), ref)
	if err != nil {
		return nil, nil, err
	}
	listings, err := h.store.ListGrowerInventory(r.Context(), grower.ID)
	if err != nil {
		return nil, nil, err
	}
	return grower, listings, nil
}

// Get returns the grower's card and active listings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	grower, listings, err := h.resolve(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, models.GrowerPage{Grower: *grower, Listings: listings})
}

// Inventory returns only the grower's active listings.
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	_, listings, err := h.resolve(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listings)
}
