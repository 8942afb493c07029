package crops

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/metrics"
	"github.com/villageveggies/backend/internal/models"
	"github.com/villageveggies/backend/internal/respond"
	"github.com/villageveggies/backend/internal/validate"
)

// NoContact is shown when a grower left their contact text empty.
const NoContact = "Contact information not provided"

const maxZipPrefix = 5

// Store defines the listing persistence the crop handlers need.
type Store interface {
	CreateListing(ctx context.Context, in models.NewListing) (*models.Listing, error)
	GetListingWithOwner(ctx context.Context, id int64) (*models.Listing, *models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	BrowseByZipPrefix(ctx context.Context, callerID int64, prefix string, limit int) ([]models.Listing, error)
	BrowseByTitle(ctx context.Context, callerID int64, term string, limit int) ([]models.Listing, error)
	UpdateListingStatus(ctx context.Context, id, ownerID int64, status string) (*models.Listing, error)
	DeleteListing(ctx context.Context, id, ownerID int64) error
}

// Handler holds crop listing HTTP handlers.
type Handler struct {
	store       Store
	browseLimit int
}

func NewHandler(store Store, browseLimit int) *Handler {
	return &Handler{store: store, browseLimit: browseLimit}
}

func trimmed(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// Create publishes a new listing owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())

	var req models.CreateCropRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	price := strings.TrimSpace(req.Price)
	quantity := strings.TrimSpace(req.Quantity)
	harvest := strings.TrimSpace(req.HarvestDate)
	zip := strings.TrimSpace(string(req.Zip))

	f := validate.Fields{}
	f.Required("title", title)
	f.Required("price", price)
	f.Required("quantity", quantity)
	f.Required("harvestDate", harvest)
	f.Required("zip", zip)
	f.Zip("zip", zip)
	date, err := models.ParseDate(harvest)
	f.Check(harvest != "" && err != nil, "harvestDate", "must be a date in YYYY-MM-DD form")
	if err := f.Err("missing or invalid listing fields"); err != nil {
		respond.Error(w, r, err)
		return
	}

	listing, err := h.store.CreateListing(r.Context(), models.NewListing{
		UserID:        sess.AccountID,
		Title:         title,
		Price:         price,
		Quantity:      quantity,
		HarvestDate:   date,
		Zip:           zip,
		GrowingMethod: trimmed(req.GrowingMethod),
		Notes:         trimmed(req.Notes),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, listing)
}

// Browse lists other growers' active listings. A digit-only key is a ZIP
// prefix, anything else a title substring. With no key the caller's own ZIP
// is used.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	q := r.URL.Query()

	param, key := "zip", strings.TrimSpace(q.Get("zip"))
	if key != "" && !validate.Digits(key) {
		respond.Error(w, r, apperr.Invalid("invalid browse key", map[string]string{"zip": "must contain digits only"}))
		return
	}
	for _, p := range []string{"title", "q"} {
		if key != "" {
			break
		}
		param, key = p, strings.TrimSpace(q.Get(p))
	}
	if key == "" {
		param = "zip"
		account, err := h.store.GetAccountByID(r.Context(), sess.AccountID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		key = account.Zip
	}

	var (
		result = models.BrowseResult{Query: key}
		err    error
	)
	if validate.Digits(key) {
		if len(key) > maxZipPrefix {
			respond.Error(w, r, apperr.Invalid("invalid browse key", map[string]string{
				param: "a digits-only key is a ZIP prefix and must be at most 5 digits",
			}))
			return
		}
		result.Mode = models.BrowseByZip
		result.Listings, err = h.store.BrowseByZipPrefix(r.Context(), sess.AccountID, key, h.browseLimit)
	} else {
		result.Mode = models.BrowseByTitle
		result.Listings, err = h.store.BrowseByTitle(r.Context(), sess.AccountID, key, h.browseLimit)
	}
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

func listingID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid listing id", map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// activeListing loads a listing and its owner, hiding anything not active.
func (h *Handler) activeListing(r *http.Request) (*models.Listing, *models.Account, error) {
	id, err := listingID(r)
	if err != nil {
		return nil, nil, err
	}
	listing, owner, err := h.store.GetListingWithOwner(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	if listing.Status != models.StatusActive {
		return nil, nil, apperr.Missing("listing not found")
	}
	return listing, owner, nil
}

// Get returns one active listing and its grower's public profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	listing, owner, err := h.activeListing(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, models.ListingDetail{Crop: *listing, Grower: owner.Public()})
}

// RevealContact discloses the grower's contact text for an active listing.
func (h *Handler) RevealContact(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	listing, owner, err := h.activeListing(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	text := NoContact
	if owner.Contact != nil && strings.TrimSpace(*owner.Contact) != "" {
		text = *owner.Contact
	}

	metrics.ContactReveals.Inc()
	slog.InfoContext(r.Context(), "contact revealed",
		"listing_id", listing.ID,
		"grower_id", owner.ID,
		"viewer_id", sess.AccountID,
	)
	respond.JSON(w, http.StatusOK, models.ContactReveal{ListingID: listing.ID, ContactText: text})
}

// UpdateStatus changes the status of one of the caller's listings.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := listingID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req models.UpdateStatusRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !models.ValidStatus(status) {
		respond.Error(w, r, apperr.Invalid("invalid status", map[string]string{"status": "must be active, inactive or sold"}))
		return
	}

	listing, err := h.store.UpdateListingStatus(r.Context(), id, sess.AccountID, status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listing)
}

// Delete removes one of the caller's listings.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := listingID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.store.DeleteListing(r.Context(), id, sess.AccountID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "deleted")
}
