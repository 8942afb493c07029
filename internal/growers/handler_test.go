package growers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/models"
)

type memStore struct {
	accounts []models.Account
	listings map[int64][]models.Listing
}

func (m *memStore) card(a models.Account) models.GrowerCard {
	card := models.GrowerCard{Grower: a.Public()}
	if ls := m.listings[a.ID]; len(ls) > 0 {
		ts := ls[0].UpdatedAt
		card.InventoryUpdatedAt = &ts
	}
	return card
}

func (m *memStore) ListGrowers(_ context.Context, limit int) ([]models.GrowerCard, error) {
	out := []models.GrowerCard{}
	for _, a := range m.accounts {
		out = append(out, m.card(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].InventoryUpdatedAt, out[j].InventoryUpdatedAt
		if ti == nil || tj == nil {
			return ti != nil
		}
		return ti.After(*tj)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) FindGrower(_ context.Context, ref string) (*models.GrowerCard, error) {
	id, idErr := strconv.ParseInt(ref, 10, 64)
	for _, a := range m.accounts {
		if (idErr == nil && a.ID == id) || a.Name == ref || a.Email == strings.ToLower(ref) {
			card := m.card(a)
			return &card, nil
		}
	}
	return nil, apperr.Missing("grower not found")
}

func (m *memStore) ListGrowerInventory(_ context.Context, userID int64) ([]models.Listing, error) {
	out := []models.Listing{}
	for _, l := range m.listings[userID] {
		if l.Status == models.StatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func newRouter() http.Handler {
	return newLimitedRouter(100)
}

func newLimitedRouter(limit int) http.Handler {
	contact := "555-0100"
	updated := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	store := &memStore{
		accounts: []models.Account{
			{ID: 1, Email: "alice@x.com", Name: "Alice", Zip: "80202", Contact: &contact},
			{ID: 2, Email: "bob@x.com", Name: "Bob", Zip: "80203"},
		},
		listings: map[int64][]models.Listing{
			1: {
				{ID: 3, UserID: 1, Title: "Kale", Status: models.StatusActive, UpdatedAt: updated},
				{ID: 1, UserID: 1, Title: "Basil", Status: models.StatusInactive, UpdatedAt: updated.Add(-time.Hour)},
			},
		},
	}
	h := NewHandler(store, limit)
	r := chi.NewRouter()
	r.Get("/api/growers", h.List)
	r.Get("/api/growers/{ref}", h.Get)
	r.Get("/api/growers/{ref}/listings", h.Inventory)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGet(t *testing.T) {
	h := newRouter()

	for _, ref := range []string{"1", "Alice", "ALICE@x.com"} {
		w := get(h, "/api/growers/"+ref)
		require.Equal(t, http.StatusOK, w.Code, ref)
		assert.NotContains(t, w.Body.String(), "555-0100", "contact stays private")
		assert.NotContains(t, w.Body.String(), "alice@x.com", "email is lookup only")

		var page models.GrowerPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Grower.ID)
		require.NotNil(t, page.Grower.InventoryUpdatedAt)
		require.Len(t, page.Listings, 1)
		assert.Equal(t, "Kale", page.Listings[0].Title)
	}
}

func TestGetWithoutListings(t *testing.T) {
	w := get(newRouter(), "/api/growers/Bob")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inventory_updated_at":null`)
	assert.Contains(t, w.Body.String(), `"listings":[]`)
}

func TestGetUnknown(t *testing.T) {
	w := get(newRouter(), "/api/growers/nobody")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"grower not found"}`, w.Body.String())
}

func TestInventory(t *testing.T) {
	w := get(newRouter(), "/api/growers/Alice/listings")
	require.Equal(t, http.StatusOK, w.Code)

	var ls []models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ls))
	require.Len(t, ls, 1)
	assert.Equal(t, int64(3), ls[0].ID)
}

func TestList(t *testing.T) {
	w := get(newRouter(), "/api/growers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "555-0100")
	assert.NotContains(t, w.Body.String(), "@x.com")

	var cards []models.GrowerCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "Alice", cards[0].Name)
	assert.NotNil(t, cards[0].InventoryUpdatedAt)
	assert.Equal(t, "Bob", cards[1].Name)
	assert.Nil(t, cards[1].InventoryUpdatedAt)
}

func TestListRespectsLimit(t *testing.T) {
	w := get(newLimitedRouter(1), "/api/growers")
	require.Equal(t, http.StatusOK, w.Code)

	var cards []models.GrowerCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "Alice", cards[0].Name)
}
