package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/models"
)

type memStore struct {
	accounts map[int64]*models.Account
	listings map[int64][]models.Listing
}

func (m *memStore) GetAccountByID(_ context.Context, id int64) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, apperr.Missing("account not found")
	}
	return a, nil
}

func (m *memStore) ListByOwner(_ context.Context, userID int64) ([]models.Listing, error) {
	out := m.listings[userID]
	if out == nil {
		out = []models.Listing{}
	}
	return out, nil
}

func (m *memStore) DeleteAccount(_ context.Context, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return apperr.Missing("account not found")
	}
	delete(m.accounts, id)
	delete(m.listings, id)
	return nil
}

type memSessions struct{ deleted []string }

func (m *memSessions) Create(context.Context, int64, string) (string, error) { return "sid", nil }
func (m *memSessions) Get(context.Context, string) (*models.Session, error)  { return nil, nil }
func (m *memSessions) Delete(_ context.Context, sid string) error {
	m.deleted = append(m.deleted, sid)
	return nil
}

func fixture() (*memStore, *memSessions, *Handler) {
	contact := "call me"
	store := &memStore{
		accounts: map[int64]*models.Account{
			1: {ID: 1, Email: "a@x.com", PasswordHash: "$2a$10$hash", Name: "A", Zip: "80202", Contact: &contact},
		},
		listings: map[int64][]models.Listing{
			1: {
				{ID: 2, UserID: 1, Title: "Kale", Status: models.StatusSold},
				{ID: 1, UserID: 1, Title: "Basil", Status: models.StatusActive},
			},
		},
	}
	sessions := &memSessions{}
	return store, sessions, NewHandler(store, sessions, auth.Cookies{TTL: 24 * time.Hour})
}

func as(r *http.Request, accountID int64) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), &models.Session{ID: "sid-1", AccountID: accountID}))
}

func TestGet(t *testing.T) {
	_, _, h := fixture()
	w := httptest.NewRecorder()
	h.Get(w, as(httptest.NewRequest(http.MethodGet, "/api/profile", nil), 1))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "$2a$10$hash")

	var p struct {
		User     models.Account   `json:"user"`
		Listings []models.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.NotContains(t, w.Body.String(), `"account"`)
	assert.Equal(t, int64(1), p.User.ID)
	assert.Equal(t, "80202", p.User.Zip)
	assert.Equal(t, "call me", *p.User.Contact)
	require.Len(t, p.Listings, 2)
	assert.Equal(t, models.StatusSold, p.Listings[0].Status)
}

func TestGetEmptyListings(t *testing.T) {
	store, _, h := fixture()
	delete(store.listings, 1)
	w := httptest.NewRecorder()
	h.Get(w, as(httptest.NewRequest(http.MethodGet, "/api/profile", nil), 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"listings":[]`)
}

func TestGetVanishedAccount(t *testing.T) {
	_, _, h := fixture()
	w := httptest.NewRecorder()
	h.Get(w, as(httptest.NewRequest(http.MethodGet, "/api/profile", nil), 42))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	store, sessions, h := fixture()

	w := httptest.NewRecorder()
	h.Delete(w, as(httptest.NewRequest(http.MethodDelete, "/api/profile", nil), 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.accounts)
	assert.Empty(t, store.listings)
	assert.Equal(t, []string{"sid-1"}, sessions.deleted)

	c := w.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, auth.SessionCookie, c[0].Name)
	assert.Equal(t, -1, c[0].MaxAge)

	w = httptest.NewRecorder()
	h.Delete(w, as(httptest.NewRequest(http.MethodDelete, "/api/profile", nil), 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
