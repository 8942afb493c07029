package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/metrics"
	"github.com/villageveggies/backend/internal/models"
	"github.com/villageveggies/backend/internal/respond"
	"github.com/villageveggies/backend/internal/validate"
)

// AccountStore defines the account persistence the auth flows need.
type AccountStore interface {
	CreateAccount(ctx context.Context, in models.NewAccount) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	accounts AccountStore
	sessions SessionStore
	cookies  Cookies
}

func NewHandler(accounts AccountStore, sessions SessionStore, cookies Cookies) *Handler {
	return &Handler{accounts: accounts, sessions: sessions, cookies: cookies}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// Register creates a new grower account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	zip := strings.TrimSpace(string(req.Zip))

	f := validate.Fields{}
	f.Required("email", email)
	f.Email("email", email)
	f.Required("password", req.Password)
	f.Required("name", name)
	f.Required("zip", zip)
	f.Zip("zip", zip)
	f.Required("contact", req.Contact)
	if err := f.Err("missing or invalid registration fields"); err != nil {
		respond.Error(w, r, err)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		respond.Error(w, r, apperr.Internal("hash password", err))
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), models.NewAccount{
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Zip:          zip,
		Blurb:        optional(req.Blurb),
		Contact:      optional(req.Contact),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.Registrations.Inc()
	slog.InfoContext(r.Context(), "account registered", "account_id", account.ID)
	respond.JSON(w, http.StatusCreated, account)
}

// Login authenticates a grower and creates a session. Unknown emails and
// wrong passwords get the same answer.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	email := normalizeEmail(req.Email)

	f := validate.Fields{}
	f.Required("email", email)
	f.Required("password", req.Password)
	if err := f.Err("email and password are required"); err != nil {
		respond.Error(w, r, err)
		return
	}

	account, err := h.accounts.GetAccountByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			respond.Error(w, r, err)
			return
		}
		VerifyPassword(req.Password, string(dummyHash))
		metrics.Logins.WithLabelValues("rejected").Inc()
		respond.Error(w, r, apperr.BadCredentials())
		return
	}
	if !VerifyPassword(req.Password, account.PasswordHash) {
		metrics.Logins.WithLabelValues("rejected").Inc()
		respond.Error(w, r, apperr.BadCredentials())
		return
	}

	// A fresh login replaces whatever session the browser held.
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := h.sessions.Delete(r.Context(), c.Value); err != nil {
			slog.WarnContext(r.Context(), "drop previous session", "err", err)
		}
	}

	sid, err := h.sessions.Create(r.Context(), account.ID, account.Email)
	if err != nil {
		respond.Error(w, r, apperr.Internal("session creation failed", err))
		return
	}
	h.cookies.Set(w, sid)

	metrics.Logins.WithLabelValues("ok").Inc()
	respond.JSON(w, http.StatusOK, account)
}

// Logout destroys the current session, if there is one.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := h.sessions.Delete(r.Context(), c.Value); err != nil {
			respond.Error(w, r, apperr.Internal("session delete failed", err))
			return
		}
	}
	h.cookies.Clear(w)
	respond.Message(w, http.StatusOK, "logged out")
}
