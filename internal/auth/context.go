package auth

import (
	"context"

	"github.com/villageveggies/backend/internal/models"
)

type ctxKey struct{}

// WithSession attaches a validated session to ctx.
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session attached by RequireAuth, if any.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*models.Session)
	return s, ok && s != nil
}
