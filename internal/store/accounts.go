package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/models"
)

const accountColumns = `id, email, password_hash, name, zip, blurb, contact, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Zip, &a.Blurb, &a.Contact, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, in models.NewAccount) (*models.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`INSERT INTO accounts (email, password_hash, name, zip, blurb, contact)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+accountColumns,
		in.Email, in.PasswordHash, in.Name, in.Zip, in.Blurb, in.Contact,
	))
	if err != nil {
		return nil, dbErr("create account", err)
	}
	return a, nil
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Missing("account not found")
	}
	if err != nil {
		return nil, dbErr("get account by email", err)
	}
	return a, nil
}

func (s *PostgresStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Missing("account not found")
	}
	if err != nil {
		return nil, dbErr("get account", err)
	}
	return a, nil
}

// DeleteAccount removes the account; its listings go with it.
func (s *PostgresStore) DeleteAccount(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return dbErr("delete account", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Missing("account not found")
	}
	return nil
}

const growerCardQuery = `
SELECT a.id, a.name, a.zip, a.blurb,
       (SELECT max(l.updated_at) FROM listings l WHERE l.user_id = a.id) AS inventory_updated_at
FROM accounts a`

func scanGrowerCard(row pgx.Row) (*models.GrowerCard, error) {
	var g models.GrowerCard
	if err := row.Scan(&g.ID, &g.Name, &g.Zip, &g.Blurb, &g.InventoryUpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// FindGrower resolves ref as an account id first, then as an exact name or
// a case-insensitive email. Ties on name go to the oldest account.
func (s *PostgresStore) FindGrower(ctx context.Context, ref string) (*models.GrowerCard, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		g, err := scanGrowerCard(s.pool.QueryRow(ctx, growerCardQuery+` WHERE a.id = $1`, id))
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, dbErr("find grower by id", err)
		}
	}

	g, err := scanGrowerCard(s.pool.QueryRow(ctx,
		growerCardQuery+` WHERE a.name = $1 OR a.email = lower($1) ORDER BY a.id LIMIT 1`, ref,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Missing("grower not found")
	}
	if err != nil {
		return nil, dbErr("find grower", err)
	}
	return g, nil
}

// ListGrowers returns up to limit directory cards, growers with the most
// recently touched inventory first and growers without listings last.
func (s *PostgresStore) ListGrowers(ctx context.Context, limit int) ([]models.GrowerCard, error) {
	rows, err := s.pool.Query(ctx,
		growerCardQuery+` ORDER BY inventory_updated_at DESC NULLS LAST, a.id LIMIT $1`, limit,
	)
	if err != nil {
		return nil, dbErr("list growers", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.GrowerCard, error) {
		g, err := scanGrowerCard(row)
		if err != nil {
			return models.GrowerCard{}, err
		}
		return *g, nil
	})
	if err != nil {
		return nil, dbErr("list growers", err)
	}
	if out == nil {
		out = []models.GrowerCard{}
	}
	return out, nil
}
