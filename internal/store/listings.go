package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/models"
)

const listingColumns = `l.id, l.user_id, l.title, l.price, l.quantity, l.harvest_date, l.zip,
	l.growing_method, l.notes, l.status, l.created_at, l.updated_at`

func listingDest(l *models.Listing) []any {
	return []any{
		&l.ID, &l.UserID, &l.Title, &l.Price, &l.Quantity, &l.HarvestDate, &l.Zip,
		&l.GrowingMethod, &l.Notes, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	}
}

func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	if err := row.Scan(listingDest(&l)...); err != nil {
		return nil, err
	}
	return &l, nil
}

// collectListings scans rows of listingColumns, optionally followed by the
// owner's name.
func collectListings(rows pgx.Rows, withGrower bool) ([]models.Listing, error) {
	defer rows.Close()
	out := []models.Listing{}
	for rows.Next() {
		var l models.Listing
		dest := listingDest(&l)
		if withGrower {
			dest = append(dest, &l.GrowerName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateListing(ctx context.Context, in models.NewListing) (*models.Listing, error) {
	l, err := scanListing(s.pool.QueryRow(ctx,
		`INSERT INTO listings AS l (user_id, title, price, quantity, harvest_date, zip, growing_method, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+listingColumns,
		in.UserID, in.Title, in.Price, in.Quantity, in.HarvestDate, in.Zip, in.GrowingMethod, in.Notes,
	))
	if err != nil {
		return nil, dbErr("create listing", err)
	}
	return l, nil
}

// GetListingWithOwner returns a listing of any status together with its
// owner's full account record.
func (s *PostgresStore) GetListingWithOwner(ctx context.Context, id int64) (*models.Listing, *models.Account, error) {
	var (
		l models.Listing
		a models.Account
	)
	dest := append(listingDest(&l), &a.ID, &a.Email, &a.Name, &a.Zip, &a.Blurb, &a.Contact, &a.CreatedAt)
	err := s.pool.QueryRow(ctx,
		`SELECT `+listingColumns+`, a.id, a.email, a.name, a.zip, a.blurb, a.contact, a.created_at
		 FROM listings l JOIN accounts a ON a.id = l.user_id
		 WHERE l.id = $1`, id,
	).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperr.Missing("listing not found")
	}
	if err != nil {
		return nil, nil, dbErr("get listing", err)
	}
	l.GrowerName = a.Name
	return &l, &a, nil
}

// ListByOwner returns every listing the account owns, newest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, userID int64) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM listings l
		 WHERE l.user_id = $1
		 ORDER BY l.created_at DESC, l.id DESC`, userID,
	)
	if err != nil {
		return nil, dbErr("list listings", err)
	}
	out, err := collectListings(rows, false)
	if err != nil {
		return nil, dbErr("list listings", err)
	}
	return out, nil
}

// ListGrowerInventory returns a grower's active listings, most recently
// updated first.
func (s *PostgresStore) ListGrowerInventory(ctx context.Context, userID int64) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+listingColumns+`, a.name FROM listings l JOIN accounts a ON a.id = l.user_id
		 WHERE l.user_id = $1 AND l.status = 'active'
		 ORDER BY l.updated_at DESC, l.id DESC`, userID,
	)
	if err != nil {
		return nil, dbErr("list inventory", err)
	}
	out, err := collectListings(rows, true)
	if err != nil {
		return nil, dbErr("list inventory", err)
	}
	return out, nil
}

const browseSelect = `SELECT ` + listingColumns + `, a.name
	FROM listings l JOIN accounts a ON a.id = l.user_id
	WHERE l.status = 'active' AND l.user_id <> $1 AND `

const browseOrder = ` ORDER BY l.created_at DESC, l.id DESC LIMIT $3`

// BrowseByZipPrefix matches active listings of other growers whose zip starts
// with prefix. prefix must be digits only.
func (s *PostgresStore) BrowseByZipPrefix(ctx context.Context, callerID int64, prefix string, limit int) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx, browseSelect+`l.zip LIKE $2::text || '%'`+browseOrder, callerID, prefix, limit)
	if err != nil {
		return nil, dbErr("browse by zip", err)
	}
	out, err := collectListings(rows, true)
	if err != nil {
		return nil, dbErr("browse by zip", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BrowseByTitle matches active listings of other growers whose title
// contains term, ignoring case. LIKE wildcards in term match literally.
func (s *PostgresStore) BrowseByTitle(ctx context.Context, callerID int64, term string, limit int) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx,
		browseSelect+`l.title ILIKE '%' || $2::text || '%' ESCAPE '\'`+browseOrder,
		callerID, likeEscaper.Replace(term), limit,
	)
	if err != nil {
		return nil, dbErr("browse by title", err)
	}
	out, err := collectListings(rows, true)
	if err != nil {
		return nil, dbErr("browse by title", err)
	}
	return out, nil
}

// UpdateListingStatus changes the status of a listing owned by ownerID.
// Listings owned by someone else are reported as not found.
func (s *PostgresStore) UpdateListingStatus(ctx context.Context, id, ownerID int64, status string) (*models.Listing, error) {
	l, err := scanListing(s.pool.QueryRow(ctx,
		`UPDATE listings AS l SET status = $3, updated_at = now()
		 WHERE l.id = $1 AND l.user_id = $2
		 RETURNING `+listingColumns,
		id, ownerID, status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Missing("listing not found")
	}
	if err != nil {
		return nil, dbErr("update listing status", err)
	}
	return l, nil
}

func (s *PostgresStore) DeleteListing(ctx context.Context, id, ownerID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return dbErr("delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Missing("listing not found")
	}
	return nil
}
