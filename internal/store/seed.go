package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SeedGrower is a demo account inserted by Seed.
type SeedGrower struct {
	Email        string
	PasswordHash string
	Name         string
	Zip          string
	Blurb        string
	Contact      string
	Crops        []SeedCrop
}

type SeedCrop struct {
	Title       string
	Price       string
	Quantity    string
	HarvestDate time.Time
	Zip         string
	Method      string
	Status      string
}

// Seed inserts the growers and their crops in one transaction. A failure on
// any row rolls back the whole batch.
func (s *PostgresStore) Seed(ctx context.Context, growers []SeedGrower) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, g := range growers {
			var id int64
			err := tx.QueryRow(ctx,
				`INSERT INTO accounts (email, password_hash, name, zip, blurb, contact)
				 VALUES ($1, $2, $3, $4, NULLIF($5::text, ''), NULLIF($6::text, ''))
				 RETURNING id`,
				g.Email, g.PasswordHash, g.Name, g.Zip, g.Blurb, g.Contact,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed account %s: %w", g.Email, dbErr("seed account", err))
			}

			batch := &pgx.Batch{}
			for _, c := range g.Crops {
				status := c.Status
				if status == "" {
					status = "active"
				}
				batch.Queue(
					`INSERT INTO listings (user_id, title, price, quantity, harvest_date, zip, growing_method, status)
					 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7::text, ''), $8)`,
					id, c.Title, c.Price, c.Quantity, c.HarvestDate, c.Zip, c.Method, status,
				)
			}
			if batch.Len() == 0 {
				continue
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("seed listings for %s: %w", g.Email, err)
			}
		}
		return nil
	})
}
