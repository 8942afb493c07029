package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/logging"
	"github.com/villageveggies/backend/internal/store"
)

type options struct {
	dsn      string
	adminDB  string
	createDB bool
	drop     bool
	seed     bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "setupdb",
		Short: "Provision the VillageVeggies database",
		Long: `Create the VillageVeggies database and schema, optionally loading demo data.

Schema changes run in one transaction and demo data in a second, so a
failure leaves the database as it was before that step.

Examples:
  setupdb --dsn postgres://vv:pw@localhost/villageveggies --create-db
  setupdb --drop --seed                # rebuild tables and load demo growers`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				opts.dsn = os.Getenv("POSTGRES_DSN")
			}
			if opts.dsn == "" {
				return errors.New("--dsn or POSTGRES_DSN is required")
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Postgres connection URL of the target database (default $POSTGRES_DSN)")
	cmd.Flags().StringVar(&opts.adminDB, "admin-db", "postgres", "Database to connect to when creating the target database")
	cmd.Flags().BoolVar(&opts.createDB, "create-db", false, "Create the target database if it does not exist")
	cmd.Flags().BoolVar(&opts.drop, "drop", false, "Drop existing tables before creating them")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Insert demo growers and listings")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	return cmd
}

func run(ctx context.Context, opts options) error {
	level := "info"
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return err
	}

	if opts.createDB {
		created, err := ensureDatabase(ctx, opts.dsn, opts.adminDB)
		if err != nil {
			return err
		}
		logger.Info("database checked", "created", created)
	}

	pool, err := store.NewPool(ctx, opts.dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	pg := store.NewPostgresStore(pool)

	if err := pg.Provision(ctx, opts.drop); err != nil {
		return err
	}
	logger.Info("schema ready", "dropped", opts.drop)

	if !opts.seed {
		return nil
	}
	growers, err := demoGrowers(auth.HashPassword)
	if err != nil {
		return err
	}
	if err := pg.Seed(ctx, growers); err != nil {
		return err
	}
	logger.Info("demo data loaded", "growers", len(growers))
	return nil
}

// adminConfig points dsn at the admin database and returns it with the name
// of the database dsn originally named.
func adminConfig(dsn, adminDB string) (*pgx.ConnConfig, string, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("parse dsn: %w", err)
	}
	target := cfg.Database
	if target == "" {
		return nil, "", errors.New("dsn does not name a database")
	}
	if target == adminDB {
		return nil, "", fmt.Errorf("target database %q is the admin database", target)
	}
	cfg.Database = adminDB
	return cfg, target, nil
}

// ensureDatabase creates the database named in dsn when pg_database does not
// list it. It reports whether it created one.
func ensureDatabase(ctx context.Context, dsn, adminDB string) (bool, error) {
	cfg, target, err := adminConfig(dsn, adminDB)
	if err != nil {
		return false, err
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("connect admin db: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, target,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check database: %w", err)
	}
	if exists {
		return false, nil
	}
	// CREATE DATABASE takes no parameters.
	if _, err := conn.Exec(ctx, `CREATE DATABASE `+pgx.Identifier{target}.Sanitize()); err != nil {
		return false, fmt.Errorf("create database: %w", err)
	}
	return true, nil
}
