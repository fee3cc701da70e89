package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pluresque/taskify-api/internal/store"
)

// Seed data applied by -bootstrap. Inserts are idempotent, so bootstrap can
// run on every deploy.
var (
	seedPriorities = []string{"low", "medium", "high"}

	seedCategories = []string{"Work", "Personal", "Shopping", "Health"}
)

// bootstrap seeds the priority lookup table and the system default
// categories inside a single transaction.
func (app *application) bootstrap(ctx context.Context) error {
	err := store.RunInTransaction(ctx, app.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, name := range seedPriorities {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO priorities (name)
				VALUES ($1)
				ON CONFLICT (name) DO NOTHING
			`, name)
			if err != nil {
				return fmt.Errorf("failed to seed priority %q: %w", name, err)
			}
		}

		// ON CONFLICT cannot express idempotency for system defaults: the
		// unique constraint treats NULL creators as distinct rows.
		for _, name := range seedCategories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO categories (name, created_by)
				SELECT $1, NULL
				WHERE NOT EXISTS (
					SELECT 1 FROM categories
					WHERE name = $1 AND created_by IS NULL
				)
			`, name)
			if err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
		}

		return nil
	})

	if err != nil {
		return err
	}

	app.logger.Info("bootstrap completed",
		"priorities", len(seedPriorities),
		"default_categories", len(seedCategories))
	return nil
}
