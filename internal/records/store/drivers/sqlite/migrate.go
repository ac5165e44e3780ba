package sqlite

import (
	"errors"

	"github.com/aussiebroadwan/records/internal/records/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending migrations to the store's database.
// The migration files are embedded, so a deployed binary carries its own
// schema.
//
// Migrations run straight against the shared handle rather than inside a
// transaction. For a single-node sqlite file this is enough.
func (s *Store) ApplyMigrations() error {
	// 1. Wrap the open handle in the sqlite migration driver
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return err
	}

	// 2. Read the migration files from the embedded filesystem
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	// 3. Bind source and database together
	instance, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}

	// 4. Run every pending up migration; an up-to-date schema is not an error
	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
