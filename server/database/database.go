package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/topi314/gomigrate"
	"github.com/topi314/gomigrate/drivers/sqlite"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// New connects to the database, runs migrations and writes header as row 1
// when the table is still empty.
func New(ctx context.Context, cfg Config, header []string) (*Database, error) {
	driverName, err := cfg.driverName()
	if err != nil {
		return nil, err
	}

	dbx, err := sqlx.Connect(driverName, cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// every connection to :memory: is its own database
		dbx.SetMaxOpenConns(1)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = gomigrate.Migrate(migrateCtx, dbx, sqlite.New, migrations); err != nil {
		_ = dbx.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db := &Database{
		db: dbx,
	}

	if err = db.ensureHeader(ctx, header); err != nil {
		_ = dbx.Close()
		return nil, err
	}

	return db, nil
}

// Database stores the attendance sheet as one row per cell.
type Database struct {
	db *sqlx.DB
}

func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

func (d *Database) ensureHeader(ctx context.Context, header []string) error {
	var count int
	if err := d.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sheet_cells"); err != nil {
		return fmt.Errorf("failed to count cells: %w", err)
	}
	if count > 0 || len(header) == 0 {
		return nil
	}
	return d.AppendRow(ctx, header)
}
