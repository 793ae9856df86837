// Package sqlite keeps cart slots in a SQLite file.
//
// WAL mode is enabled on Open so readers never block the writer; the
// catalog shell and a server process may point at the same file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jcmexdev/product-catalog/internal/cartstore"

	// Pure-Go driver, registered as "sqlite". No CGO needed in the image.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ cartstore.Storage = (*Storage)(nil)

// Storage is the SQLite implementation of cartstore.Storage.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates it.
//
//	slots, err := sqlite.Open("./data/cart.db")
func Open(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	if err := runMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// One writer connection; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %q: %w", path, err)
	}

	return &Storage{db: db}, nil
}

// runMigrations applies the embedded migrations on a dedicated connection,
// closed again before the storage's own pool is opened.
func runMigrations(dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("sqlite: open for migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlite: migration driver: %w", err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlite: migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlite: migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: run migrations: %w", err)
	}
	return nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	const q = `SELECT payload FROM cart_slots WHERE name = ?`

	var payload []byte
	err := s.db.QueryRowContext(ctx, q, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cartstore.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load slot %q: %w", name, err)
	}
	return payload, nil
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) error {
	const q = `
		INSERT INTO cart_slots (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q, name, data, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("sqlite: save slot %q: %w", name, err)
	}
	return nil
}

// SavedAt returns when the slot was last written.
func (s *Storage) SavedAt(ctx context.Context, name string) (time.Time, error) {
	const q = `SELECT updated_at FROM cart_slots WHERE name = ?`

	var updatedAt string
	err := s.db.QueryRowContext(ctx, q, name).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, cartstore.ErrSlotNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: slot %q timestamp: %w", name, err)
	}
	return parseRFC3339(updatedAt)
}
