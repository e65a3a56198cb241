package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"mailsweep/internal/model"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned by Get when no row matches.
var ErrNotFound = errors.New("sender not found")

// SQLiteStore implements collector.SenderStore and blocker.AddressSource
// backed by a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// migrateUp applies the embedded migrations. The migrate instance is not
// closed because its database driver would close db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert adds countDelta to the (address, folder) row, creating it when absent.
// A non-empty displayName replaces the stored one.
func (s *SQLiteStore) Upsert(ctx context.Context, displayName, address, folder string, countDelta int) error {
	if countDelta < 0 {
		return fmt.Errorf("upsert %s/%s: negative count delta %d", address, folder, countDelta)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO senders (display_name, address, folder, occurrence_count, last_seen_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address, folder) DO UPDATE SET
			occurrence_count = senders.occurrence_count + excluded.occurrence_count,
			display_name     = CASE WHEN excluded.display_name <> '' THEN excluded.display_name ELSE senders.display_name END,
			last_seen_at     = excluded.last_seen_at
	`, displayName, address, folder, countDelta, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", address, folder, err)
	}
	return nil
}

// Get returns the row for (address, folder) or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, address, folder string) (model.SenderRecord, error) {
	rec := model.SenderRecord{Address: address, Folder: folder}
	var lastSeen string
	err := s.db.QueryRowContext(ctx,
		"SELECT display_name, occurrence_count, last_seen_at FROM senders WHERE address = ? AND folder = ?",
		address, folder).Scan(&rec.DisplayName, &rec.Count, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	if lastSeen != "" {
		rec.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
	}
	return rec, nil
}

// ListDistinctAddresses returns every address ever recorded, sorted.
func (s *SQLiteStore) ListDistinctAddresses(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT address FROM senders ORDER BY address")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

// ListSenderTotals returns one entry per address with counts summed across
// folders and the most recently seen display name, sorted by address.
func (s *SQLiteStore) ListSenderTotals(ctx context.Context) ([]model.SenderTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.address, SUM(s.occurrence_count),
			(SELECT n.display_name FROM senders n
			 WHERE n.address = s.address AND n.display_name <> ''
			 ORDER BY n.last_seen_at DESC LIMIT 1)
		FROM senders s
		GROUP BY s.address
		ORDER BY s.address
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SenderTotal
	for rows.Next() {
		var (
			t    model.SenderTotal
			name sql.NullString
		)
		if err := rows.Scan(&t.Address, &t.Count, &name); err != nil {
			return nil, err
		}
		t.DisplayName = name.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountRows returns the number of (address, folder) rows.
func (s *SQLiteStore) CountRows(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM senders").Scan(&count)
	return count, err
}
