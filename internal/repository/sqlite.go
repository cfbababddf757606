package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// maxRefreshHistory bounds the refreshes table
const maxRefreshHistory = 500

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS response_cache (
			key TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS refreshes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			source TEXT NOT NULL,
			records INTEGER NOT NULL,
			pools INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_created ON refreshes(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Cache Methods ====================

// SaveResponse overwrites the cache slot for key
func (r *Repository) SaveResponse(ctx context.Context, key string, body []byte, fetchedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO response_cache (key, body, fetched_at) VALUES (?, ?, ?)`,
		key, body, fetchedAt.UTC())
	return err
}

// LoadResponse returns the cached body for key, or ErrNotFound when the slot is empty
func (r *Repository) LoadResponse(ctx context.Context, key string) (CachedResponse, error) {
	resp := CachedResponse{Key: key}
	err := r.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM response_cache WHERE key = ?`, key).Scan(&resp.Body, &resp.FetchedAt)
	if err == sql.ErrNoRows {
		return CachedResponse{}, ErrNotFound
	}
	if err != nil {
		return CachedResponse{}, err
	}
	return resp, nil
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Refresh History Methods ====================

// RecordRefresh appends a refresh cycle and trims history beyond maxRefreshHistory
func (r *Repository) RecordRefresh(ctx context.Context, rec RefreshRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refreshes (snapshot_id, generation, source, records, pools, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.SnapshotID, rec.Generation, rec.Source, rec.Records, rec.Pools, rec.CreatedAt.UTC())
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		DELETE FROM refreshes WHERE id NOT IN (
			SELECT id FROM refreshes ORDER BY id DESC LIMIT ?
		)
	`, maxRefreshHistory)
	return err
}

// ListRefreshes returns the most recent refresh cycles, newest first
func (r *Repository) ListRefreshes(ctx context.Context, limit int) ([]RefreshRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT snapshot_id, generation, source, records, pools, created_at
		FROM refreshes
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RefreshRecord
	for rows.Next() {
		var rec RefreshRecord
		if err := rows.Scan(&rec.SnapshotID, &rec.Generation, &rec.Source, &rec.Records, &rec.Pools, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
