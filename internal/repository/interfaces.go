package repository

import (
	"context"
	"time"
)

// BracketResponseKey is the single cache slot holding the last good phase response
const BracketResponseKey = "bracket_response"

// CachedResponse is a raw upstream body with the time it was fetched
type CachedResponse struct {
	Key       string
	Body      []byte
	FetchedAt time.Time
}

// RefreshRecord is one completed bracket refresh cycle
type RefreshRecord struct {
	SnapshotID string    `json:"snapshot_id"`
	Generation uint64    `json:"generation"`
	Source     string    `json:"source"`
	Records    int       `json:"records"`
	Pools      int       `json:"pools"`
	CreatedAt  time.Time `json:"created_at"`
}

// CacheRepository defines the persistent fallback cache
type CacheRepository interface {
	SaveResponse(ctx context.Context, key string, body []byte, fetchedAt time.Time) error
	LoadResponse(ctx context.Context, key string) (CachedResponse, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// RefreshRepository defines the refresh history log
type RefreshRepository interface {
	RecordRefresh(ctx context.Context, rec RefreshRecord) error
	ListRefreshes(ctx context.Context, limit int) ([]RefreshRecord, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	CacheRepository
	SettingsRepository
	RefreshRepository
	Ping(ctx context.Context) error
	Close() error
}

// Ensure Repository implements FullRepository
var _ FullRepository = (*Repository)(nil)
