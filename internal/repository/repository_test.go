package repository

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// ==================== Cache Tests ====================

func TestLoadResponse_Empty(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.LoadResponse(context.Background(), BracketResponseKey)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveResponse_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	fetched := time.Date(2024, 2, 17, 19, 30, 0, 0, time.UTC)

	if err := repo.SaveResponse(ctx, BracketResponseKey, []byte(`{"data":{}}`), fetched); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}

	got, err := repo.LoadResponse(ctx, BracketResponseKey)
	if err != nil {
		t.Fatalf("LoadResponse failed: %v", err)
	}
	if string(got.Body) != `{"data":{}}` {
		t.Errorf("unexpected body %q", got.Body)
	}
	if !got.FetchedAt.Equal(fetched) {
		t.Errorf("expected fetched_at %v, got %v", fetched, got.FetchedAt)
	}
	if got.Key != BracketResponseKey {
		t.Errorf("expected key %q, got %q", BracketResponseKey, got.Key)
	}
}

func TestSaveResponse_OverwritesSlot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.SaveResponse(ctx, BracketResponseKey, []byte("first"), time.Now())
	repo.SaveResponse(ctx, BracketResponseKey, []byte("second"), time.Now())

	got, err := repo.LoadResponse(ctx, BracketResponseKey)
	if err != nil {
		t.Fatalf("LoadResponse failed: %v", err)
	}
	if string(got.Body) != "second" {
		t.Errorf("expected latest body, got %q", got.Body)
	}

	var count int
	repo.DB().QueryRow(`SELECT COUNT(*) FROM response_cache`).Scan(&count)
	if count != 1 {
		t.Errorf("expected a single cache row, got %d", count)
	}
}

// ==================== Settings Tests ====================

func TestSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, "overlay_last_set"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SetSetting(ctx, "overlay_last_set", "123"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := repo.SetSetting(ctx, "overlay_last_set", "456"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	v, err := repo.GetSetting(ctx, "overlay_last_set")
	if err != nil || v != "456" {
		t.Errorf("expected 456, got %q (%v)", v, err)
	}
}

// ==================== Refresh History Tests ====================

func TestRefreshHistory_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := repo.RecordRefresh(ctx, RefreshRecord{
			SnapshotID: fmt.Sprintf("snap-%d", i),
			Generation: uint64(i),
			Source:     "live",
			Records:    10 * i,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			t.Fatalf("RecordRefresh failed: %v", err)
		}
	}

	got, err := repo.ListRefreshes(ctx, 2)
	if err != nil {
		t.Fatalf("ListRefreshes failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].SnapshotID != "snap-3" || got[1].SnapshotID != "snap-2" {
		t.Errorf("unexpected order %+v", got)
	}
	if got[0].Records != 30 || got[0].Generation != 3 {
		t.Errorf("unexpected record %+v", got[0])
	}
}

func TestRefreshHistory_Trimmed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < maxRefreshHistory+5; i++ {
		repo.RecordRefresh(ctx, RefreshRecord{SnapshotID: "s", Source: "cache", CreatedAt: time.Now()})
	}

	var count int
	repo.DB().QueryRow(`SELECT COUNT(*) FROM refreshes`).Scan(&count)
	if count != maxRefreshHistory {
		t.Errorf("expected %d rows, got %d", maxRefreshHistory, count)
	}
}

func TestListRefreshes_DefaultLimit(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListRefreshes(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRefreshes failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestPingAndClose(t *testing.T) {
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := repo.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail after Close")
	}
}
