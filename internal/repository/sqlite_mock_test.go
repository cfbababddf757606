package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLoadResponse_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	mock.ExpectQuery("SELECT body, fetched_at FROM response_cache").
		WithArgs(BracketResponseKey).
		WillReturnError(errors.New("disk I/O error"))

	_, err = repo.LoadResponse(context.Background(), BracketResponseKey)
	if err == nil || err == ErrNotFound {
		t.Errorf("expected database error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLoadResponse_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	rows := sqlmock.NewRows([]string{"body", "fetched_at"}).AddRow([]byte("{}"), "not-a-time")
	mock.ExpectQuery("SELECT body, fetched_at FROM response_cache").WillReturnRows(rows)

	if _, err := repo.LoadResponse(context.Background(), BracketResponseKey); err == nil {
		t.Error("expected scan error, got nil")
	}
}

func TestSaveResponse_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	mock.ExpectExec("INSERT OR REPLACE INTO response_cache").WillReturnError(errors.New("database is locked"))

	if err := repo.SaveResponse(context.Background(), BracketResponseKey, []byte("x"), time.Now()); err == nil {
		t.Error("expected exec error, got nil")
	}
}

func TestRecordRefresh_TrimError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	mock.ExpectExec("INSERT INTO refreshes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM refreshes").WillReturnError(errors.New("database is locked"))

	if err := repo.RecordRefresh(context.Background(), RefreshRecord{SnapshotID: "s"}); err == nil {
		t.Error("expected trim error, got nil")
	}
}

func TestListRefreshes_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	rows := sqlmock.NewRows([]string{"snapshot_id", "generation", "source", "records", "pools", "created_at"}).
		AddRow("s", "not-a-number", "live", 1, 0, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM refreshes").WillReturnRows(rows)

	if _, err := repo.ListRefreshes(context.Background(), 5); err == nil {
		t.Error("expected scan error, got nil")
	}
}

func TestListRefreshes_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	mock.ExpectQuery("SELECT (.+) FROM refreshes").WillReturnError(errors.New("no such table"))

	if _, err := repo.ListRefreshes(context.Background(), 5); err == nil {
		t.Error("expected query error, got nil")
	}
}
