// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/abrezinsky/bracketview/internal/repository"
)

// NewTestRepository returns a migrated in-memory SQLite repository that is
// closed when the test ends.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

// SeedBracketCache stores body in the bracket response slot as if it had been
// fetched at fetchedAt.
func SeedBracketCache(t *testing.T, repo repository.CacheRepository, body []byte, fetchedAt time.Time) {
	t.Helper()

	if err := repo.SaveResponse(context.Background(), repository.BracketResponseKey, body, fetchedAt); err != nil {
		t.Fatalf("failed to seed bracket cache: %v", err)
	}
}
