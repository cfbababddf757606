package services

import (
	"testing"

	"github.com/abrezinsky/bracketview/internal/logger"
)

func TestBracketService_StoreKeepsNewestGeneration(t *testing.T) {
	svc := NewBracketService(logger.Nop(), nil, nil, nil, nil, NewSession(), BracketOptions{})

	newer := &Snapshot{ID: "b", Generation: 2}
	older := &Snapshot{ID: "a", Generation: 1}

	if !svc.store(newer) {
		t.Fatal("expected first snapshot to be stored")
	}
	if svc.store(older) {
		t.Error("expected older snapshot to be rejected")
	}
	if svc.Snapshot().ID != "b" {
		t.Errorf("expected newest snapshot to remain, got %q", svc.Snapshot().ID)
	}
}
