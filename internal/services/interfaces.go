package services

import (
	"context"
	"time"

	"github.com/abrezinsky/bracketview/internal/models"
	"github.com/abrezinsky/bracketview/internal/repository"
)

// Websocket message types
const (
	MessageBracket  = "bracket"
	MessageOverlay  = "overlay"
	MessageSchedule = "schedule"
	MessageRotation = "rotation"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastMessage(string, interface{}) {}

// BracketServicer defines the interface for bracket refresh operations
type BracketServicer interface {
	Refresh(ctx context.Context) *Snapshot
	Snapshot() *Snapshot
	Refreshes(ctx context.Context, limit int) ([]repository.RefreshRecord, error)
	SetBroadcaster(b Broadcaster)
}

// OverlayServicer defines the interface for the stream overlay
type OverlayServicer interface {
	Refresh(ctx context.Context) (models.OverlayView, error)
	View() models.OverlayView
	SetBroadcaster(b Broadcaster)
}

// ScheduleServicer defines the interface for the schedule panel
type ScheduleServicer interface {
	Refresh(ctx context.Context) (models.ScheduleView, error)
	View(now time.Time) models.ScheduleView
	SetBroadcaster(b Broadcaster)
}

// RotationServicer defines the interface for pool and side rotation
type RotationServicer interface {
	State() models.RotationState
	AdvancePool() models.RotationState
	ToggleSide() models.RotationState
	SetBroadcaster(b Broadcaster)
}

// Ensure concrete types implement interfaces
var (
	_ BracketServicer  = (*BracketService)(nil)
	_ OverlayServicer  = (*OverlayService)(nil)
	_ ScheduleServicer = (*ScheduleService)(nil)
	_ RotationServicer = (*RotationService)(nil)
)
