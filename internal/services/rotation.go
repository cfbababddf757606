package services

import (
	"sync"

	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/models"
)

// RotationService cycles the displayed pool and bracket side. It changes only
// what is visible; the dataset is never touched.
type RotationService struct {
	log         logger.Logger
	session     *Session
	mu          sync.RWMutex
	broadcaster Broadcaster
}

// NewRotationService creates a new RotationService
func NewRotationService(log logger.Logger, session *Session) *RotationService {
	return &RotationService{log: log, session: session, broadcaster: noopBroadcaster{}}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *RotationService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// State returns the current pool and side
func (s *RotationService) State() models.RotationState {
	return s.session.Rotation()
}

// AdvancePool shows the next pool
func (s *RotationService) AdvancePool() models.RotationState {
	return s.announce(s.session.AdvancePool())
}

// ToggleSide switches between the winners and losers side
func (s *RotationService) ToggleSide() models.RotationState {
	return s.announce(s.session.ToggleSide())
}

func (s *RotationService) announce(state models.RotationState) models.RotationState {
	s.mu.RLock()
	b := s.broadcaster
	s.mu.RUnlock()
	b.BroadcastMessage(MessageRotation, state)
	s.log.Debug("Rotation", "pool", state.Pool, "side", state.Side)
	return state
}
