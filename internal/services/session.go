package services

import (
	"sync"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/models"
)

// Session is the mutable display state shared by the refresh loops. Every
// field is guarded by mu; the zero value is not usable, call NewSession.
type Session struct {
	mu sync.Mutex

	issued    uint64 // last generation handed out by BeginCycle
	committed uint64 // generation of the dataset currently held
	records   []models.MatchRecord
	pools     *bracket.PoolIndex // built lazily from records

	poolCursor int
	side       models.Side

	lastActiveSet    string
	previousUpcoming []models.ScheduleEntry
	lastRemoved      *models.ScheduleEntry
}

// NewSession creates an empty session showing the winners side
func NewSession() *Session {
	return &Session{side: models.SideWinners}
}

// BeginCycle reserves the generation number of a new refresh cycle
func (s *Session) BeginCycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit installs records as the current dataset unless a newer generation
// has already been committed. It reports whether the dataset was accepted.
func (s *Session) Commit(gen uint64, records []models.MatchRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.committed {
		return false
	}
	s.committed = gen
	s.records = records
	s.pools = nil
	return true
}

// Generation returns the generation of the current dataset, 0 before the first commit
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Pools returns the pool index of the current dataset, building it on first use
func (s *Session) Pools() *bracket.PoolIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poolsLocked()
}

func (s *Session) poolsLocked() *bracket.PoolIndex {
	if s.pools == nil {
		s.pools = bracket.NewPoolIndex(s.records)
	}
	return s.pools
}

// Rotation returns the pool and side currently selected for display
func (s *Session) Rotation() models.RotationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotationLocked()
}

func (s *Session) rotationLocked() models.RotationState {
	idx := s.poolsLocked()
	state := models.RotationState{
		Pool:      idx.At(s.poolCursor),
		PoolCount: idx.Len(),
		Side:      s.side,
	}
	if n := idx.Len(); n > 0 {
		state.PoolIndex = s.poolCursor % n
	}
	return state
}

// AdvancePool moves the pool cursor to the next pool, wrapping around
func (s *Session) AdvancePool() models.RotationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.poolsLocked().Len(); n > 0 {
		s.poolCursor = (s.poolCursor + 1) % n
	}
	return s.rotationLocked()
}

// ToggleSide flips the displayed side between winners and losers
func (s *Session) ToggleSide() models.RotationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.side == models.SideWinners {
		s.side = models.SideLosers
	} else {
		s.side = models.SideWinners
	}
	return s.rotationLocked()
}

// LastActiveSet returns the most recent set seen at the head of the stream queue
func (s *Session) LastActiveSet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveSet
}

// SetLastActiveSet remembers id as the active stream set
func (s *Session) SetLastActiveSet(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveSet = id
}

// TrackUpcoming compares upcoming against the previous cycle's list. A set
// that was upcoming before and is no longer becomes the last removed match;
// its entry is taken from all when present there, else from the previous list.
// It returns the last removed match, which persists until replaced.
func (s *Session) TrackUpcoming(upcoming, all []models.ScheduleEntry) *models.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	still := make(map[string]bool, len(upcoming))
	for _, e := range upcoming {
		still[e.SetID] = true
	}
	for _, prev := range s.previousUpcoming {
		if still[prev.SetID] {
			continue
		}
		removed := prev
		for _, e := range all {
			if e.SetID == prev.SetID {
				removed = e
				break
			}
		}
		s.lastRemoved = &removed
		break
	}

	s.previousUpcoming = append(s.previousUpcoming[:0], upcoming...)
	if s.lastRemoved == nil {
		return nil
	}
	out := *s.lastRemoved
	return &out
}
