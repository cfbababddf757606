package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/models"
	"github.com/abrezinsky/bracketview/pkg/startgg"
)

// NotActive is the overlay score text while no set has been on stream
const NotActive = "Not Active"

// OverlayService tracks the set currently on stream
type OverlayService struct {
	log         logger.Logger
	client      startgg.Client
	settings    SettingsServicer
	session     *Session
	slug        string
	mu          sync.RWMutex
	view        models.OverlayView
	broadcaster Broadcaster
}

// NewOverlayService creates a new OverlayService for the tournament slug
func NewOverlayService(log logger.Logger, client startgg.Client, settings SettingsServicer, session *Session, slug string) *OverlayService {
	return &OverlayService{
		log:         log,
		client:      client,
		settings:    settings,
		session:     session,
		slug:        slug,
		view:        inactiveView(),
		broadcaster: noopBroadcaster{},
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *OverlayService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// View returns the latest overlay bindings
func (s *OverlayService) View() models.OverlayView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func inactiveView() models.OverlayView {
	return models.OverlayView{Score: NotActive}
}

// Refresh reads the stream queue and updates the overlay. The head of the
// queue becomes the active set; with an empty queue the last active set is
// kept, so the overlay shows the finished match until the next one starts.
func (s *OverlayService) Refresh(ctx context.Context) (models.OverlayView, error) {
	if s.slug == "" {
		return s.View(), ErrNoTournament
	}

	stream, err := s.settings.GetStreamName(ctx)
	if err != nil {
		s.log.Warn("Failed to read stream name", "error", err)
	}

	queues, err := s.client.FetchStreamQueue(ctx, s.slug)
	if err != nil {
		s.log.Warn("Stream queue fetch failed", "tournament", s.slug, "error", err)
	} else if q := FindStream(queues, stream); q != nil && len(q.Sets) > 0 {
		s.remember(ctx, q.Sets[0].ID.String())
	}

	active := s.lastActive(ctx)
	if active == "" {
		return s.publish(inactiveView()), nil
	}

	set, err := s.client.FetchSet(ctx, active)
	if err != nil {
		return s.View(), fmt.Errorf("failed to fetch set %s: %w", active, err)
	}
	return s.publish(OverlayViewOf(set)), nil
}

func (s *OverlayService) remember(ctx context.Context, id string) {
	if id == "" || id == s.session.LastActiveSet() {
		return
	}
	s.session.SetLastActiveSet(id)
	if err := s.settings.SetLastActiveSet(ctx, id); err != nil {
		s.log.Warn("Failed to persist active set", "set", id, "error", err)
	}
	s.log.Info("Active stream set changed", "set", id)
}

// lastActive returns the remembered set, restoring it from settings after a restart
func (s *OverlayService) lastActive(ctx context.Context) string {
	if id := s.session.LastActiveSet(); id != "" {
		return id
	}
	id, err := s.settings.GetLastActiveSet(ctx)
	if err != nil {
		s.log.Warn("Failed to read active set", "error", err)
		return ""
	}
	if id != "" {
		s.session.SetLastActiveSet(id)
	}
	return id
}

func (s *OverlayService) publish(view models.OverlayView) models.OverlayView {
	s.mu.Lock()
	changed := s.view != view
	s.view = view
	b := s.broadcaster
	s.mu.Unlock()

	if changed {
		b.BroadcastMessage(MessageOverlay, view)
	}
	return view
}

// OverlayViewOf builds the overlay bindings of a set
func OverlayViewOf(set *startgg.Set) models.OverlayView {
	p1, p2 := set.Slot(0), set.Slot(1)
	return models.OverlayView{
		Active:  true,
		SetID:   set.ID.String(),
		Player1: entrantOrTBD(p1.Entrant),
		Player2: entrantOrTBD(p2.Entrant),
		Score:   fmt.Sprintf("%d - %d", p1.Score(), p2.Score()),
		Round:   roundName(set),
	}
}

func entrantOrTBD(e *startgg.Entrant) string {
	if name := e.DisplayName(); name != "" {
		return name
	}
	return bracket.TBD
}

func roundName(set *startgg.Set) string {
	if set.FullRoundText != nil && *set.FullRoundText != "" {
		return *set.FullRoundText
	}
	round := set.RoundNumber()
	return bracket.GenericRoundLabel(absInt(round), models.SideOf(round))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// FindStream returns the queue of the named stream. An exact case-insensitive
// match wins; otherwise the best fuzzy match is used. Returns nil when name is
// empty or nothing matches.
func FindStream(queues []startgg.StreamQueue, name string) *startgg.StreamQueue {
	if name == "" {
		return nil
	}
	names := make([]string, len(queues))
	for i, q := range queues {
		if strings.EqualFold(q.Name(), name) {
			return &queues[i]
		}
		names[i] = q.Name()
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	return &queues[ranks[0].OriginalIndex]
}
