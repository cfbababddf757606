package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/models"
	"github.com/abrezinsky/bracketview/pkg/startgg"
)

const (
	// MaxScheduleEntries is the number of lines the schedule panel shows
	MaxScheduleEntries = 4
	// detailFetchLimit bounds concurrent set detail requests
	detailFetchLimit = 4
	// startTimeLayout formats set start times on the panel
	startTimeLayout = "Jan 2, 03:04 PM MST"
)

// ScheduleService builds the upcoming-matches panel from the stream queue
type ScheduleService struct {
	log         logger.Logger
	client      startgg.Client
	session     *Session
	slug        string
	loc         *time.Location
	mu          sync.RWMutex
	view        models.ScheduleView
	broadcaster Broadcaster
	now         func() time.Time
}

// NewScheduleService creates a new ScheduleService. Start times are shown in loc.
func NewScheduleService(log logger.Logger, client startgg.Client, session *Session, slug string, loc *time.Location) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{
		log:         log,
		client:      client,
		session:     session,
		slug:        slug,
		loc:         loc,
		view:        models.ScheduleView{Entries: []models.ScheduleEntry{}},
		broadcaster: noopBroadcaster{},
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ScheduleService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// View returns the latest schedule with the countdown evaluated at now
func (s *ScheduleService) View(now time.Time) models.ScheduleView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := s.view
	view.Entries = append([]models.ScheduleEntry(nil), s.view.Entries...)
	view.Countdown = Countdown(view.CountdownTarget, now)
	return view
}

// Refresh fetches every queued set and rebuilds the panel. Sets whose details
// cannot be fetched are left out of this cycle.
func (s *ScheduleService) Refresh(ctx context.Context) (models.ScheduleView, error) {
	if s.slug == "" {
		return s.View(s.now()), ErrNoTournament
	}

	queues, err := s.client.FetchStreamQueue(ctx, s.slug)
	if err != nil {
		return s.View(s.now()), fmt.Errorf("failed to fetch stream queue: %w", err)
	}

	sets, err := s.fetchDetails(ctx, queuedSetIDs(queues))
	if err != nil {
		return s.View(s.now()), err
	}

	all := make([]models.ScheduleEntry, 0, len(sets))
	var upcoming []models.ScheduleEntry
	for _, set := range sets {
		entry := ScheduleEntryOf(set, s.loc)
		all = append(all, entry)
		if !entry.Completed {
			upcoming = append(upcoming, entry)
		}
	}

	removed := s.session.TrackUpcoming(upcoming, all)
	now := s.now()
	view := models.ScheduleView{
		Entries:         displayEntries(removed, upcoming),
		CountdownTarget: nextStart(upcoming, now),
	}
	view.Countdown = Countdown(view.CountdownTarget, now)

	s.mu.Lock()
	s.view = view
	b := s.broadcaster
	s.mu.Unlock()

	b.BroadcastMessage(MessageSchedule, view)
	s.log.Debug("Schedule refreshed", "queued", len(sets), "upcoming", len(upcoming))
	return view, nil
}

// fetchDetails loads each set concurrently, preserving queue order
func (s *ScheduleService) fetchDetails(ctx context.Context, ids []string) ([]*startgg.Set, error) {
	details := make([]*startgg.Set, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			set, err := s.client.FetchSet(gCtx, id)
			if err != nil {
				s.log.Warn("Failed to fetch set details", "set", id, "error", err)
				return nil
			}
			details[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*startgg.Set, 0, len(details))
	for _, d := range details {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func queuedSetIDs(queues []startgg.StreamQueue) []string {
	var ids []string
	for _, q := range queues {
		for _, ref := range q.Sets {
			if ref.ID != "" {
				ids = append(ids, ref.ID.String())
			}
		}
	}
	return ids
}

// displayEntries puts the last removed match ahead of the upcoming ones
func displayEntries(removed *models.ScheduleEntry, upcoming []models.ScheduleEntry) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, 0, MaxScheduleEntries)
	if removed != nil {
		out = append(out, *removed)
	}
	for _, e := range upcoming {
		if len(out) == MaxScheduleEntries {
			break
		}
		if removed != nil && e.SetID == removed.SetID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// nextStart returns the first start time after now, 0 when there is none
func nextStart(entries []models.ScheduleEntry, now time.Time) int64 {
	for _, e := range entries {
		if e.StartAt > now.Unix() {
			return e.StartAt
		}
	}
	return 0
}

// ScheduleEntryOf builds the panel line of a set
func ScheduleEntryOf(set *startgg.Set, loc *time.Location) models.ScheduleEntry {
	round := scheduleRound(set)
	if pool := set.PoolIdentifier(); pool != "" {
		round += " (Pool - " + pool + ")"
	}

	players := make([]string, 0, 2)
	for i := 0; i < max(2, len(set.Slots)); i++ {
		players = append(players, entrantOrTBD(set.Slot(i).Entrant))
	}

	entry := models.ScheduleEntry{
		SetID:     set.ID.String(),
		Round:     round,
		Players:   strings.Join(players, " vs "),
		Completed: set.Completed(),
	}
	if set.StartAt != nil && *set.StartAt > 0 {
		entry.StartAt = *set.StartAt
		entry.StartsAt = time.Unix(*set.StartAt, 0).In(loc).Format(startTimeLayout)
	}
	return entry
}

func scheduleRound(set *startgg.Set) string {
	if set.FullRoundText != nil && *set.FullRoundText != "" {
		return *set.FullRoundText
	}
	if name := set.PhaseName(); name != "" {
		return name
	}
	return bracket.GenericRoundLabel(absInt(set.RoundNumber()), models.SideOf(set.RoundNumber()))
}

// Countdown formats the time from now until target (unix seconds) as mm:ss.
// It is "00:00" when target is absent or already past.
func Countdown(target int64, now time.Time) string {
	if target <= 0 {
		return "00:00"
	}
	diff := time.Unix(target, 0).Sub(now)
	if diff <= 0 {
		return "00:00"
	}
	mins := int(diff / time.Minute)
	secs := int(diff/time.Second) % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
