package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/events"
	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/models"
	"github.com/abrezinsky/bracketview/internal/repository"
	"github.com/abrezinsky/bracketview/pkg/startgg"
)

// Source tells where a snapshot's data came from
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
	SourceEmpty Source = "empty"
)

// Display modes
const (
	ModeBracket = "bracket"
	ModePools   = "pools"
)

const (
	snapshotIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	snapshotIDLength   = 10
)

// Snapshot is the immutable result of one refresh cycle
type Snapshot struct {
	ID         string                     `json:"id"`
	Generation uint64                     `json:"generation"`
	Source     Source                     `json:"source"`
	Mode       string                     `json:"mode"`
	FetchedAt  time.Time                  `json:"fetched_at"`
	Records    int                        `json:"records"`
	Bracket    *bracket.Bracket           `json:"bracket,omitempty"`
	Pools      map[string]bracket.Bracket `json:"pools,omitempty"`
	PoolIDs    []string                   `json:"pool_ids,omitempty"`
}

// Layout returns the bracket to draw. In pools mode pool selects the pool and
// an empty pool means the first one; in bracket mode pool is ignored.
func (s *Snapshot) Layout(pool string) (bracket.Bracket, error) {
	if s.Mode != ModePools {
		if s.Bracket == nil {
			return bracket.Bracket{}, nil
		}
		return *s.Bracket, nil
	}
	if pool == "" {
		if len(s.PoolIDs) == 0 {
			return bracket.Bracket{}, nil
		}
		pool = s.PoolIDs[0]
	}
	b, ok := s.Pools[pool]
	if !ok {
		return bracket.Bracket{}, &UnknownPoolError{Pool: pool}
	}
	return b, nil
}

// BracketOptions configures what BracketService fetches and how it is laid out
type BracketOptions struct {
	PhaseID  string
	Mode     string
	Pipeline bracket.Pipeline
}

// BracketService runs the fetch, fallback and layout cycle of the bracket view
type BracketService struct {
	log         logger.Logger
	client      startgg.Client
	cache       repository.CacheRepository
	history     repository.RefreshRepository
	publisher   events.Publisher
	session     *Session
	opts        BracketOptions
	current     atomic.Pointer[Snapshot]
	mu          sync.RWMutex
	broadcaster Broadcaster
	now         func() time.Time
}

// NewBracketService creates a new BracketService. A nil publisher disables events.
func NewBracketService(
	log logger.Logger,
	client startgg.Client,
	cache repository.CacheRepository,
	history repository.RefreshRepository,
	publisher events.Publisher,
	session *Session,
	opts BracketOptions,
) *BracketService {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if opts.Mode == "" {
		opts.Mode = ModeBracket
	}
	return &BracketService{
		log:         log,
		client:      client,
		cache:       cache,
		history:     history,
		publisher:   publisher,
		session:     session,
		opts:        opts,
		broadcaster: noopBroadcaster{},
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *BracketService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

func (s *BracketService) broadcast(msgType string, payload interface{}) {
	s.mu.RLock()
	b := s.broadcaster
	s.mu.RUnlock()
	b.BroadcastMessage(msgType, payload)
}

// Snapshot returns the latest committed snapshot, nil before the first refresh
func (s *BracketService) Snapshot() *Snapshot {
	return s.current.Load()
}

// Refreshes returns the most recent refresh cycles, newest first
func (s *BracketService) Refreshes(ctx context.Context, limit int) ([]repository.RefreshRecord, error) {
	return s.history.ListRefreshes(ctx, limit)
}

// Refresh runs one cycle: fetch the phase, fall back to the cache on failure
// or unusable data, fall back to an empty dataset when the cache is empty too,
// then lay the records out. Failures are logged, never returned. The returned
// snapshot is the latest one, which is not this cycle's when it was overtaken.
func (s *BracketService) Refresh(ctx context.Context) *Snapshot {
	gen := s.session.BeginCycle()
	records, source, fetchedAt := s.load(ctx)

	if !s.session.Commit(gen, records) {
		s.log.Debug("Discarding stale bracket refresh", "generation", gen)
		return s.Snapshot()
	}

	snap := &Snapshot{
		ID:         s.newID(gen),
		Generation: gen,
		Source:     source,
		Mode:       s.opts.Mode,
		FetchedAt:  fetchedAt,
		Records:    len(records),
	}
	if s.opts.Mode == ModePools {
		idx := s.session.Pools()
		snap.Pools = s.opts.Pipeline.RunPools(idx)
		snap.PoolIDs = idx.IDs()
	} else {
		b := s.opts.Pipeline.Run(records, s.opts.PhaseID)
		snap.Bracket = &b
	}

	if !s.store(snap) {
		s.log.Debug("Discarding stale bracket snapshot", "generation", gen)
		return s.Snapshot()
	}

	s.log.Info("Bracket refreshed",
		"snapshot", snap.ID,
		"generation", gen,
		"source", source,
		"records", len(records),
		"pools", len(snap.PoolIDs))

	s.broadcast(MessageBracket, map[string]interface{}{
		"snapshot_id": snap.ID,
		"generation":  gen,
		"source":      source,
	})
	s.announce(ctx, snap)
	return snap
}

// store installs snap unless a newer generation is already current
func (s *BracketService) store(snap *Snapshot) bool {
	for {
		old := s.current.Load()
		if old != nil && old.Generation >= snap.Generation {
			return false
		}
		if s.current.CompareAndSwap(old, snap) {
			return true
		}
	}
}

// load returns the records of this cycle and where they came from
func (s *BracketService) load(ctx context.Context) ([]models.MatchRecord, Source, time.Time) {
	now := s.now()

	if s.opts.PhaseID == "" {
		s.log.Warn("Skipping bracket fetch", "error", ErrNoPhase)
	} else {
		body, err := s.client.FetchPhaseRaw(ctx, s.opts.PhaseID)
		if err == nil {
			records, derr := startgg.DecodePhase(body)
			if derr == nil {
				if serr := s.cache.SaveResponse(ctx, repository.BracketResponseKey, body, now); serr != nil {
					s.log.Error("Failed to cache bracket response", "error", serr)
				}
				return records, SourceLive, now
			}
			err = derr
		}
		s.log.Warn("Bracket fetch failed, using cache", "phase", s.opts.PhaseID, "error", err)
	}

	cached, err := s.cache.LoadResponse(ctx, repository.BracketResponseKey)
	if err != nil {
		if err != repository.ErrNotFound {
			s.log.Error("Failed to load cached bracket", "error", err)
		}
		return nil, SourceEmpty, now
	}
	records, err := startgg.DecodePhase(cached.Body)
	if err != nil {
		s.log.Error("Cached bracket is unusable", "error", err)
		return nil, SourceEmpty, now
	}
	return records, SourceCache, cached.FetchedAt
}

// announce publishes the refresh event and appends it to the history log
func (s *BracketService) announce(ctx context.Context, snap *Snapshot) {
	evt := events.BracketRefreshed{
		SnapshotID: snap.ID,
		Generation: snap.Generation,
		Source:     string(snap.Source),
		Records:    snap.Records,
		Pools:      len(snap.PoolIDs),
	}
	if err := s.publisher.Publish(ctx, events.TopicBracketRefreshed, evt); err != nil {
		s.log.Warn("Failed to publish refresh event", "error", err)
	}

	rec := repository.RefreshRecord{
		SnapshotID: snap.ID,
		Generation: snap.Generation,
		Source:     string(snap.Source),
		Records:    snap.Records,
		Pools:      len(snap.PoolIDs),
		CreatedAt:  s.now(),
	}
	if err := s.history.RecordRefresh(ctx, rec); err != nil {
		s.log.Error("Failed to record refresh", "error", err)
	}
}

func (s *BracketService) newID(gen uint64) string {
	id, err := nanoid.Generate(snapshotIDAlphabet, snapshotIDLength)
	if err != nil {
		s.log.Warn("Failed to generate snapshot id", "error", err)
		return fmt.Sprintf("gen-%d", gen)
	}
	return "snap-" + id
}
