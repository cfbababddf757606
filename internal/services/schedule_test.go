package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/services"
	"github.com/abrezinsky/bracketview/pkg/startgg"
)

var scheduleNow = time.Now().Truncate(time.Second)

func scheduled(id, label, a, b string, startAt int64, completed bool) *startgg.Set {
	s := startgg.MockSet(id, 1, label, a, b)
	if startAt > 0 {
		s.StartAt = startgg.Int64(startAt)
	}
	if completed {
		s.CompletedAt = startgg.Int64(startAt + 600)
	}
	s.PhaseGroup = &startgg.PhaseGroupRef{DisplayIdentifier: startgg.Str("A1"), Phase: &startgg.PhaseRef{Name: startgg.Str("Pools")}}
	return &s
}

func newScheduleService(t *testing.T, client startgg.Client, loc *time.Location) (*services.ScheduleService, *recordingBroadcaster) {
	t.Helper()
	svc := services.NewScheduleService(logger.Nop(), client, services.NewSession(), "my-tournament", loc)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, b
}

func TestScheduleService_Refresh(t *testing.T) {
	start := scheduleNow.Add(90 * time.Second).Unix()
	sets := []*startgg.Set{
		scheduled("1", "Winners Round 1", "Alpha", "Bravo", scheduleNow.Add(-time.Hour).Unix(), true),
		scheduled("2", "Winners Round 1", "Charlie", "", start, false),
		scheduled("3", "", "Echo", "Foxtrot", start+600, false),
	}
	client := startgg.NewMockClient(
		startgg.WithStreamQueue([]startgg.StreamQueue{queue("main", "1", "2"), queue("side", "3")}),
		startgg.WithSets(sets...),
	)
	svc, b := newScheduleService(t, client, time.UTC)

	view, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if len(view.Entries) != 2 {
		t.Fatalf("expected 2 upcoming entries, got %+v", view.Entries)
	}
	first := view.Entries[0]
	if first.SetID != "2" {
		t.Errorf("expected queue order preserved, got %q first", first.SetID)
	}
	if first.Round != "Winners Round 1 (Pool - A1)" {
		t.Errorf("unexpected round text %q", first.Round)
	}
	if first.Players != "Charlie vs TBD" {
		t.Errorf("unexpected players %q", first.Players)
	}
	if view.Entries[1].Round != "Pools (Pool - A1)" {
		t.Errorf("expected phase name fallback, got %q", view.Entries[1].Round)
	}
	if view.CountdownTarget != start {
		t.Errorf("expected countdown target %d, got %d", start, view.CountdownTarget)
	}
	if got := svc.View(scheduleNow).Countdown; got != "01:30" {
		t.Errorf("expected countdown 01:30, got %q", got)
	}
	if len(b.ofType(services.MessageSchedule)) != 1 {
		t.Error("expected one schedule broadcast")
	}

	requested := client.SetRequests()
	if len(requested) != 3 {
		t.Errorf("expected 3 detail requests, got %v", requested)
	}
}

func TestScheduleService_LastRemovedRetained(t *testing.T) {
	s1 := scheduled("1", "Winners Semi-Final", "Alpha", "Bravo", 0, false)
	s2 := scheduled("2", "Winners Semi-Final", "Charlie", "Delta", 0, false)
	client := startgg.NewMockClient(
		startgg.WithStreamQueue([]startgg.StreamQueue{queue("main", "1", "2")}),
		startgg.WithSets(s1, s2),
	)
	svc, _ := newScheduleService(t, client, time.UTC)
	ctx := context.Background()

	svc.Refresh(ctx)

	done := scheduled("1", "Winners Semi-Final", "Alpha", "Bravo", 100, true)
	client.PutSet(done)

	view, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(view.Entries) != 2 {
		t.Fatalf("expected removed + 1 upcoming, got %+v", view.Entries)
	}
	if view.Entries[0].SetID != "1" || !view.Entries[0].Completed {
		t.Errorf("expected completed set 1 first, got %+v", view.Entries[0])
	}
	if view.Entries[1].SetID != "2" {
		t.Errorf("expected set 2 second, got %+v", view.Entries[1])
	}

	// Set 1 leaves the queue; it stays as the last removed match
	client.SetStreamQueue([]startgg.StreamQueue{queue("main", "2")})
	view, _ = svc.Refresh(ctx)
	if len(view.Entries) != 2 || view.Entries[0].SetID != "1" {
		t.Errorf("expected set 1 retained, got %+v", view.Entries)
	}
}

func TestScheduleService_MaxEntries(t *testing.T) {
	var sets []*startgg.Set
	var ids []string
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		sets = append(sets, scheduled(id, "Round 1", "A"+id, "B"+id, 0, false))
		ids = append(ids, id)
	}
	client := startgg.NewMockClient(
		startgg.WithStreamQueue([]startgg.StreamQueue{queue("main", ids...)}),
		startgg.WithSets(sets...),
	)
	svc, _ := newScheduleService(t, client, time.UTC)

	view, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(view.Entries) != services.MaxScheduleEntries {
		t.Fatalf("expected %d entries, got %d", services.MaxScheduleEntries, len(view.Entries))
	}
	for i, e := range view.Entries {
		if e.SetID != ids[i] {
			t.Errorf("entry %d: expected set %s, got %s", i, ids[i], e.SetID)
		}
	}
}

func TestScheduleService_SkipsFailedDetails(t *testing.T) {
	s2 := scheduled("2", "Round 1", "Charlie", "Delta", 0, false)
	client := startgg.NewMockClient(
		startgg.WithStreamQueue([]startgg.StreamQueue{queue("main", "missing", "2")}),
		startgg.WithSets(s2),
	)
	svc, _ := newScheduleService(t, client, time.UTC)

	view, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(view.Entries) != 1 || view.Entries[0].SetID != "2" {
		t.Errorf("expected only set 2, got %+v", view.Entries)
	}
}

func TestScheduleService_QueueError(t *testing.T) {
	client := startgg.NewMockClient(startgg.WithStreamQueueError(errors.New("connection refused")))
	svc, b := newScheduleService(t, client, time.UTC)

	view, err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error from Refresh")
	}
	if len(view.Entries) != 0 {
		t.Errorf("expected empty view, got %+v", view.Entries)
	}
	if len(b.ofType(services.MessageSchedule)) != 0 {
		t.Error("expected no broadcast on error")
	}
}

func TestScheduleService_NoTournament(t *testing.T) {
	svc := services.NewScheduleService(logger.Nop(), startgg.NewMockClient(), services.NewSession(), "", nil)

	if _, err := svc.Refresh(context.Background()); err != services.ErrNoTournament {
		t.Errorf("expected ErrNoTournament, got %v", err)
	}
}

func TestScheduleEntryOf_TimeZone(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	start := time.Date(2025, 7, 12, 19, 5, 0, 0, time.UTC).Unix()
	set := scheduled("9", "Grand Final", "Alpha", "Bravo", start, false)

	entry := services.ScheduleEntryOf(set, la)

	if entry.StartsAt != "Jul 12, 12:05 PM PDT" {
		t.Errorf("unexpected start time %q", entry.StartsAt)
	}
	if entry.StartAt != start {
		t.Errorf("expected raw start %d, got %d", start, entry.StartAt)
	}
}

func TestScheduleEntryOf_Defaults(t *testing.T) {
	set := &startgg.Set{ID: "5"}

	entry := services.ScheduleEntryOf(set, time.UTC)

	if entry.Round != "Round 1" {
		t.Errorf("expected generic round, got %q", entry.Round)
	}
	if entry.Players != "TBD vs TBD" {
		t.Errorf("expected TBD players, got %q", entry.Players)
	}
	if entry.StartsAt != "" || entry.Completed {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestCountdown(t *testing.T) {
	now := scheduleNow

	tests := []struct {
		name   string
		target int64
		want   string
	}{
		{"absent", 0, "00:00"},
		{"past", now.Add(-time.Minute).Unix(), "00:00"},
		{"now", now.Unix(), "00:00"},
		{"seconds", now.Add(9 * time.Second).Unix(), "00:09"},
		{"minutes", now.Add(12*time.Minute + 3*time.Second).Unix(), "12:03"},
		{"over an hour", now.Add(75 * time.Minute).Unix(), "75:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Countdown(tt.target, now); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
