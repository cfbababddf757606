package models

// Side identifies one half of a double-elimination bracket
type Side string

const (
	SideWinners Side = "winners"
	SideLosers  Side = "losers"
)

// SideOf returns the bracket side a round value belongs to.
// Non-negative rounds are winners side, negative rounds are losers side.
func SideOf(round int) Side {
	if round < 0 {
		return SideLosers
	}
	return SideWinners
}

// Entrant is a player or team occupying a match slot
type Entrant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Slot holds the (optional) entrant in one of the two positions of a match
type Slot struct {
	Entrant *Entrant `json:"entrant,omitempty"`
}

// SourceKind tags where a slot's occupant comes from
type SourceKind string

const (
	// SourceTerminal is a fixed seed with no upstream match
	SourceTerminal SourceKind = "terminal"
	// SourceMatch points at another match whose outcome fills the slot
	SourceMatch SourceKind = "match"
)

// EntrantSource describes the origin of a slot's occupant
type EntrantSource struct {
	Kind    SourceKind `json:"kind"`
	MatchID string     `json:"match_id,omitempty"`
}

// Terminal returns a source with no upstream dependency
func Terminal() EntrantSource {
	return EntrantSource{Kind: SourceTerminal}
}

// FromMatch returns a source referencing another match by id
func FromMatch(id string) EntrantSource {
	return EntrantSource{Kind: SourceMatch, MatchID: id}
}

// IsMatchReference reports whether the source points at another match
func (s EntrantSource) IsMatchReference() bool {
	return s.Kind == SourceMatch && s.MatchID != ""
}

// MatchRecord is one bracket match ("set") as normalized from the API
type MatchRecord struct {
	ID           string           `json:"id"`
	Round        int              `json:"round"`
	RoundLabel   string           `json:"round_label"`
	Slots        [2]Slot          `json:"slots"`
	Sources      [2]EntrantSource `json:"sources"`
	WinnerID     string           `json:"winner_id,omitempty"` // empty means no winner yet
	PoolID       string           `json:"pool_id,omitempty"`
	DisplayScore string           `json:"display_score,omitempty"`
	StartAt      int64            `json:"start_at,omitempty"`
	CompletedAt  int64            `json:"completed_at,omitempty"`
}

// Depth returns the round depth (column position within a side)
func (m MatchRecord) Depth() int {
	if m.Round < 0 {
		return -m.Round
	}
	return m.Round
}

// Side returns the bracket side of the match
func (m MatchRecord) Side() Side {
	return SideOf(m.Round)
}

// EntrantName returns the name in slot i, or "" when the slot is unfilled
func (m MatchRecord) EntrantName(i int) string {
	if i < 0 || i > 1 || m.Slots[i].Entrant == nil {
		return ""
	}
	return m.Slots[i].Entrant.Name
}

// LayoutNode is the placement of one match for rendering
type LayoutNode struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Round       int     `json:"round"`
	Column      int     `json:"column"`
	MatchIndex  int     `json:"match_index"`
	RoundLabel  string  `json:"round_label"`
	DisplayName string  `json:"display_name"`
	Side        Side    `json:"side"`
}

// Connector is a dependency edge from an input match to the match it feeds
type Connector struct {
	From string `json:"from"`
	To   string `json:"to"`
	Slot int    `json:"slot"`
}

// RoundHeader labels one column of a bracket side
type RoundHeader struct {
	Column int     `json:"column"`
	Depth  int     `json:"depth"`
	X      float64 `json:"x"`
	Label  string  `json:"label"`
}

// OverlayView holds the text bindings for the stream overlay
type OverlayView struct {
	Active  bool   `json:"active"`
	SetID   string `json:"set_id,omitempty"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Score   string `json:"score"`
	Round   string `json:"round"`
}

// ScheduleEntry is one line of the schedule panel
type ScheduleEntry struct {
	SetID     string `json:"set_id"`
	Round     string `json:"round"`
	Players   string `json:"players"`
	StartsAt  string `json:"starts_at,omitempty"`
	StartAt   int64  `json:"start_at,omitempty"`
	Completed bool   `json:"completed"`
}

// ScheduleView holds the schedule panel entries and countdown target
type ScheduleView struct {
	Entries         []ScheduleEntry `json:"entries"`
	CountdownTarget int64           `json:"countdown_target,omitempty"` // unix seconds, 0 when none
	Countdown       string          `json:"countdown"`
}

// RotationState selects which pool and side a display shows
type RotationState struct {
	Pool      string `json:"pool,omitempty"`
	PoolIndex int    `json:"pool_index"`
	PoolCount int    `json:"pool_count"`
	Side      Side   `json:"side"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
