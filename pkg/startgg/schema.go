package startgg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an identifier that can be unmarshaled from either a string or a number.
// start.gg returns numeric ids for real sets and "preview_..." strings for
// sets that have not been started yet.
type ID string

// UnmarshalJSON implements json.Unmarshaler for ID
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}

	return fmt.Errorf("startgg.ID: cannot unmarshal %s", string(data))
}

// String returns the string value
func (id ID) String() string {
	return string(id)
}

// GraphQLError is one entry of a GraphQL "errors" array
type GraphQLError struct {
	Message string `json:"message"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Participant is a member of an entrant
type Participant struct {
	GamerTag *string `json:"gamerTag"`
}

// Entrant occupies a set slot
type Entrant struct {
	ID           ID            `json:"id"`
	Name         *string       `json:"name"`
	Participants []Participant `json:"participants,omitempty"`
}

// DisplayName returns the entrant name, falling back to the joined gamer tags
func (e *Entrant) DisplayName() string {
	if e == nil {
		return ""
	}
	if e.Name != nil && *e.Name != "" {
		return *e.Name
	}
	var tags []string
	for _, p := range e.Participants {
		if p.GamerTag != nil && *p.GamerTag != "" {
			tags = append(tags, *p.GamerTag)
		}
	}
	return strings.Join(tags, " / ")
}

// ScoreValue is the per-slot game count of a set
type ScoreValue struct {
	Label *string  `json:"label"`
	Value *float64 `json:"value"`
}

// Stats holds standing statistics
type Stats struct {
	Score *ScoreValue `json:"score"`
}

// Standing is an entrant's standing within a set
type Standing struct {
	Placement *int   `json:"placement"`
	Stats     *Stats `json:"stats"`
}

// Slot is one of the positions of a set
type Slot struct {
	PrereqID   ID        `json:"prereqId"`
	PrereqType *string   `json:"prereqType"`
	Entrant    *Entrant  `json:"entrant"`
	Standing   *Standing `json:"standing,omitempty"`
}

// Score returns the slot's game count, 0 when absent
func (s Slot) Score() int {
	if s.Standing == nil || s.Standing.Stats == nil || s.Standing.Stats.Score == nil || s.Standing.Stats.Score.Value == nil {
		return 0
	}
	return int(*s.Standing.Stats.Score.Value)
}

// PhaseRef names the phase a set belongs to
type PhaseRef struct {
	ID   ID      `json:"id"`
	Name *string `json:"name"`
}

// PhaseGroupRef is the pool a set belongs to
type PhaseGroupRef struct {
	ID                ID        `json:"id"`
	DisplayIdentifier *string   `json:"displayIdentifier"`
	Phase             *PhaseRef `json:"phase"`
}

// Set is a single match
type Set struct {
	ID            ID             `json:"id"`
	Round         *int           `json:"round"`
	FullRoundText *string        `json:"fullRoundText"`
	DisplayScore  *string        `json:"displayScore"`
	WinnerID      ID             `json:"winnerId"`
	StartAt       *int64         `json:"startAt"`
	CompletedAt   *int64         `json:"completedAt"`
	TotalGames    *int           `json:"totalGames,omitempty"`
	Slots         []Slot         `json:"slots"`
	PhaseGroup    *PhaseGroupRef `json:"phaseGroup,omitempty"`
}

// RoundNumber returns the round, 1 when absent
func (s *Set) RoundNumber() int {
	if s.Round == nil {
		return 1
	}
	return *s.Round
}

// Slot returns slot i, or an empty slot when the API sent fewer
func (s *Set) Slot(i int) Slot {
	if i < 0 || i >= len(s.Slots) {
		return Slot{}
	}
	return s.Slots[i]
}

// Completed reports whether the set has a completion time
func (s *Set) Completed() bool {
	return s.CompletedAt != nil && *s.CompletedAt > 0
}

// PoolIdentifier returns the phase group's display identifier, else its id
func (s *Set) PoolIdentifier() string {
	if s.PhaseGroup == nil {
		return ""
	}
	if s.PhaseGroup.DisplayIdentifier != nil && *s.PhaseGroup.DisplayIdentifier != "" {
		return *s.PhaseGroup.DisplayIdentifier
	}
	return s.PhaseGroup.ID.String()
}

// PhaseName returns the name of the set's phase, "" when absent
func (s *Set) PhaseName() string {
	if s.PhaseGroup == nil || s.PhaseGroup.Phase == nil || s.PhaseGroup.Phase.Name == nil {
		return ""
	}
	return *s.PhaseGroup.Phase.Name
}

// PageInfo carries pagination totals
type PageInfo struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// SetConnection is one page of sets
type SetConnection struct {
	PageInfo *PageInfo `json:"pageInfo"`
	Nodes    []Set     `json:"nodes"`
}

// PhaseGroup is a pool of the phase with its sets
type PhaseGroup struct {
	ID                ID             `json:"id"`
	DisplayIdentifier *string        `json:"displayIdentifier"`
	Sets              *SetConnection `json:"sets"`
}

// Identifier returns the display identifier, else the id
func (g PhaseGroup) Identifier() string {
	if g.DisplayIdentifier != nil && *g.DisplayIdentifier != "" {
		return *g.DisplayIdentifier
	}
	return g.ID.String()
}

// PhaseGroupConnection is the list of pools of a phase
type PhaseGroupConnection struct {
	Nodes []PhaseGroup `json:"nodes"`
}

// Phase is one bracket phase of an event
type Phase struct {
	ID          ID                    `json:"id"`
	Name        *string               `json:"name"`
	PhaseGroups *PhaseGroupConnection `json:"phaseGroups"`
}

// PhaseData is the "data" object of the phase query
type PhaseData struct {
	Phase *Phase `json:"phase"`
}

// TotalPages returns the largest page count reported by any phase group
func (d PhaseData) TotalPages() int {
	max := 1
	if d.Phase == nil || d.Phase.PhaseGroups == nil {
		return max
	}
	for _, g := range d.Phase.PhaseGroups.Nodes {
		if g.Sets != nil && g.Sets.PageInfo != nil && g.Sets.PageInfo.TotalPages > max {
			max = g.Sets.PageInfo.TotalPages
		}
	}
	return max
}

// Stream is a broadcast channel attached to the tournament
type Stream struct {
	StreamSource *string `json:"streamSource"`
	StreamName   *string `json:"streamName"`
}

// SetRef is a set referenced by id only
type SetRef struct {
	ID ID `json:"id"`
}

// StreamQueue is the ordered list of sets assigned to one stream
type StreamQueue struct {
	Stream *Stream  `json:"stream"`
	Sets   []SetRef `json:"sets"`
}

// Name returns the stream name, "" when absent
func (q StreamQueue) Name() string {
	if q.Stream == nil || q.Stream.StreamName == nil {
		return ""
	}
	return *q.Stream.StreamName
}

type tournamentData struct {
	Tournament *struct {
		StreamQueue []StreamQueue `json:"streamQueue"`
	} `json:"tournament"`
}

type setData struct {
	Set *Set `json:"set"`
}
