package startgg

import (
	"github.com/abrezinsky/bracketview/internal/bracket"
	apperrors "github.com/abrezinsky/bracketview/internal/errors"
	"github.com/abrezinsky/bracketview/internal/models"
)

// prereqSet marks a slot filled by the outcome of another set
const prereqSet = "set"

// DecodePhase parses a phase document into match records, one per set, in
// phase group order. Defaults are applied here so the engine never sees an
// absent field: missing round is 1, missing label is the generic round name,
// missing entrant is an empty slot.
func DecodePhase(body []byte) ([]models.MatchRecord, error) {
	var data PhaseData
	if err := unwrap(body, &data); err != nil {
		return nil, err
	}
	if data.Phase == nil {
		return nil, apperrors.Malformedf("response has no phase")
	}

	var records []models.MatchRecord
	if data.Phase.PhaseGroups == nil {
		return records, nil
	}
	for _, group := range data.Phase.PhaseGroups.Nodes {
		if group.Sets == nil {
			continue
		}
		pool := group.Identifier()
		for i := range group.Sets.Nodes {
			records = append(records, ToMatchRecord(&group.Sets.Nodes[i], pool))
		}
	}
	return records, nil
}

// ToMatchRecord converts an API set into the engine's record form
func ToMatchRecord(set *Set, poolID string) models.MatchRecord {
	round := set.RoundNumber()
	rec := models.MatchRecord{
		ID:     set.ID.String(),
		Round:  round,
		PoolID: poolID,
		Sources: [2]models.EntrantSource{
			models.Terminal(),
			models.Terminal(),
		},
		WinnerID: set.WinnerID.String(),
	}

	if set.FullRoundText != nil && *set.FullRoundText != "" {
		rec.RoundLabel = *set.FullRoundText
	} else {
		rec.RoundLabel = bracket.GenericRoundLabel(rec.Depth(), models.SideOf(round))
	}
	if set.DisplayScore != nil {
		rec.DisplayScore = *set.DisplayScore
	}
	if set.StartAt != nil {
		rec.StartAt = *set.StartAt
	}
	if set.CompletedAt != nil {
		rec.CompletedAt = *set.CompletedAt
	}

	for i := 0; i < 2; i++ {
		slot := set.Slot(i)
		if name := slot.Entrant.DisplayName(); slot.Entrant != nil && (slot.Entrant.ID != "" || name != "") {
			rec.Slots[i].Entrant = &models.Entrant{
				ID:   slot.Entrant.ID.String(),
				Name: name,
			}
		}
		if slot.PrereqType != nil && *slot.PrereqType == prereqSet && slot.PrereqID != "" {
			rec.Sources[i] = models.FromMatch(slot.PrereqID.String())
		}
	}
	return rec
}
