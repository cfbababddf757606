package bracket

import "github.com/abrezinsky/bracketview/internal/models"

func match(id string, round int) models.MatchRecord {
	return models.MatchRecord{
		ID:      id,
		Round:   round,
		Sources: [2]models.EntrantSource{models.Terminal(), models.Terminal()},
	}
}

func labeled(id string, round int, label, winner string) models.MatchRecord {
	m := match(id, round)
	m.RoundLabel = label
	m.WinnerID = winner
	return m
}

func withEntrants(m models.MatchRecord, a, b string) models.MatchRecord {
	if a != "" {
		m.Slots[0].Entrant = &models.Entrant{ID: "e-" + a, Name: a}
	}
	if b != "" {
		m.Slots[1].Entrant = &models.Entrant{ID: "e-" + b, Name: b}
	}
	return m
}

func fedBy(m models.MatchRecord, a, b string) models.MatchRecord {
	if a != "" {
		m.Sources[0] = models.FromMatch(a)
	}
	if b != "" {
		m.Sources[1] = models.FromMatch(b)
	}
	return m
}

// doubleElim is a small 4-entrant double elimination phase using preview ids
func doubleElim(gfWinner, lfWinner string) []models.MatchRecord {
	return []models.MatchRecord{
		withEntrants(labeled("preview_7_1_0", 1, "Winners Semi-Final", "a"), "a", "b"),
		withEntrants(labeled("preview_7_1_1", 1, "Winners Semi-Final", "c"), "c", "d"),
		fedBy(labeled("preview_7_2_0", 2, "Winners Final", "a"), "preview_7_1_0", "preview_7_1_1"),
		fedBy(labeled("preview_7_3_0", 3, LabelGrandFinal, gfWinner), "preview_7_2_0", "preview_7_-3_0"),
		fedBy(labeled("preview_7_3_1", 3, LabelGrandFinalReset, ""), "preview_7_3_0", ""),
		fedBy(labeled("preview_7_-1_0", -1, "Losers Round 1", "b"), "preview_7_1_0", "preview_7_1_1"),
		fedBy(labeled("preview_7_-2_0", -2, "Losers Semi-Final", "b"), "preview_7_-1_0", "preview_7_2_0"),
		fedBy(labeled("preview_7_-3_0", -3, LabelLosersFinal, lfWinner), "preview_7_-2_0", ""),
	}
}

func ids(records []models.MatchRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
