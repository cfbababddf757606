package bracket

import (
	"strconv"
	"strings"

	"github.com/abrezinsky/bracketview/internal/models"
)

const (
	// MaxNameLength is the number of visible characters a name may occupy,
	// including the ellipsis when truncated.
	MaxNameLength = 16
	// Ellipsis marks a truncated name
	Ellipsis = "…"
	// TBD stands in for an unfilled slot
	TBD = "TBD"
)

// ShortName reduces an entrant name to its canonical display tag: the segment
// after a "|" sponsor delimiter, truncated to MaxNameLength visible characters.
func ShortName(name string) string {
	if i := strings.Index(name, "|"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)

	runes := []rune(name)
	if len(runes) <= MaxNameLength {
		return name
	}
	return string(runes[:MaxNameLength-1]) + Ellipsis
}

// DisplayName resolves the "A vs B" label for a match
func DisplayName(rec models.MatchRecord) string {
	var names []string
	for i := 0; i < 2; i++ {
		if n := ShortName(rec.EntrantName(i)); n != "" {
			names = append(names, n)
		}
	}

	switch len(names) {
	case 2:
		return names[0] + " vs " + names[1]
	case 1:
		return names[0] + " vs " + TBD
	default:
		return TBD + " vs " + TBD
	}
}

// RoundLabel returns the label for a column, falling back to a generic round name
func RoundLabel(records []models.MatchRecord, depth int, side models.Side) string {
	for _, rec := range records {
		if rec.RoundLabel != "" {
			return rec.RoundLabel
		}
	}
	return GenericRoundLabel(depth, side)
}

// GenericRoundLabel is used when the API supplied no label
func GenericRoundLabel(depth int, side models.Side) string {
	if side == models.SideLosers {
		return "Losers Round " + strconv.Itoa(depth)
	}
	return "Round " + strconv.Itoa(depth)
}
