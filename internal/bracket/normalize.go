// Package bracket turns a flat list of match records into a validated
// dependency graph and a deterministic 2-D placement for rendering.
package bracket

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abrezinsky/bracketview/internal/models"
)

// Labels the normalizer looks for. Matched exactly.
const (
	LabelGrandFinal      = "Grand Final"
	LabelLosersFinal     = "Losers Final"
	LabelGrandFinalReset = "Grand Final Reset"
)

// resetPrefix is the first segment of the synthetic id given to a retained reset match
const resetPrefix = "reset"

// MatchIndex parses the position of a match within its round from a structural
// id of the form prefix_pool_round_match. Ids that do not conform yield 0.
func MatchIndex(id string) int {
	parts := strings.Split(id, "_")
	if len(parts) < 4 {
		return 0
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil {
		return 0
	}
	return n
}

// ResetID builds the synthetic id for a retained Grand Final Reset. The
// namespace is escaped so that distinct namespaces never share an id and the
// match-index segment stays in place.
func ResetID(namespace string, round int) string {
	if namespace == "" {
		return resetID("0", round)
	}
	return resetID(escapeSegment(namespace), round)
}

func resetID(escaped string, round int) string {
	return fmt.Sprintf("%s_%s_%d_0", resetPrefix, escaped, round)
}

var segmentEscaper = strings.NewReplacer("%", "%25", "_", "%5F", "/", "%2F")

func escapeSegment(s string) string {
	return segmentEscaper.Replace(s)
}

// ResetPlayed reports whether the Grand Final Reset was actually played: both
// finals have a winner and the losers finalist also won the first grand final.
func ResetPlayed(grandFinal, losersFinal *models.MatchRecord) bool {
	if grandFinal == nil || losersFinal == nil {
		return false
	}
	if grandFinal.WinnerID == "" || losersFinal.WinnerID == "" {
		return false
	}
	return grandFinal.WinnerID == losersFinal.WinnerID
}

// finals holds the labelled matches of one pool, first occurrence of each
type finals struct {
	grandFinal, losersFinal *models.MatchRecord
	reset                   int
}

// Normalize applies the Grand Final Reset inclusion rule once per pool. The
// API always returns a reset placeholder; it is kept (round+1, synthetic id)
// only when it was played and dropped otherwise. When records span several
// pools the reset id carries the pool as well as the namespace. The input
// slice is not modified.
func Normalize(records []models.MatchRecord, namespace string) []models.MatchRecord {
	var order []string
	byPool := make(map[string]*finals)
	for i := range records {
		f, ok := byPool[records[i].PoolID]
		if !ok {
			f = &finals{reset: -1}
			byPool[records[i].PoolID] = f
			order = append(order, records[i].PoolID)
		}
		switch records[i].RoundLabel {
		case LabelGrandFinal:
			if f.grandFinal == nil {
				f.grandFinal = &records[i]
			}
		case LabelLosersFinal:
			if f.losersFinal == nil {
				f.losersFinal = &records[i]
			}
		case LabelGrandFinalReset:
			if f.reset < 0 {
				f.reset = i
			}
		}
	}

	base := "0"
	if namespace != "" {
		base = escapeSegment(namespace)
	}
	kept := make(map[int]string)
	for _, pool := range order {
		f := byPool[pool]
		if f.reset < 0 || !ResetPlayed(f.grandFinal, f.losersFinal) {
			continue
		}
		ns := base
		if len(order) > 1 {
			ns += "/" + escapeSegment(pool)
		}
		kept[f.reset] = ns
	}

	out := make([]models.MatchRecord, 0, len(records))
	for i, rec := range records {
		if rec.RoundLabel != LabelGrandFinalReset {
			out = append(out, rec)
			continue
		}
		ns, ok := kept[i]
		if !ok {
			continue
		}
		rec.Round++
		rec.ID = resetID(ns, rec.Round)
		out = append(out, rec)
	}
	return out
}
