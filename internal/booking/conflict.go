package booking

import "sort"

// Severity of a detected overlap.  Short brushes between back-to-back
// parties are flagged softly; anything 15 minutes or longer is a real
// double booking.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
	criticalMinutes  = 15
)

// Block is a reserved interval fed to the conflict detector.  Date may
// be empty for single-day input; when set, blocks on different dates
// never conflict even on the same table.
type Block struct {
	ID        uint64  `json:"id"`
	TableID   uint64  `json:"table_id"`
	Date      string  `json:"date,omitempty"`
	Start     string  `json:"start_time"`
	End       string  `json:"end_time"`
	GuestName string  `json:"guest_name,omitempty"`
	PartySize uint32  `json:"party_size,omitempty"`
	Status    string  `json:"status,omitempty"`
	GameID    *uint64 `json:"game_id,omitempty"`
}

// Conflict records one overlapping pair of blocks on a table.
type Conflict struct {
	TableID        uint64 `json:"table_id"`
	FirstID        uint64 `json:"first_id"`
	SecondID       uint64 `json:"second_id"`
	Date           string `json:"date,omitempty"`
	OverlapMinutes int    `json:"overlap_minutes"`
	Severity       string `json:"severity"`
}

// DetectConflicts finds every pairwise overlap among the given blocks.
// Blocks are grouped per table (and per date when dates are present),
// sorted by start time, and compared pairwise under the half-open rule.
// The pairwise pass is O(n^2) per group, which is fine at this domain's
// cardinality of tens of bookings per table per day; a sweep over sorted
// endpoints would be the move at larger fan-out.
func DetectConflicts(blocks []Block) []Conflict {
	type groupKey struct {
		tableID uint64
		date    string
	}
	groups := make(map[groupKey][]Block)
	for _, b := range blocks {
		k := groupKey{tableID: b.TableID, date: b.Date}
		groups[k] = append(groups[k], b)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].tableID != keys[j].tableID {
			return keys[i].tableID < keys[j].tableID
		}
		return keys[i].date < keys[j].date
	})

	conflicts := []Conflict{}
	for _, k := range keys {
		group := groups[k]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Start != group[j].Start {
				return group[i].Start < group[j].Start
			}
			return group[i].ID < group[j].ID
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				overlap := overlapMinutes(group[i].Start, group[i].End, group[j].Start, group[j].End)
				if overlap <= 0 {
					continue
				}
				severity := SeverityWarning
				if overlap >= criticalMinutes {
					severity = SeverityCritical
				}
				conflicts = append(conflicts, Conflict{
					TableID:        k.tableID,
					FirstID:        group[i].ID,
					SecondID:       group[j].ID,
					Date:           k.date,
					OverlapMinutes: overlap,
					Severity:       severity,
				})
			}
		}
	}
	return conflicts
}
