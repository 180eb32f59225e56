package booking

import "context"

// overlapMinutes returns how many minutes two half-open intervals share.
// Intervals are "HH:MM" strings; touching endpoints overlap by zero.
// Malformed times count as zero overlap since they cannot occupy a slot.
func overlapMinutes(s1, e1, s2, e2 string) int {
	a1, err := TimeToMinutes(s1)
	if err != nil {
		return 0
	}
	b1, err := TimeToMinutes(e1)
	if err != nil {
		return 0
	}
	a2, err := TimeToMinutes(s2)
	if err != nil {
		return 0
	}
	b2, err := TimeToMinutes(e2)
	if err != nil {
		return 0
	}
	lo := a1
	if a2 > lo {
		lo = a2
	}
	hi := b1
	if b2 < hi {
		hi = b2
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// intervalsOverlap applies the half-open rule: [s1,e1) and [s2,e2)
// conflict iff s1 < e2 and e1 > s2.
func intervalsOverlap(s1, e1, s2, e2 string) bool {
	return overlapMinutes(s1, e1, s2, e2) > 0
}

// TableConflict describes one existing booking that collides with a
// candidate interval.  Exposed so callers can tell the guest who holds
// the slot.
type TableConflict struct {
	BookingID uint64 `json:"booking_id"`
	GuestName string `json:"guest_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TableAvailability is the result of a table availability check.  When
// Available is false, Conflicts holds every overlapping booking, not
// just the first, so the caller can build a useful message.
type TableAvailability struct {
	Available bool            `json:"available"`
	Conflicts []TableConflict `json:"conflicts"`
}

// GameAvailability is the result of a game-copy availability check.
type GameAvailability struct {
	Available      bool `json:"available"`
	CopiesTotal    int  `json:"copies_total"`
	CopiesReserved int  `json:"copies_reserved"`
}

// CheckTableAvailability fetches all active bookings for the table and
// date and reports every one whose interval overlaps [startTime, endTime)
// under the half-open rule.  Cancelled and no-show bookings do not hold
// the table.
func (e *Engine) CheckTableAvailability(ctx context.Context, tableID uint64, date, startTime, endTime string) (TableAvailability, error) {
	existing, err := e.store.BookingsForTable(ctx, tableID, date, ExcludedStatuses)
	if err != nil {
		return TableAvailability{}, err
	}
	out := TableAvailability{Available: true, Conflicts: []TableConflict{}}
	for _, b := range existing {
		if intervalsOverlap(startTime, endTime, b.StartTime, b.EndTime) {
			out.Available = false
			out.Conflicts = append(out.Conflicts, TableConflict{
				BookingID: b.ID,
				GuestName: b.GuestName,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
			})
		}
	}
	return out, nil
}

// CheckGameAvailability counts active bookings of the game overlapping
// the candidate window and compares against the game's copies in
// rotation.  A game with no configured copy count is treated as a single
// copy.
func (e *Engine) CheckGameAvailability(ctx context.Context, game Game, date, startTime, endTime string) (GameAvailability, error) {
	existing, err := e.store.BookingsForGame(ctx, game.ID, date, ExcludedStatuses)
	if err != nil {
		return GameAvailability{}, err
	}
	total := int(game.Copies)
	if total <= 0 {
		total = 1
	}
	reserved := 0
	for _, b := range existing {
		if intervalsOverlap(startTime, endTime, b.StartTime, b.EndTime) {
			reserved++
		}
	}
	return GameAvailability{
		Available:      reserved < total,
		CopiesTotal:    total,
		CopiesReserved: reserved,
	}, nil
}
