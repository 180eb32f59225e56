package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapMinutes(t *testing.T) {
	assert.Equal(t, 30, overlapMinutes("18:00", "20:00", "19:30", "21:00"))
	assert.Equal(t, 120, overlapMinutes("18:00", "20:00", "17:00", "21:00"))
	assert.Equal(t, 0, overlapMinutes("18:00", "20:00", "20:00", "22:00"), "touching endpoints are not an overlap")
	assert.Equal(t, 0, overlapMinutes("18:00", "20:00", "21:00", "22:00"))
	assert.Equal(t, 0, overlapMinutes("bad", "20:00", "19:00", "21:00"))
}

func TestIntervalsOverlap_HalfOpen(t *testing.T) {
	assert.True(t, intervalsOverlap("18:00", "20:00", "19:59", "21:00"))
	assert.False(t, intervalsOverlap("18:00", "20:00", "20:00", "22:00"))
	assert.False(t, intervalsOverlap("20:00", "22:00", "18:00", "20:00"))
}

func TestCheckTableAvailability(t *testing.T) {
	s := newFakeStore()
	s.seed(10, nil, "2026-03-10", "17:00", "19:00", "Jonas Weber")
	s.seed(10, nil, "2026-03-10", "19:00", "21:00", "Mira Keller")
	s.seed(10, nil, "2026-03-11", "18:00", "20:00", "Other Day")
	e := newTestEngine(s)

	// 18:00-20:00 overlaps both same-day bookings; the detector reports
	// every conflict, not just the first.
	avail, err := e.CheckTableAvailability(context.Background(), 10, "2026-03-10", "18:00", "20:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	require.Len(t, avail.Conflicts, 2)
	assert.Equal(t, "Jonas Weber", avail.Conflicts[0].GuestName)
	assert.Equal(t, "Mira Keller", avail.Conflicts[1].GuestName)

	// 21:00-23:00 touches the second booking's end: free.
	avail, err = e.CheckTableAvailability(context.Background(), 10, "2026-03-10", "21:00", "23:00")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Empty(t, avail.Conflicts)
}

func TestCheckGameAvailability(t *testing.T) {
	s := newFakeStore()
	gameID := uint64(20)
	s.seed(10, &gameID, "2026-03-10", "18:00", "20:00", "Jonas Weber")
	e := newTestEngine(s)
	game := s.games[20] // 2 copies

	avail, err := e.CheckGameAvailability(context.Background(), game, "2026-03-10", "19:00", "21:00")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 2, avail.CopiesTotal)
	assert.Equal(t, 1, avail.CopiesReserved)

	s.seed(11, &gameID, "2026-03-10", "18:30", "20:30", "Mira Keller")
	avail, err = e.CheckGameAvailability(context.Background(), game, "2026-03-10", "19:00", "21:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, 2, avail.CopiesReserved)
}

func TestCheckGameAvailability_ZeroCopiesMeansOne(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)
	game := Game{ID: 40, VenueID: 1, Title: "Prototype", Copies: 0}

	avail, err := e.CheckGameAvailability(context.Background(), game, "2026-03-10", "18:00", "20:00")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 1, avail.CopiesTotal)
}
