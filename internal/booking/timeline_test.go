package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setStatus flips a seeded booking's status in place.
func (s *fakeStore) setStatus(id uint64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = status
		}
	}
}

func TestDayTimeline(t *testing.T) {
	s := newFakeStore()
	s.seed(10, nil, "2026-03-10", "18:00", "20:00", "Lena Hoffmann")
	overlapping := s.seed(10, nil, "2026-03-10", "19:00", "21:00", "Jonas Weber")
	cancelled := s.seed(10, nil, "2026-03-10", "18:30", "20:30", "Mira Keller")
	s.setStatus(cancelled, StatusCancelledByGuest)
	s.seed(11, nil, "2026-03-11", "18:00", "20:00", "Wrong Day")
	e := newTestEngine(s)

	view, err := e.DayTimeline(context.Background(), 1, "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", view.Date)
	// Cancelled bookings still render as blocks so staff can see the
	// day's history, but they do not conflict with anything.
	assert.Len(t, view.Blocks, 3)
	require.Len(t, view.Conflicts, 1)
	assert.Equal(t, overlapping, view.Conflicts[0].SecondID)
	assert.Equal(t, 60, view.Conflicts[0].OverlapMinutes)
	assert.Equal(t, SeverityCritical, view.Conflicts[0].Severity)

	assert.Equal(t, "09:00", view.OperatingHours.Opening)
	assert.Equal(t, "23:00", view.OperatingHours.Closing)
	assert.Len(t, view.Tables, 4)
}

func TestDayTimeline_Errors(t *testing.T) {
	e := newTestEngine(newFakeStore())

	_, err := e.DayTimeline(context.Background(), 1, "10.03.2026")
	requireBookingError(t, err, CodeValidation)

	_, err = e.DayTimeline(context.Background(), 99, "2026-03-10")
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestWeekTimeline(t *testing.T) {
	s := newFakeStore()
	// 2026-03-10 is a Tuesday; its week runs 03-09 through 03-15.
	s.seed(10, nil, "2026-03-09", "10:00", "12:00", "Morning Crowd")
	s.seed(10, nil, "2026-03-10", "12:30", "14:00", "Lunch Crowd")
	s.seed(10, nil, "2026-03-12", "16:00", "18:00", "Afternoon Crowd")
	s.seed(10, nil, "2026-03-14", "19:00", "21:00", "Evening Crowd")
	s.seed(10, nil, "2026-03-16", "19:00", "21:00", "Next Week")
	e := newTestEngine(s)

	view, err := e.WeekTimeline(context.Background(), 1, "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-09", view.WeekStart)
	assert.Equal(t, "2026-03-15", view.WeekEnd)
	require.Len(t, view.BlocksByDate, 7)
	assert.Len(t, view.BlocksByDate["2026-03-09"], 1)
	assert.Len(t, view.BlocksByDate["2026-03-10"], 1)
	assert.Empty(t, view.BlocksByDate["2026-03-11"])
	assert.NotContains(t, view.BlocksByDate, "2026-03-16")

	// Each date of the week carries its own day-part histogram.
	require.Len(t, view.Distribution, 7)
	assert.Equal(t, 1, view.Distribution["2026-03-09"][bucketMorning])
	assert.Equal(t, 1, view.Distribution["2026-03-10"][bucketLunch])
	assert.Equal(t, 1, view.Distribution["2026-03-12"][bucketAfternoon])
	assert.Equal(t, 1, view.Distribution["2026-03-14"][bucketEvening])
	assert.Equal(t, 0, view.Distribution["2026-03-09"][bucketEvening])
	assert.Equal(t, emptyDistribution(), view.Distribution["2026-03-11"])
}

func TestWeekTimeline_MondayStaysItsOwnWeek(t *testing.T) {
	e := newTestEngine(newFakeStore())

	view, err := e.WeekTimeline(context.Background(), 1, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", view.WeekStart)

	view, err = e.WeekTimeline(context.Background(), 1, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", view.WeekStart, "Sunday belongs to the week that began the previous Monday")
}

func TestWeekTimeline_SameClockDifferentDaysNoConflict(t *testing.T) {
	s := newFakeStore()
	s.seed(10, nil, "2026-03-09", "18:00", "20:00", "Monday Party")
	s.seed(10, nil, "2026-03-10", "18:00", "20:00", "Tuesday Party")
	e := newTestEngine(s)

	view, err := e.WeekTimeline(context.Background(), 1, "2026-03-10")
	require.NoError(t, err)
	assert.Empty(t, view.Conflicts)
}

func TestMonthTimeline(t *testing.T) {
	s := newFakeStore()
	s.seed(10, nil, "2026-03-10", "18:00", "20:00", "Lena Hoffmann")
	s.seed(11, nil, "2026-03-10", "12:30", "14:00", "Jonas Weber")
	pending := s.seed(10, nil, "2026-03-20", "19:00", "21:00", "Mira Keller")
	s.setStatus(pending, StatusPending)
	noShow := s.seed(10, nil, "2026-03-20", "10:00", "12:00", "Ghost")
	s.setStatus(noShow, StatusNoShow)
	e := newTestEngine(s)

	view, err := e.MonthTimeline(context.Background(), 1, 2026, 3)
	require.NoError(t, err)

	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, 3, view.Month)
	assert.Len(t, view.Days, 31, "every calendar day is present, booked or not")

	tenth := view.Days["2026-03-10"]
	assert.Equal(t, 2, tenth.TotalBookings)
	assert.Equal(t, 2, tenth.ConfirmedCount)
	assert.Equal(t, 0, tenth.PendingCount)
	assert.Equal(t, 1, tenth.Distribution[bucketLunch])
	assert.Equal(t, 1, tenth.Distribution[bucketEvening])

	twentieth := view.Days["2026-03-20"]
	assert.Equal(t, 2, twentieth.TotalBookings, "no-shows still count toward the day total")
	assert.Equal(t, 0, twentieth.ConfirmedCount)
	assert.Equal(t, 1, twentieth.PendingCount)

	empty := view.Days["2026-03-01"]
	assert.Equal(t, 0, empty.TotalBookings)
	assert.Equal(t, 0, empty.Distribution[bucketMorning])
}

func TestMonthTimeline_Validation(t *testing.T) {
	e := newTestEngine(newFakeStore())

	_, err := e.MonthTimeline(context.Background(), 1, 2026, 13)
	requireBookingError(t, err, CodeValidation)

	_, err = e.MonthTimeline(context.Background(), 1, 0, 3)
	requireBookingError(t, err, CodeValidation)

	// February of a leap year has 29 zero-filled days.
	view, err := e.MonthTimeline(context.Background(), 1, 2028, 2)
	require.NoError(t, err)
	assert.Len(t, view.Days, 29)
}
