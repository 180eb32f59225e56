package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store used by the engine tests. Hooks let
// individual tests inject duplicate-key failures, code collisions and
// racing writers.
type fakeStore struct {
	mu       sync.Mutex
	policy   Policy
	tables   map[uint64]Table
	games    map[uint64]Game
	bookings []Booking
	nextID   uint64

	collideProbes int                          // CodeExists answers true this many times
	insertDupes   int                          // InsertBooking fails with ErrDuplicate this many times
	insertCalls   int
	afterInsert   func(s *fakeStore, b *Booking) // runs while holding the lock, after a successful insert
	deleted       []uint64
}

func newFakeStore() *fakeStore {
	cap6 := uint32(6)
	return &fakeStore{
		policy: testPolicy(),
		tables: map[uint64]Table{
			10: {ID: 10, VenueID: 1, Label: "Window 1", Capacity: &cap6, IsActive: true},
			11: {ID: 11, VenueID: 1, Label: "Corner", IsActive: true},
			12: {ID: 12, VenueID: 1, Label: "Retired", IsActive: false},
			13: {ID: 13, VenueID: 1, Label: "Back Room", IsActive: true},
			30: {ID: 30, VenueID: 2, Label: "Elsewhere", IsActive: true},
		},
		games: map[uint64]Game{
			20: {ID: 20, VenueID: 1, Title: "Catan", Copies: 2, IsActive: true},
			31: {ID: 31, VenueID: 2, Title: "Azul", Copies: 1, IsActive: true},
		},
	}
}

// seed adds an existing confirmed booking and returns its ID.
func (s *fakeStore) seed(tableID uint64, gameID *uint64, date, start, end, guest string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.bookings = append(s.bookings, Booking{
		ID: s.nextID, VenueID: 1, TableID: tableID, GameID: gameID,
		Date: date, StartTime: start, EndTime: end,
		PartySize: 2, GuestName: guest, Status: StatusConfirmed, Source: SourceStaff,
	})
	return s.nextID
}

func (s *fakeStore) VenuePolicy(ctx context.Context, venueID uint64) (Policy, error) {
	if venueID != 1 {
		return Policy{}, ErrVenueNotFound
	}
	return s.policy, nil
}

func (s *fakeStore) TableByID(ctx context.Context, tableID uint64) (Table, error) {
	t, ok := s.tables[tableID]
	if !ok {
		return Table{}, ErrTableNotFound
	}
	return t, nil
}

func (s *fakeStore) GameByID(ctx context.Context, gameID uint64) (Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return Game{}, ErrGameNotFound
	}
	return g, nil
}

func excludedSet(excluded []string) map[string]bool {
	m := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		m[s] = true
	}
	return m
}

func (s *fakeStore) BookingsForTable(ctx context.Context, tableID uint64, date string, excluded []string) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	skip := excludedSet(excluded)
	var out []Booking
	for _, b := range s.bookings {
		if b.TableID == tableID && b.Date == date && !skip[b.Status] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) BookingsForGame(ctx context.Context, gameID uint64, date string, excluded []string) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	skip := excludedSet(excluded)
	var out []Booking
	for _, b := range s.bookings {
		if b.GameID != nil && *b.GameID == gameID && b.Date == date && !skip[b.Status] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collideProbes > 0 {
		s.collideProbes--
		return true, nil
	}
	return false, nil
}

func (s *fakeStore) InsertBooking(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.insertDupes > 0 {
		s.insertDupes--
		return ErrDuplicate
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	s.bookings = append(s.bookings, *b)
	if s.afterInsert != nil {
		s.afterInsert(s, b)
	}
	return nil
}

func (s *fakeStore) DeleteBooking(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) TablesForVenue(ctx context.Context, venueID uint64) ([]Table, error) {
	var out []Table
	for _, id := range []uint64{10, 11, 12, 13} {
		if t, ok := s.tables[id]; ok && t.VenueID == venueID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) BookingsForVenueAndDates(ctx context.Context, venueID uint64, dates []string) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(dates))
	for _, d := range dates {
		want[d] = true
	}
	var out []Booking
	for _, b := range s.bookings {
		if b.VenueID == venueID && want[b.Date] {
			out = append(out, b)
		}
	}
	return out, nil
}

// newTestEngine returns an engine over the fake store with a pinned
// clock and no-op sleep.
func newTestEngine(s *fakeStore) *Engine {
	e := NewEngine(s, nil, nil)
	e.now = func() time.Time { return testNow }
	e.sleep = func(time.Duration) {}
	return e
}

func requireBookingError(t *testing.T, err error, code Code) *Error {
	t.Helper()
	require.Error(t, err)
	var bErr *Error
	require.True(t, errors.As(err, &bErr), "expected *booking.Error, got %T", err)
	assert.Equal(t, code, bErr.Code)
	return bErr
}

func TestCreate_Success(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	res, err := e.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, res)

	b := res.Booking
	assert.NotZero(t, b.ID)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, SourceStaff, b.Source)
	assert.Equal(t, "2026-03-10", b.Date)
	assert.Equal(t, "18:00", b.StartTime)
	assert.Equal(t, "20:00", b.EndTime)
	assert.Len(t, b.ConfirmationCode, 6)
	require.NotNil(t, b.ConfirmedAt)
	assert.Equal(t, "Window 1", res.TableLabel)
	require.NotNil(t, res.TableCapacity)
	assert.Equal(t, uint32(6), *res.TableCapacity)
	assert.Nil(t, res.GameTitle)
}

func TestCreate_DefaultDuration(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.EndTime = "" // fall back to the venue's 120 minute default
	req.DurationMinutes = nil

	res, err := e.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "20:00", res.Booking.EndTime)
}

func TestCreate_PastMidnight(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.StartTime = "23:00"
	req.EndTime = ""
	dur := 120
	req.DurationMinutes = &dur

	err := func() error { _, err := e.Create(context.Background(), req); return err }()
	bErr := requireBookingError(t, err, CodeValidation)
	assert.Contains(t, bErr.Message, "past midnight")
}

func TestCreate_VenueNotFound(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.VenueID = 99
	_, err := e.Create(context.Background(), req)
	requireBookingError(t, err, CodeNotFound)
}

func TestCreate_OnlineDisabled(t *testing.T) {
	s := newFakeStore()
	s.policy.OnlineBookingEnabled = false
	e := newTestEngine(s)

	req := validRequest()
	req.Source = SourceOnline
	_, err := e.Create(context.Background(), req)
	requireBookingError(t, err, CodeDisabled)

	// Staff bookings are unaffected by the online switch.
	req.Source = SourceStaff
	_, err = e.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreate_ValidationFailure(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.GuestName = ""
	_, err := e.Create(context.Background(), req)
	bErr := requireBookingError(t, err, CodeValidation)
	assert.Equal(t, "guest name is required", bErr.Message)
	assert.Empty(t, s.bookings, "nothing may be written on validation failure")
}

func TestCreate_InactiveTable(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.TableID = 12
	_, err := e.Create(context.Background(), req)
	requireBookingError(t, err, CodeNotFound)
}

func TestCreate_TableFromOtherVenue(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.TableID = 30
	_, err := e.Create(context.Background(), req)
	requireBookingError(t, err, CodeValidation)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	req := validRequest()
	req.PartySize = 7 // table 10 seats 6
	_, err := e.Create(context.Background(), req)
	bErr := requireBookingError(t, err, CodeCapacity)
	assert.Equal(t, "party of 7 exceeds the table capacity of 6", bErr.Message)

	// Table 11 has no capacity configured: any party size fits.
	req.TableID = 11
	req.PartySize = 40
	_, err = e.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreate_TableConflict(t *testing.T) {
	s := newFakeStore()
	s.seed(10, nil, "2026-03-10", "19:00", "21:00", "Jonas Weber")
	e := newTestEngine(s)

	_, err := e.Create(context.Background(), validRequest()) // 18:00-20:00
	bErr := requireBookingError(t, err, CodeConflict)
	assert.Equal(t, "table is already booked by Jonas Weber from 19:00 to 21:00", bErr.Message)
}

func TestCreate_TouchingBookingsDoNotConflict(t *testing.T) {
	s := newFakeStore()
	s.seed(10, nil, "2026-03-10", "20:00", "22:00", "Jonas Weber")
	e := newTestEngine(s)

	// 18:00-20:00 ends exactly where the existing booking starts.
	_, err := e.Create(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestCreate_CancelledBookingFreesTheTable(t *testing.T) {
	s := newFakeStore()
	id := s.seed(10, nil, "2026-03-10", "18:00", "20:00", "Jonas Weber")
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = StatusCancelledByGuest
		}
	}
	e := newTestEngine(s)

	_, err := e.Create(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestCreate_GameCopies(t *testing.T) {
	s := newFakeStore()
	gameID := uint64(20) // 2 copies
	s.seed(11, &gameID, "2026-03-10", "18:30", "20:30", "Jonas Weber")
	e := newTestEngine(s)

	// One copy is out; the second is free.
	req := validRequest()
	req.GameID = &gameID
	res, err := e.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.GameTitle)
	assert.Equal(t, "Catan", *res.GameTitle)

	// Both copies are now reserved for the window.
	req2 := validRequest()
	req2.TableID = 13
	req2.GameID = &gameID
	req2.StartTime = "19:00"
	req2.EndTime = "20:00"
	_, err = e.Create(context.Background(), req2)
	bErr := requireBookingError(t, err, CodeConflict)
	assert.Equal(t, `all 2 copies of "Catan" are reserved for this time`, bErr.Message)
}

func TestCreate_GameFromOtherVenue(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	gameID := uint64(31)
	req := validRequest()
	req.GameID = &gameID
	_, err := e.Create(context.Background(), req)
	requireBookingError(t, err, CodeValidation)
}

func TestCreate_DuplicateKeyRetries(t *testing.T) {
	s := newFakeStore()
	s.insertDupes = 2
	e := newTestEngine(s)

	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := e.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, s.insertCalls)
	// Linear backoff: 100ms after the first failure, 200ms after the second.
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept)
}

func TestCreate_DuplicateKeyExhaustion(t *testing.T) {
	s := newFakeStore()
	s.insertDupes = 3
	e := newTestEngine(s)

	_, err := e.Create(context.Background(), validRequest())
	bErr := requireBookingError(t, err, CodeConflict)
	assert.Contains(t, bErr.Message, "concurrent updates")
	assert.Equal(t, 3, s.insertCalls)
}

func TestCreate_CodeCollisionTolerated(t *testing.T) {
	s := newFakeStore()
	s.collideProbes = 10 // more than the retry budget
	e := newTestEngine(s)

	res, err := e.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, res.Booking.ConfirmationCode, 6, "exhausted collision budget must not block the booking")
}

func TestCreate_PostInsertRaceRollsBack(t *testing.T) {
	s := newFakeStore()
	// A rival writer lands its overlapping booking between our
	// availability check and the post-insert verification.
	s.afterInsert = func(s *fakeStore, b *Booking) {
		s.afterInsert = nil
		s.nextID++
		s.bookings = append(s.bookings, Booking{
			ID: s.nextID, VenueID: 1, TableID: b.TableID,
			Date: b.Date, StartTime: "19:00", EndTime: "21:00",
			PartySize: 2, GuestName: "Rival Writer", Status: StatusConfirmed, Source: SourceOnline,
		})
	}
	e := newTestEngine(s)

	_, err := e.Create(context.Background(), validRequest())
	requireBookingError(t, err, CodeConflict)

	// Our row was compensated away; only the rival remains.
	require.Len(t, s.deleted, 1)
	require.Len(t, s.bookings, 1)
	assert.Equal(t, "Rival Writer", s.bookings[0].GuestName)
}

func TestCreate_PostInsertGameRaceRollsBack(t *testing.T) {
	s := newFakeStore()
	gameID := uint64(20) // 2 copies
	s.seed(11, &gameID, "2026-03-10", "18:00", "20:00", "Existing Session")
	// The rival grabs the last copy on a different table, which the
	// table-only check cannot see.
	s.afterInsert = func(s *fakeStore, b *Booking) {
		s.afterInsert = nil
		s.nextID++
		s.bookings = append(s.bookings, Booking{
			ID: s.nextID, VenueID: 1, TableID: 12, GameID: &gameID,
			Date: b.Date, StartTime: "18:00", EndTime: "20:00",
			PartySize: 2, GuestName: "Rival Writer", Status: StatusConfirmed, Source: SourceOnline,
		})
	}
	e := newTestEngine(s)

	req := validRequest()
	req.GameID = &gameID
	_, err := e.Create(context.Background(), req)
	bErr := requireBookingError(t, err, CodeConflict)
	assert.Contains(t, bErr.Message, "copies")
	assert.Len(t, s.deleted, 1)
}

func TestCreate_ConcurrentIdenticalRequests(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	const n = 4
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.Create(context.Background(), validRequest())
			results[i] = err
		}(i)
	}
	wg.Wait()

	// At most one request may hold the 18:00-20:00 slot afterwards; the
	// rest must have been rejected with CONFLICT or rolled back.
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.LessOrEqual(t, len(s.bookings), 1)
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			requireBookingError(t, err, CodeConflict)
		}
	}
	assert.Equal(t, len(s.bookings), succeeded)
}
