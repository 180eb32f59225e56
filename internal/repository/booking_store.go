package repository

import (
	"context"
	"errors"

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/model"
)

// BookingStore adapts the MySQL repositories to the booking engine's
// Store interface, translating between model rows and the engine's
// value types and mapping repository sentinels onto the engine's.
type BookingStore struct {
	Settings *SettingsRepo
	Tables   *TableRepo
	Games    *GameRepo
	Bookings *BookingRepo
}

// NewBookingStore bundles the repositories behind booking.Store. All
// dependencies must be non-nil.
func NewBookingStore(settings *SettingsRepo, tables *TableRepo, games *GameRepo, bookings *BookingRepo) *BookingStore {
	if settings == nil || tables == nil || games == nil || bookings == nil {
		panic("nil repository passed to NewBookingStore")
	}
	return &BookingStore{Settings: settings, Tables: tables, Games: games, Bookings: bookings}
}

// VenuePolicy resolves (creating on first access) the venue's booking
// settings and projects them onto the engine's policy value.
func (s *BookingStore) VenuePolicy(ctx context.Context, venueID uint64) (booking.Policy, error) {
	row, err := s.Settings.GetOrCreate(ctx, venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			return booking.Policy{}, booking.ErrVenueNotFound
		}
		return booking.Policy{}, err
	}
	return booking.Policy{
		RequirePhone:           row.RequirePhone,
		RequireEmail:           row.RequireEmail,
		MinNoticeHours:         row.MinBookingNoticeHours,
		MaxAdvanceDays:         row.MaxAdvanceBookingDays,
		DefaultDurationMinutes: row.DefaultDurationMinutes,
		OnlineBookingEnabled:   row.OnlineBookingEnabled,
		Timezone:               timezoneFor(ctx, s, venueID),
		OpeningTime:            row.OpeningTime,
		ClosingTime:            row.ClosingTime,
	}, nil
}

// timezoneFor reads the venue's timezone off the venue row. The settings
// table intentionally does not duplicate it.
func timezoneFor(ctx context.Context, s *BookingStore, venueID uint64) string {
	var tz string
	err := s.Settings.db.QueryRowContext(ctx, `SELECT timezone FROM venues WHERE id = ?`, venueID).Scan(&tz)
	if err != nil {
		return ""
	}
	return tz
}

func (s *BookingStore) TableByID(ctx context.Context, tableID uint64) (booking.Table, error) {
	t, err := s.Tables.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return booking.Table{}, booking.ErrTableNotFound
		}
		return booking.Table{}, err
	}
	return toBookingTable(t), nil
}

func (s *BookingStore) GameByID(ctx context.Context, gameID uint64) (booking.Game, error) {
	g, err := s.Games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return booking.Game{}, booking.ErrGameNotFound
		}
		return booking.Game{}, err
	}
	return booking.Game{
		ID:       g.ID,
		VenueID:  g.VenueID,
		Title:    g.Title,
		Copies:   g.CopiesInRotation,
		CoverURL: g.CoverURL,
		IsActive: g.IsActive,
	}, nil
}

func (s *BookingStore) BookingsForTable(ctx context.Context, tableID uint64, date string, excluded []string) ([]booking.Booking, error) {
	rows, err := s.Bookings.ListByTableAndDate(ctx, tableID, date, excluded)
	if err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func (s *BookingStore) BookingsForGame(ctx context.Context, gameID uint64, date string, excluded []string) ([]booking.Booking, error) {
	rows, err := s.Bookings.ListByGameAndDate(ctx, gameID, date, excluded)
	if err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func (s *BookingStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.Bookings.CodeExists(ctx, code)
}

func (s *BookingStore) InsertBooking(ctx context.Context, b *booking.Booking) error {
	row := &model.BookingRow{
		VenueID:          b.VenueID,
		TableID:          b.TableID,
		GameID:           b.GameID,
		BookingDate:      b.Date,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		PartySize:        b.PartySize,
		GuestName:        b.GuestName,
		GuestEmail:       b.GuestEmail,
		GuestPhone:       b.GuestPhone,
		Status:           b.Status,
		Source:           b.Source,
		ConfirmationCode: b.ConfirmationCode,
		Notes:            b.Notes,
		InternalNotes:    b.InternalNotes,
		CreatedBy:        b.CreatedBy,
		ConfirmedAt:      b.ConfirmedAt,
	}
	if err := s.Bookings.Insert(ctx, row); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return booking.ErrDuplicate
		}
		return err
	}
	b.ID = row.ID
	b.CreatedAt = row.CreatedAt
	return nil
}

func (s *BookingStore) DeleteBooking(ctx context.Context, id uint64) error {
	return s.Bookings.Delete(ctx, id)
}

func (s *BookingStore) TablesForVenue(ctx context.Context, venueID uint64) ([]booking.Table, error) {
	rows, err := s.Tables.ListByVenue(ctx, venueID, false)
	if err != nil {
		return nil, err
	}
	out := make([]booking.Table, 0, len(rows))
	for _, t := range rows {
		out = append(out, toBookingTable(t))
	}
	return out, nil
}

func (s *BookingStore) BookingsForVenueAndDates(ctx context.Context, venueID uint64, dates []string) ([]booking.Booking, error) {
	rows, err := s.Bookings.ListByVenueAndDates(ctx, venueID, dates)
	if err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func toBookingTable(t *model.Table) booking.Table {
	return booking.Table{
		ID:       t.ID,
		VenueID:  t.VenueID,
		Label:    t.Label,
		Capacity: t.Capacity,
		IsActive: t.IsActive,
	}
}

func toBookings(rows []*model.BookingRow) []booking.Booking {
	out := make([]booking.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, booking.Booking{
			ID:               row.ID,
			VenueID:          row.VenueID,
			TableID:          row.TableID,
			GameID:           row.GameID,
			Date:             row.BookingDate,
			StartTime:        row.StartTime,
			EndTime:          row.EndTime,
			PartySize:        row.PartySize,
			GuestName:        row.GuestName,
			GuestEmail:       row.GuestEmail,
			GuestPhone:       row.GuestPhone,
			Status:           row.Status,
			Source:           row.Source,
			ConfirmationCode: row.ConfirmationCode,
			Notes:            row.Notes,
			InternalNotes:    row.InternalNotes,
			CreatedBy:        row.CreatedBy,
			ConfirmedAt:      row.ConfirmedAt,
			CreatedAt:        row.CreatedAt,
		})
	}
	return out
}
