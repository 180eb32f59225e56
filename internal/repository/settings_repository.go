package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ludohall/table-booking/internal/model"
)

// Policy defaults applied when a venue's settings row is created on
// first access: contact details optional, two hours notice, bookings up
// to sixty days out, two-hour default slots, online booking on,
// 09:00-23:00 operating hours.
const (
	defaultMinNoticeHours  = 2
	defaultMaxAdvanceDays  = 60
	defaultDurationMinutes = 120
	defaultOpeningTime     = "09:00"
	defaultClosingTime     = "23:00"
)

// SettingsRepo persists per-venue booking policy rows with get-or-create
// semantics: every venue always has an effective policy.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo constructs a SettingsRepo with the given DB handle.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

const settingsColumns = `venue_id, require_phone, require_email, min_booking_notice_hours,
	max_advance_booking_days, default_duration_minutes, online_booking_enabled,
	opening_time, closing_time, created_at, updated_at`

func scanSettings(row *sql.Row, s *model.VenueBookingSettings) error {
	return row.Scan(&s.VenueID, &s.RequirePhone, &s.RequireEmail, &s.MinBookingNoticeHours,
		&s.MaxAdvanceBookingDays, &s.DefaultDurationMinutes, &s.OnlineBookingEnabled,
		&s.OpeningTime, &s.ClosingTime, &s.CreatedAt, &s.UpdatedAt)
}

// GetOrCreate returns the settings row for a venue, inserting the
// defaults on first access. It verifies the venue exists first and
// returns ErrVenueNotFound otherwise. A concurrent first access can race
// on the insert; the duplicate-key loser simply re-reads.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, venueID uint64) (*model.VenueBookingSettings, error) {
	var exists uint64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM venues WHERE id = ?`, venueID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	const q = `SELECT ` + settingsColumns + ` FROM venue_booking_settings WHERE venue_id = ?`
	var s model.VenueBookingSettings
	err := scanSettings(r.db.QueryRowContext(ctx, q, venueID), &s)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	const qInsert = `INSERT INTO venue_booking_settings
		(venue_id, require_phone, require_email, min_booking_notice_hours,
		 max_advance_booking_days, default_duration_minutes, online_booking_enabled,
		 opening_time, closing_time)
		VALUES (?, 0, 0, ?, ?, ?, 1, ?, ?)`
	if _, err := r.db.ExecContext(ctx, qInsert, venueID,
		defaultMinNoticeHours, defaultMaxAdvanceDays, defaultDurationMinutes,
		defaultOpeningTime, defaultClosingTime); err != nil && !isDuplicateKey(err) {
		return nil, err
	}
	if err := scanSettings(r.db.QueryRowContext(ctx, q, venueID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update overwrites the policy row for a venue. The row must already
// exist (handlers call GetOrCreate first); sql.ErrNoRows is returned
// when it does not.
func (r *SettingsRepo) Update(ctx context.Context, s *model.VenueBookingSettings) error {
	const q = `UPDATE venue_booking_settings
	           SET require_phone = ?, require_email = ?, min_booking_notice_hours = ?,
	               max_advance_booking_days = ?, default_duration_minutes = ?,
	               online_booking_enabled = ?, opening_time = ?, closing_time = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE venue_id = ?`
	res, err := r.db.ExecContext(ctx, q, s.RequirePhone, s.RequireEmail, s.MinBookingNoticeHours,
		s.MaxAdvanceBookingDays, s.DefaultDurationMinutes, s.OnlineBookingEnabled,
		s.OpeningTime, s.ClosingTime, s.VenueID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
