package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ludohall/table-booking/internal/model"
)

// BookingRepo provides persistence for bookings. Dates are stored as
// DATE and times as TIME columns; both are selected back as the strings
// the engine works with ("YYYY-MM-DD", "HH:MM"). All timestamp fields
// are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, venue_id, table_id, game_id,
	DATE_FORMAT(booking_date, '%Y-%m-%d'), TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	party_size, guest_name, guest_email, guest_phone, status, source, confirmation_code,
	notes, internal_notes, created_by,
	confirmed_at, arrived_at, seated_at, completed_at, cancelled_at, no_show_at,
	created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error, b *model.BookingRow) error {
	var (
		gameID        sql.NullInt64
		email, phone  sql.NullString
		notes, inotes sql.NullString
		createdBy     sql.NullInt64
		confirmedAt   sql.NullTime
		arrivedAt     sql.NullTime
		seatedAt      sql.NullTime
		completedAt   sql.NullTime
		cancelledAt   sql.NullTime
		noShowAt      sql.NullTime
	)
	if err := scan(&b.ID, &b.VenueID, &b.TableID, &gameID,
		&b.BookingDate, &b.StartTime, &b.EndTime,
		&b.PartySize, &b.GuestName, &email, &phone, &b.Status, &b.Source, &b.ConfirmationCode,
		&notes, &inotes, &createdBy,
		&confirmedAt, &arrivedAt, &seatedAt, &completedAt, &cancelledAt, &noShowAt,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if gameID.Valid {
		g := uint64(gameID.Int64)
		b.GameID = &g
	}
	b.GuestEmail = nullStr(email)
	b.GuestPhone = nullStr(phone)
	b.Notes = nullStr(notes)
	b.InternalNotes = nullStr(inotes)
	if createdBy.Valid {
		c := uint64(createdBy.Int64)
		b.CreatedBy = &c
	}
	b.ConfirmedAt = nullTime(confirmedAt)
	b.ArrivedAt = nullTime(arrivedAt)
	b.SeatedAt = nullTime(seatedAt)
	b.CompletedAt = nullTime(completedAt)
	b.CancelledAt = nullTime(cancelledAt)
	b.NoShowAt = nullTime(noShowAt)
	return nil
}

// Insert persists a new booking row and reads it back so defaults and
// timestamps are populated. A unique-constraint violation (the
// confirmation code index) is reported as ErrDuplicateKey so the engine
// can back off and retry.
func (r *BookingRepo) Insert(ctx context.Context, b *model.BookingRow) error {
	const q = `INSERT INTO bookings
		(venue_id, table_id, game_id, booking_date, start_time, end_time, party_size,
		 guest_name, guest_email, guest_phone, status, source, confirmation_code,
		 notes, internal_notes, created_by, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.VenueID, b.TableID, ptrVal(b.GameID), b.BookingDate, b.StartTime, b.EndTime, b.PartySize,
		b.GuestName, strPtrVal(b.GuestEmail), strPtrVal(b.GuestPhone), b.Status, b.Source, b.ConfirmationCode,
		strPtrVal(b.Notes), strPtrVal(b.InternalNotes), ptrVal(b.CreatedBy), b.ConfirmedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, sel, b.ID).Scan, b)
}

// Delete removes a booking row. It is used only for the compensating
// rollback after a post-insert conflict; regular cancellations are
// status transitions that keep the row.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// GetByID fetches a booking by primary key, returning ErrBookingNotFound
// when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.BookingRow, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.BookingRow
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByCode fetches a booking by its confirmation code. Codes are what
// guests hold, so this backs the public lookup and cancel endpoints.
func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*model.BookingRow, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE confirmation_code = ? LIMIT 1`
	var b model.BookingRow
	if err := scanBooking(r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code))).Scan, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CodeExists reports whether any booking already carries the code.
func (r *BookingRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE confirmation_code = ? LIMIT 1`, code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// notInStatuses builds the exclusion clause for a status set. An empty
// set yields an empty clause.
func notInStatuses(excluded []string) (string, []interface{}) {
	if len(excluded) == 0 {
		return "", nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(excluded)), ",")
	args := make([]interface{}, len(excluded))
	for i, s := range excluded {
		args[i] = s
	}
	return ` AND status NOT IN (` + placeholders + `)`, args
}

// ListByTableAndDate returns all bookings for one table and date whose
// status is not in excluded, ordered by start time.
func (r *BookingRepo) ListByTableAndDate(ctx context.Context, tableID uint64, date string, excluded []string) ([]*model.BookingRow, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE table_id = ? AND booking_date = ?`
	args := []interface{}{tableID, date}
	clause, clauseArgs := notInStatuses(excluded)
	q += clause + ` ORDER BY start_time, id`
	args = append(args, clauseArgs...)
	return r.queryBookings(ctx, q, args...)
}

// ListByGameAndDate returns all bookings for one game and date whose
// status is not in excluded, ordered by start time.
func (r *BookingRepo) ListByGameAndDate(ctx context.Context, gameID uint64, date string, excluded []string) ([]*model.BookingRow, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE game_id = ? AND booking_date = ?`
	args := []interface{}{gameID, date}
	clause, clauseArgs := notInStatuses(excluded)
	q += clause + ` ORDER BY start_time, id`
	args = append(args, clauseArgs...)
	return r.queryBookings(ctx, q, args...)
}

// ListByVenueAndDates returns all bookings (any status) for a venue
// across the given dates. It backs the timeline views.
func (r *BookingRepo) ListByVenueAndDates(ctx context.Context, venueID uint64, dates []string) ([]*model.BookingRow, error) {
	if len(dates) == 0 {
		return []*model.BookingRow{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	q := `SELECT ` + bookingColumns + ` FROM bookings
	      WHERE venue_id = ? AND booking_date IN (` + placeholders + `)
	      ORDER BY booking_date, start_time, id`
	args := make([]interface{}, 0, len(dates)+1)
	args = append(args, venueID)
	for _, d := range dates {
		args = append(args, d)
	}
	return r.queryBookings(ctx, q, args...)
}

// ListByVenueAndRange returns all bookings for a venue between two dates
// inclusive, ordered chronologically. It backs the CSV export.
func (r *BookingRepo) ListByVenueAndRange(ctx context.Context, venueID uint64, from, to string) ([]*model.BookingRow, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE venue_id = ? AND booking_date >= ? AND booking_date <= ?
	           ORDER BY booking_date, start_time, id`
	return r.queryBookings(ctx, q, venueID, from, to)
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...interface{}) ([]*model.BookingRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.BookingRow, 0)
	for rows.Next() {
		b := new(model.BookingRow)
		if err := scanBooking(rows.Scan, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BookingDetail is a booking joined with its table label and game title
// for staff list views.
type BookingDetail struct {
	model.BookingRow
	TableLabel string  `json:"table_label"`
	GameTitle  *string `json:"game_title,omitempty"`
}

// ListDetailsForVenueAndDate returns the staff day list: every booking
// for the date joined with table label and game title, ordered by start
// time. Pass gamesOnly to restrict to game sessions.
func (r *BookingRepo) ListDetailsForVenueAndDate(ctx context.Context, venueID uint64, date string, gamesOnly bool) ([]*BookingDetail, error) {
	q := `SELECT ` + detailColumns + `
	      FROM bookings b
	      JOIN venue_tables t ON t.id = b.table_id
	      LEFT JOIN games g ON g.id = b.game_id
	      WHERE b.venue_id = ? AND b.booking_date = ?`
	if gamesOnly {
		q += ` AND b.game_id IS NOT NULL`
	}
	q += ` ORDER BY b.start_time, b.id`

	rows, err := r.db.QueryContext(ctx, q, venueID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*BookingDetail, 0)
	for rows.Next() {
		d := new(BookingDetail)
		var gameTitle sql.NullString
		scan := func(dest ...interface{}) error {
			dest = append(dest, &d.TableLabel, &gameTitle)
			return rows.Scan(dest...)
		}
		if err := scanBooking(scan, &d.BookingRow); err != nil {
			return nil, err
		}
		d.GameTitle = nullStr(gameTitle)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const detailColumns = `b.id, b.venue_id, b.table_id, b.game_id,
	DATE_FORMAT(b.booking_date, '%Y-%m-%d'), TIME_FORMAT(b.start_time, '%H:%i'), TIME_FORMAT(b.end_time, '%H:%i'),
	b.party_size, b.guest_name, b.guest_email, b.guest_phone, b.status, b.source, b.confirmation_code,
	b.notes, b.internal_notes, b.created_by,
	b.confirmed_at, b.arrived_at, b.seated_at, b.completed_at, b.cancelled_at, b.no_show_at,
	b.created_at, b.updated_at, t.label, g.title`

// statusTimestampColumn maps a status onto the lifecycle column stamped
// when a booking enters it. Pending has no timestamp of its own.
func statusTimestampColumn(status string) string {
	switch status {
	case "confirmed":
		return "confirmed_at"
	case "arrived":
		return "arrived_at"
	case "seated":
		return "seated_at"
	case "completed":
		return "completed_at"
	case "no_show":
		return "no_show_at"
	case "cancelled_by_guest", "cancelled_by_venue":
		return "cancelled_at"
	}
	return ""
}

// UpdateStatus transitions a booking to the given status, stamping the
// matching lifecycle timestamp. Returns ErrBookingNotFound when the row
// does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	q := `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP`
	if col := statusTimestampColumn(status); col != "" {
		q += `, ` + col + ` = UTC_TIMESTAMP()`
	}
	q += ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func ptrVal(p *uint64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func strPtrVal(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
