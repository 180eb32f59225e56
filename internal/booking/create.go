package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/ludohall/table-booking/internal/monitoring"
)

// Retry bounds for the write path.  Code collisions are tolerated when
// the budget runs out (a duplicate code is an inconvenience, a failed
// booking is a lost guest); insert retries are not.
const (
	codeAttempts   = 5
	insertAttempts = 3
	insertBackoff  = 100 * time.Millisecond
)

// Engine runs the booking creation protocol and the timeline read path.
// It holds no mutable state of its own; every invocation is an
// independent unit of work against the Store.
type Engine struct {
	store Store
	pub   Publisher   // optional
	inv   Invalidator // optional
	now   func() time.Time
	sleep func(time.Duration)
}

// NewEngine constructs an Engine.  The store is mandatory; publisher and
// invalidator may be nil, in which case the corresponding side effects
// are skipped.
func NewEngine(store Store, pub Publisher, inv Invalidator) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{
		store: store,
		pub:   pub,
		inv:   inv,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Result is a successfully created booking joined with the display
// fields of its table and, when present, its game.
type Result struct {
	Booking       Booking `json:"booking"`
	TableLabel    string  `json:"table_label"`
	TableCapacity *uint32 `json:"table_capacity,omitempty"`
	GameTitle     *string `json:"game_title,omitempty"`
	GameCover     *string `json:"game_cover,omitempty"`
}

// Create runs the full creation protocol: policy resolution, validation,
// capacity and availability checks, code assignment, the bounded insert
// loop, and post-insert verification with compensating rollback.  On
// failure the returned error is a *Error carrying one of the typed
// failure codes.  The context bounds every store round-trip; a booking
// inserted before cancellation is not rolled back by cancellation
// itself, only by a detected conflict.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*Result, error) {
	pol, err := e.store.VenuePolicy(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			return nil, e.reject(failf(CodeNotFound, "venue not found"))
		}
		return nil, e.reject(failf(CodeUnknown, "could not load venue settings"))
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = SourceStaff
	}
	if source == SourceOnline && !pol.OnlineBookingEnabled {
		return nil, e.reject(failf(CodeDisabled, "online booking is disabled for this venue"))
	}

	localNow := e.now().In(pol.Location())
	if errs := Validate(req, pol, localNow); len(errs) > 0 {
		return nil, e.reject(failf(CodeValidation, "%s", errs[0]))
	}

	start, _ := NormalizeTime(req.StartTime)
	end, bErr := e.resolveEndTime(req, pol, start)
	if bErr != nil {
		return nil, e.reject(bErr)
	}

	table, err := e.store.TableByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return nil, e.reject(failf(CodeNotFound, "table not found"))
		}
		return nil, e.reject(failf(CodeUnknown, "could not load table"))
	}
	if !table.IsActive {
		return nil, e.reject(failf(CodeNotFound, "table not found"))
	}
	if table.VenueID != req.VenueID {
		return nil, e.reject(failf(CodeValidation, "table does not belong to this venue"))
	}
	if table.Capacity != nil && uint32(req.PartySize) > *table.Capacity {
		return nil, e.reject(failf(CodeCapacity, "party of %d exceeds the table capacity of %d", req.PartySize, *table.Capacity))
	}

	avail, err := e.CheckTableAvailability(ctx, table.ID, req.Date, start, end)
	if err != nil {
		return nil, e.reject(failf(CodeUnknown, "could not check table availability"))
	}
	if !avail.Available {
		c := avail.Conflicts[0]
		return nil, e.reject(failf(CodeConflict, "table is already booked by %s from %s to %s", c.GuestName, c.StartTime, c.EndTime))
	}

	var game *Game
	if req.GameID != nil {
		g, err := e.store.GameByID(ctx, *req.GameID)
		if err != nil {
			if errors.Is(err, ErrGameNotFound) {
				return nil, e.reject(failf(CodeNotFound, "game not found"))
			}
			return nil, e.reject(failf(CodeUnknown, "could not load game"))
		}
		if g.VenueID != req.VenueID {
			return nil, e.reject(failf(CodeValidation, "game does not belong to this venue"))
		}
		gAvail, err := e.CheckGameAvailability(ctx, g, req.Date, start, end)
		if err != nil {
			return nil, e.reject(failf(CodeUnknown, "could not check game availability"))
		}
		if !gAvail.Available {
			return nil, e.reject(failf(CodeConflict, "all %d copies of %q are reserved for this time", gAvail.CopiesTotal, g.Title))
		}
		game = &g
	}

	code := e.assignCode(ctx)

	rec, bErr := e.insertWithRetry(ctx, req, table, start, end, code, source)
	if bErr != nil {
		return nil, e.reject(bErr)
	}

	// Post-insert verification: a second writer may have passed its own
	// availability check between ours and the insert.  Re-read and roll
	// back if the new row collides with anyone else.
	if bErr := e.verifyAfterInsert(ctx, rec, game); bErr != nil {
		return nil, e.reject(bErr)
	}

	res := &Result{
		Booking:       *rec,
		TableLabel:    table.Label,
		TableCapacity: table.Capacity,
	}
	if game != nil {
		res.GameTitle = &game.Title
		res.GameCover = game.CoverURL
	}

	monitoring.BookingCreated(source)
	if e.pub != nil {
		// Fire and forget; the publisher logs its own failures.
		_ = e.pub.BookingConfirmed(ctx, *res)
	}
	if e.inv != nil {
		e.inv.InvalidateBookingViews(ctx, req.VenueID)
	}
	return res, nil
}

// reject counts the failure and passes it through.
func (e *Engine) reject(bErr *Error) *Error {
	monitoring.BookingRejected(string(bErr.Code))
	return bErr
}

// resolveEndTime picks the booking end: an explicit end time wins, then
// an explicit duration, then the venue's default duration.  A result
// running past midnight is the caller's error.
func (e *Engine) resolveEndTime(req CreateRequest, pol Policy, start string) (string, *Error) {
	if strings.TrimSpace(req.EndTime) != "" {
		end, _ := NormalizeTime(req.EndTime)
		return end, nil
	}
	mins := pol.DefaultDurationMinutes
	if req.DurationMinutes != nil {
		mins = *req.DurationMinutes
	}
	end, err := AddMinutes(start, mins)
	if err != nil {
		return "", failf(CodeValidation, "booking cannot run past midnight")
	}
	return end, nil
}

// assignCode generates a confirmation code, probing the store for
// collisions up to codeAttempts times.  If every attempt collides the
// last code is used anyway: a duplicated code is a support nuisance, not
// a reason to turn the guest away.
func (e *Engine) assignCode(ctx context.Context) string {
	var code string
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		generated, err := GenerateCode()
		if err != nil {
			log.Printf("booking: code generation failed: %v", err)
			continue
		}
		code = generated
		exists, err := e.store.CodeExists(ctx, code)
		if err != nil {
			log.Printf("booking: code collision probe failed: %v", err)
			return code
		}
		if !exists {
			return code
		}
		monitoring.CodeCollision()
	}
	log.Printf("booking: confirmation code collision retries exhausted, proceeding with %s", code)
	return code
}

// insertWithRetry attempts the insert up to insertAttempts times.  On
// attempts after the first the table availability is re-checked so a
// race detected by the store's unique constraint fails fast instead of
// hammering the insert.  Duplicate-key violations back off linearly.
func (e *Engine) insertWithRetry(ctx context.Context, req CreateRequest, table Table, start, end, code, source string) (*Booking, *Error) {
	var lastErr error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		if attempt > 1 {
			avail, err := e.CheckTableAvailability(ctx, table.ID, req.Date, start, end)
			if err != nil {
				return nil, failf(CodeUnknown, "could not check table availability")
			}
			if !avail.Available {
				c := avail.Conflicts[0]
				return nil, failf(CodeConflict, "table is already booked by %s from %s to %s", c.GuestName, c.StartTime, c.EndTime)
			}
		}

		confirmedAt := e.now().UTC()
		rec := &Booking{
			VenueID:          req.VenueID,
			TableID:          req.TableID,
			GameID:           req.GameID,
			Date:             strings.TrimSpace(req.Date),
			StartTime:        start,
			EndTime:          end,
			PartySize:        uint32(req.PartySize),
			GuestName:        strings.TrimSpace(req.GuestName),
			GuestEmail:       optional(req.GuestEmail),
			GuestPhone:       optional(req.GuestPhone),
			Status:           StatusConfirmed,
			Source:           source,
			ConfirmationCode: code,
			Notes:            optional(req.Notes),
			InternalNotes:    optional(req.InternalNotes),
			CreatedBy:        req.CreatedBy,
			ConfirmedAt:      &confirmedAt,
		}
		err := e.store.InsertBooking(ctx, rec)
		if err == nil {
			return rec, nil
		}
		lastErr = err
		if errors.Is(err, ErrDuplicate) {
			e.sleep(insertBackoff * time.Duration(attempt))
			continue
		}
		return nil, failf(CodeUnknown, "failed to create booking")
	}
	if errors.Is(lastErr, ErrDuplicate) {
		return nil, failf(CodeConflict, "booking could not be created due to concurrent updates, please try again")
	}
	return nil, failf(CodeUnknown, "failed to create booking")
}

// verifyAfterInsert re-reads the table's active bookings (and the game's
// when one is attached) and deletes the just-inserted row when another
// booking overlaps it.  The check-then-insert above is not atomic with
// respect to a second writer; this narrows, but does not eliminate, that
// window.  A failed compensation still reports the conflict: the clash
// is real whether or not cleanup succeeded.
func (e *Engine) verifyAfterInsert(ctx context.Context, rec *Booking, game *Game) *Error {
	others, err := e.store.BookingsForTable(ctx, rec.TableID, rec.Date, ExcludedStatuses)
	if err != nil {
		log.Printf("booking: post-insert verification failed for booking %d: %v", rec.ID, err)
		return nil
	}
	for _, other := range others {
		if other.ID == rec.ID {
			continue
		}
		if intervalsOverlap(rec.StartTime, rec.EndTime, other.StartTime, other.EndTime) {
			e.rollback(ctx, rec.ID)
			return failf(CodeConflict, "table is already booked by %s from %s to %s", other.GuestName, other.StartTime, other.EndTime)
		}
	}

	// The same race exists on shared game copies, so re-verify those too.
	if game != nil {
		gameBookings, err := e.store.BookingsForGame(ctx, game.ID, rec.Date, ExcludedStatuses)
		if err != nil {
			log.Printf("booking: post-insert game verification failed for booking %d: %v", rec.ID, err)
			return nil
		}
		total := int(game.Copies)
		if total <= 0 {
			total = 1
		}
		reserved := 0
		for _, other := range gameBookings {
			if other.ID == rec.ID {
				continue
			}
			if intervalsOverlap(rec.StartTime, rec.EndTime, other.StartTime, other.EndTime) {
				reserved++
			}
		}
		if reserved >= total {
			e.rollback(ctx, rec.ID)
			return failf(CodeConflict, "all %d copies of %q are reserved for this time", total, game.Title)
		}
	}
	return nil
}

// rollback deletes a booking that lost the post-insert race.  Best
// effort: a failure here is logged, never surfaced.
func (e *Engine) rollback(ctx context.Context, id uint64) {
	monitoring.RollbackPerformed()
	if err := e.store.DeleteBooking(ctx, id); err != nil {
		log.Printf("booking: compensating delete of booking %d failed: %v", id, err)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
