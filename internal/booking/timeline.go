package booking

import (
	"context"
	"fmt"
	"time"
)

// OperatingHours frames the timeline grid.
type OperatingHours struct {
	Opening string `json:"opening"`
	Closing string `json:"closing"`
}

// DayView is the single-date staff timeline: every block on every table,
// plus the overlaps the conflict detector found.
type DayView struct {
	Date           string         `json:"date"`
	Blocks         []Block        `json:"blocks"`
	Tables         []Table        `json:"tables"`
	Conflicts      []Conflict     `json:"conflicts"`
	OperatingHours OperatingHours `json:"operating_hours"`
}

// WeekView covers the Monday-Sunday week containing the requested date.
// Conflicts come from one detector run over the unioned block set; the
// per-date grouping inside the detector keeps days independent.
// Distribution holds one day-part histogram per date of the week.
type WeekView struct {
	WeekStart      string                    `json:"week_start"`
	WeekEnd        string                    `json:"week_end"`
	BlocksByDate   map[string][]Block        `json:"blocks_by_date"`
	Tables         []Table                   `json:"tables"`
	Conflicts      []Conflict                `json:"conflicts"`
	OperatingHours OperatingHours            `json:"operating_hours"`
	Distribution   map[string]map[string]int `json:"distribution"`
}

// DaySummary is one calendar day's aggregate in the month view.
type DaySummary struct {
	TotalBookings  int            `json:"total_bookings"`
	ConfirmedCount int            `json:"confirmed_count"`
	PendingCount   int            `json:"pending_count"`
	Distribution   map[string]int `json:"distribution"`
}

// MonthView holds per-day aggregates only; no conflict detection runs at
// month granularity.
type MonthView struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  map[string]DaySummary `json:"days"`
}

// Day-part buckets by start hour.
const (
	bucketMorning   = "morning"   // before 12:00
	bucketLunch     = "lunch"     // 12:00-14:59
	bucketAfternoon = "afternoon" // 15:00-17:59
	bucketEvening   = "evening"   // 18:00 onward
)

func startHourBucket(startTime string) string {
	mins, err := TimeToMinutes(startTime)
	if err != nil {
		return bucketMorning
	}
	switch h := mins / 60; {
	case h < 12:
		return bucketMorning
	case h < 15:
		return bucketLunch
	case h < 18:
		return bucketAfternoon
	default:
		return bucketEvening
	}
}

func emptyDistribution() map[string]int {
	return map[string]int{bucketMorning: 0, bucketLunch: 0, bucketAfternoon: 0, bucketEvening: 0}
}

// blockFrom projects a booking onto a timeline block.
func blockFrom(b Booking) Block {
	return Block{
		ID:        b.ID,
		TableID:   b.TableID,
		Date:      b.Date,
		Start:     b.StartTime,
		End:       b.EndTime,
		GuestName: b.GuestName,
		PartySize: b.PartySize,
		Status:    b.Status,
		GameID:    b.GameID,
	}
}

// DayTimeline builds the day view for one venue and date.  All bookings
// appear as blocks regardless of status; only active ones are fed to the
// conflict detector, since a cancelled booking cannot double-book a
// table.
func (e *Engine) DayTimeline(ctx context.Context, venueID uint64, date string) (*DayView, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, failf(CodeValidation, "date must be a valid YYYY-MM-DD date")
	}
	pol, err := e.store.VenuePolicy(ctx, venueID)
	if err != nil {
		return nil, err
	}
	tables, err := e.store.TablesForVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	bookings, err := e.store.BookingsForVenueAndDates(ctx, venueID, []string{date})
	if err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, len(bookings))
	active := make([]Block, 0, len(bookings))
	for _, b := range bookings {
		blk := blockFrom(b)
		blocks = append(blocks, blk)
		if IsActiveStatus(b.Status) {
			active = append(active, blk)
		}
	}

	return &DayView{
		Date:           date,
		Blocks:         blocks,
		Tables:         tables,
		Conflicts:      DetectConflicts(active),
		OperatingHours: OperatingHours{Opening: pol.OpeningTime, Closing: pol.ClosingTime},
	}, nil
}

// WeekTimeline builds the week view for the Monday-Sunday week that
// contains the given date, with a day-part histogram for each of the
// seven dates.
func (e *Engine) WeekTimeline(ctx context.Context, venueID uint64, date string) (*WeekView, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, failf(CodeValidation, "date must be a valid YYYY-MM-DD date")
	}
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	weekStart := day.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = weekStart.AddDate(0, 0, i).Format(dateLayout)
	}

	pol, err := e.store.VenuePolicy(ctx, venueID)
	if err != nil {
		return nil, err
	}
	tables, err := e.store.TablesForVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	bookings, err := e.store.BookingsForVenueAndDates(ctx, venueID, dates)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]Block, 7)
	dist := make(map[string]map[string]int, 7)
	for _, d := range dates {
		byDate[d] = []Block{}
		dist[d] = emptyDistribution()
	}
	active := make([]Block, 0, len(bookings))
	for _, b := range bookings {
		blk := blockFrom(b)
		byDate[b.Date] = append(byDate[b.Date], blk)
		dist[b.Date][startHourBucket(b.StartTime)]++
		if IsActiveStatus(b.Status) {
			active = append(active, blk)
		}
	}

	return &WeekView{
		WeekStart:      dates[0],
		WeekEnd:        dates[6],
		BlocksByDate:   byDate,
		Tables:         tables,
		Conflicts:      DetectConflicts(active),
		OperatingHours: OperatingHours{Opening: pol.OpeningTime, Closing: pol.ClosingTime},
		Distribution:   dist,
	}, nil
}

// MonthTimeline aggregates per-day booking counts for one calendar
// month.  Days without bookings are present with zero counts so the
// calendar renders without gaps.
func (e *Engine) MonthTimeline(ctx context.Context, venueID uint64, year, month int) (*MonthView, error) {
	if year < 1 || month < 1 || month > 12 {
		return nil, failf(CodeValidation, "year and month must name a valid calendar month")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	dates := make([]string, daysInMonth)
	for i := 0; i < daysInMonth; i++ {
		dates[i] = fmt.Sprintf("%04d-%02d-%02d", year, month, i+1)
	}

	bookings, err := e.store.BookingsForVenueAndDates(ctx, venueID, dates)
	if err != nil {
		return nil, err
	}

	days := make(map[string]DaySummary, daysInMonth)
	for _, d := range dates {
		days[d] = DaySummary{Distribution: emptyDistribution()}
	}
	for _, b := range bookings {
		sum, ok := days[b.Date]
		if !ok {
			sum = DaySummary{Distribution: emptyDistribution()}
		}
		sum.TotalBookings++
		switch b.Status {
		case StatusConfirmed:
			sum.ConfirmedCount++
		case StatusPending:
			sum.PendingCount++
		}
		sum.Distribution[startHourBucket(b.StartTime)]++
		days[b.Date] = sum
	}

	return &MonthView{Year: year, Month: month, Days: days}, nil
}
