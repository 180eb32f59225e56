package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the only accepted calendar date format (YYYY-MM-DD).
const dateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD date string.  Calendar-invalid
// dates such as 2024-02-30 are rejected, as are non-padded or otherwise
// loosely formatted inputs: the parsed value must round-trip back to the
// exact input string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if t.Format(dateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// NormalizeTime accepts a clock string in HH:MM or HH:MM:SS form and
// returns it zero-padded as "HH:MM", dropping any seconds component.
// Hour 00-23 and minute 00-59 are enforced.
func NormalizeTime(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return "", fmt.Errorf("invalid time %q", s)
		}
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// IsValidTime reports whether s is a well-formed HH:MM or HH:MM:SS clock
// string with in-range components.
func IsValidTime(s string) bool {
	_, err := NormalizeTime(s)
	return err == nil
}

// TimeToMinutes converts a normalized "HH:MM" string to its minute of day
// (0-1439).
func TimeToMinutes(s string) (int, error) {
	norm, err := NormalizeTime(s)
	if err != nil {
		return 0, err
	}
	h, _ := strconv.Atoi(norm[:2])
	m, _ := strconv.Atoi(norm[3:])
	return h*60 + m, nil
}

// MinutesToTime converts a minute of day back to "HH:MM".  The input must
// be within 0-1439; values outside that range are a caller error.
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes shifts a clock string forward by mins minutes.  There is no
// day rollover: a result before 00:00 or after 23:59 returns an error and
// the caller decides how to report it.
func AddMinutes(t string, mins int) (string, error) {
	base, err := TimeToMinutes(t)
	if err != nil {
		return "", err
	}
	total := base + mins
	if total < 0 || total > 23*60+59 {
		return "", fmt.Errorf("time %s%+d minutes is outside the day", t, mins)
	}
	return MinutesToTime(total), nil
}

// DaysBetween returns the number of whole calendar days from a to b,
// ignoring the time-of-day of both values.  The result is negative when
// b is before a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ta := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	tb := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(tb.Sub(ta).Hours() / 24)
}
