package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"2026-3-10",     // not zero padded
		"2026-02-30",    // calendar invalid
		"10-03-2026",    // wrong order
		"2026/03/10",    // wrong separator
		"2026-03-10T00", // trailing garbage
	} {
		_, err := ParseDate(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"18:00":    "18:00",
		"9:5":      "09:05",
		"18:00:00": "18:00",
		"23:59:59": "23:59",
		" 10:30 ":  "10:30",
	}
	for in, want := range cases {
		got, err := NormalizeTime(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeTime_Invalid(t *testing.T) {
	for _, s := range []string{"", "24:00", "12:60", "12", "12:00:60", "ab:cd"} {
		_, err := NormalizeTime(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestTimeToMinutes(t *testing.T) {
	m, err := TimeToMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = TimeToMinutes("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	m, err = TimeToMinutes("18:30")
	require.NoError(t, err)
	assert.Equal(t, 1110, m)
}

func TestMinutesToTime(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToTime(0))
	assert.Equal(t, "18:30", MinutesToTime(1110))
	assert.Equal(t, "23:59", MinutesToTime(1439))
}

func TestAddMinutes(t *testing.T) {
	got, err := AddMinutes("18:00", 120)
	require.NoError(t, err)
	assert.Equal(t, "20:00", got)

	got, err = AddMinutes("10:30", -30)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got)
}

func TestAddMinutes_NoRollover(t *testing.T) {
	_, err := AddMinutes("23:00", 120)
	assert.Error(t, err)

	_, err = AddMinutes("00:30", -60)
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 12, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, -2, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
