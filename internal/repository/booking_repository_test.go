package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotInStatuses(t *testing.T) {
	clause, args := notInStatuses(nil)
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, args = notInStatuses([]string{"cancelled_by_guest"})
	assert.Equal(t, ` AND status NOT IN (?)`, clause)
	assert.Equal(t, []interface{}{"cancelled_by_guest"}, args)

	clause, args = notInStatuses([]string{"cancelled_by_guest", "cancelled_by_venue", "no_show"})
	assert.Equal(t, ` AND status NOT IN (?,?,?)`, clause)
	require.Len(t, args, 3)
	assert.Equal(t, "no_show", args[2])
}

func TestStatusTimestampColumn(t *testing.T) {
	cases := map[string]string{
		"confirmed":          "confirmed_at",
		"arrived":            "arrived_at",
		"seated":             "seated_at",
		"completed":          "completed_at",
		"no_show":            "no_show_at",
		"cancelled_by_guest": "cancelled_at",
		"cancelled_by_venue": "cancelled_at",
	}
	for status, want := range cases {
		assert.Equal(t, want, statusTimestampColumn(status), "status %q", status)
	}
	assert.Empty(t, statusTimestampColumn("pending"), "pending has no lifecycle timestamp")
	assert.Empty(t, statusTimestampColumn("bogus"))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullStr(sql.NullString{}))
	got := nullStr(sql.NullString{String: "hello", Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, "hello", *got)

	assert.Nil(t, nullTime(sql.NullTime{}))
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	gotT := nullTime(sql.NullTime{Time: now, Valid: true})
	require.NotNil(t, gotT)
	assert.True(t, gotT.Equal(now))
}

func TestPtrVal(t *testing.T) {
	assert.Nil(t, ptrVal(nil))
	id := uint64(42)
	assert.Equal(t, interface{}(uint64(42)), ptrVal(&id))

	assert.Nil(t, strPtrVal(nil))
	s := "note"
	assert.Equal(t, interface{}("note"), strPtrVal(&s))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'ABC123' for key 'confirmation_code'")))
	assert.False(t, isDuplicateKey(errors.New("Error 1451: foreign key constraint fails")))
	assert.False(t, isDuplicateKey(nil))
}
