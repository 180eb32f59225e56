package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflicts_PairwiseOnOneTable(t *testing.T) {
	// A 18:00-20:00, B 19:30-21:00, C 20:00-22:00 on the same table:
	// A/B overlap by 30 minutes, B/C and A/C touch or miss.
	blocks := []Block{
		{ID: 1, TableID: 10, Start: "18:00", End: "20:00", GuestName: "A"},
		{ID: 2, TableID: 10, Start: "19:30", End: "21:00", GuestName: "B"},
		{ID: 3, TableID: 10, Start: "20:00", End: "22:00", GuestName: "C"},
	}
	conflicts := DetectConflicts(blocks)
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, uint64(10), c.TableID)
	assert.Equal(t, uint64(1), c.FirstID)
	assert.Equal(t, uint64(2), c.SecondID)
	assert.Equal(t, 30, c.OverlapMinutes)
	assert.Equal(t, SeverityCritical, c.Severity)
}

func TestDetectConflicts_Severity(t *testing.T) {
	blocks := []Block{
		{ID: 1, TableID: 10, Start: "18:00", End: "20:00"},
		{ID: 2, TableID: 10, Start: "19:50", End: "21:00"}, // 10 minute brush
	}
	conflicts := DetectConflicts(blocks)
	require.Len(t, conflicts, 1)
	assert.Equal(t, SeverityWarning, conflicts[0].Severity)

	blocks[1].Start = "19:45" // exactly 15 minutes
	conflicts = DetectConflicts(blocks)
	require.Len(t, conflicts, 1)
	assert.Equal(t, SeverityCritical, conflicts[0].Severity)
}

func TestDetectConflicts_DifferentTables(t *testing.T) {
	blocks := []Block{
		{ID: 1, TableID: 10, Start: "18:00", End: "20:00"},
		{ID: 2, TableID: 11, Start: "18:00", End: "20:00"},
	}
	assert.Empty(t, DetectConflicts(blocks))
}

func TestDetectConflicts_DifferentDates(t *testing.T) {
	// Same table, same clock interval, different days: no conflict.
	blocks := []Block{
		{ID: 1, TableID: 10, Date: "2026-03-10", Start: "18:00", End: "20:00"},
		{ID: 2, TableID: 10, Date: "2026-03-11", Start: "18:00", End: "20:00"},
	}
	assert.Empty(t, DetectConflicts(blocks))
}

func TestDetectConflicts_Deterministic(t *testing.T) {
	blocks := []Block{
		{ID: 5, TableID: 11, Start: "12:00", End: "14:00"},
		{ID: 4, TableID: 11, Start: "13:00", End: "15:00"},
		{ID: 2, TableID: 10, Start: "18:00", End: "20:00"},
		{ID: 1, TableID: 10, Start: "18:00", End: "20:00"},
	}
	first := DetectConflicts(blocks)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectConflicts(blocks), "order must not depend on map iteration")
	}
	require.Len(t, first, 2)
	// Groups come out in table order; pairs in start-then-id order.
	assert.Equal(t, uint64(10), first[0].TableID)
	assert.Equal(t, uint64(1), first[0].FirstID)
	assert.Equal(t, uint64(2), first[0].SecondID)
	assert.Equal(t, uint64(11), first[1].TableID)
	assert.Equal(t, uint64(5), first[1].FirstID)
	assert.Equal(t, uint64(4), first[1].SecondID)
}

func TestDetectConflicts_Empty(t *testing.T) {
	assert.Empty(t, DetectConflicts(nil))
	assert.Empty(t, DetectConflicts([]Block{{ID: 1, TableID: 10, Start: "18:00", End: "20:00"}}))
}
