package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidateBookingViews_DeletesWholePrefix(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	keys := []string{"cache:aa11", "cache:bb22", "cache:cc33"}
	mock.ExpectScan(0, "cache:*", 100).SetVal(keys, 0)
	mock.ExpectDel(keys...).SetVal(int64(len(keys)))

	inv := NewCacheInvalidator(rdb, "")
	inv.InvalidateBookingViews(context.Background(), 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateBookingViews_FollowsScanCursor(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	first := []string{"views:aa11"}
	second := []string{"views:bb22"}
	mock.ExpectScan(0, "views:*", 100).SetVal(first, 42)
	mock.ExpectDel(first...).SetVal(1)
	mock.ExpectScan(42, "views:*", 100).SetVal(second, 0)
	mock.ExpectDel(second...).SetVal(1)

	inv := NewCacheInvalidator(rdb, "views")
	inv.InvalidateBookingViews(context.Background(), 7)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateBookingViews_EmptyScanSkipsDelete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	mock.ExpectScan(0, "cache:*", 100).SetVal([]string{}, 0)

	inv := NewCacheInvalidator(rdb, "cache")
	inv.InvalidateBookingViews(context.Background(), 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateBookingViews_ScanFailureIsSwallowed(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	mock.ExpectScan(0, "cache:*", 100).SetErr(errors.New("redis down"))

	inv := NewCacheInvalidator(rdb, "cache")
	// Best effort: the booking flow must not fail on cache trouble.
	inv.InvalidateBookingViews(context.Background(), 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateBookingViews_NilClientIsNoOp(t *testing.T) {
	inv := NewCacheInvalidator(nil, "cache")
	assert.NotPanics(t, func() {
		inv.InvalidateBookingViews(context.Background(), 1)
	})
}
