package availability_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/internal/infra/cache/availability"
	"github.com/servicehub/booking-engine/pkg/types"
)

var (
	testFrom  = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	testSlots = []domain.Slot{{
		Date:            testFrom,
		StartTime:       types.TimeString("09:00"),
		DurationMinutes: 120,
	}}
)

func TestCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := availability.New(client, time.Minute)

	mock.ExpectHGet("availability:77", "10:2026-09-07:7").RedisNil()

	_, err := cache.Get(context.Background(), 77, 10, testFrom, 7)

	assert.ErrorIs(t, err, availability.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_SetThenGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := availability.New(client, time.Minute)

	raw, err := json.Marshal(testSlots)
	require.NoError(t, err)

	mock.ExpectHSet("availability:77", "10:2026-09-07:7", raw).SetVal(1)
	mock.ExpectExpire("availability:77", time.Minute).SetVal(true)
	mock.ExpectHGet("availability:77", "10:2026-09-07:7").SetVal(string(raw))

	err = cache.Set(context.Background(), 77, 10, testFrom, 7, testSlots)
	require.NoError(t, err)

	slots, err := cache.Get(context.Background(), 77, 10, testFrom, 7)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, 120, slots[0].DurationMinutes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := availability.New(client, time.Minute)

	// инвалидация сбрасывает весь hash исполнителя одним DEL
	mock.ExpectDel("availability:77").SetVal(1)

	err := cache.Invalidate(context.Background(), 77)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetCorruptedPayload(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := availability.New(client, time.Minute)

	mock.ExpectHGet("availability:77", "10:2026-09-07:7").SetVal("not json")

	_, err := cache.Get(context.Background(), 77, 10, testFrom, 7)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, availability.ErrCacheMiss)
}
