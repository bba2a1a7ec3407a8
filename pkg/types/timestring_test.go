package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/pkg/types"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := types.NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	for _, invalid := range []string{"", "9:30am", "25:00", "12:60", "noon"} {
		_, err := types.NewTimeStringFromString(invalid)
		assert.ErrorIs(t, err, types.ErrInvalidTimeString, "input %q", invalid)
	}
}

func TestTimeString_MinutesOfDay(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"13:45", 825},
		{"23:59", 1439},
		{"24:00", 1440},
	}

	for _, tt := range tests {
		minutes, err := types.TimeString(tt.value).MinutesOfDay()
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, minutes, tt.value)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := types.TimeString("10:30")

	end, err := start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("12:00"), end)

	// правая граница суток нормализуется в "24:00"
	midnight, err := types.TimeString("22:00").AddMinutes(120)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("24:00"), midnight)

	_, err = types.TimeString("23:00").AddMinutes(120)
	assert.ErrorIs(t, err, types.ErrTimeOutOfRange)

	_, err = types.TimeString("01:00").AddMinutes(-120)
	assert.ErrorIs(t, err, types.ErrTimeOutOfRange)
}

func TestTimeString_Comparison(t *testing.T) {
	assert.True(t, types.TimeString("09:00").IsBefore("09:01"))
	assert.False(t, types.TimeString("09:00").IsBefore("09:00"))
	assert.True(t, types.TimeString("10:00").IsAfter("09:59"))
	assert.False(t, types.TimeString("10:00").IsAfter("10:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts types.TimeString

	require.NoError(t, ts.Scan("14:00"))
	assert.Equal(t, types.TimeString("14:00"), ts)

	require.NoError(t, ts.Scan([]byte("15:30")))
	assert.Equal(t, types.TimeString("15:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 1, 8, 45, 0, 0, time.UTC)))
	assert.Equal(t, types.TimeString("08:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
