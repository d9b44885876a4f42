package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 8, 25, hour, minute, 0, 0, time.UTC)
}

func win(fromHour, toHour int) booking.Window {
	return booking.Window{Start: at(fromHour, 0), End: at(toHour, 0)}
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name      string
		a, b      booking.Window
		halfOpen  bool
		inclusive bool
	}{
		{"partial overlap", win(10, 12), win(11, 13), true, true},
		{"contained", win(10, 13), win(11, 12), true, true},
		{"identical", win(10, 11), win(10, 11), true, true},
		{"touching end", win(10, 11), win(11, 12), false, true},
		{"touching start", win(11, 12), win(10, 11), false, true},
		{"disjoint", win(9, 10), win(11, 12), false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.halfOpen, booking.Overlaps(tc.a, tc.b, booking.HalfOpen))
			assert.Equal(t, tc.inclusive, booking.Inclusive.Overlaps(tc.a, tc.b))
			// symmetric
			assert.Equal(t, tc.halfOpen, booking.HalfOpen.Overlaps(tc.b, tc.a))
			assert.Equal(t, tc.inclusive, booking.Overlaps(tc.b, tc.a, booking.Inclusive))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := booking.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, booking.HalfOpen, p)

	p, err = booking.ParsePolicy("inclusive")
	require.NoError(t, err)
	assert.Equal(t, booking.Inclusive, p)

	_, err = booking.ParsePolicy("closed")
	require.ErrorIs(t, err, booking.ErrUnknownPolicy)
}

func TestWindowValid(t *testing.T) {
	assert.True(t, win(10, 11).Valid())
	assert.False(t, win(11, 11).Valid())
	assert.False(t, win(12, 11).Valid())
}

func TestParseTime(t *testing.T) {
	testCases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-08-25T10:00:00Z", want: at(10, 0)},
		{in: "2024-08-25T12:00:00+02:00", want: at(10, 0)},
		{in: "2024-08-25T10:00:00", want: at(10, 0)},
		{in: "2024-08-25T10:30", want: at(10, 30)},
		{in: "2024-08-25T10:00:00.000Z", want: at(10, 0)},
		{in: "2024-08-25T10:00:00.750Z", wantErr: true},
		{in: "2024-08-25T10:00:00.000000001", wantErr: true},
		{in: "not-a-date", wantErr: true},
		{in: "2024-08-25", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := booking.ParseTime(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
