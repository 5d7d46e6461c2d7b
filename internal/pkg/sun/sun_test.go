package sun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_Adelaide(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Adelaide")
	require.NoError(t, err)
	o := Observer{Latitude: -34.93, Longitude: 138.6, Location: loc}

	now := time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC)
	start, stop, ok := o.Window(now)
	require.True(t, ok)

	assert.Equal(t, loc, start.Location())
	assert.Equal(t, 19, start.Day())
	assert.Equal(t, 19, stop.Day())
	// Mid-October in Adelaide (ACDT): sunrise around 06:40, sunset around 19:40.
	assert.InDelta(t, 6, start.Hour(), 1)
	assert.InDelta(t, 19, stop.Hour(), 1)
	assert.True(t, stop.After(start))
}

func TestWindow_UsesLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	o := Observer{Latitude: -27.47, Longitude: 153.03, Location: loc}

	// 20:00 UTC on the 18th is 06:00 on the 19th locally.
	start, _, ok := o.Window(time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 19, start.Day())
}

func TestWindow_PolarNight(t *testing.T) {
	o := Observer{Latitude: 78.22, Longitude: 15.65, Location: time.UTC}

	_, _, ok := o.Window(time.Date(2026, 12, 21, 12, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestWindow_PolarDay(t *testing.T) {
	o := Observer{Latitude: 78.22, Longitude: 15.65, Location: time.UTC}

	start, stop, ok := o.Window(time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), stop)
	assert.True(t, Within(time.Date(2026, 6, 21, 0, 30, 0, 0, time.UTC), start, stop))
	assert.True(t, Within(time.Date(2026, 6, 21, 23, 59, 0, 0, time.UTC), start, stop))
}

func TestWithin(t *testing.T) {
	start := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	stop := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	assert.True(t, Within(start, start, stop))
	assert.True(t, Within(stop, start, stop))
	assert.True(t, Within(start.Add(time.Hour), start, stop))
	assert.False(t, Within(start.Add(-time.Minute), start, stop))
	assert.False(t, Within(stop.Add(time.Minute), start, stop))
}
