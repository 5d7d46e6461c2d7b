package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutelyEnergy_Latest(t *testing.T) {
	m := MinutelyEnergy{
		Today:  3.2,
		Time:   []string{"08:00", "08:01", "08:02"},
		Power:  []int{10, 250, 120},
		Energy: []float64{0.1, 0.2, 0.35},
	}

	p, err := m.LatestPower()
	require.NoError(t, err)
	assert.Equal(t, 120, p)

	e, err := m.LatestEnergy()
	require.NoError(t, err)
	assert.Equal(t, 0.35, e)

	ts, err := m.LatestTime()
	require.NoError(t, err)
	assert.Equal(t, "08:02", ts)

	maxPower, err := m.MaxPower()
	require.NoError(t, err)
	assert.Equal(t, 250, maxPower)
	assert.Equal(t, 3, m.Len())
}

func TestMinutelyEnergy_SingleElement(t *testing.T) {
	m := MinutelyEnergy{Time: []string{"t"}, Power: []int{7}, Energy: []float64{0.7}}

	p, err := m.LatestPower()
	require.NoError(t, err)
	assert.Equal(t, 7, p)

	e, err := m.LatestEnergy()
	require.NoError(t, err)
	assert.Equal(t, 0.7, e)
}

func TestMinutelyEnergy_Empty(t *testing.T) {
	m := MinutelyEnergy{}

	_, err := m.LatestPower()
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = m.LatestEnergy()
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = m.LatestTime()
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = m.MaxPower()
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestSystemSummary_Field(t *testing.T) {
	s := SystemSummary{Month: 12.3, Year: 456.7, Today: 1.2, Lifetime: 999.9}

	for key, want := range map[string]float64{"month": 12.3, "year": 456.7, "today": 1.2, "lifetime": 999.9} {
		got, ok := s.Field(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := s.Field("total")
	assert.False(t, ok)
}

func TestReading_Online(t *testing.T) {
	v := 1.0
	assert.True(t, Reading{Value: &v, InWindow: true}.Online())
	assert.False(t, Reading{Value: &v, InWindow: false}.Online())
	assert.False(t, Reading{InWindow: true}.Online())
}
