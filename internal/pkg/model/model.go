package model

import (
	"errors"
	"slices"
)

var ErrEmptySeries = errors.New("empty series")

type Credentials struct {
	AppID     string
	AppSecret string
	SystemID  string
	ECUID     string
}

// SystemSummary is the energy produced by a site, in kWh.
type SystemSummary struct {
	Month    float64 `json:"month"`
	Year     float64 `json:"year"`
	Today    float64 `json:"today"`
	Lifetime float64 `json:"lifetime"`
}

// Field looks a value up by its API key.
func (s SystemSummary) Field(key string) (float64, bool) {
	switch key {
	case "month":
		return s.Month, true
	case "year":
		return s.Year, true
	case "today":
		return s.Today, true
	case "lifetime":
		return s.Lifetime, true
	}
	return 0, false
}

// MinutelyEnergy is today's per-minute ECU series. Time, Power and Energy
// are indexed in parallel and ordered by time.
type MinutelyEnergy struct {
	Today  float64   `json:"today"`
	Time   []string  `json:"time"`
	Power  []int     `json:"power"`
	Energy []float64 `json:"energy"`
}

func (m MinutelyEnergy) Len() int {
	return len(m.Time)
}

func (m MinutelyEnergy) LatestTime() (string, error) {
	return last(m.Time)
}

func (m MinutelyEnergy) LatestPower() (int, error) {
	return last(m.Power)
}

func (m MinutelyEnergy) LatestEnergy() (float64, error) {
	return last(m.Energy)
}

func (m MinutelyEnergy) MaxPower() (int, error) {
	if len(m.Power) == 0 {
		return 0, ErrEmptySeries
	}
	return slices.Max(m.Power), nil
}

func last[T any](s []T) (T, error) {
	if len(s) == 0 {
		var zero T
		return zero, ErrEmptySeries
	}
	return s[len(s)-1], nil
}
