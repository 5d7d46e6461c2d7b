package model

import "time"

type Device struct {
	ID           string
	Model        string
	Manufacturer string
}

// SensorInfo is what a publisher needs to announce a sensor.
type SensorInfo struct {
	Device   Device
	Name     string
	Slug     string
	Metadata SensorMetadata
}

// Reading is the outcome of one sensor poll.
type Reading struct {
	Identifier string            `json:"identifier"`
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	Value      *float64          `json:"value"`
	Unit       string            `json:"unit_of_measurement"`
	Attributes map[string]string `json:"attributes,omitempty"`
	InWindow   bool              `json:"in_window"`
	TimeStamp  time.Time         `json:"timestamp"`
}

// Online is what Home Assistant should show: data present and inside the daylight window.
func (r Reading) Online() bool {
	return r.Value != nil && r.InWindow
}

type Readings []Reading
