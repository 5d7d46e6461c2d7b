package model

type NumericUnit string

const (
	NumericUnitWatt         NumericUnit = "W"
	NumericUnitKiloWattHour NumericUnit = "kWh"
)

// Source names the API call a sensor reads from.
type Source string

const (
	SourceSummary  Source = "summary"
	SourceMinutely Source = "minutely"
)

// StateClass is the Home Assistant aggregation hint.
type StateClass string

const (
	StateClassNone            StateClass = ""
	StateClassMeasurement     StateClass = "measurement"
	StateClassTotalIncreasing StateClass = "total_increasing"
)

type DeviceClass string

const (
	DeviceClassEnergy DeviceClass = "energy"
	DeviceClassPower  DeviceClass = "power"
)

type SensorMetadata struct {
	Key         string
	Source      Source
	Unit        NumericUnit
	Icon        string
	StateClass  StateClass
	DeviceClass DeviceClass
}

type SensorState int

const (
	StateUnavailable SensorState = iota
	StateAvailable
)

func (s SensorState) String() string {
	if s == StateAvailable {
		return "available"
	}
	return "unavailable"
}
