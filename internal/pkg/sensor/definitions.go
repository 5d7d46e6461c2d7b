package sensor

import (
	"strings"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

const (
	EnergyToday  = "energy_today"
	EnergyMonth  = "energy_month"
	EnergyYear   = "energy_year"
	EnergyTotal  = "energy_total"
	EnergyLatest = "energy_latest"
	PowerLatest  = "power_latest"
	PowerMaxDay  = "power_max_day"
)

const (
	keyPowerMax = "power_max"
	solarIcon   = "mdi:solar-power"
)

// Definitions lists every metric exposed for an ECU.
var Definitions = map[string]model.SensorMetadata{
	EnergyToday: {
		Key:         "today",
		Source:      model.SourceSummary,
		Unit:        model.NumericUnitKiloWattHour,
		Icon:        solarIcon,
		StateClass:  model.StateClassTotalIncreasing,
		DeviceClass: model.DeviceClassEnergy,
	},
	EnergyMonth: {
		Key:         "month",
		Source:      model.SourceSummary,
		Unit:        model.NumericUnitKiloWattHour,
		Icon:        solarIcon,
		StateClass:  model.StateClassTotalIncreasing,
		DeviceClass: model.DeviceClassEnergy,
	},
	EnergyYear: {
		Key:         "year",
		Source:      model.SourceSummary,
		Unit:        model.NumericUnitKiloWattHour,
		Icon:        solarIcon,
		StateClass:  model.StateClassTotalIncreasing,
		DeviceClass: model.DeviceClassEnergy,
	},
	EnergyTotal: {
		Key:         "lifetime",
		Source:      model.SourceSummary,
		Unit:        model.NumericUnitKiloWattHour,
		Icon:        solarIcon,
		StateClass:  model.StateClassTotalIncreasing,
		DeviceClass: model.DeviceClassEnergy,
	},
	EnergyLatest: {
		Key:         "energy",
		Source:      model.SourceMinutely,
		Unit:        model.NumericUnitKiloWattHour,
		Icon:        solarIcon,
		DeviceClass: model.DeviceClassEnergy,
	},
	PowerLatest: {
		Key:         "power",
		Source:      model.SourceMinutely,
		Unit:        model.NumericUnitWatt,
		Icon:        solarIcon,
		StateClass:  model.StateClassMeasurement,
		DeviceClass: model.DeviceClassPower,
	},
	PowerMaxDay: {
		Key:         keyPowerMax,
		Source:      model.SourceMinutely,
		Unit:        model.NumericUnitWatt,
		Icon:        solarIcon,
		StateClass:  model.StateClassMeasurement,
		DeviceClass: model.DeviceClassPower,
	},
}

// GatingEnabled parses the sunset flag. Only "false" turns the daylight window
// off; any other value, "off" included, keeps it on.
func GatingEnabled(flag string) bool {
	return !strings.EqualFold(strings.TrimSpace(flag), "false")
}
