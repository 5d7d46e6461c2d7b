package sun

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Observer is a location on earth plus the zone its local day is measured in.
type Observer struct {
	Latitude  float64
	Longitude float64
	Location  *time.Location
}

func (o Observer) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Window returns today's sunrise and sunset, in the observer's zone, for the
// local calendar date of now. On a polar day the window is the whole local day;
// on a polar night ok is false.
func (o Observer) Window(now time.Time) (start, stop time.Time, ok bool) {
	loc := o.location()
	local := now.In(loc)
	rise, set := sunrise.SunriseSunset(o.Latitude, o.Longitude, local.Year(), local.Month(), local.Day())
	if rise.IsZero() || set.IsZero() {
		if !o.sunUpAtNoon(local) {
			return time.Time{}, time.Time{}, false
		}
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		return midnight, midnight.AddDate(0, 0, 1).Add(-time.Nanosecond), true
	}
	return rise.In(loc), set.In(loc), true
}

// sunUpAtNoon reports whether the sun is above the horizon at solar noon on
// the local date of day.
func (o Observer) sunUpAtNoon(day time.Time) bool {
	var (
		d                 = sunrise.MeanSolarNoon(o.Longitude, day.Year(), day.Month(), day.Day())
		solarAnomaly      = sunrise.SolarMeanAnomaly(d)
		equationOfCenter  = sunrise.EquationOfCenter(solarAnomaly)
		eclipticLongitude = sunrise.EclipticLongitude(solarAnomaly, equationOfCenter, d)
		noon              = sunrise.JulianDayToTime(sunrise.SolarTransit(d, solarAnomaly, eclipticLongitude))
	)
	return sunrise.Elevation(o.Latitude, o.Longitude, noon) > 0
}

// Within reports whether t lies in [start, stop], boundaries included.
func Within(t, start, stop time.Time) bool {
	return !t.Before(start) && !t.After(stop)
}
