package sensor

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
	"github.com/anicoll/apsystems-integration/internal/pkg/sun"
)

type fetcher interface {
	FetchSystemSummary(ctx context.Context) (*model.SystemSummary, error)
	FetchMinutelyEnergy(ctx context.Context) (*model.MinutelyEnergy, error)
}

type daylight interface {
	Window(now time.Time) (start, stop time.Time, ok bool)
}

// Sensor is a single APsystems metric. It is polled by one goroutine at a time.
type Sensor struct {
	name       string
	metadata   model.SensorMetadata
	api        fetcher
	daylight   daylight
	gating     bool
	location   *time.Location
	logger     *zap.Logger
	value      *float64
	attributes map[string]string
	state      model.SensorState
}

func New(name string, metadata model.SensorMetadata, api fetcher, observer sun.Observer, gating bool) *Sensor {
	loc := observer.Location
	if loc == nil {
		loc = time.Local
	}
	return &Sensor{
		name:       name,
		metadata:   metadata,
		api:        api,
		daylight:   observer,
		gating:     gating,
		location:   loc,
		logger:     zap.L().With(zap.String("sensor", name)),
		attributes: map[string]string{},
		state:      model.StateUnavailable,
	}
}

// NewSet builds one sensor per entry in Definitions, named <prefix>_<type>.
func NewSet(prefix string, api fetcher, observer sun.Observer, gating bool) []*Sensor {
	prefix = strings.ToLower(prefix)
	types := slices.Sorted(maps.Keys(Definitions))
	sensors := make([]*Sensor, 0, len(types))
	for _, t := range types {
		sensors = append(sensors, New(prefix+"_"+t, Definitions[t], api, observer, gating))
	}
	return sensors
}

func (s *Sensor) Name() string {
	return s.name
}

func (s *Sensor) Metadata() model.SensorMetadata {
	return s.metadata
}

func (s *Sensor) Unit() string {
	return string(s.metadata.Unit)
}

func (s *Sensor) Icon() string {
	return s.metadata.Icon
}

func (s *Sensor) StateClass() model.StateClass {
	return s.metadata.StateClass
}

func (s *Sensor) Status() model.SensorState {
	return s.state
}

// Value returns the last successfully extracted value.
func (s *Sensor) Value() (float64, bool) {
	if s.value == nil {
		return 0, false
	}
	return *s.value, true
}

func (s *Sensor) Attributes() map[string]string {
	return maps.Clone(s.attributes)
}

// Poll fetches the metric once. Failures are logged and leave the sensor Unavailable.
func (s *Sensor) Poll(ctx context.Context) {
	s.logger.Debug("updating sensor")
	value, attrs, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("error updating sensor", zap.Error(err))
		s.value = nil
		s.attributes = map[string]string{}
		s.state = model.StateUnavailable
		return
	}
	s.value = &value
	s.attributes = attrs
	s.state = model.StateAvailable
	s.logger.Debug("updated sensor", zap.Float64("value", value))
}

// IsAvailable reports whether nowUTC falls inside today's daylight window.
// It is advisory and does not stop Poll.
func (s *Sensor) IsAvailable(nowUTC time.Time) bool {
	if !s.gating {
		s.logger.Debug("sensor is running, sunset gating is disabled")
		return true
	}
	now := nowUTC.In(s.location)
	start, stop, ok := s.daylight.Window(now)
	if !ok {
		s.logger.Debug("sensor is not running, no sunrise or sunset today")
		return false
	}
	running := sun.Within(now, start, stop)
	s.logger.Debug("daylight window",
		zap.Bool("running", running),
		zap.Time("start", start),
		zap.Time("stop", stop),
	)
	return running
}
