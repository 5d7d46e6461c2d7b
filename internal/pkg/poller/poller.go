package poller

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
	"github.com/anicoll/apsystems-integration/internal/pkg/sensor"
)

type publisher interface {
	RegisterSensor(ctx context.Context, sensor model.SensorInfo)
	Publish(ctx context.Context, readings model.Readings)
}

type recorder interface {
	Observe(sensor, unit string, value *float64, inWindow bool)
}

// Poller drives every sensor of one ECU on each tick.
type Poller struct {
	device    model.Device
	sensors   []*sensor.Sensor
	publisher publisher
	metrics   recorder
	now       func() time.Time
	logger    *zap.Logger

	tickMu sync.Mutex

	mu       sync.RWMutex
	snapshot model.Readings
}

func New(device model.Device, sensors []*sensor.Sensor, publisher publisher, metrics recorder) *Poller {
	return &Poller{
		device:    device,
		sensors:   sensors,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
		logger:    zap.L(),
		snapshot:  model.Readings{},
	}
}

// Sensors describes the polled sensors for publishers.
func (p *Poller) Sensors() []model.SensorInfo {
	return lo.Map(p.sensors, func(s *sensor.Sensor, _ int) model.SensorInfo {
		return model.SensorInfo{
			Device:   p.device,
			Name:     s.Name(),
			Slug:     sensorSlug(s.Name()),
			Metadata: s.Metadata(),
		}
	})
}

// RegisterSensors announces every sensor to the publishers.
func (p *Poller) RegisterSensors(ctx context.Context) {
	for _, info := range p.Sensors() {
		p.publisher.RegisterSensor(ctx, info)
	}
}

// Tick polls each sensor once, sequentially, and publishes the results.
func (p *Poller) Tick(ctx context.Context) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	readings := make(model.Readings, 0, len(p.sensors))
	for _, s := range p.sensors {
		if ctx.Err() != nil {
			p.logger.Warn("tick cancelled", zap.Error(ctx.Err()))
			return
		}
		s.Poll(ctx)
		now := p.now()
		inWindow := s.IsAvailable(now.UTC())

		reading := model.Reading{
			Identifier: p.device.ID,
			Slug:       sensorSlug(s.Name()),
			Name:       s.Name(),
			Unit:       s.Unit(),
			Attributes: s.Attributes(),
			InWindow:   inWindow,
			TimeStamp:  now,
		}
		if v, ok := s.Value(); ok {
			reading.Value = &v
		}
		p.metrics.Observe(s.Name(), s.Unit(), reading.Value, inWindow)
		readings = append(readings, reading)
	}

	p.publisher.Publish(ctx, readings)

	p.mu.Lock()
	p.snapshot = readings
	p.mu.Unlock()

	p.logger.Debug("tick complete",
		zap.Int("sensors", len(readings)),
		zap.Int("online", lo.CountBy(readings, func(r model.Reading) bool { return r.Online() })),
	)
}

// Snapshot returns the readings of the last completed tick.
func (p *Poller) Snapshot() model.Readings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Map(p.snapshot, func(r model.Reading, _ int) model.Reading {
		r.Attributes = maps.Clone(r.Attributes)
		return r
	})
}

func sensorSlug(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}
