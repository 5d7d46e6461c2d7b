package publisher

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

type publisher interface {
	// Write sends readings to the sink.
	Write(ctx context.Context, readings model.Readings) error
	RegisterSensor(ctx context.Context, sensor model.SensorInfo) error
}

// Registry fans readings out to every registered sink. A failing sink is
// logged and skipped so the others still receive data.
type Registry struct {
	mu         sync.RWMutex
	publishers map[string]publisher
	sensors    sync.Map
	logger     *zap.Logger
}

func New() *Registry {
	return &Registry{
		publishers: make(map[string]publisher),
		logger:     zap.L(),
	}
}

func (r *Registry) RegisterPublisher(name string, p publisher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.publishers[name]; ok {
		return fmt.Errorf("%w: %s", errAlreadyRegistered, name)
	}
	r.publishers[name] = p
	return nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.publishers))
}

func (r *Registry) RegisterSensor(ctx context.Context, sensor model.SensorInfo) {
	r.each(func(name string, p publisher) {
		if err := p.RegisterSensor(ctx, sensor); err != nil {
			r.logger.Error("failed to register sensor", zap.Error(err), zap.String("publisher", name), zap.String("sensor", sensor.Slug))
			return
		}
		r.logger.Debug("registered sensor", zap.String("sensor", sensor.Slug), zap.String("publisher", name))
	})
}

// Publish sends each sink the readings that changed since that sink last
// accepted them. A failed write is retried on the next call.
func (r *Registry) Publish(ctx context.Context, readings model.Readings) {
	r.each(func(name string, p publisher) {
		changed := make(model.Readings, 0, len(readings))
		for _, reading := range readings {
			if r.shouldUpdate(name, reading) {
				changed = append(changed, reading)
			}
		}
		if len(changed) == 0 {
			return
		}
		if err := p.Write(ctx, changed); err != nil {
			r.logger.Error("failed to publish data", zap.Error(err), zap.String("publisher", name))
			return
		}
		for _, reading := range changed {
			r.sensors.Store(sensorKey(name, reading), fingerprint(reading))
		}
		r.logger.Debug("updated sensors", zap.Int("count", len(changed)), zap.String("publisher", name))
	})
}

func (r *Registry) each(fn func(name string, p publisher)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range slices.Sorted(maps.Keys(r.publishers)) {
		fn(name, r.publishers[name])
	}
}

func (r *Registry) shouldUpdate(name string, reading model.Reading) bool {
	newValue := fingerprint(reading)
	oldValue, exists := r.sensors.Load(sensorKey(name, reading))
	if exists && oldValue.(string) == newValue {
		return false
	}
	if !exists {
		r.logger.Info("configured sensor", zap.String("publisher", name), zap.String("device", reading.Identifier), zap.String("sensor", reading.Slug), zap.String("value", newValue))
	}
	return true
}

func sensorKey(publisher string, reading model.Reading) string {
	return fmt.Sprintf("%s/%s_%s", publisher, reading.Identifier, reading.Slug)
}

func fingerprint(reading model.Reading) string {
	value := "unavailable"
	if reading.Value != nil {
		value = strconv.FormatFloat(*reading.Value, 'f', 4, 64)
	}
	return fmt.Sprintf("%s|%t|%v", value, reading.InWindow, reading.Attributes)
}
