package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

type recordingPublisher struct {
	writes     []model.Readings
	registered []model.SensorInfo
	err        error
}

func (p *recordingPublisher) Write(_ context.Context, readings model.Readings) error {
	if p.err != nil {
		return p.err
	}
	p.writes = append(p.writes, readings)
	return nil
}

func (p *recordingPublisher) RegisterSensor(_ context.Context, sensor model.SensorInfo) error {
	if p.err != nil {
		return p.err
	}
	p.registered = append(p.registered, sensor)
	return nil
}

func ptr(v float64) *float64 { return &v }

func reading(slug string, value *float64, inWindow bool) model.Reading {
	return model.Reading{Identifier: "ECU1", Slug: slug, Value: value, InWindow: inWindow}
}

func TestRegisterPublisher_Duplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterPublisher("mqtt", &recordingPublisher{}))
	err := r.RegisterPublisher("mqtt", &recordingPublisher{})
	assert.ErrorIs(t, err, errAlreadyRegistered)
	assert.Equal(t, []string{"mqtt"}, r.Names())
}

func TestPublish_Dedup(t *testing.T) {
	r := New()
	p := &recordingPublisher{}
	require.NoError(t, r.RegisterPublisher("mqtt", p))
	ctx := context.Background()

	r.Publish(ctx, model.Readings{reading("energy_today", ptr(1.2), true)})
	r.Publish(ctx, model.Readings{reading("energy_today", ptr(1.2), true)})
	require.Len(t, p.writes, 1)

	// availability flip is a change even with the same value.
	r.Publish(ctx, model.Readings{reading("energy_today", ptr(1.2), false)})
	require.Len(t, p.writes, 2)

	r.Publish(ctx, model.Readings{reading("energy_today", nil, false)})
	require.Len(t, p.writes, 3)
	assert.Nil(t, p.writes[2][0].Value)

	r.Publish(ctx, model.Readings{
		reading("energy_today", nil, false),
		reading("power_latest", ptr(300), false),
	})
	require.Len(t, p.writes, 4)
	require.Len(t, p.writes[3], 1)
	assert.Equal(t, "power_latest", p.writes[3][0].Slug)
}

func TestPublish_FailingSinkDoesNotBlockOthers(t *testing.T) {
	r := New()
	bad := &recordingPublisher{err: errors.New("broker down")}
	good := &recordingPublisher{}
	require.NoError(t, r.RegisterPublisher("a-bad", bad))
	require.NoError(t, r.RegisterPublisher("b-good", good))

	r.Publish(context.Background(), model.Readings{reading("energy_today", ptr(1), true)})
	r.RegisterSensor(context.Background(), model.SensorInfo{Slug: "energy_today"})

	assert.Len(t, good.writes, 1)
	assert.Len(t, good.registered, 1)
}

func TestPublish_ResendsAfterFailedWrite(t *testing.T) {
	r := New()
	mqtt := &recordingPublisher{err: errors.New("broker down")}
	postgres := &recordingPublisher{}
	require.NoError(t, r.RegisterPublisher("mqtt", mqtt))
	require.NoError(t, r.RegisterPublisher("postgres", postgres))
	ctx := context.Background()

	r.Publish(ctx, model.Readings{reading("energy_today", ptr(4.2), true)})
	assert.Empty(t, mqtt.writes)
	require.Len(t, postgres.writes, 1)

	mqtt.err = nil
	r.Publish(ctx, model.Readings{reading("energy_today", ptr(4.2), true)})
	require.Len(t, mqtt.writes, 1, "unchanged reading is resent once the sink recovers")
	assert.InDelta(t, 4.2, *mqtt.writes[0][0].Value, 0.0001)
	assert.Len(t, postgres.writes, 1, "healthy sink is not written twice")

	r.Publish(ctx, model.Readings{reading("energy_today", ptr(4.2), true)})
	assert.Len(t, mqtt.writes, 1)
}
