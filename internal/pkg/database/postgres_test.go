package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/anicoll/apsystems-integration/internal/pkg/database/migration"
	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

func setupDatabase(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("apsystems"),
		postgres.WithUsername("apsystems"),
		postgres.WithPassword("apsystems"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	folder, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(dsn, folder))
	require.NoError(t, migration.Migrate(dsn, folder), "second run has nothing to apply")

	db, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr(v float64) *float64 { return &v }

func TestDatabase(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	sensor := model.SensorInfo{
		Device: model.Device{ID: "ECU456"},
		Name:   "apsystems_energy_today",
		Slug:   "energy_today",
		Metadata: model.SensorMetadata{
			Unit:        model.NumericUnitKiloWattHour,
			DeviceClass: model.DeviceClassEnergy,
			StateClass:  model.StateClassTotalIncreasing,
		},
	}
	require.NoError(t, db.RegisterSensor(ctx, sensor))
	require.NoError(t, db.RegisterSensor(ctx, sensor))

	t.Run("write skips readings without value", func(t *testing.T) {
		err := db.Write(ctx, model.Readings{
			{Identifier: "ECU456", Slug: "energy_today", Name: "apsystems_energy_today", Value: ptr(1.5), Unit: "kWh", InWindow: true, TimeStamp: now.Add(-time.Minute)},
			{Identifier: "ECU456", Slug: "energy_today", Name: "apsystems_energy_today", Value: ptr(2.5), Unit: "kWh", InWindow: true, TimeStamp: now},
			{Identifier: "ECU456", Slug: "power_latest", Name: "apsystems_power_latest", Unit: "W", TimeStamp: now},
			{Identifier: "ECU456", Slug: "energy_latest", Name: "apsystems_energy_latest", Value: ptr(0.02), Unit: "kWh", TimeStamp: now,
				Attributes: map[string]string{"samples": "12"}},
		})
		require.NoError(t, err)

		latest, err := db.GetLatestReadings(ctx)
		require.NoError(t, err)
		require.Len(t, latest, 2)

		assert.Equal(t, "energy_latest", latest[0].Slug)
		assert.Equal(t, map[string]string{"samples": "12"}, latest[0].Attributes)
		assert.False(t, latest[0].InWindow)

		assert.Equal(t, "energy_today", latest[1].Slug)
		assert.InDelta(t, 2.5, *latest[1].Value, 0.0001)
		assert.True(t, latest[1].TimeStamp.Equal(now))
	})

	t.Run("get readings by sensor", func(t *testing.T) {
		from, to := now.Add(-time.Hour), now.Add(time.Hour)
		readings, err := db.GetReadings(ctx, "ECU456", "energy_today", &from, &to)
		require.NoError(t, err)
		require.Len(t, readings, 2)
		assert.InDelta(t, 2.5, *readings[0].Value, 0.0001)
		assert.InDelta(t, 1.5, *readings[1].Value, 0.0001)
	})

	t.Run("write nothing", func(t *testing.T) {
		assert.NoError(t, db.Write(ctx, model.Readings{{Identifier: "ECU456", Slug: "energy_today"}}))
	})

	t.Run("cleanup removes old readings", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, model.Readings{
			{Identifier: "ECU456", Slug: "energy_year", Name: "apsystems_energy_year", Value: ptr(900), Unit: "kWh", TimeStamp: now.AddDate(0, 0, -9)},
		}))
		require.NoError(t, db.Cleanup(ctx))

		latest, err := db.GetLatestReadings(ctx)
		require.NoError(t, err)
		for _, r := range latest {
			assert.NotEqual(t, "energy_year", r.Slug)
		}
	})
}
