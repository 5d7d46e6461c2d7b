package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

const insertReadingSQL = `
INSERT INTO reading (time_stamp, identifier, slug, name, value, unit_of_measurement, in_window, attributes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Write stores every reading that carries a value in one transaction.
func (db *Database) Write(ctx context.Context, readings model.Readings) error {
	batch := &pgx.Batch{}
	for _, r := range readings {
		if r.Value == nil {
			continue
		}
		attrs := r.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		batch.Queue(insertReadingSQL, r.TimeStamp, r.Identifier, r.Slug, r.Name, *r.Value, r.Unit, r.InWindow, attrs)
	}
	if batch.Len() == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (db *Database) RegisterSensor(ctx context.Context, sensor model.SensorInfo) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO sensor (identifier, slug, name, unit_of_measurement, device_class, state_class)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING;`,
		sensor.Device.ID,
		sensor.Slug,
		sensor.Name,
		string(sensor.Metadata.Unit),
		string(sensor.Metadata.DeviceClass),
		string(sensor.Metadata.StateClass),
	)
	return err
}
