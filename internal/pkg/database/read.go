package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

const readingColumns = `time_stamp, identifier, slug, name, value, unit_of_measurement, in_window, attributes`

// GetReadings returns the readings of one sensor between from and to, newest first.
// A nil bound defaults to the last two days.
func (db *Database) GetReadings(ctx context.Context, identifier, slug string, from, to *time.Time) (model.Readings, error) {
	if from == nil || to == nil {
		now := time.Now()
		start := now.AddDate(0, 0, -2)
		from, to = &start, &now
	}
	rows, err := db.pool.Query(ctx, `
	SELECT `+readingColumns+`
	FROM reading
	WHERE identifier = $1 AND slug = $2 AND time_stamp BETWEEN $3 AND $4
	ORDER BY time_stamp DESC;`, identifier, slug, *from, *to)
	if err != nil {
		return nil, err
	}
	return scanReadings(rows)
}

// GetLatestReadings returns the newest stored reading of every sensor.
func (db *Database) GetLatestReadings(ctx context.Context) (model.Readings, error) {
	rows, err := db.pool.Query(ctx, `
	SELECT DISTINCT ON (identifier, slug) `+readingColumns+`
	FROM reading
	ORDER BY identifier, slug, time_stamp DESC;`)
	if err != nil {
		return nil, err
	}
	return scanReadings(rows)
}

func scanReadings(rows pgx.Rows) (model.Readings, error) {
	defer rows.Close()

	readings := model.Readings{}
	for rows.Next() {
		var (
			r     model.Reading
			value float64
		)
		if err := rows.Scan(&r.TimeStamp, &r.Identifier, &r.Slug, &r.Name, &value, &r.Unit, &r.InWindow, &r.Attributes); err != nil {
			return nil, err
		}
		r.Value = &value
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}
