package database

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// retention is how long readings are kept.
const retention = 8 * 24 * time.Hour

// Cleanup removes readings older than the retention period.
func (db *Database) Cleanup(ctx context.Context) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM reading WHERE time_stamp < $1", time.Now().Add(-retention))
	if err != nil {
		return err
	}
	db.logger.Info("cleaned up readings", zap.Int64("deleted", tag.RowsAffected()))
	return nil
}
