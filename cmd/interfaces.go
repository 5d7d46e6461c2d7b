package cmd

import (
	"context"
)

// Poller is what run drives on every schedule tick.
type Poller interface {
	RegisterSensors(ctx context.Context)
	Tick(ctx context.Context)
}

// Cleaner prunes stored readings.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}
