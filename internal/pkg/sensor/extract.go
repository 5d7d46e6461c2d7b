package sensor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

const (
	AttrTimestamp = "timestamp"
	AttrSamples   = "samples"
)

// vendorZone is the fixed offset APsystems stamps its samples with.
var vendorZone = time.FixedZone("CST", 8*60*60)

// VendorOffset is how far vendor clock readings run ahead of loc at the instant at.
func VendorOffset(at time.Time, loc *time.Location) time.Duration {
	_, local := at.In(loc).Zone()
	_, vendor := at.In(vendorZone).Zone()
	return time.Duration(vendor-local) * time.Second
}

// normaliseTimestamp shifts an epoch-millisecond sample time by VendorOffset and
// renders it as RFC3339 in loc. Anything else is returned unchanged.
func normaliseTimestamp(raw string, loc *time.Location) string {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	at := time.UnixMilli(ms)
	return at.Add(VendorOffset(at, loc)).In(loc).Format(time.RFC3339)
}

func extractSummary(summary *model.SystemSummary, key string) (float64, map[string]string, error) {
	v, ok := summary.Field(key)
	if !ok {
		return 0, nil, fmt.Errorf("unknown summary field %q", key)
	}
	return v, map[string]string{}, nil
}

func extractMinutely(energy *model.MinutelyEnergy, key string, loc *time.Location) (float64, map[string]string, error) {
	var (
		value float64
		err   error
	)
	switch key {
	case "today":
		value = energy.Today
	case "power":
		var p int
		p, err = energy.LatestPower()
		value = float64(p)
	case "energy":
		value, err = energy.LatestEnergy()
	case keyPowerMax:
		var p int
		p, err = energy.MaxPower()
		value = float64(p)
	default:
		return 0, nil, fmt.Errorf("unknown minutely field %q", key)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", key, err)
	}

	attrs := map[string]string{
		AttrSamples: strconv.Itoa(energy.Len()),
	}
	if ts, err := energy.LatestTime(); err == nil {
		attrs[AttrTimestamp] = normaliseTimestamp(ts, loc)
	}
	return value, attrs, nil
}

func (s *Sensor) fetch(ctx context.Context) (float64, map[string]string, error) {
	switch s.metadata.Source {
	case model.SourceSummary:
		summary, err := s.api.FetchSystemSummary(ctx)
		if err != nil {
			return 0, nil, err
		}
		return extractSummary(summary, s.metadata.Key)
	case model.SourceMinutely:
		energy, err := s.api.FetchMinutelyEnergy(ctx)
		if err != nil {
			return 0, nil, err
		}
		return extractMinutely(energy, s.metadata.Key, s.location)
	}
	return 0, nil, fmt.Errorf("unknown source %q", s.metadata.Source)
}
