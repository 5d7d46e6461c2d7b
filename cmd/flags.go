package cmd

import (
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/anicoll/apsystems-integration/internal/pkg/config"
)

// Flags override the APSYSTEMS_* environment variables read by config.Load.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "api-app-id", Usage: "APsystems OpenAPI app id"},
		&cli.StringFlag{Name: "api-app-secret", Usage: "APsystems OpenAPI app secret"},
		&cli.StringFlag{Name: "sid", Usage: "system (site) id"},
		&cli.StringFlag{Name: "ecu-id", Usage: "ECU id"},
		&cli.StringFlag{Name: "base-url", Usage: "OpenAPI base url"},
		&cli.StringFlag{Name: "name", Usage: "sensor name prefix"},
		&cli.StringFlag{Name: "sunset", Usage: "daylight gating, false turns it off"},
		&cli.Float64Flag{Name: "latitude"},
		&cli.Float64Flag{Name: "longitude"},
		&cli.StringFlag{Name: "timezone", Usage: "IANA zone for the local day, e.g. Australia/Adelaide"},
		&cli.DurationFlag{Name: "poll-interval"},
		&cli.StringFlag{Name: "log-level"},
		&cli.StringFlag{Name: "http-addr", Usage: "status server listen address, e.g. :8000"},
		&cli.StringFlag{Name: "mqtt-host", Usage: "broker url, e.g. tcp://mosquitto:1883"},
		&cli.StringFlag{Name: "mqtt-user"},
		&cli.StringFlag{Name: "mqtt-pass"},
		&cli.StringFlag{Name: "database-url"},
		&cli.StringFlag{Name: "migrations-folder"},
	}
}

func applyFlags(ctx *cli.Context, cfg *config.Config) {
	stringFlags := map[string]*string{
		"api-app-id":        &cfg.ApiCfg.AppID,
		"api-app-secret":    &cfg.ApiCfg.AppSecret,
		"sid":               &cfg.ApiCfg.SystemID,
		"ecu-id":            &cfg.ApiCfg.ECUID,
		"base-url":          &cfg.ApiCfg.BaseURL,
		"name":              &cfg.Name,
		"sunset":            &cfg.Sunset,
		"timezone":          &cfg.ObserverCfg.Timezone,
		"log-level":         &cfg.LogLevel,
		"http-addr":         &cfg.HTTPAddr,
		"mqtt-host":         &cfg.MqttCfg.Host,
		"mqtt-user":         &cfg.MqttCfg.Username,
		"mqtt-pass":         &cfg.MqttCfg.Password,
		"database-url":      &cfg.DatabaseURL,
		"migrations-folder": &cfg.MigrationsFolder,
	}
	for name, dst := range stringFlags {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}
	if ctx.IsSet("latitude") {
		cfg.ObserverCfg.Latitude = lo.ToPtr(ctx.Float64("latitude"))
	}
	if ctx.IsSet("longitude") {
		cfg.ObserverCfg.Longitude = lo.ToPtr(ctx.Float64("longitude"))
	}
	if ctx.IsSet("poll-interval") {
		cfg.PollInterval = ctx.Duration("poll-interval")
	}
}
