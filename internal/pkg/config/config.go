package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
	"github.com/anicoll/apsystems-integration/internal/pkg/sensor"
)

const EnvPrefix = "APSYSTEMS_"

type Config struct {
	ApiCfg           ApiConfig      `envPrefix:"API_"`
	ObserverCfg      ObserverConfig `envPrefix:"OBSERVER_"`
	MqttCfg          MqttConfig     `envPrefix:"MQTT_"`
	Name             string         `env:"NAME" envDefault:"apsystems"`
	Sunset           string         `env:"SUNSET" envDefault:"off"`
	PollInterval     time.Duration  `env:"POLL_INTERVAL" envDefault:"1m"`
	LogLevel         string         `env:"LOG_LEVEL" envDefault:"INFO"`
	HTTPAddr         string         `env:"HTTP_ADDR"`
	DatabaseURL      string         `env:"DATABASE_URL"`
	MigrationsFolder string         `env:"MIGRATIONS_FOLDER"`
}

type ApiConfig struct {
	AppID     string `env:"APP_ID"`
	AppSecret string `env:"APP_SECRET"`
	SystemID  string `env:"SID"`
	ECUID     string `env:"ECU_ID"`
	BaseURL   string `env:"BASE_URL" envDefault:"https://api.apsystemsema.com:9282"`
}

type ObserverConfig struct {
	Latitude  *float64 `env:"LATITUDE"`
	Longitude *float64 `env:"LONGITUDE"`
	Timezone  string  `env:"TIMEZONE" envDefault:"Local"`
}

type MqttConfig struct {
	Host     string `env:"HOST"`
	Username string `env:"USER"`
	Password string `env:"PASS"`
}

// Load reads APSYSTEMS_* environment variables, applying defaults.
func Load() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Credentials() model.Credentials {
	return model.Credentials{
		AppID:     c.ApiCfg.AppID,
		AppSecret: c.ApiCfg.AppSecret,
		SystemID:  c.ApiCfg.SystemID,
		ECUID:     c.ApiCfg.ECUID,
	}
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ObserverCfg.Timezone)
}

func (c *Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"api app id", c.ApiCfg.AppID},
		{"api app secret", c.ApiCfg.AppSecret},
		{"sid", c.ApiCfg.SystemID},
		{"ecu id", c.ApiCfg.ECUID},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	if c.PollInterval < time.Second {
		errs = append(errs, fmt.Errorf("poll interval %s is below one second", c.PollInterval))
	}
	// Coordinates are required while sunset gating is on.
	gating := sensor.GatingEnabled(c.Sunset)
	coordinates := []struct {
		name  string
		value *float64
		limit float64
	}{
		{"latitude", c.ObserverCfg.Latitude, 90},
		{"longitude", c.ObserverCfg.Longitude, 180},
	}
	for _, coord := range coordinates {
		if coord.value == nil {
			if gating {
				errs = append(errs, fmt.Errorf("%s is required when sunset gating is on", coord.name))
			}
			continue
		}
		if math.Abs(*coord.value) > coord.limit {
			errs = append(errs, fmt.Errorf("%s %f out of range", coord.name, *coord.value))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.DatabaseURL == "" && c.MigrationsFolder != "" {
		errs = append(errs, errors.New("migrations folder set without a database url"))
	}
	return errors.Join(errs...)
}
