// Package config loads service settings from configs/config.yml and
// THERMOVIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supersede policies for overlapping render cycles.
const (
	SupersedeCancel     = "cancel"
	SupersedeLastWriter = "last_writer"
)

const envPrefix = "THERMOVIEW"

// Config holds all application settings.
type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig points at the thermostat telemetry endpoint.
// A zero Timeout means requests never time out.
type TelemetryConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type DashboardConfig struct {
	DefaultUnit string `mapstructure:"default_unit"`
	Supersede   string `mapstructure:"supersede"` // cancel | last_writer
}

// SimulatorConfig drives the local stand-in telemetry feed.
type SimulatorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Tick      time.Duration `mapstructure:"tick"`
	Retention time.Duration `mapstructure:"retention"`
	Seed      int64         `mapstructure:"seed"`
	FeedLimit int           `mapstructure:"feed_limit"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"` // host:port
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

var errInvalidSupersede = errors.New("dashboard.supersede must be cancel or last_writer")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "thermoview.db")
	v.SetDefault("telemetry.endpoint", "http://localhost:8080/telemetry")
	v.SetDefault("telemetry.timeout", time.Duration(0))
	v.SetDefault("dashboard.default_unit", "C")
	v.SetDefault("dashboard.supersede", SupersedeCancel)
	v.SetDefault("simulator.enabled", true)
	v.SetDefault("simulator.tick", 5*time.Second)
	v.SetDefault("simulator.retention", 24*time.Hour)
	v.SetDefault("simulator.seed", int64(1))
	v.SetDefault("simulator.feed_limit", 720)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "localhost:1883")
	v.SetDefault("mqtt.client_id", "thermoview")
	v.SetDefault("mqtt.topic_prefix", "thermoview")
}

// Load reads configuration. path may be a config file or a directory
// holding config.yml; empty means ./configs. A missing file is not an
// error, defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	switch {
	case path == "":
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	case filepath.Ext(path) != "":
		v.SetConfigFile(path)
	default:
		v.AddConfigPath(path)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Dashboard.Supersede = strings.ToLower(strings.TrimSpace(c.Dashboard.Supersede))
	switch c.Dashboard.Supersede {
	case SupersedeCancel, SupersedeLastWriter:
	default:
		return errInvalidSupersede
	}
	if c.Telemetry.Endpoint == "" {
		return errors.New("telemetry.endpoint is required")
	}
	return nil
}

// CancelSuperseded reports whether a newer render cycle cancels the one in flight.
func (c *Config) CancelSuperseded() bool {
	return c.Dashboard.Supersede == SupersedeCancel
}
