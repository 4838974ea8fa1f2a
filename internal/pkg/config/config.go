package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Marine    MarineConfig    `mapstructure:"marine"`
	Vessel    VesselConfig    `mapstructure:"vessel"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// OracleConfig points at an OpenAI-compatible completion API.
// Referer and Title are forwarded on every request; OpenRouter uses
// them for app attribution.
type OracleConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	ChatModel    string `mapstructure:"chat_model"`
	AnalystModel string `mapstructure:"analyst_model"`
	Referer      string `mapstructure:"referer"`
	Title        string `mapstructure:"title"`
}

// GeocoderConfig points at a Nominatim-compatible search API.
// UserAgent is mandatory under the OSM usage policy.
type GeocoderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MarineConfig points at an Open-Meteo-compatible marine API.
type MarineConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// VesselConfig carries the assumed cruise profile for route math.
type VesselConfig struct {
	SpeedKnots float64 `mapstructure:"speed_knots"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("oracle.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.chat_model", "meta-llama/llama-3.3-70b-instruct:free")
	v.SetDefault("oracle.analyst_model", "qwen/qwen3-coder:free")
	v.SetDefault("oracle.referer", "http://localhost:3000")
	v.SetDefault("oracle.title", "OceanHelm")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "oceanhelm_nav_system/1.0")
	v.SetDefault("geocoder.timeout_seconds", 5)
	v.SetDefault("marine.base_url", "https://marine-api.open-meteo.com")
	v.SetDefault("marine.timeout_ms", 2000)
	v.SetDefault("vessel.speed_knots", 20.0)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: OCEANHELM_ORACLE_API_KEY → oracle.api_key
	v.SetEnvPrefix("OCEANHELM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Oracle.BaseURL == "" {
		errs = append(errs, "oracle.base_url is required")
	}
	if c.Oracle.APIKey == "" {
		errs = append(errs, "oracle.api_key is required")
	}
	if c.Oracle.ChatModel == "" {
		errs = append(errs, "oracle.chat_model is required")
	}
	if c.Oracle.AnalystModel == "" {
		errs = append(errs, "oracle.analyst_model is required")
	}
	if c.Geocoder.BaseURL == "" {
		errs = append(errs, "geocoder.base_url is required")
	}
	if c.Geocoder.UserAgent == "" {
		errs = append(errs, "geocoder.user_agent is required (OSM policy)")
	}
	if c.Marine.BaseURL == "" {
		errs = append(errs, "marine.base_url is required")
	}
	if c.Marine.TimeoutMS <= 0 {
		errs = append(errs, "marine.timeout_ms must be positive")
	}
	if c.Vessel.SpeedKnots <= 0 {
		errs = append(errs, "vessel.speed_knots must be positive")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
