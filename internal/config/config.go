package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHistorySize       = 1000
	DefaultEventLogSize      = 100
	DefaultHTTPPort          = 8080
	DefaultBroadcastInterval = 5 * time.Second
)

// Config is the top-level scupd configuration. Fields map 1:1 to
// config.example.yaml.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Server ServerConfig `yaml:"server"`
	Alerts AlertsConfig `yaml:"alerts"`
}

// EngineConfig holds the scoring-engine settings. Buffer capacities are
// fixed at startup; changing them requires a restart.
type EngineConfig struct {
	// HistorySize is the FIFO capacity of the score/zone/timestamp buffers.
	HistorySize int `yaml:"history_size"`

	// EventLogSize is the capacity of the zone-transition event log.
	EventLogSize int `yaml:"event_log_size"`

	// UseRecovery selects the recovery-aware calculator for compute requests
	// that do not specify a variant.
	UseRecovery *bool `yaml:"use_recovery"`
}

// Recovery reports whether the recovery-aware calculator is the default.
// Unset means true.
func (e EngineConfig) Recovery() bool {
	return e.UseRecovery == nil || *e.UseRecovery
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and metrics endpoint
	// listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval controls how often the WebSocket hub pushes the
	// current report to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression over score-result fields:
	// "value < 0.2", "volatility > 0.3", "zone == critical".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			HistorySize:  DefaultHistorySize,
			EventLogSize: DefaultEventLogSize,
		},
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Engine.HistorySize <= 0 {
		return fmt.Errorf("engine.history_size %d must be positive", cfg.Engine.HistorySize)
	}
	if cfg.Engine.EventLogSize <= 0 {
		return fmt.Errorf("engine.event_log_size %d must be positive", cfg.Engine.EventLogSize)
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	for _, r := range cfg.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("alerts.rules: rule with empty name")
		}
		if r.Condition == "" {
			return fmt.Errorf("alerts.rules: rule %q has no condition", r.Name)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("alerts.rules: rule %q severity %q unknown: want critical|warning|info", r.Name, r.Severity)
		}
	}
	for _, w := range cfg.Alerts.Webhooks {
		switch w.Type {
		case "teams", "slack", "http":
		default:
			return fmt.Errorf("alerts.webhooks: type %q unknown: want teams|slack|http", w.Type)
		}
	}
	return nil
}
