package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

// Config holds all configuration for the placement extender services.
type Config struct {
	Server     ServerConfig     `envconfig:"SERVER"`
	Scoring    ScoringConfig    `envconfig:"SCORING"`
	Telemetry  TelemetryConfig  `envconfig:"TELEMETRY"`
	Kubernetes KubernetesConfig `envconfig:"KUBERNETES"`
	Model      ModelConfig      `envconfig:"MODEL"`
	Logging    LoggingConfig    `envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int `envconfig:"PORT" default:"8080"`
}

// ScoringConfig selects the scoring backend the extender uses. In local mode
// prioritize calls run the scoring engine in-process; in remote mode they are
// delegated to an inference server over HTTP.
type ScoringConfig struct {
	Mode             string        `envconfig:"MODE" default:"local"` // 'local' or 'remote'
	InferenceAddress string        `envconfig:"INFERENCE_ADDRESS" default:"http://scheduler-inference.monitoring.svc.cluster.local:8080"`
	InferenceTimeout time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"5s"`
}

// TelemetryConfig contains the Prometheus query settings. QueryTimeout bounds
// every instant query; there are no retries on the scheduling path.
type TelemetryConfig struct {
	PrometheusURL string        `envconfig:"PROMETHEUS_URL" default:"http://prometheus.monitoring.svc.cluster.local:9090"`
	QueryTimeout  time.Duration `envconfig:"QUERY_TIMEOUT" default:"2s"`

	// Sample cache settings
	Cache    string        `envconfig:"CACHE" default:"memory"` // 'memory', 'redis' or 'off'
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"10s"`
	RedisURI string        `envconfig:"REDIS_URI" default:"redis://localhost:6379/0"`
}

// KubernetesConfig contains cluster inventory client settings.
type KubernetesConfig struct {
	MockMode   bool   `envconfig:"MOCK" default:"false"`
	Kubeconfig string `envconfig:"KUBECONFIG" default:""`
}

// ModelConfig contains model artifact settings.
type ModelConfig struct {
	Path string `envconfig:"PATH" default:"/models/scheduler_model.json"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Development bool `envconfig:"DEV" default:"false"` // Whether to use development logger (more verbose)
}

// LoadConfig loads configuration from environment variables using envconfig.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("EXTENDER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// Module provides configuration to the fx container.
var Module = fx.Options(
	fx.Provide(LoadConfig),
)
