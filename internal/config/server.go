package config

import (
	"fmt"
	"time"

	"github.com/crewdesk/crewdesk/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database      DatabaseConfig
	HTTP          HTTPConfig
	Scheduler     SchedulerConfig
	Observability ObservabilityConfig

	ShutdownTimeout time.Duration `env:"CREWDESK_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"CREWDESK_HTTP_HOST"`
	Port              string        `env:"CREWDESK_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"CREWDESK_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"CREWDESK_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"CREWDESK_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"CREWDESK_HTTP_READ_HEADER_TIMEOUT"`
}

// SchedulerConfig holds recurring-task scheduler configuration.
type SchedulerConfig struct {
	// OperationTimeout bounds the storage work of one timer trigger.
	OperationTimeout time.Duration `env:"CREWDESK_SCHEDULER_OPERATION_TIMEOUT"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"CREWDESK_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// LoadServerConfig loads and validates server configuration from the
// environment, then fills unset fields with defaults.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 10 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 120 * time.Second
	}
	if c.HTTP.ReadHeaderTimeout == 0 {
		c.HTTP.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Scheduler.OperationTimeout == 0 {
		c.Scheduler.OperationTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "crewdesk"
	}
}

// Addr returns the host:port the HTTP server binds to.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}
