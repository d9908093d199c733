package config

import (
	"fmt"

	"github.com/crewdesk/crewdesk/internal/env"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	// StorageDSN points the integration suite at a disposable
	// PostgreSQL database. Tests skip when it is unset.
	StorageDSN string `env:"CREWDESK_TEST_DB_DSN"`
}

// LoadTestConfig loads integration test configuration from the
// environment. Returns an error when the test database is not
// configured, which callers turn into a skip.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	if cfg.StorageDSN == "" {
		return nil, fmt.Errorf("CREWDESK_TEST_DB_DSN is not set")
	}

	return cfg, nil
}
