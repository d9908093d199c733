package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type httpSettings struct {
	Port        int           `env:"APP_HTTP_PORT"`
	ReadTimeout time.Duration `env:"APP_HTTP_READ_TIMEOUT"`
}

type dbSettings struct {
	DSN string `env:"APP_DB_DSN"`
}

var errDSNMissing = errors.New("dsn must be set")

func (d dbSettings) Validate() error {
	if d.DSN == "" {
		return errDSNMissing
	}
	return nil
}

type appSettings struct {
	Name    string `env:"APP_NAME"`
	Debug   bool   `env:"APP_DEBUG"`
	HTTP    httpSettings
	ignored string
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_NAME", "crewdesk")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_HTTP_READ_TIMEOUT", "45s")

	var cfg appSettings
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "crewdesk", cfg.Name)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 45*time.Second, cfg.HTTP.ReadTimeout)
	assert.Empty(t, cfg.ignored)
}

func TestLoadUnsetLeavesZeroValues(t *testing.T) {
	var cfg appSettings
	require.NoError(t, Load(&cfg))

	assert.Empty(t, cfg.Name)
	assert.False(t, cfg.Debug)
	assert.Zero(t, cfg.HTTP.Port)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "not-a-number")

	var cfg appSettings
	err := Load(&cfg)
	require.Error(t, err)

	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "APP_HTTP_PORT", invalid.EnvVar)
	assert.Equal(t, "not-a-number", invalid.Value)
}

func TestLoadValidatesNestedStructs(t *testing.T) {
	type serverSettings struct {
		Database dbSettings
	}

	t.Run("propagates nested validation error", func(t *testing.T) {
		var cfg serverSettings
		assert.ErrorIs(t, Load(&cfg), errDSNMissing)
	})

	t.Run("passes when nested struct is valid", func(t *testing.T) {
		t.Setenv("APP_DB_DSN", "postgres://localhost/crewdesk")

		var cfg serverSettings
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "postgres://localhost/crewdesk", cfg.Database.DSN)
	})
}

func TestLoadRejectsNonStructPointer(t *testing.T) {
	var n int
	assert.Error(t, Load(&n))
	assert.Error(t, Load(appSettings{}))
}
