package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
[database]
host = "db"
dbname = "scheduling"

[business_directory]
url = "http://directory"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 3, cfg.Database.TxMaxRetries)
	assert.Equal(t, NotifyDriverLog, cfg.Notifications.Driver)
	assert.Equal(t, 30, cfg.Scheduling.SlotIntervalMinutes)
	assert.Equal(t, 24*time.Hour, cfg.Scheduling.FollowUpDelay())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load(writeConfig(t, minimalConfig+`
[notifications]
driver = "kafka"
`))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notifications.Brokers())
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no database host", func(c *Config) { c.Database.Host = "" }},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 70000 }},
		{"interval too small", func(c *Config) { c.Scheduling.SlotIntervalMinutes = 1 }},
		{"unknown driver", func(c *Config) { c.Notifications.Driver = "smtp" }},
		{"kafka without brokers", func(c *Config) {
			c.Notifications.Driver = NotifyDriverKafka
			c.Notifications.KafkaBrokers = ""
		}},
		{"rabbitmq without url", func(c *Config) { c.Notifications.Driver = NotifyDriverRabbitMQ }},
		{"no directory url", func(c *Config) { c.BusinessDirectory.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.Host = "db"
			cfg.Database.DBName = "scheduling"
			cfg.BusinessDirectory.URL = "http://directory"
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
