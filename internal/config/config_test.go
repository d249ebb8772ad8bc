package config_test

import (
	"testing"
	"time"

	"campus-portal/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "KAFKA_BROKERS", "EVENT_REGISTRATION_DELAY", "QUICK_REGISTRATION_DELAY", "NOTIFICATION_TTL", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 1500*time.Millisecond, cfg.Portal.EventRegistrationDelay)
	assert.Equal(t, 1000*time.Millisecond, cfg.Portal.QuickRegistrationDelay)
	assert.Equal(t, 5*time.Second, cfg.Portal.NotificationTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("EVENT_REGISTRATION_DELAY", "2s")
	t.Setenv("NOTIFICATION_TTL", "not-a-duration")

	cfg := config.Load()
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Portal.EventRegistrationDelay)
	assert.Equal(t, 5*time.Second, cfg.Portal.NotificationTTL)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "UTC", config.PortalConfig{Timezone: "UTC"}.Location().String())
	assert.Equal(t, time.Local, config.PortalConfig{Timezone: "Mars/Olympus"}.Location())
}
