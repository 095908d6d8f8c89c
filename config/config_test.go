package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ScanDelay)
	assert.Equal(t, SessionTTL, cfg.SessionTTL)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, DefaultKafkaTopic, cfg.KafkaTopic)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":             "9090",
		"SCAN_DELAY":       "250ms",
		"SESSION_TTL":      "1h",
		"JANITOR_SCHEDULE": "@every 1m",
		"MAX_UPLOAD_MB":    "5",
		"REDIS_ADDR":       "localhost:6379",
		"REDIS_DB":         "2",
		"KAFKA_BROKERS":    "k1:9092, k2:9092,",
		"KAFKA_TOPIC":      "scans",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.ScanDelay)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "@every 1m", cfg.JanitorSchedule)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "scans", cfg.KafkaTopic)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SCAN_DELAY":    "soon",
		"SESSION_TTL":   "-1m",
		"MAX_UPLOAD_MB": "0",
		"REDIS_DB":      "x",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(envMap(map[string]string{key: val}))
			assert.Error(t, err)
		})
	}
}
