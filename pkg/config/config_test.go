package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5*time.Second, cfg.Schedule.PollInterval)
	assert.Equal(t, []string{"/magang"}, cfg.Schedule.Paths)
	assert.Empty(t, cfg.Schedule.Windows)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileBytes)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 1, cfg.Magang.ExportWorkers)
	assert.True(t, cfg.Docs)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SCHEDULE_POLL_INTERVAL", "bogus")
	v.Set("SCHEDULE_PATHS", " /magang, ,/oprec ")
	v.Set("SCHEDULE_WINDOWS", "/magang|2026-08-01T00:00:00Z|2026-08-15T00:00:00Z; /oprec|2026-09-01T00:00:00+07:00|2026-09-02T00:00:00+07:00")
	v.Set("CACHE_BACKEND", "REDIS")
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Schedule.PollInterval)
	assert.Equal(t, []string{"/magang", "/oprec"}, cfg.Schedule.Paths)
	require.Len(t, cfg.Schedule.Windows, 2)
	assert.Equal(t, "/oprec", cfg.Schedule.Windows[1].Path)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.Windows[1].End.Sub(cfg.Schedule.Windows[1].Start))
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
}

func TestInvalidWindows(t *testing.T) {
	for _, raw := range []string{
		"/magang|2026-08-01T00:00:00Z",
		"/magang|yesterday|2026-08-15T00:00:00Z",
		"/magang|2026-08-15T00:00:00Z|2026-08-01T00:00:00Z",
	} {
		_, err := parseWindows(raw)
		assert.Error(t, err, raw)
	}
}
