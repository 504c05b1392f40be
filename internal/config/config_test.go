package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/framework"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, framework.DefaultLockTTL, cfg.Lock.TTL)
}

func TestMergeFile_YAML(t *testing.T) {
	path := writeFile(t, "cm.yaml", `
store:
  driver: redis
  redis:
    addr: cache:6379
    db: 2
http:
  port: 9090
lock:
  ttl: 45s
`)
	cfg := Default()
	require.NoError(t, cfg.MergeFile(path))

	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 45*time.Second, cfg.Lock.TTL)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "contentmachine:", cfg.Store.Redis.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestMergeFile_JSON(t *testing.T) {
	path := writeFile(t, "cm.json", `{"store":{"driver":"sqlite","sqlite":{"path":"/tmp/x.db"}},"metrics":{"enabled":false}}`)
	cfg := Default()
	require.NoError(t, cfg.MergeFile(path))

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Store.SQLite.Path)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestMergeFile_Errors(t *testing.T) {
	cfg := Default()

	err := cfg.MergeFile(writeFile(t, "bad.yaml", "store:\n  drivr: memory\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "drivr")

	err = cfg.MergeFile(writeFile(t, "broken.yaml", "store: [\n"))
	assert.Error(t, err)

	err = cfg.MergeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"CM_STORE_DRIVER":    "memory",
		"CM_PORT":            "7000",
		"CM_LOG_LEVEL":       "debug",
		"CM_REDIS_DB":        "3",
		"CM_LOCK_TTL":        "2m",
		"CM_METRICS_ENABLED": "false",
		"CM_STORE_PATH":      "",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 7000, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.Equal(t, 2*time.Minute, cfg.Lock.TTL)
	assert.False(t, cfg.Metrics.Enabled)
	// Empty values do not clear settings.
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestApplyEnv_BadValues(t *testing.T) {
	for key, value := range map[string]string{
		"CM_PORT":            "eighty",
		"CM_REDIS_DB":        "x",
		"CM_METRICS_ENABLED": "perhaps",
		"CM_LOCK_TTL":        "soon",
	} {
		cfg := Default()
		err := cfg.ApplyEnv(envMap(map[string]string{key: value}))
		assert.ErrorIs(t, err, ErrInvalidConfig, key)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "cm.yaml", "store:\n  driver: sqlite\nhttp:\n  port: 9000\n")
	t.Setenv("CM_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 9100, cfg.HTTP.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"file without path", func(c *Config) { c.Store.Path = "" }},
		{"redis without addr", func(c *Config) { c.Store.Driver = DriverRedis; c.Store.Redis.Addr = "" }},
		{"sqlite without path", func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.SQLite.Path = "" }},
		{"port out of range", func(c *Config) { c.HTTP.Port = 70000 }},
		{"zero ttl", func(c *Config) { c.Lock.TTL = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func roundTrip(t *testing.T, b *Backend) {
	t.Helper()
	ctx := context.Background()
	svc := framework.NewService(b.Store, b.ServiceOptions(Default())...)

	saved, err := svc.Save(ctx, map[string][]string{"hooks": {"Hi {company}"}})
	require.NoError(t, err)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, saved.Equal(got))
	assert.Equal(t, []string{"Hi {company}"}, got[domain.CategoryHooks])
}

func TestOpenStore_Drivers(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name       string
		cfg        func() Config
		wantLocker bool
	}{
		{"memory", func() Config {
			c := Default()
			c.Store.Driver = DriverMemory
			return c
		}, false},
		{"file", func() Config {
			c := Default()
			c.Store.Path = filepath.Join(t.TempDir(), "fw.json")
			return c
		}, false},
		{"sqlite", func() Config {
			c := Default()
			c.Store.Driver = DriverSQLite
			c.Store.SQLite.Path = filepath.Join(t.TempDir(), "fw.db")
			return c
		}, false},
		{"redis", func() Config {
			c := Default()
			c.Store.Driver = DriverRedis
			c.Store.Redis.Addr = mr.Addr()
			return c
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			b, err := OpenStore(context.Background(), tt.cfg(), nil, reg)
			require.NoError(t, err)
			defer b.Close()

			assert.Equal(t, tt.wantLocker, b.Locker != nil)
			roundTrip(t, b)

			require.NotNil(t, b.Metrics)
			assert.Equal(t, float64(1), testutil.ToFloat64(b.Metrics.Templates.WithLabelValues("hooks")))
		})
	}
}

func TestOpenStore_MetricsDisabled(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = DriverMemory
	cfg.Metrics.Enabled = false

	b, err := OpenStore(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, b.Metrics)
	assert.NoError(t, b.Close())
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := Default()
	cfg.Store.Driver = DriverRedis
	cfg.Store.Redis.Addr = addr

	_, err := OpenStore(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "failed to reach redis")
}

func TestOpenStore_InvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "etcd"
	_, err := OpenStore(context.Background(), cfg, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
