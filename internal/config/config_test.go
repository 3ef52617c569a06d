package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestResolveEnv(t *testing.T) {
	t.Setenv("TIYENDE_TEST_HOST", "db.internal")

	out := resolveEnv([]byte("host: ${TIYENDE_TEST_HOST:localhost}\nport: ${TIYENDE_TEST_UNSET:3306}\nempty: ${TIYENDE_TEST_NONE}"))

	assert.Equal(t, "host: db.internal\nport: 3306\nempty: ", string(out))
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("jwt:\n  secret_key: " + testSecret + "\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Duration)
	assert.Equal(t, 5, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestParseDurations(t *testing.T) {
	cfg, err := Parse([]byte(strings.Join([]string{
		"jwt:",
		"  secret_key: " + testSecret,
		"  duration: 2h",
		"rate_limit:",
		"  window: 30s",
	}, "\n")))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWT.Duration)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestParseRejectsWeakSecret(t *testing.T) {
	_, err := Parse([]byte("jwt:\n  secret_key: short\n"))
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = Parse([]byte("server:\n  addr: :9000\n"))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestParseRejectsUnknownDatabase(t *testing.T) {
	_, err := Parse([]byte("jwt:\n  secret_key: " + testSecret + "\ndatabase:\n  type: oracle\n"))
	assert.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	t.Setenv("TIYENDE_TEST_SECRET", testSecret)
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  secret_key: ${TIYENDE_TEST_SECRET}\ndatabase:\n  type: sqlite\n  dbname: "+filepath.Join(dir, "t.db")+"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.JWT.SecretKey)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "configs/server.yaml", ConfigPath(""))
	assert.Equal(t, "x.yaml", ConfigPath("x.yaml"))

	t.Setenv("CONFIG_PATH", "/etc/tiyende.yaml")
	assert.Equal(t, "/etc/tiyende.yaml", ConfigPath(""))
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(DatabaseConfig{User: "root", Password: "pw", Host: "127.0.0.1", DBName: "tiyende"})

	assert.True(t, strings.HasPrefix(dsn, "root:pw@tcp(127.0.0.1:3306)/tiyende?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(DatabaseConfig{User: "u", Password: "p", Host: "pg", DBName: "tiyende"})
	assert.Equal(t, "host=pg user=u password=p dbname=tiyende port=5432 sslmode=disable", dsn)
}
