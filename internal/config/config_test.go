package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
app:
  port: "9000"
  app_name: "Faculty Console"
  env: "PROD"
backend:
  url: "https://api.example.edu"
  timeout: "3s"
session:
  max_age: "1h"
  redis_addr: "redis://cache:6379/0"
cors:
  allowed_origins: ["https://console.example.edu", "https://admin.example.edu"]
log:
  level: "debug"
`

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.True(t, cfg.IsDev())
	require.Equal(t, "http://127.0.0.1:8000/", cfg.GetBackendURL())
	require.Equal(t, 5*time.Second, cfg.GetBackendTimeout())
	require.Equal(t, "api/token/refresh/", cfg.GetRefreshPath())
	require.Equal(t, "api/token/", cfg.GetLoginPath())
	require.Equal(t, 12*time.Hour, cfg.GetMaxSessionAge())
	require.Empty(t, cfg.GetRedisAddr())
	require.Equal(t, "info", cfg.GetLogLevel())
	require.Empty(t, cfg.GetAllowedOrigins())
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.yaml", sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.GetPort())
	require.Equal(t, "Faculty Console", cfg.GetAppName())
	require.False(t, cfg.IsDev())
	require.Equal(t, "https://api.example.edu/", cfg.GetBackendURL())
	require.Equal(t, 3*time.Second, cfg.GetBackendTimeout())
	require.Equal(t, time.Hour, cfg.GetMaxSessionAge())
	require.Equal(t, "redis://cache:6379/0", cfg.GetRedisAddr())
	require.Equal(t, "debug", cfg.GetLogLevel())

	origins := cfg.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://console.example.edu"))
	require.False(t, origins.IsAllowedOrigin("https://evil.example.com"))
}

func TestLoad_EnvOverlaysFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.yaml", sampleYAML)
	t.Setenv("BACKEND_URL", "http://backend:8000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://backend:8000/", cfg.GetBackendURL())
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("http://b.test"))
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "Faculty Console", cfg.GetAppName())
}

func TestLoad_LocalYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "local.yaml", sampleYAML)
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.GetPort())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yaml")) })
}

func TestEnvVars_GetPort(t *testing.T) {
	require.Equal(t, ":80", EnvVars{Port: "80"}.GetPort())
	require.Equal(t, ":80", EnvVars{Port: ":80"}.GetPort())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CONSOLE_TEST_VAR", "")
	require.Equal(t, "fallback", GetEnv("CONSOLE_TEST_VAR", "fallback"))
	t.Setenv("CONSOLE_TEST_VAR", "set")
	require.Equal(t, "set", GetEnv("CONSOLE_TEST_VAR", "fallback"))
}
