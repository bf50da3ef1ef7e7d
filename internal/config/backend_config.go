package config

import (
	"strings"
	"time"
)

type BackendConfig interface {
	GetBackendURL() string
	GetBackendTimeout() time.Duration
	GetRefreshPath() string
	GetLoginPath() string
}

// Backend describes the REST API the console talks to
type Backend struct {
	URL         string        `yaml:"url"          env:"BACKEND_URL"     env-default:"http://127.0.0.1:8000/"`
	Timeout     time.Duration `yaml:"timeout"      env:"BACKEND_TIMEOUT" env-default:"5s"`
	RefreshPath string        `yaml:"refresh_path" env:"REFRESH_PATH"    env-default:"api/token/refresh/"`
	LoginPath   string        `yaml:"login_path"   env:"LOGIN_PATH"      env-default:"api/token/"`
}

var _ BackendConfig = Backend{}

// GetBackendURL always ends with a slash so relative paths resolve beneath it
func (b Backend) GetBackendURL() string {
	if strings.HasSuffix(b.URL, "/") {
		return b.URL
	}
	return b.URL + "/"
}

func (b Backend) GetBackendTimeout() time.Duration {
	return b.Timeout
}

func (b Backend) GetRefreshPath() string {
	return strings.TrimPrefix(b.RefreshPath, "/")
}

func (b Backend) GetLoginPath() string {
	return strings.TrimPrefix(b.LoginPath, "/")
}
