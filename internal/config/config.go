// Package config loads console settings.
//
// Sources, highest priority first:
//  1. explicit --config path;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. environment only.
//
// Environment variables always overlay the file.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config interface {
	EnvConfig
	BackendConfig
	SessionConfig
	CorsConfig
	LogConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars `yaml:"app"`
	Backend `yaml:"backend"`
	Session `yaml:"session"`
	Cors    `yaml:"cors"`
	Log     `yaml:"log"`
}

var _ Config = (*mainConfig)(nil)

// New loads configuration from the environment only
func New() (Config, error) {
	return Load("")
}

// MustLoad panics when the configuration cannot be loaded
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (Config, error) {
	var cfg mainConfig

	readFile := func(p string) (Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	if path != "" {
		return readFile(path)
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return readFile(envPath)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &cfg, nil
}
