package config

import (
	"os"
	"strings"
)

type EnvVars struct {
	Port    string `yaml:"port"     env:"PORT"     env-default:"8080"`
	AppName string `yaml:"app_name" env:"APP_NAME" env-default:"Lecturer Console"`
	Env     string `yaml:"env"      env:"ENV"      env-default:"DEV"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	if e.Port == "" || e.Port[0] == ':' {
		return e.Port
	}
	return ":" + e.Port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) IsDev() bool {
	return strings.EqualFold(e.GetEnv(), "DEV")
}

// GetEnv reads an environment variable with a default, for settings outside the main config
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
