package config

import "time"

type SessionConfig interface {
	GetMaxSessionAge() time.Duration
	GetRedisAddr() string
	GetTokenFile() string
	GetTokenPassphrase() string
}

type Session struct {
	MaxAge          time.Duration `yaml:"max_age"          env:"SESSION_MAX_AGE"  env-default:"12h"`
	RedisAddr       string        `yaml:"redis_addr"       env:"REDIS_ADDR"`
	TokenFile       string        `yaml:"token_file"       env:"TOKEN_FILE"`
	TokenPassphrase string        `yaml:"token_passphrase" env:"TOKEN_PASSPHRASE"`
}

var _ SessionConfig = Session{}

func (s Session) GetMaxSessionAge() time.Duration {
	return s.MaxAge
}

// GetRedisAddr is empty when sessions are kept in memory
func (s Session) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Session) GetTokenFile() string {
	return s.TokenFile
}

func (s Session) GetTokenPassphrase() string {
	return s.TokenPassphrase
}
