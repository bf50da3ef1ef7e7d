package config

type LogConfig interface {
	GetLogLevel() string
	GetLogFile() string
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file"  env:"LOG_FILE"`
}

var _ LogConfig = Log{}

func (l Log) GetLogLevel() string {
	return l.Level
}

// GetLogFile is empty when logs go to stdout only
func (l Log) GetLogFile() string {
	return l.File
}
