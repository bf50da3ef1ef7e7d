package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-lecturer-console/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

type fakeConfig struct {
	level string
	file  string
	dev   bool
}

func (f fakeConfig) GetLogLevel() string { return f.level }
func (f fakeConfig) GetLogFile() string  { return f.file }
func (f fakeConfig) IsDev() bool         { return f.dev }

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, logging.ParseLevel("DEBUG"))
	require.Equal(t, zerolog.WarnLevel, logging.ParseLevel(" warn "))
	require.Equal(t, zerolog.InfoLevel, logging.ParseLevel(""))
	require.Equal(t, zerolog.InfoLevel, logging.ParseLevel("loud"))
}

func TestSetup_FileSink(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	file := filepath.Join(t.TempDir(), "logs", "console.log")
	closer := logging.Setup(fakeConfig{level: "debug", file: file})

	log.Debug().Str("component", "test").Msg("hello file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"hello file"`)
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
