package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/config"
)

func TestNewDisabledIsNop(t *testing.T) {
	logger, err := New(config.LoggingConfig{DebugMode: false})
	require.NoError(t, err)
	// Must not panic and must not create any files.
	logger.Info("dropped")
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(config.LoggingConfig{DebugMode: true, Level: "debug", Dir: dir})
	require.NoError(t, err)

	logger.Info("hello from test")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "crmdesk.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(config.LoggingConfig{DebugMode: true})
	assert.Error(t, err)
}
