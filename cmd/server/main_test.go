package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StartupFailureReturnsAfterCleanup(t *testing.T) {
	logDir := t.TempDir()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PORT", "-1")
	t.Setenv("LOG_DIR", logDir)

	err := run()
	require.Error(t, err)

	files, globErr := filepath.Glob(filepath.Join(logDir, "assistant-*.log"))
	require.NoError(t, globErr)
	require.Len(t, files, 1)

	data, readErr := os.ReadFile(files[0])
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "server failed")
	assert.Contains(t, string(data), "services initialized")
}
