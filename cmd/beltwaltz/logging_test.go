package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})
}

func TestSetupLoggingWritesFile(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "beltwaltz.log")

	f, err := setupLogging(path, "debug")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.WithField("level", 3).Debug("select level")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "select level")
	assert.Contains(t, string(data), "level=3")
}

func TestSetupLoggingEnvLevel(t *testing.T) {
	restoreLogger(t)
	t.Setenv(logLevelEnv, "warn")

	f, err := setupLogging(filepath.Join(t.TempDir(), "a.log"), "")
	require.NoError(t, err)
	f.Close()
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	f, err = setupLogging(filepath.Join(t.TempDir(), "b.log"), "error")
	require.NoError(t, err)
	f.Close()
	assert.Equal(t, log.ErrorLevel, log.GetLevel(), "flag beats environment")
}

func TestSetupLoggingRejectsBadInput(t *testing.T) {
	restoreLogger(t)
	_, err := setupLogging(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)

	_, err = setupLogging(filepath.Join(t.TempDir(), "missing", "x.log"), "info")
	assert.Error(t, err)
}
