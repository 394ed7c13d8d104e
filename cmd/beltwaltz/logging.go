package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const logLevelEnv = "BELTWALTZ_LOG_LEVEL"

// setupLogging routes logrus to path since tcell owns the terminal
// An empty level falls back to BELTWALTZ_LOG_LEVEL, then info
func setupLogging(path, level string) (*os.File, error) {
	if level == "" {
		level = os.Getenv(logLevelEnv)
	}
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log %s", path)
	}

	log.SetOutput(f)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	return f, nil
}
