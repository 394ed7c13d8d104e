package audio

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/parameter"
)

// Config holds output settings
type Config struct {
	Enabled        bool
	MasterVolume   float64 // 0.0-1.0
	SampleRate     int
	BufferDuration time.Duration
}

// DefaultConfig returns the default output settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MasterVolume:   0.5,
		SampleRate:     parameter.AudioSampleRate,
		BufferDuration: parameter.AudioBufferDuration,
	}
}

// LoadConfig loads output settings from environment variables over the defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("BELTWALTZ_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		} else {
			log.WithField("value", enabled).Warn("ignoring BELTWALTZ_AUDIO_ENABLED")
		}
	}

	// Master volume is given as 0-100
	if volume := os.Getenv("BELTWALTZ_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampVolume(float64(val) / 100.0)
		} else {
			log.WithField("value", volume).Warn("ignoring BELTWALTZ_MASTER_VOLUME")
		}
	}

	if sampleRate := os.Getenv("BELTWALTZ_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		} else {
			log.WithField("value", sampleRate).Warn("ignoring BELTWALTZ_SAMPLE_RATE")
		}
	}

	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
