// Package audio synthesizes piano tones with beep and mixes them onto the speaker
package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/music"
)

// Sentinel errors
var (
	ErrNoDevice = errors.New("audio device unavailable")
	ErrDisabled = errors.New("audio disabled")
)

// device is the playback sink; the speaker package in production
type device interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type speakerDevice struct{}

func (speakerDevice) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerDevice) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerDevice) Lock()                { speaker.Lock() }
func (speakerDevice) Unlock()              { speaker.Unlock() }
func (speakerDevice) Close()               { speaker.Close() }

// Output implements music.Synth on top of a beep mixer
// Every Play is a no-op until EnsureContext succeeds
type Output struct {
	config *Config
	dev    device
	rate   beep.SampleRate

	mu     sync.Mutex // serializes EnsureContext/Close
	mixer  *beep.Mixer
	master *effects.Volume

	ready    atomic.Bool
	warnOnce sync.Once

	played  atomic.Uint64
	dropped atomic.Uint64
}

var _ music.Synth = (*Output)(nil)

// NewOutput creates an output; nil cfg uses DefaultConfig
func NewOutput(cfg *Config) *Output {
	return newOutput(cfg, speakerDevice{})
}

func newOutput(cfg *Config, dev device) *Output {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	mixer := &beep.Mixer{}
	o := &Output{
		config: cfg,
		dev:    dev,
		rate:   beep.SampleRate(cfg.SampleRate),
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
	}
	o.applyVolume(cfg.MasterVolume)
	return o
}

// EnsureContext opens the device and starts the mixer; idempotent
// A failed attempt may be retried, the warning is logged once
func (o *Output) EnsureContext() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ready.Load() {
		return nil
	}
	if !o.config.Enabled {
		return ErrDisabled
	}

	buffer := o.rate.N(o.config.BufferDuration)
	if err := o.dev.Init(o.rate, buffer); err != nil {
		wrapped := errors.Wrapf(ErrNoDevice, "speaker init at %d Hz: %v", o.config.SampleRate, err)
		o.warnOnce.Do(func() {
			log.WithError(err).WithField("sampleRate", o.config.SampleRate).Warn("audio unavailable, running silent")
		})
		return wrapped
	}

	o.dev.Play(o.master)
	o.ready.Store(true)
	log.WithFields(log.Fields{"sampleRate": o.config.SampleRate, "buffer": buffer}).Info("audio started")
	return nil
}

// Ready reports whether the device is open
func (o *Output) Ready() bool { return o.ready.Load() }

// Play schedules t after delay on the audio clock; never blocks on playback
func (o *Output) Play(t music.Tone, delay time.Duration) {
	if !o.ready.Load() {
		o.dropped.Add(1)
		return
	}
	if t.Freq <= 0 || t.Duration <= 0 || t.Volume <= 0 {
		return
	}

	var s beep.Streamer = newPianoVoice(o.config.SampleRate, t)
	if n := o.rate.N(delay); n > 0 {
		s = beep.Seq(beep.Silence(n), s)
	}

	o.dev.Lock()
	o.mixer.Add(s)
	o.dev.Unlock()
	o.played.Add(1)
}

// SetVolume updates master volume (0.0-1.0)
func (o *Output) SetVolume(vol float64) {
	o.dev.Lock()
	o.applyVolume(vol)
	o.dev.Unlock()
}

func (o *Output) applyVolume(vol float64) {
	vol = clampVolume(vol)
	o.config.MasterVolume = vol
	o.master.Silent = vol == 0
	if vol > 0 {
		o.master.Volume = math.Log2(vol)
	}
}

// Active returns the number of voices still in the mixer
func (o *Output) Active() int {
	if !o.ready.Load() {
		return 0
	}
	o.dev.Lock()
	defer o.dev.Unlock()
	return o.mixer.Len()
}

// Stats returns played and dropped tone counts
func (o *Output) Stats() (played, dropped uint64) {
	return o.played.Load(), o.dropped.Load()
}

// Close silences the mixer and releases the device
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready.CompareAndSwap(true, false) {
		return
	}
	o.dev.Lock()
	o.mixer.Clear()
	o.dev.Unlock()
	o.dev.Close()
}
