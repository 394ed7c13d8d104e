// Package session wires the games, the music engine and the tick scheduler behind one input surface
package session

import (
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/conveyor"
	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
	"github.com/lixenwraith/beltwaltz/level"
	"github.com/lixenwraith/beltwaltz/music"
	"github.com/lixenwraith/beltwaltz/pixelbelt"
	"github.com/lixenwraith/beltwaltz/status"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrUnknownGame  = errors.New("unknown game")
)

// Kind selects one of the two games
type Kind int

const (
	KindSort Kind = iota
	KindBelt
)

func (k Kind) String() string {
	switch k {
	case KindSort:
		return "sort"
	case KindBelt:
		return "belt"
	default:
		return "unknown"
	}
}

// ParseKind accepts "sort" or "belt", case-insensitive
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sort", "conveyor":
		return KindSort, nil
	case "belt", "pixel", "pixelbelt":
		return KindBelt, nil
	default:
		return 0, errors.Wrapf(ErrUnknownGame, "%q", s)
	}
}

// AudioContext is the lazily started audio output
type AudioContext interface {
	EnsureContext() error
}

// Config holds session dependencies; Audio and Registry may be nil, Rand nil seeds from the clock
type Config struct {
	Catalog  *level.Catalog
	Ticker   engine.Ticker
	Synth    music.Synth
	Audio    AudioContext
	Registry *status.Registry
	Rand     *rand.Rand
	Muted    bool
}

// Session owns both games and the music engine; all methods run on the dispatcher goroutine
type Session struct {
	catalog *level.Catalog
	ticker  engine.Ticker
	audio   AudioContext

	music     *music.Engine
	sort      *conveyor.Game
	belt      *pixelbelt.Game
	conductor *Conductor

	kind       Kind
	index      int
	loaded     bool
	cancelTick engine.Cancel
	audioReady bool

	statGame  *status.AtomicString
	statLevel *atomic.Int64
}

// New creates a session at the menu
func New(cfg Config) *Session {
	reg := cfg.Registry
	if reg == nil {
		reg = status.NewRegistry()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = level.MustDefault()
	}

	s := &Session{
		catalog:    catalog,
		ticker:     cfg.Ticker,
		audio:      cfg.Audio,
		music:      music.NewEngine(cfg.Synth, cfg.Ticker, reg),
		sort:       conveyor.NewGame(rand.New(rand.NewSource(rng.Int63())), reg),
		belt:       pixelbelt.NewGame(rand.New(rand.NewSource(rng.Int63())), reg),
		cancelTick: engine.NopCancel,
		statGame:   reg.Strings.Get(status.SessionGame),
		statLevel:  reg.Ints.Get(status.SessionLevel),
	}
	s.music.SetMuted(cfg.Muted)
	s.conductor = NewConductor(s.music, s.sort, s.belt)
	s.statGame.Store("menu")
	return s
}

// gesture starts the audio context on the first user action; failures retry on the next one
func (s *Session) gesture() {
	if s.audioReady || s.audio == nil {
		return
	}
	if err := s.audio.EnsureContext(); err != nil {
		log.WithError(err).Debug("audio context not ready")
		return
	}
	s.audioReady = true
}

// LevelCount returns the number of levels for kind
func (s *Session) LevelCount(kind Kind) int {
	switch kind {
	case KindSort:
		return len(s.catalog.Sort)
	case KindBelt:
		return len(s.catalog.Belt)
	default:
		return 0
	}
}

// SelectLevel loads level i of the given game and restarts the belt and music timers
func (s *Session) SelectLevel(kind Kind, i int) error {
	if kind != KindSort && kind != KindBelt {
		return errors.Wrapf(ErrUnknownGame, "kind %d", int(kind))
	}
	if i < 0 || i >= s.LevelCount(kind) {
		return errors.Wrapf(ErrUnknownLevel, "%s level %d of %d", kind, i, s.LevelCount(kind))
	}
	s.gesture()
	s.music.PlayClick()
	s.stop()

	// The idle game leaves play so its state events cannot touch the loop later
	s.leave(s.other(kind))

	switch kind {
	case KindSort:
		l := s.catalog.Sort[i]
		tempo, speed := s.catalog.SortTempoAt(i)
		s.music.SetLevelTempo(tempo, speed)
		s.music.SetPhraseCount(l.Placements)
		s.sort.Load(l, speed)
		s.cancelTick = s.ticker.Every(s.sort.TickInterval(), s.sort.Tick)

	case KindBelt:
		l := s.catalog.Belt[i]
		tempo, speed := s.catalog.BeltTempoAt(i)
		s.music.SetLevelTempo(tempo, speed)
		s.belt.Load(l, s.catalog.Art[l.Art], speed)
		s.music.SetPhraseCount(s.belt.PhraseCount())
		for p := 0; p < s.belt.PhraseCount(); p++ {
			if s.belt.PhraseComplete(p) {
				s.music.Unlock(p)
			}
		}
		s.cancelTick = s.ticker.Every(s.belt.TickInterval(), s.belt.Tick)
	}

	s.kind, s.index, s.loaded = kind, i, true
	s.statGame.Store(kind.String())
	s.statLevel.Store(int64(i))

	log.WithFields(log.Fields{
		"game":   kind,
		"level":  i,
		"tempo":  s.music.Tempo(),
		"phrase": s.music.PhraseCount(),
	}).Info("select level")
	return nil
}

// stop cancels the belt timer and silences the loop
func (s *Session) stop() {
	s.cancelTick()
	s.cancelTick = engine.NopCancel
	s.music.StopLoop()
	s.music.SetOnLoopComplete(nil)
}

func (s *Session) other(k Kind) Kind {
	if k == KindSort {
		return KindBelt
	}
	return KindSort
}

func (s *Session) leave(k Kind) {
	var g interface {
		State() core.GameState
		ShowMenu()
	} = s.sort
	if k == KindBelt {
		g = s.belt
	}
	if core.CanTransition(g.State(), core.StateMenu) {
		g.ShowMenu()
	}
}

// Retry regenerates the current level; no-op before a level is selected
func (s *Session) Retry() {
	if !s.loaded {
		return
	}
	if err := s.SelectLevel(s.kind, s.index); err != nil {
		log.WithError(err).Warn("retry")
	}
}

// Next moves to the following level, staying on the last one
func (s *Session) Next() {
	if !s.loaded {
		return
	}
	next := min(s.index+1, s.LevelCount(s.kind)-1)
	if err := s.SelectLevel(s.kind, next); err != nil {
		log.WithError(err).Warn("next level")
	}
}

// ShowMenu leaves the current level and stops timers
func (s *Session) ShowMenu() {
	s.stop()
	s.leave(KindSort)
	s.leave(KindBelt)
	s.loaded = false
	s.statGame.Store("menu")
}

// ToggleMute flips the music mute flag
func (s *Session) ToggleMute() bool {
	s.gesture()
	return s.music.ToggleMute()
}

// TapQueue launches from a Pixel Belt queue
func (s *Session) TapQueue(i int) bool {
	return s.dispatch(KindBelt, core.Input{Kind: core.InputTapQueue, Index: i})
}

// TapSlot relaunches a sidelined Pixel Belt blob
func (s *Session) TapSlot(i int) bool {
	return s.dispatch(KindBelt, core.Input{Kind: core.InputTapSlot, Index: i})
}

// TapCube picks cubes of color from a Conveyor Sort placement
func (s *Session) TapCube(placementID int, color core.Color) bool {
	return s.dispatch(KindSort, core.Input{Kind: core.InputTapCube, PlacementID: placementID, Color: color})
}

func (s *Session) dispatch(kind Kind, in core.Input) bool {
	s.gesture()
	if !s.loaded || s.kind != kind {
		return false
	}
	ok := s.Game().Dispatch(in)
	if ok && kind == KindBelt {
		s.music.PlayClick()
	}
	return ok
}

// AutoPick plays one greedy Conveyor Sort move
func (s *Session) AutoPick() bool {
	if !s.loaded || s.kind != KindSort {
		return false
	}
	return conveyor.AutoPick(s.sort)
}

// Close cancels every timer
func (s *Session) Close() {
	s.stop()
}

// Kind returns the selected game
func (s *Session) Kind() Kind { return s.kind }

// Level returns the selected level index
func (s *Session) Level() int { return s.index }

// Loaded reports whether a level is selected
func (s *Session) Loaded() bool { return s.loaded }

// AudioReady reports whether the audio context started
func (s *Session) AudioReady() bool { return s.audioReady }

// Game returns the active game core
func (s *Session) Game() engine.GameCore {
	if s.kind == KindBelt {
		return s.belt
	}
	return s.sort
}

// Sort returns the Conveyor Sort game
func (s *Session) Sort() *conveyor.Game { return s.sort }

// Belt returns the Pixel Belt game
func (s *Session) Belt() *pixelbelt.Game { return s.belt }

// Music returns the music engine
func (s *Session) Music() *music.Engine { return s.music }

// Catalog returns the level catalog
func (s *Session) Catalog() *level.Catalog { return s.catalog }
