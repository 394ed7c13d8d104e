package status

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// Metric keys shared across packages
const (
	EngineTicks   = "engine.ticks"
	MusicBeats    = "music.beats"
	MusicNotes    = "music.notes"
	MusicUnlocked = "music.unlocked"
	GameEvents    = "game.events"
	SessionGame   = "session.game"
	SessionLevel  = "session.level"
)

// Registry is the metrics facade shared by the loop, games and music engine
// Producers cache pointers at construction; hot paths write atomics directly
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Summary renders all metrics as "key=value" pairs in key order
func (r *Registry) Summary() string {
	var parts []string
	r.Strings.Range(func(key string, v *AtomicString) {
		parts = append(parts, fmt.Sprintf("%s=%s", key, v.Load()))
	})
	r.Ints.Range(func(key string, v *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", key, v.Load()))
	})
	return strings.Join(parts, " ")
}

// MetricMap hands out one stable *T per key
// Producers call Get once at construction and keep the pointer; only Get and Range lock
type MetricMap[T any] struct {
	mu    sync.Mutex
	items map[string]*T
	keys  []string // sorted, for Range
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr := new(T)
	m.items[key] = ptr
	i, _ := slices.BinarySearch(m.keys, key)
	m.keys = slices.Insert(m.keys, i, key)
	return ptr
}

// Range calls fn for every metric in key order; fn must not call Get
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.keys {
		fn(k, m.items[k])
	}
}

// Len returns the number of registered metrics
func (m *MetricMap[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

// MaxStringLen caps AtomicString values so the footer stays one line
const MaxStringLen = 20

// AtomicString is a lock-free string cell; the zero value reads as ""
type AtomicString struct {
	v atomic.Pointer[string]
}

// Store replaces the value, cut to MaxStringLen bytes on a rune boundary
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	s.v.Store(&val)
}

// Load returns the stored value
func (s *AtomicString) Load() string {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return ""
}
