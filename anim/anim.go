// Package anim tracks short-lived tweened presentation hints for game snapshots
package anim

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Item is one running hint; Value is the current tween output
type Item[T any] struct {
	Data  T
	Value float32
	tween *gween.Tween
}

// Set holds hints in insertion order and drops them when their tween finishes
type Set[T any] struct {
	items []*Item[T]
}

// Add starts a tween from -> to over d; durations are tracked in seconds
func (s *Set[T]) Add(data T, from, to float32, d time.Duration, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	s.items = append(s.items, &Item[T]{
		Data:  data,
		Value: from,
		tween: gween.New(from, to, float32(d.Seconds()), fn),
	})
}

// Advance moves every tween forward by dt and removes the finished ones
func (s *Set[T]) Advance(dt time.Duration) {
	live := s.items[:0]
	for _, it := range s.items {
		cur, finished := it.tween.Update(float32(dt.Seconds()))
		it.Value = cur
		if !finished {
			live = append(live, it)
		}
	}
	for i := len(live); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = live
}

// Snapshot returns copies of the running hints
func (s *Set[T]) Snapshot() []Item[T] {
	out := make([]Item[T], len(s.items))
	for i, it := range s.items {
		out[i] = Item[T]{Data: it.Data, Value: it.Value}
	}
	return out
}

// Len returns the number of running hints
func (s *Set[T]) Len() int { return len(s.items) }

// Clear drops every hint
func (s *Set[T]) Clear() { s.items = nil }
