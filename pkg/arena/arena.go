// Package arena provides a generational slot arena: O(1) insert, lookup and
// removal of values addressed by stable keys.
//
// A [Key] pairs a slot index with the generation of the slot at the time of
// insertion. Removing a value bumps the slot's generation, so every key that
// referred to the removed value becomes permanently stale, even after the
// slot is reused for a new value. Lookups with a stale key fail instead of
// returning the newer value.
//
// # Iteration Order
//
// [Arena.All] and [Arena.Keys] visit live values in slot order. The order is
// stable for the lifetime of the arena until a removal frees a slot that a
// later insertion reuses.
//
// # Concurrency
//
// An Arena is not safe for concurrent use without external synchronization.
package arena

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedKey is returned by [ParseKey] for text that is not of the
// form "index:generation" with a non-zero generation.
var ErrMalformedKey = errors.New("malformed key")

// Key identifies a value stored in an [Arena].
//
// The zero Key never refers to a value. Keys are comparable and may be used
// as map keys, but they carry no ordering and their index is not meaningful
// outside the arena that issued them.
type Key struct {
	index uint32
	gen   uint32
}

// IsNil reports whether k is the zero Key.
func (k Key) IsNil() bool { return k.gen == 0 }

// String formats the key as "index:generation".
func (k Key) String() string { return fmt.Sprintf("%d:%d", k.index, k.gen) }

// ParseKey parses the form produced by [Key.String]. The zero Key has no
// text form, so a generation of 0 is rejected. A parsed key is only
// meaningful to the arena that issued it; lookups in any other arena fail
// or resolve to an unrelated value.
func ParseKey(s string) (Key, error) {
	idx, gen, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil || g == 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	return Key{index: uint32(i), gen: uint32(g)}, nil
}

type slot[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Arena stores values of type T under generational keys.
// The zero value is an empty arena ready for use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// New creates an empty arena with room for capacity values before the slot
// table grows.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, capacity)}
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.count }

// Insert stores v and returns its key.
func (a *Arena[T]) Insert(v T) Key {
	return a.InsertWithKey(func(Key) T { return v })
}

// InsertWithKey reserves a slot, calls f with the key the value will be
// stored under, and stores the returned value. This lets a value record its
// own key at construction time.
func (a *Arena[T]) InsertWithKey(f func(Key) T) Key {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if len(a.slots) == math.MaxUint32 {
			panic("arena: slot table exhausted")
		}
		a.slots = append(a.slots, slot[T]{gen: 1})
		idx = uint32(len(a.slots) - 1)
	}

	s := &a.slots[idx]
	k := Key{index: idx, gen: s.gen}
	s.value = f(k)
	s.occupied = true
	a.count++
	return k
}

func (a *Arena[T]) slot(k Key) *slot[T] {
	if k.gen == 0 || int(k.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[k.index]
	if !s.occupied || s.gen != k.gen {
		return nil
	}
	return s
}

// Contains reports whether k refers to a live value.
func (a *Arena[T]) Contains(k Key) bool { return a.slot(k) != nil }

// Get returns the value stored under k.
// The boolean is false if k is stale or was never issued by this arena.
func (a *Arena[T]) Get(k Key) (T, bool) {
	if s := a.slot(k); s != nil {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Remove deletes the value stored under k and returns it. After Remove, k
// and every copy of it are stale forever.
func (a *Arena[T]) Remove(k Key) (T, bool) {
	var zero T
	s := a.slot(k)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	a.count--

	// A slot whose generation would wrap is retired rather than risk
	// resurrecting keys issued for generation 1.
	if s.gen == math.MaxUint32 {
		return v, true
	}
	s.gen++
	a.free = append(a.free, k.index)
	return v, true
}

// Clear removes every value. All previously issued keys become stale.
func (a *Arena[T]) Clear() {
	for i := range a.slots {
		if a.slots[i].occupied {
			a.Remove(Key{index: uint32(i), gen: a.slots[i].gen})
		}
	}
}

// All iterates over live keys and values in slot order. The callback may
// remove the key it was handed.
func (a *Arena[T]) All() iter.Seq2[Key, T] {
	return func(yield func(Key, T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Key{index: uint32(i), gen: s.gen}, s.value) {
				return
			}
		}
	}
}

// Keys iterates over live keys in slot order.
func (a *Arena[T]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for k := range a.All() {
			if !yield(k) {
				return
			}
		}
	}
}
