package task

import (
	"math/rand/v2"
	"sort"
)

// Memory is a mind's persistent per-key scratch store plus its private
// PRNG stream (§9: "per-mind PRNG state travels with the mind's memory").
// It survives across turns for as long as the owning entity's MIND
// component does, and is handed to a Remnant as a read-only Snapshot when
// the mind is finally reaped.
type Memory struct {
	values map[string]any
	rnd    *rand.Rand
}

// NewMemory creates an empty Memory with a PRNG stream seeded
// deterministically from seed, so replaying the same root seed against
// the same sequence of minds reproduces the same per-mind randomness.
func NewMemory(seed uint64) *Memory {
	return &Memory{
		values: make(map[string]any),
		rnd:    rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
	}
}

// Get returns the value stored under key, if any.
func (m *Memory) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores v under key, overwriting any previous value.
func (m *Memory) Set(key string, v any) {
	m.values[key] = v
}

// Delete removes key, if present.
func (m *Memory) Delete(key string) {
	delete(m.values, key)
}

// Keys returns the currently stored keys in sorted order.
func (m *Memory) Keys() []string {
	ks := make([]string, 0, len(m.values))
	for k := range m.values {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Random returns the mind's private PRNG stream.
func (m *Memory) Random() *rand.Rand { return m.rnd }

// Snapshot copies m's key/value entries into a read-only view, for
// attaching to a Remnant after the mind is reaped.
func (m *Memory) Snapshot() Snapshot {
	cp := make(map[string]any, len(m.values))
	for k, v := range m.values {
		cp[k] = v
	}
	return Snapshot{values: cp}
}

// Snapshot is a point-in-time, read-only copy of a Memory's key/value
// entries.
type Snapshot struct {
	values map[string]any
}

// Get returns the value stored under key, if any.
func (s Snapshot) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the snapshot's keys in sorted order.
func (s Snapshot) Keys() []string {
	ks := make([]string, 0, len(s.values))
	for k := range s.values {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
