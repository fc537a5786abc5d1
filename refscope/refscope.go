// Package refscope mints opaque, revocable references to entities (§4.4).
// A Ref dereferences to a live entity id only while the scope that minted
// it is still open and the entity's generation has not advanced since
// minting.
package refscope

import (
	"math/rand/v2"

	"github.com/segmentio/fasthash/fnv1a"
)

// Ref is an opaque, non-zero token minted by a Scope for a specific
// (id, generation) pair. The zero Ref never resolves to anything; it is
// used by callers (e.g. the view computer) to mean "seen but not
// identified".
type Ref uint32

// LivenessChecker reports whether an id is currently allocated and what
// its current generation is. The shard package's storeLiveness adapter
// implements this over entity.Store, whose own methods take an entity.ID.
type LivenessChecker interface {
	Live(id int32) bool
	Generation(id int32) uint32
}

type mintedRef struct {
	id  int32
	gen uint32
}

// Scope is a minting domain for Refs with a bounded lifetime. Scopes can
// be nested: dereferencing in a child scope falls back to the parent's
// mint table if the ref was not minted directly into the child.
type Scope struct {
	live   LivenessChecker
	parent *Scope
	salt   uint32
	minted map[Ref]mintedRef
	rnd    *rand.Rand
}

// New creates a root Scope backed by live, seeded from seed so that ref
// minting is reproducible given a deterministic seed.
func New(live LivenessChecker, seed uint64) *Scope {
	return &Scope{
		live:   live,
		minted: make(map[Ref]mintedRef),
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Sub creates a child scope of s. The child falls back to s for
// dereference when a ref was not minted directly into it.
func (s *Scope) Sub() *Scope {
	return &Scope{
		live:   s.live,
		parent: s,
		minted: make(map[Ref]mintedRef),
		rnd:    rand.New(rand.NewPCG(s.rnd.Uint64(), s.rnd.Uint64())),
	}
}

// Mint mints a new opaque Ref for (id, gen) into s.
func (s *Scope) Mint(id int32, gen uint32) Ref {
	packed := (uint64(uint32(id)) << 8) | uint64(gen&0xff)
	for {
		s.salt++
		token := fnv1a.HashUint64(packed ^ (uint64(s.salt) << 32) ^ s.rnd.Uint64())
		ref := Ref(uint32(token ^ (token >> 32)))
		if ref == 0 {
			continue
		}
		if _, taken := s.minted[ref]; taken {
			continue
		}
		s.minted[ref] = mintedRef{id: id, gen: gen}
		return ref
	}
}

// Deref resolves ref to a live entity id. It returns ok=false if ref was
// never minted into s or an ancestor, or if the entity's generation has
// since advanced (destroy/realloc) or it is no longer allocated.
func (s *Scope) Deref(ref Ref) (id int32, ok bool) {
	if ref == 0 {
		return 0, false
	}
	for scope := s; scope != nil; scope = scope.parent {
		m, found := scope.minted[ref]
		if !found {
			continue
		}
		if !s.live.Live(m.id) || s.live.Generation(m.id) != m.gen {
			return 0, false
		}
		return m.id, true
	}
	return 0, false
}

// Clear revokes every ref minted directly into s (not its parent or
// children). Called at each turn boundary for the root scope, and on the
// same boundary for every mind's sub-scope.
func (s *Scope) Clear() {
	s.minted = make(map[Ref]mintedRef)
}
