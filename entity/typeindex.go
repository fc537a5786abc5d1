package entity

import "github.com/cespare/xxhash/v2"

// TypeIndex materializes, for each distinct filter bitset ever requested,
// the set of entity ids whose type ANDs non-zero with that filter (§4.2).
// Filter bitsets are hashed with xxhash so that repeated registrations of
// the same filter value share one materialized set regardless of the byte
// representation used to request it.
type TypeIndex struct {
	store *Store
	sets  map[uint64]*filterSet
}

type filterSet struct {
	filter Type
	ids    []ID
	pos    map[ID]int // index into ids, for O(1) removal
}

func newTypeIndex(s *Store) *TypeIndex {
	return &TypeIndex{store: s, sets: make(map[uint64]*filterSet)}
}

func filterKey(filter Type) uint64 {
	var b [1]byte
	b[0] = byte(filter)
	return xxhash.Sum64(b[:])
}

// Register ensures filter has a materialized set, backfilling it from the
// current contents of the store. Subsequent calls with the same filter
// return the same set without rescanning.
func (t *TypeIndex) Register(filter Type) *filterSet {
	key := filterKey(filter)
	if fs, ok := t.sets[key]; ok {
		return fs
	}
	fs := &filterSet{filter: filter, pos: make(map[ID]int)}
	for i := 0; i < t.store.Capacity(); i++ {
		id := ID(i)
		if t.store.Live(id) && t.store.types[i].Any(filter) {
			fs.pos[id] = len(fs.ids)
			fs.ids = append(fs.ids, id)
		}
	}
	t.sets[key] = fs
	return fs
}

// Ids returns a stable-order snapshot of entity ids currently matching
// filter. The filter is registered on first use.
func (t *TypeIndex) Ids(filter Type) []ID {
	fs := t.Register(filter)
	out := make([]ID, len(fs.ids))
	copy(out, fs.ids)
	return out
}

// updateType is called by Store whenever an entity's type bitset changes,
// propagating the was/is transition into every materialized filter set.
func (t *TypeIndex) updateType(id ID, old, next Type) {
	for _, fs := range t.sets {
		was := old.Any(fs.filter)
		is := next.Any(fs.filter)
		if was && !is {
			fs.remove(id)
		} else if !was && is {
			fs.add(id)
		}
	}
}

func (fs *filterSet) add(id ID) {
	if _, ok := fs.pos[id]; ok {
		return
	}
	fs.pos[id] = len(fs.ids)
	fs.ids = append(fs.ids, id)
}

func (fs *filterSet) remove(id ID) {
	i, ok := fs.pos[id]
	if !ok {
		return
	}
	last := len(fs.ids) - 1
	moved := fs.ids[last]
	fs.ids[i] = moved
	fs.ids = fs.ids[:last]
	fs.pos[moved] = i
	delete(fs.pos, id)
}
