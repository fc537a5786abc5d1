package entity

import "github.com/brentp/intintmap"

// SpatialIndex provides point and rectangle queries over live entity
// positions (§4.3). It is reconciled lazily: moves, allocations and
// destructions mark an entity dirty instead of touching the index
// immediately; the index is rebuilt for dirty entities on first query of
// the turn.
type SpatialIndex struct {
	store *Store

	// points maps a packed (x,y) coordinate to 1+the head entity id of a
	// singly linked chain of entity ids occupying that cell (threaded
	// through next); 0 means the cell has no chain. The +1 offset lets the
	// zero value double as "absent" without colliding with entity id 0
	// (Root).
	points *intintmap.Map
	next   map[ID]ID
	has    map[ID]bool // whether id is currently threaded into the index

	cellOf map[ID]Point // last-known cell id was indexed at, for removal

	dirty map[ID]struct{}
}

func newSpatialIndex(s *Store) *SpatialIndex {
	return &SpatialIndex{
		store:  s,
		points: intintmap.New(64, 0.6),
		next:   make(map[ID]ID),
		has:    make(map[ID]bool),
		cellOf: make(map[ID]Point),
		dirty:  make(map[ID]struct{}),
	}
}

func pack(p Point) int64 {
	return int64(uint32(uint16(p.X)))<<32 | int64(uint32(uint16(p.Y)))
}

// markDirty flags id for reconciliation on the next query.
func (idx *SpatialIndex) markDirty(id ID) {
	idx.dirty[id] = struct{}{}
}

func (idx *SpatialIndex) reconcile() {
	if len(idx.dirty) == 0 {
		return
	}
	for id := range idx.dirty {
		idx.removeFromChain(id)
		if idx.store.Live(id) {
			p := idx.store.Location(id)
			idx.insertIntoChain(id, p)
		}
	}
	idx.dirty = make(map[ID]struct{})
}

func (idx *SpatialIndex) head(key int64) (ID, bool) {
	v, ok := idx.points.Get(key)
	if !ok || v == 0 {
		return 0, false
	}
	return ID(int32(v - 1)), true
}

func (idx *SpatialIndex) setHead(key int64, id ID, present bool) {
	if !present {
		idx.points.Put(key, 0)
		return
	}
	idx.points.Put(key, int64(id)+1)
}

func (idx *SpatialIndex) removeFromChain(id ID) {
	if !idx.has[id] {
		return
	}
	old := idx.cellOf[id]
	key := pack(old)
	head, ok := idx.head(key)
	delete(idx.has, id)
	delete(idx.cellOf, id)
	if !ok {
		return
	}
	if head == id {
		if nxt, ok := idx.next[id]; ok {
			idx.setHead(key, nxt, true)
		} else {
			idx.setHead(key, 0, false)
		}
		delete(idx.next, id)
		return
	}
	prev := head
	for {
		nxt, ok := idx.next[prev]
		if !ok {
			return
		}
		if nxt == id {
			if after, ok := idx.next[id]; ok {
				idx.next[prev] = after
			} else {
				delete(idx.next, prev)
			}
			delete(idx.next, id)
			return
		}
		prev = nxt
	}
}

func (idx *SpatialIndex) insertIntoChain(id ID, p Point) {
	key := pack(p)
	if head, ok := idx.head(key); ok {
		idx.next[id] = head
	} else {
		delete(idx.next, id)
	}
	idx.setHead(key, id, true)
	idx.has[id] = true
	idx.cellOf[id] = p
}

// At returns the live entity ids currently located at p.
func (idx *SpatialIndex) At(p Point) []ID {
	idx.reconcile()
	head, ok := idx.head(pack(p))
	if !ok {
		return nil
	}
	var out []ID
	for cur := head; ; {
		out = append(out, cur)
		nxt, ok := idx.next[cur]
		if !ok {
			break
		}
		cur = nxt
	}
	return out
}

// Within returns the live entity ids currently located inside r, keyed by
// the cell they occupy.
func (idx *SpatialIndex) Within(r Rect) map[Point][]ID {
	idx.reconcile()
	out := make(map[Point][]ID)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p := Point{x, y}
			if ids := idx.At(p); len(ids) > 0 {
				out[p] = ids
			}
		}
	}
	return out
}
