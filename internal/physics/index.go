package physics

import (
	"slices"

	"github.com/tidwall/rtree"
)

// SpatialIndex is an R-tree over body bounding boxes used for broad-phase
// lookups. Entries are keyed by body ID; the box each ID was inserted with is
// remembered so callers can remove or move an entry without knowing its old
// bounds.
//
// The world keeps two of these: a static index mutated only when a static
// body changes, and a dynamic index rebuilt every step.
type SpatialIndex struct {
	tree  rtree.RTreeG[ID]
	boxes map[ID]Rect
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{boxes: make(map[ID]Rect)}
}

// Len returns the number of indexed entries.
func (s *SpatialIndex) Len() int {
	return len(s.boxes)
}

// Contains reports whether id is indexed.
func (s *SpatialIndex) Contains(id ID) bool {
	_, ok := s.boxes[id]
	return ok
}

// Box returns the box id was last indexed with.
func (s *SpatialIndex) Box(id ID) (Rect, bool) {
	r, ok := s.boxes[id]
	return r, ok
}

// Insert indexes id under box, replacing any previous entry for id.
func (s *SpatialIndex) Insert(id ID, box Rect) {
	if old, ok := s.boxes[id]; ok {
		s.tree.Delete(old.min(), old.max(), id)
	}
	s.tree.Insert(box.min(), box.max(), id)
	s.boxes[id] = box
}

// Update moves an existing entry to box. Unknown IDs are ignored.
func (s *SpatialIndex) Update(id ID, box Rect) {
	old, ok := s.boxes[id]
	if !ok || old == box {
		return
	}
	s.tree.Delete(old.min(), old.max(), id)
	s.tree.Insert(box.min(), box.max(), id)
	s.boxes[id] = box
}

// Remove drops id from the index and reports whether it was present.
func (s *SpatialIndex) Remove(id ID) bool {
	old, ok := s.boxes[id]
	if !ok {
		return false
	}
	s.tree.Delete(old.min(), old.max(), id)
	delete(s.boxes, id)
	return true
}

// Clear removes every entry.
func (s *SpatialIndex) Clear() {
	s.tree = rtree.RTreeG[ID]{}
	clear(s.boxes)
}

// Search calls fn for every entry whose box touches r (shared edges count).
// If fn returns false, iteration stops.
func (s *SpatialIndex) Search(r Rect, fn func(id ID, box Rect) bool) {
	s.tree.Search(r.min(), r.max(), func(_, _ [2]float64, id ID) bool {
		return fn(id, s.boxes[id])
	})
}

// Collect appends the IDs of all entries touching r to dst, sorted ascending.
func (s *SpatialIndex) Collect(r Rect, dst []ID) []ID {
	start := len(dst)
	s.tree.Search(r.min(), r.max(), func(_, _ [2]float64, id ID) bool {
		dst = append(dst, id)
		return true
	})
	slices.Sort(dst[start:])
	return dst
}

// Scan calls fn for every entry in unspecified order.
// If fn returns false, iteration stops.
func (s *SpatialIndex) Scan(fn func(id ID, box Rect) bool) {
	for id, box := range s.boxes {
		if !fn(id, box) {
			return
		}
	}
}

// IndexEntry is one box handed to Load.
type IndexEntry struct {
	ID  ID
	Box Rect
}

// Load replaces the whole contents of the index with entries.
func (s *SpatialIndex) Load(entries []IndexEntry) {
	s.Clear()
	for _, e := range entries {
		s.tree.Insert(e.Box.min(), e.Box.max(), e.ID)
		s.boxes[e.ID] = e.Box
	}
}
