package physics

import (
	"slices"
	"testing"
)

func box(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func TestSpatialIndex_InsertSearchRemove(t *testing.T) {
	s := NewSpatialIndex()
	s.Insert(3, box(0, 0, 10, 10))
	s.Insert(1, box(5, 5, 10, 10))
	s.Insert(2, box(100, 100, 10, 10))

	if got := s.Collect(box(0, 0, 20, 20), nil); !slices.Equal(got, []ID{1, 3}) {
		t.Errorf("Collect = %v, want [1 3]", got)
	}
	if got := s.Collect(box(10, 10, 0, 0), nil); !slices.Equal(got, []ID{1, 3}) {
		t.Errorf("Collect on a shared corner = %v, want [1 3]", got)
	}

	if !s.Remove(3) || s.Remove(3) {
		t.Error("Remove reported the wrong presence")
	}
	if got := s.Collect(box(0, 0, 20, 20), nil); !slices.Equal(got, []ID{1}) {
		t.Errorf("Collect after remove = %v, want [1]", got)
	}
	if s.Len() != 2 || s.Contains(3) || !s.Contains(2) {
		t.Errorf("Len = %d after remove", s.Len())
	}
}

func TestSpatialIndex_InsertReplacesAndUpdateMoves(t *testing.T) {
	s := NewSpatialIndex()
	s.Insert(1, box(0, 0, 10, 10))
	s.Insert(1, box(50, 50, 10, 10))
	if s.Len() != 1 {
		t.Fatalf("Len = %d after replacing insert", s.Len())
	}
	if got := s.Collect(box(0, 0, 20, 20), nil); len(got) != 0 {
		t.Errorf("old box still indexed: %v", got)
	}

	s.Update(1, box(200, 200, 10, 10))
	if b, _ := s.Box(1); b != box(200, 200, 10, 10) {
		t.Errorf("Box = %v after update", b)
	}
	if got := s.Collect(box(195, 195, 10, 10), nil); !slices.Equal(got, []ID{1}) {
		t.Errorf("Collect after update = %v", got)
	}

	s.Update(9, box(0, 0, 1, 1))
	if s.Contains(9) {
		t.Error("Update inserted an unknown ID")
	}
}

func TestSpatialIndex_SearchStopsEarly(t *testing.T) {
	s := NewSpatialIndex()
	for i := range 10 {
		s.Insert(ID(i+1), box(float64(i), 0, 10, 10))
	}
	seen := 0
	s.Search(box(0, 0, 100, 100), func(ID, Rect) bool {
		seen++
		return seen < 3
	})
	if seen != 3 {
		t.Errorf("visited %d entries, want 3", seen)
	}
}

func TestSpatialIndex_LoadAndClear(t *testing.T) {
	s := NewSpatialIndex()
	s.Insert(7, box(0, 0, 10, 10))
	s.Load([]IndexEntry{{ID: 1, Box: box(0, 0, 5, 5)}, {ID: 2, Box: box(20, 20, 5, 5)}})

	if s.Contains(7) || s.Len() != 2 {
		t.Errorf("Load kept old entries, Len = %d", s.Len())
	}
	var scanned []ID
	s.Scan(func(id ID, _ Rect) bool {
		scanned = append(scanned, id)
		return true
	})
	slices.Sort(scanned)
	if !slices.Equal(scanned, []ID{1, 2}) {
		t.Errorf("Scan = %v", scanned)
	}

	s.Clear()
	if s.Len() != 0 || len(s.Collect(box(-100, -100, 1000, 1000), nil)) != 0 {
		t.Error("Clear left entries behind")
	}
}
