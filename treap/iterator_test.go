package treap

import (
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestIteratorForward(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cantor.treap")
	defer teardown()
	//
	p := newIntSetProvider()
	s := NewSetOf(p)
	for i := 0; i < 100; i++ {
		s.Insert(i * 3)
	}
	it := s.Begin()
	for i := 0; i < 100; i++ {
		if !it.Valid() {
			t.Fatalf("expected iterator to be valid at position %d, isn't", i)
		}
		if got := it.Value(); got != i*3 {
			t.Fatalf("expected %d at position %d, got %d", i*3, i, got)
		}
		it.Next()
	}
	if it.Valid() {
		t.Error("expected iterator to be exhausted, isn't")
	}
	if it.Pos() != s.Len() {
		t.Errorf("expected end position %d, have %d", s.Len(), it.Pos())
	}
}

func TestIteratorBackward(t *testing.T) {
	p := newIntSetProvider()
	s := NewSetOf(p)
	for i := 0; i < 100; i++ {
		s.Insert(i)
	}
	it := s.End()
	for i := 99; i >= 0; i-- {
		it.Prev()
		if got := it.Value(); got != i {
			t.Fatalf("expected %d while walking backwards, got %d", i, got)
		}
	}
	if it.Pos() != 0 {
		t.Errorf("expected to land on position 0, landed on %d", it.Pos())
	}
}

func TestIteratorDirectionChange(t *testing.T) {
	p := newIntSetProvider()
	s := NewSetOf(p, 1, 2, 3, 4, 5, 6, 7, 8)
	it := s.Find(4)
	it.Next()
	if it.Value() != 5 {
		t.Errorf("expected 5 after stepping forward, have %v", it.Value())
	}
	it.Prev()
	it.Prev()
	if it.Value() != 3 {
		t.Errorf("expected 3 after turning around, have %v", it.Value())
	}
	it.Next()
	if it.Value() != 4 {
		t.Errorf("expected 4 after turning again, have %v", it.Value())
	}
}

func TestIteratorJumps(t *testing.T) {
	p := newIntSetProvider()
	s := NewSetOf(p)
	for i := 0; i < 64; i++ {
		s.Insert(i)
	}
	it := s.Begin().Add(10)
	if it.Value() != 10 {
		t.Errorf("expected value 10 after jumping, have %v", it.Value())
	}
	it = it.Add(33)
	if it.Value() != 43 {
		t.Errorf("expected value 43 after jumping, have %v", it.Value())
	}
	it = it.Sub(43)
	if it.Value() != 0 {
		t.Errorf("expected value 0 after jumping back, have %v", it.Value())
	}
	it.Seek(63)
	if it.Value() != 63 {
		t.Errorf("expected value 63 after seeking, have %v", it.Value())
	}
}

func TestIteratorSeqs(t *testing.T) {
	p := newIntSetProvider()
	s := NewSetOf(p, 5, 1, 4, 2, 3)
	if got := slices.Collect(s.All()); !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("expected ascending traversal, got %v", got)
	}
	if got := slices.Collect(s.Backward()); !slices.Equal(got, []int{5, 4, 3, 2, 1}) {
		t.Errorf("expected descending traversal, got %v", got)
	}
	for v := range s.All() {
		if v == 3 {
			break // early exit must not panic
		}
	}
}

func TestMapIteratorTraversal(t *testing.T) {
	mp := newStringMapProvider()
	m := NewMapOf(mp, E("c", "3"), E("a", "1"), E("b", "2"))
	var keys []string
	var vals []string
	for k, v := range m.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Errorf("expected keys in order, got %v", keys)
	}
	if !slices.Equal(vals, []string{"1", "2", "3"}) {
		t.Errorf("expected values in key order, got %v", vals)
	}
	if got := slices.Collect(m.Keys()); !slices.Equal(got, keys) {
		t.Errorf("expected Keys to match All, got %v", got)
	}
	it := m.Begin()
	it.Next()
	if it.Key() != "b" || it.Value() != "2" {
		t.Errorf("expected entry b:2 at position 1, have %s:%s", it.Key(), it.Value())
	}
	it.Prev()
	if it.Key() != "a" {
		t.Errorf("expected entry a at position 0, have %s", it.Key())
	}
}
