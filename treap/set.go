package treap

import (
	"cmp"
	"fmt"
	"iter"
	"strings"
)

// A Set is a handle to a sorted set of elements. The handle owns one
// reference to its canonical root node; cloning a set and comparing two
// sets for equal content are constant-time. A handle is not safe for
// concurrent mutation, but distinct handles on a shared provider may be
// used from multiple goroutines.
//
// Mutating operations release superseded roots back to the provider.
// Call Clear on a handle you are done with, or the nodes it pins stay
// interned.
type Set[T any] struct {
	prov *SetProvider[T]
	root *setNode[T]
}

// NewSet creates a set of an ordered element type on the process-wide
// default provider.
func NewSet[T cmp.Ordered](values ...T) *Set[T] {
	return NewSetOf(DefaultSetProvider[T](), values...)
}

// NewSetOf creates a set on the given provider.
func NewSetOf[T any](p *SetProvider[T], values ...T) *Set[T] {
	assertThat(p != nil, "set needs a provider")
	s := &Set[T]{prov: p}
	if len(values) > 0 {
		s.InsertValues(values...)
	}
	return s
}

// NewSetOfSeq creates a set on the given provider from a sequence.
func NewSetOfSeq[T any](p *SetProvider[T], seq iter.Seq[T]) *Set[T] {
	s := NewSetOf(p)
	s.InsertSeq(seq)
	return s
}

// NewSetFromRange creates a set holding the iterator range
// [first, last) of an existing set, on that set's provider.
func NewSetFromRange[T any](first, last *SetIterator[T]) *Set[T] {
	assertThat(first.set == last.set, "range iterators must address one set")
	src := first.set
	assertThat(0 <= first.Pos() && first.Pos() <= last.Pos() && last.Pos() <= src.Len(),
		"invalid iterator range [%d, %d)", first.Pos(), last.Pos())
	s := src.Clone()
	s.retainAt(first.Pos(), last.Pos())
	return s
}

// Provider returns the provider this set interns its nodes in.
func (s *Set[T]) Provider() *SetProvider[T] { return s.prov }

// Clone returns a new handle to the same content. O(1).
func (s *Set[T]) Clone() *Set[T] {
	return &Set[T]{prov: s.prov, root: s.root.ref()}
}

// Len returns the number of elements. O(1).
func (s *Set[T]) Len() int { return s.root.count() }

// Empty reports whether the set holds no elements.
func (s *Set[T]) Empty() bool { return s.root == nil }

// Hash returns the set's structural hash: the root's cached hash, or 0
// for an empty set. Sets with equal content hash equally. O(1).
func (s *Set[T]) Hash() uint64 { return s.root.hashval() }

// Equal reports whether both sets hold the same elements. Thanks to
// interning this is root pointer identity. O(1).
func (s *Set[T]) Equal(other *Set[T]) bool {
	s.check(other)
	return s.root == other.root
}

// replaceRoot installs an owned root and releases the superseded one.
func (s *Set[T]) replaceRoot(n *setNode[T]) {
	old := s.root
	s.root = n
	s.prov.release(old)
}

// addOwned unions an owned subtree into the set and consumes it.
func (s *Set[T]) addOwned(q *setNode[T]) int {
	before := s.root.count()
	u := setUnion(s.prov, s.root, q)
	s.prov.release(q)
	s.replaceRoot(u)
	return s.root.count() - before
}

// Insert adds an element and returns 1 if it was not contained before,
// 0 otherwise.
func (s *Set[T]) Insert(value T) int {
	return s.addOwned(makeSetLeaf(s.prov, value))
}

// InsertValues adds the given elements and returns the number of
// elements not contained before.
func (s *Set[T]) InsertValues(values ...T) int {
	return s.addOwned(buildSetNodes(s.prov, sliceSource(values)))
}

// InsertSeq drains a sequence into the set and returns the number of
// elements not contained before.
func (s *Set[T]) InsertSeq(seq iter.Seq[T]) int {
	next, stop := iter.Pull(seq)
	defer stop()
	return s.addOwned(buildSetNodes(s.prov, next))
}

// InsertSet adds the elements of another set and returns the number of
// elements not contained before. Both sets must share a provider.
func (s *Set[T]) InsertSet(other *Set[T]) int {
	s.check(other)
	return s.addOwned(other.root.ref())
}

// Erase removes an element and returns 1 if it was contained, 0
// otherwise.
func (s *Set[T]) Erase(key T) int {
	before := s.root.count()
	n, _ := eraseSetNode(s.prov, s.root, key)
	s.replaceRoot(n)
	return before - s.root.count()
}

// EraseSet removes the elements of another set and returns the number
// of elements removed. Both sets must share a provider.
func (s *Set[T]) EraseSet(other *Set[T]) int {
	s.check(other)
	before := s.root.count()
	s.replaceRoot(setDifference(s.prov, s.root, other.root))
	return before - s.root.count()
}

// RetainSet keeps only the elements also contained in another set and
// returns the number of elements removed. Both sets must share a
// provider.
func (s *Set[T]) RetainSet(other *Set[T]) int {
	s.check(other)
	before := s.root.count()
	s.replaceRoot(setIntersection(s.prov, s.root, other.root))
	return before - s.root.count()
}

// ToggleSet replaces the content with the symmetric difference against
// another set. Both sets must share a provider.
func (s *Set[T]) ToggleSet(other *Set[T]) {
	s.check(other)
	s.replaceRoot(setSymmetric(s.prov, s.root, other.root))
}

// EraseRange removes the elements in the iterator range [first, last)
// and returns the number of elements removed.
func (s *Set[T]) EraseRange(first, last *SetIterator[T]) int {
	s.checkRange(first, last)
	tracer().Debugf("erase range [%d, %d) of %d element(s)", first.Pos(), last.Pos(), s.Len())
	return s.eraseAt(first.Pos(), last.Pos())
}

// RetainRange keeps only the elements in the iterator range
// [first, last) and returns the number of elements removed.
func (s *Set[T]) RetainRange(first, last *SetIterator[T]) int {
	s.checkRange(first, last)
	return s.retainAt(first.Pos(), last.Pos())
}

func (s *Set[T]) eraseAt(first, last int) int {
	before := s.root.count()
	h := headSetNode(s.prov, s.root, first)
	t := tailSetNode(s.prov, s.root, last)
	s.replaceRoot(joinSetOwned(s.prov, h, t))
	return before - s.root.count()
}

func (s *Set[T]) retainAt(first, last int) int {
	before := s.root.count()
	h := headSetNode(s.prov, s.root, last)
	t := tailSetNode(s.prov, h, first)
	s.prov.release(h)
	s.replaceRoot(t)
	return before - s.root.count()
}

// Clear removes all elements. O(1) plus deferred node destruction,
// whose cost is covered by the cost of having created the nodes.
func (s *Set[T]) Clear() {
	s.replaceRoot(nil)
}

// Assign replaces the content (and provider) with those of another
// set. O(1).
func (s *Set[T]) Assign(other *Set[T]) {
	r := other.root.ref()
	prov := other.prov
	s.Clear()
	s.prov = prov
	s.root = r
}

// AssignValues replaces the content with the given elements.
func (s *Set[T]) AssignValues(values ...T) {
	s.replaceRoot(buildSetNodes(s.prov, sliceSource(values)))
}

// Swap exchanges content and provider with another set. O(1).
func (s *Set[T]) Swap(other *Set[T]) {
	s.prov, other.prov = other.prov, s.prov
	s.root, other.root = other.root, s.root
}

// Union returns a new set holding all elements of both sets. Both sets
// must share a provider, which the result inherits.
func (s *Set[T]) Union(other *Set[T]) *Set[T] {
	s.check(other)
	return &Set[T]{prov: s.prov, root: setUnion(s.prov, s.root, other.root)}
}

// Intersection returns a new set holding the elements contained in
// both sets.
func (s *Set[T]) Intersection(other *Set[T]) *Set[T] {
	s.check(other)
	return &Set[T]{prov: s.prov, root: setIntersection(s.prov, s.root, other.root)}
}

// Difference returns a new set holding the elements of s not contained
// in other.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	s.check(other)
	return &Set[T]{prov: s.prov, root: setDifference(s.prov, s.root, other.root)}
}

// SymmetricDifference returns a new set holding the elements contained
// in exactly one of the two sets.
func (s *Set[T]) SymmetricDifference(other *Set[T]) *Set[T] {
	s.check(other)
	return &Set[T]{prov: s.prov, root: setSymmetric(s.prov, s.root, other.root)}
}

// Includes reports whether s contains every element of other. Returns
// immediately when other is larger.
func (s *Set[T]) Includes(other *Set[T]) bool {
	s.check(other)
	return setIncludes(s.prov, s.root, other.root)
}

// Contains reports whether key is an element of the set.
func (s *Set[T]) Contains(key T) bool { return s.Count(key) > 0 }

// Count returns 1 if key is an element of the set, 0 otherwise.
func (s *Set[T]) Count(key T) int {
	n, _ := lowerBoundNode(s.root, func(n *setNode[T]) bool { return s.prov.less(n.value, key) })
	if n != nil && s.prov.eq(n.value, key) {
		return 1
	}
	return 0
}

// AtIndex returns the element at in-order position k, 0 <= k < Len().
// O(log n).
func (s *Set[T]) AtIndex(k int) T {
	assertThat(k >= 0 && k < s.Len(), "index %d out of range", k)
	return atIndexNode(s.root, k).value
}

// Find returns an iterator at key, or End if absent.
func (s *Set[T]) Find(key T) *SetIterator[T] {
	n, pos := lowerBoundNode(s.root, func(n *setNode[T]) bool { return s.prov.less(n.value, key) })
	if n == nil || !s.prov.eq(n.value, key) {
		return s.End()
	}
	it := s.iterAt(pos)
	it.cur.node = n
	return it
}

// LowerBound returns an iterator at the first element not less than
// key.
func (s *Set[T]) LowerBound(key T) *SetIterator[T] {
	n, pos := lowerBoundNode(s.root, func(n *setNode[T]) bool { return s.prov.less(n.value, key) })
	it := s.iterAt(pos)
	it.cur.node = n
	return it
}

// UpperBound returns an iterator at the first element greater than key.
func (s *Set[T]) UpperBound(key T) *SetIterator[T] {
	n, pos := lowerBoundNode(s.root, func(n *setNode[T]) bool { return !s.prov.less(key, n.value) })
	it := s.iterAt(pos)
	it.cur.node = n
	return it
}

// EqualRange returns the iterator range of elements matching key, i.e.
// (LowerBound(key), UpperBound(key)).
func (s *Set[T]) EqualRange(key T) (*SetIterator[T], *SetIterator[T]) {
	return s.LowerBound(key), s.UpperBound(key)
}

// Begin returns an iterator at the first element.
func (s *Set[T]) Begin() *SetIterator[T] { return s.iterAt(0) }

// End returns the end sentinel iterator.
func (s *Set[T]) End() *SetIterator[T] { return s.iterAt(s.Len()) }

func (s *Set[T]) iterAt(pos int) *SetIterator[T] {
	assertThat(pos >= 0 && pos <= s.Len(), "iterator position %d out of range", pos)
	return &SetIterator[T]{set: s, cur: cursor[*setNode[T]]{pos: pos}}
}

func (s *Set[T]) check(other *Set[T]) {
	assertThat(s.prov == other.prov, "binary set operation across providers")
}

func (s *Set[T]) checkRange(first, last *SetIterator[T]) {
	assertThat(first.set == s && last.set == s, "iterator range does not belong to this set")
	assertThat(0 <= first.Pos() && first.Pos() <= last.Pos() && last.Pos() <= s.Len(),
		"invalid iterator range [%d, %d)", first.Pos(), last.Pos())
}

// All returns the elements in ascending order.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		walkSetNodes(s.root, yield)
	}
}

// Backward returns the elements in descending order.
func (s *Set[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		walkSetNodesBack(s.root, yield)
	}
}

func walkSetNodes[T any](n *setNode[T], yield func(T) bool) bool {
	if n == nil {
		return true
	}
	return walkSetNodes(n.left, yield) && yield(n.value) && walkSetNodes(n.right, yield)
}

func walkSetNodesBack[T any](n *setNode[T], yield func(T) bool) bool {
	if n == nil {
		return true
	}
	return walkSetNodesBack(n.right, yield) && yield(n.value) && walkSetNodesBack(n.left, yield)
}

func (s *Set[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for v := range s.All() {
		if !first {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v", v)
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}

// SwapSets exchanges the content of two set handles; it mirrors the
// Swap method.
func SwapSets[T any](a, b *Set[T]) { a.Swap(b) }

// SetHash returns a's structural hash; it mirrors the Hash method.
func SetHash[T any](a *Set[T]) uint64 { return a.Hash() }
