package treap

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrKeyNotFound is returned by Map.At for absent keys.
var ErrKeyNotFound = errors.New("treap: key not found")

// An Entry is a key/value pair, used by the variadic map constructors
// and insert operations.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// E is a convenience constructor for an Entry.
func E[K, V any](key K, val V) Entry[K, V] {
	return Entry[K, V]{Key: key, Value: val}
}

// A Map is a handle to a sorted map from keys to values. Like a Set it
// is a single reference to a canonical root node: cloning and content
// equality are constant-time. Its key set is available as a Set sharing
// the same key nodes, and maps can be merged against such sets at the
// same cost as against maps.
//
// A handle is not safe for concurrent mutation; distinct handles on a
// shared provider may be used from multiple goroutines.
type Map[K, V any] struct {
	prov *MapProvider[K, V]
	root *mapNode[K, V]
}

// NewMap creates a map of ordered keys and comparable values on the
// process-wide default provider.
func NewMap[K cmp.Ordered, V comparable](entries ...Entry[K, V]) *Map[K, V] {
	return NewMapOf(DefaultMapProvider[K, V](), entries...)
}

// NewMapOf creates a map on the given provider.
func NewMapOf[K, V any](mp *MapProvider[K, V], entries ...Entry[K, V]) *Map[K, V] {
	assertThat(mp != nil, "map needs a provider")
	m := &Map[K, V]{prov: mp}
	if len(entries) > 0 {
		m.InsertEntries(entries...)
	}
	return m
}

// NewMapOfSeq creates a map on the given provider from a sequence of
// key/value pairs.
func NewMapOfSeq[K, V any](mp *MapProvider[K, V], seq iter.Seq2[K, V]) *Map[K, V] {
	m := NewMapOf(mp)
	m.InsertSeq(seq)
	return m
}

// NewMapFromRange creates a map holding the iterator range
// [first, last) of an existing map, on that map's provider.
func NewMapFromRange[K, V any](first, last *MapIterator[K, V]) *Map[K, V] {
	assertThat(first.m == last.m, "range iterators must address one map")
	src := first.m
	assertThat(0 <= first.Pos() && first.Pos() <= last.Pos() && last.Pos() <= src.Len(),
		"invalid iterator range [%d, %d)", first.Pos(), last.Pos())
	m := src.Clone()
	m.retainAt(first.Pos(), last.Pos())
	return m
}

// Provider returns the provider this map interns its nodes in.
func (m *Map[K, V]) Provider() *MapProvider[K, V] { return m.prov }

// Clone returns a new handle to the same content. O(1).
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{prov: m.prov, root: m.root.ref()}
}

// Len returns the number of entries. O(1).
func (m *Map[K, V]) Len() int { return m.root.count() }

// Empty reports whether the map holds no entries.
func (m *Map[K, V]) Empty() bool { return m.root == nil }

// Hash returns the map's structural hash, or 0 for an empty map. O(1).
func (m *Map[K, V]) Hash() uint64 { return m.root.hashval() }

// Equal reports whether both maps hold the same entries, by root
// pointer identity. O(1).
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	m.check(other)
	return m.root == other.root
}

// KeySet returns the set of keys. The set shares the map's key nodes
// and lives in the linked set provider. O(1).
func (m *Map[K, V]) KeySet() *Set[K] {
	return &Set[K]{prov: m.prov.set, root: keyNodeOf(m.root).ref()}
}

func (m *Map[K, V]) replaceRoot(n *mapNode[K, V]) {
	old := m.root
	m.root = n
	m.prov.release(old)
}

// addOwned unions an owned subtree into the map, existing entries
// winning, and consumes it.
func (m *Map[K, V]) addOwned(q *mapNode[K, V]) int {
	before := m.root.count()
	u := mapUnion(m.prov, m.root, q)
	m.prov.release(q)
	m.replaceRoot(u)
	return m.root.count() - before
}

// assignOwned unions an owned subtree into the map with the new entries
// winning, and consumes it. Reports whether the root changed.
func (m *Map[K, V]) assignOwned(q *mapNode[K, V]) bool {
	u := mapUnion(m.prov, q, m.root)
	m.prov.release(q)
	changed := u != m.root
	m.replaceRoot(u)
	return changed
}

// Insert adds an entry if its key is not present and returns 1 if the
// map grew, 0 otherwise. An existing entry for the key is left alone.
func (m *Map[K, V]) Insert(key K, val V) int {
	return m.addOwned(makeMapLeaf(m.prov, key, val))
}

// InsertEntries adds the given entries, skipping keys already present,
// and returns the number of entries added.
func (m *Map[K, V]) InsertEntries(entries ...Entry[K, V]) int {
	return m.addOwned(buildMapNodes(m.prov, entrySource(entries)))
}

// InsertSeq drains a sequence of pairs into the map, skipping keys
// already present, and returns the number of entries added.
func (m *Map[K, V]) InsertSeq(seq iter.Seq2[K, V]) int {
	next, stop := iter.Pull2(seq)
	defer stop()
	return m.addOwned(buildMapNodes(m.prov, next))
}

// InsertMap adds the entries of another map, skipping keys already
// present, and returns the number of entries added. Both maps must
// share a provider.
func (m *Map[K, V]) InsertMap(other *Map[K, V]) int {
	m.check(other)
	return m.addOwned(other.root.ref())
}

// InsertOrAssign adds an entry, replacing any entry with an equal key,
// and reports whether the map changed.
func (m *Map[K, V]) InsertOrAssign(key K, val V) bool {
	return m.assignOwned(makeMapLeaf(m.prov, key, val))
}

// InsertOrAssignEntries adds the given entries, replacing entries with
// equal keys, and reports whether the map changed.
func (m *Map[K, V]) InsertOrAssignEntries(entries ...Entry[K, V]) bool {
	return m.assignOwned(buildMapNodes(m.prov, entrySource(entries)))
}

// InsertOrAssignMap adds the entries of another map, replacing entries
// with equal keys, and reports whether the map changed. Both maps must
// share a provider.
func (m *Map[K, V]) InsertOrAssignMap(other *Map[K, V]) bool {
	m.check(other)
	return m.assignOwned(other.root.ref())
}

// Erase removes the entry for key and returns 1 if one was contained,
// 0 otherwise.
func (m *Map[K, V]) Erase(key K) int {
	before := m.root.count()
	n, _ := eraseMapNode(m.prov, m.root, key, func(n *mapNode[K, V]) bool {
		return m.prov.set.eq(n.key, key)
	})
	m.replaceRoot(n)
	return before - m.root.count()
}

// EraseEntry removes the entry matching both key and value and returns
// the number of entries removed.
func (m *Map[K, V]) EraseEntry(key K, val V) int {
	before := m.root.count()
	n, _ := eraseMapNode(m.prov, m.root, key, func(n *mapNode[K, V]) bool {
		return m.prov.set.eq(n.key, key) && m.prov.mappedEq(n.val, val)
	})
	m.replaceRoot(n)
	return before - m.root.count()
}

// EraseMap removes the entries of another map (matching key and value)
// and returns the number of entries removed. Both maps must share a
// provider.
func (m *Map[K, V]) EraseMap(other *Map[K, V]) int {
	m.check(other)
	before := m.root.count()
	m.replaceRoot(mapDifference(m.prov, m.root, other.root))
	return before - m.root.count()
}

// EraseKeys removes the entries whose keys are in the given set and
// returns the number of entries removed. The set must use the map
// provider's linked set provider.
func (m *Map[K, V]) EraseKeys(keys *Set[K]) int {
	m.checkKeys(keys)
	before := m.root.count()
	m.replaceRoot(mapDifferenceKeys(m.prov, m.root, keys.root))
	return before - m.root.count()
}

// RetainMap keeps only the entries also contained in another map
// (matching key and value) and returns the number of entries removed.
func (m *Map[K, V]) RetainMap(other *Map[K, V]) int {
	m.check(other)
	before := m.root.count()
	m.replaceRoot(mapIntersection(m.prov, m.root, other.root))
	return before - m.root.count()
}

// RetainKeys keeps only the entries whose keys are in the given set and
// returns the number of entries removed. The set must use the map
// provider's linked set provider.
func (m *Map[K, V]) RetainKeys(keys *Set[K]) int {
	m.checkKeys(keys)
	tracer().Debugf("retain %d key(s) in map of %d entries", keys.Len(), m.Len())
	before := m.root.count()
	m.replaceRoot(mapIntersectKeys(m.prov, m.root, keys.root))
	return before - m.root.count()
}

// EraseRange removes the entries in the iterator range [first, last)
// and returns the number of entries removed.
func (m *Map[K, V]) EraseRange(first, last *MapIterator[K, V]) int {
	m.checkRange(first, last)
	return m.eraseAt(first.Pos(), last.Pos())
}

// RetainRange keeps only the entries in the iterator range
// [first, last) and returns the number of entries removed.
func (m *Map[K, V]) RetainRange(first, last *MapIterator[K, V]) int {
	m.checkRange(first, last)
	return m.retainAt(first.Pos(), last.Pos())
}

func (m *Map[K, V]) eraseAt(first, last int) int {
	before := m.root.count()
	h := headMapNode(m.prov, m.root, first)
	t := tailMapNode(m.prov, m.root, last)
	m.replaceRoot(joinMapOwned(m.prov, h, t))
	return before - m.root.count()
}

func (m *Map[K, V]) retainAt(first, last int) int {
	before := m.root.count()
	h := headMapNode(m.prov, m.root, last)
	t := tailMapNode(m.prov, h, first)
	m.prov.release(h)
	m.replaceRoot(t)
	return before - m.root.count()
}

// Clear removes all entries. O(1) plus deferred node destruction.
func (m *Map[K, V]) Clear() {
	m.replaceRoot(nil)
}

// Assign replaces the content (and provider) with those of another
// map. O(1).
func (m *Map[K, V]) Assign(other *Map[K, V]) {
	r := other.root.ref()
	prov := other.prov
	m.Clear()
	m.prov = prov
	m.root = r
}

// AssignEntries replaces the content with the given entries.
func (m *Map[K, V]) AssignEntries(entries ...Entry[K, V]) {
	m.replaceRoot(buildMapNodes(m.prov, entrySource(entries)))
}

// Swap exchanges content and provider with another map. O(1).
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.prov, other.prov = other.prov, m.prov
	m.root, other.root = other.root, m.root
}

// Union returns a new map holding the entries of both maps; on key
// collisions the receiver's entry wins. Both maps must share a
// provider, which the result inherits.
func (m *Map[K, V]) Union(other *Map[K, V]) *Map[K, V] {
	m.check(other)
	return &Map[K, V]{prov: m.prov, root: mapUnion(m.prov, m.root, other.root)}
}

// Intersection returns a new map holding the entries contained in both
// maps with equal mapped values.
func (m *Map[K, V]) Intersection(other *Map[K, V]) *Map[K, V] {
	m.check(other)
	return &Map[K, V]{prov: m.prov, root: mapIntersection(m.prov, m.root, other.root)}
}

// Difference returns a new map holding the entries of m not contained
// in other with an equal mapped value.
func (m *Map[K, V]) Difference(other *Map[K, V]) *Map[K, V] {
	m.check(other)
	return &Map[K, V]{prov: m.prov, root: mapDifference(m.prov, m.root, other.root)}
}

// SelectKeys returns a new map holding the entries whose keys are in
// the given set. The set must use the map provider's linked set
// provider.
func (m *Map[K, V]) SelectKeys(keys *Set[K]) *Map[K, V] {
	m.checkKeys(keys)
	return &Map[K, V]{prov: m.prov, root: mapIntersectKeys(m.prov, m.root, keys.root)}
}

// RejectKeys returns a new map holding the entries whose keys are not
// in the given set. The set must use the map provider's linked set
// provider.
func (m *Map[K, V]) RejectKeys(keys *Set[K]) *Map[K, V] {
	m.checkKeys(keys)
	return &Map[K, V]{prov: m.prov, root: mapDifferenceKeys(m.prov, m.root, keys.root)}
}

// Includes reports whether m contains every entry of other with an
// equal mapped value. Returns immediately when other is larger.
func (m *Map[K, V]) Includes(other *Map[K, V]) bool {
	m.check(other)
	return mapIncludes(m.prov, m.root, other.root)
}

// At returns the value mapped to key, or ErrKeyNotFound.
func (m *Map[K, V]) At(key K) (V, error) {
	if n := m.lookup(key); n != nil {
		return n.val, nil
	}
	var none V
	return none, ErrKeyNotFound
}

// Get returns the value mapped to key and reports whether the key is
// present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if n := m.lookup(key); n != nil {
		return n.val, true
	}
	var none V
	return none, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool { return m.Count(key) > 0 }

// Count returns 1 if key is present, 0 otherwise.
func (m *Map[K, V]) Count(key K) int {
	n, _ := lowerBoundNode(keyNodeOf(m.root), func(n *setNode[K]) bool {
		return m.prov.set.less(n.value, key)
	})
	if n != nil && m.prov.set.eq(n.value, key) {
		return 1
	}
	return 0
}

// CountEntry returns 1 if the map holds exactly the given entry, 0
// otherwise.
func (m *Map[K, V]) CountEntry(key K, val V) int {
	if n := m.lookup(key); n != nil && m.prov.mappedEq(n.val, val) {
		return 1
	}
	return 0
}

func (m *Map[K, V]) lookup(key K) *mapNode[K, V] {
	n, _ := lowerBoundNode(m.root, func(n *mapNode[K, V]) bool {
		return m.prov.set.less(n.key, key)
	})
	if n != nil && m.prov.set.eq(n.key, key) {
		return n
	}
	return nil
}

// AtIndex returns the entry at in-order position k, 0 <= k < Len().
// O(log n).
func (m *Map[K, V]) AtIndex(k int) (K, V) {
	assertThat(k >= 0 && k < m.Len(), "index %d out of range", k)
	n := atIndexNode(m.root, k)
	return n.key, n.val
}

// Find returns an iterator at the entry for key, or End if absent.
func (m *Map[K, V]) Find(key K) *MapIterator[K, V] {
	n, pos := lowerBoundNode(m.root, func(n *mapNode[K, V]) bool {
		return m.prov.set.less(n.key, key)
	})
	if n == nil || !m.prov.set.eq(n.key, key) {
		return m.End()
	}
	it := m.iterAt(pos)
	it.cur.node = n
	return it
}

// LowerBound returns an iterator at the first entry whose key is not
// less than key.
func (m *Map[K, V]) LowerBound(key K) *MapIterator[K, V] {
	n, pos := lowerBoundNode(m.root, func(n *mapNode[K, V]) bool {
		return m.prov.set.less(n.key, key)
	})
	it := m.iterAt(pos)
	it.cur.node = n
	return it
}

// UpperBound returns an iterator at the first entry whose key is
// greater than key.
func (m *Map[K, V]) UpperBound(key K) *MapIterator[K, V] {
	n, pos := lowerBoundNode(m.root, func(n *mapNode[K, V]) bool {
		return !m.prov.set.less(key, n.key)
	})
	it := m.iterAt(pos)
	it.cur.node = n
	return it
}

// EqualRange returns the iterator range of entries matching key.
func (m *Map[K, V]) EqualRange(key K) (*MapIterator[K, V], *MapIterator[K, V]) {
	return m.LowerBound(key), m.UpperBound(key)
}

// Begin returns an iterator at the first entry.
func (m *Map[K, V]) Begin() *MapIterator[K, V] { return m.iterAt(0) }

// End returns the end sentinel iterator.
func (m *Map[K, V]) End() *MapIterator[K, V] { return m.iterAt(m.Len()) }

func (m *Map[K, V]) iterAt(pos int) *MapIterator[K, V] {
	assertThat(pos >= 0 && pos <= m.Len(), "iterator position %d out of range", pos)
	return &MapIterator[K, V]{m: m, cur: cursor[*mapNode[K, V]]{pos: pos}}
}

func (m *Map[K, V]) check(other *Map[K, V]) {
	assertThat(m.prov == other.prov, "binary map operation across providers")
}

func (m *Map[K, V]) checkKeys(keys *Set[K]) {
	assertThat(m.prov.set == keys.prov, "key set does not use the map's linked set provider")
}

func (m *Map[K, V]) checkRange(first, last *MapIterator[K, V]) {
	assertThat(first.m == m && last.m == m, "iterator range does not belong to this map")
	assertThat(0 <= first.Pos() && first.Pos() <= last.Pos() && last.Pos() <= m.Len(),
		"invalid iterator range [%d, %d)", first.Pos(), last.Pos())
}

// All returns the entries in ascending key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walkMapNodes(m.root, yield)
	}
}

// Backward returns the entries in descending key order.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walkMapNodesBack(m.root, yield)
	}
}

// Keys returns the keys in ascending order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		walkMapNodes(m.root, func(k K, _ V) bool { return yield(k) })
	}
}

// Values returns the mapped values in ascending key order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		walkMapNodes(m.root, func(_ K, v V) bool { return yield(v) })
	}
}

func walkMapNodes[K, V any](n *mapNode[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	return walkMapNodes(n.left, yield) && yield(n.key, n.val) && walkMapNodes(n.right, yield)
}

func walkMapNodesBack[K, V any](n *mapNode[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	return walkMapNodesBack(n.right, yield) && yield(n.key, n.val) && walkMapNodesBack(n.left, yield)
}

func (m *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", k, v)
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}

// entrySource adapts an entry slice to the pull interface of the
// builders.
func entrySource[K, V any](entries []Entry[K, V]) func() (K, V, bool) {
	i := 0
	return func() (K, V, bool) {
		if i >= len(entries) {
			var nk K
			var nv V
			return nk, nv, false
		}
		e := entries[i]
		i++
		return e.Key, e.Value, true
	}
}

// SwapMaps exchanges the content of two map handles; it mirrors the
// Swap method.
func SwapMaps[K, V any](a, b *Map[K, V]) { a.Swap(b) }

// MapHash returns a's structural hash; it mirrors the Hash method.
func MapHash[K, V any](a *Map[K, V]) uint64 { return a.Hash() }
