package treap

import (
	"cmp"
	"sync"

	"github.com/npillmayer/cantor"
)

// A SetProvider is the unit of sharing for a family of sets (and for
// the key sets of maps). It owns the element functors and the intern
// table all nodes of the family are canonicalized in. Two sets can be
// arguments to a binary operation only if they use the same provider.
//
// Providers are shared by reference among containers; create one with
// NewSetProvider, or use the process-wide default instance for an
// ordered element type.
type SetProvider[T any] struct {
	less  cantor.Less[T]
	eq    cantor.Eq[T]
	hash  cantor.Hash[T]
	table nodeTable[*setNode[T]]
}

// NewSetProvider creates a provider from an ordering, a hash function
// and an equality predicate. The functors must be mutually consistent:
// eq(a, b) iff neither less(a, b) nor less(b, a), and eq(a, b) implies
// hash(a) == hash(b).
func NewSetProvider[T any](less cantor.Less[T], hash cantor.Hash[T], eq cantor.Eq[T]) *SetProvider[T] {
	assertThat(less != nil && hash != nil && eq != nil, "set provider needs less, hash and eq functors")
	p := &SetProvider[T]{less: less, eq: eq, hash: hash}
	p.table.init()
	return p
}

// Size returns the number of live nodes interned by this provider.
func (p *SetProvider[T]) Size() int {
	p.table.mu.Lock()
	defer p.table.mu.Unlock()
	return p.table.size
}

// intern canonicalizes a freshly built candidate node, whose refcount
// must be 1 and which owns references to its children. If an equal node
// is live already, a reference to it is acquired under the table lock
// and the candidate is discarded.
func (p *SetProvider[T]) intern(cand *setNode[T]) *setNode[T] {
	t := &p.table
	t.mu.Lock()
	q := t.insert(cand, func(a, b *setNode[T]) bool {
		return a.left == b.left && a.right == b.right && p.eq(a.value, b.value)
	})
	if q != cand {
		q.refs.Add(1)
		t.mu.Unlock()
		p.release(cand.left)
		p.release(cand.right)
		return q
	}
	t.mu.Unlock()
	return cand
}

// release drops one reference to a subtree. The final reference is
// dropped under the table lock: a CAS from 1 to 0 claims the node,
// which is then unlinked from the table and its children released. If
// the CAS loses against a concurrent interning lookup, the drop is
// retried with the fresh count. Safe on nil.
func (p *SetProvider[T]) release(n *setNode[T]) {
	for n != nil {
		count := n.refs.Load()
		if count > 1 {
			if n.refs.CompareAndSwap(count, count-1) {
				return
			}
			continue
		}
		p.table.mu.Lock()
		if !n.refs.CompareAndSwap(1, 0) {
			p.table.mu.Unlock()
			continue
		}
		p.table.erase(n)
		p.table.mu.Unlock()
		p.release(n.left)
		n = n.right
	}
}

// A MapProvider extends a set provider with the functors needed for
// mapped values and owns the intern table for map nodes. The linked
// set provider owns the key nodes; a map and a set can be arguments to
// a mixed operation only if the set uses the map provider's linked set
// provider.
type MapProvider[K, V any] struct {
	set        *SetProvider[K]
	mappedEq   cantor.Eq[V]
	mappedHash cantor.Hash[V]
	table      nodeTable[*mapNode[K, V]]
}

// NewMapProvider creates a map provider on top of a set provider for
// the key type. mappedHash and mappedEq must be consistent with each
// other.
func NewMapProvider[K, V any](sp *SetProvider[K], mappedHash cantor.Hash[V], mappedEq cantor.Eq[V]) *MapProvider[K, V] {
	assertThat(sp != nil, "map provider needs a set provider for its keys")
	assertThat(mappedHash != nil && mappedEq != nil, "map provider needs hash and eq functors for mapped values")
	mp := &MapProvider[K, V]{set: sp, mappedEq: mappedEq, mappedHash: mappedHash}
	mp.table.init()
	return mp
}

// SetProvider returns the linked provider owning the key nodes.
func (mp *MapProvider[K, V]) SetProvider() *SetProvider[K] {
	return mp.set
}

// Size returns the number of live map nodes interned by this provider.
// Key nodes are counted by the linked set provider.
func (mp *MapProvider[K, V]) Size() int {
	mp.table.mu.Lock()
	defer mp.table.mu.Unlock()
	return mp.table.size
}

func (mp *MapProvider[K, V]) intern(cand *mapNode[K, V]) *mapNode[K, V] {
	t := &mp.table
	t.mu.Lock()
	q := t.insert(cand, func(a, b *mapNode[K, V]) bool {
		return a.left == b.left && a.right == b.right &&
			mp.set.eq(a.key, b.key) && mp.mappedEq(a.val, b.val)
	})
	if q != cand {
		q.refs.Add(1)
		t.mu.Unlock()
		mp.set.release(cand.keyNode)
		mp.release(cand.left)
		mp.release(cand.right)
		return q
	}
	t.mu.Unlock()
	return cand
}

func (mp *MapProvider[K, V]) release(n *mapNode[K, V]) {
	for n != nil {
		count := n.refs.Load()
		if count > 1 {
			if n.refs.CompareAndSwap(count, count-1) {
				return
			}
			continue
		}
		mp.table.mu.Lock()
		if !n.refs.CompareAndSwap(1, 0) {
			mp.table.mu.Unlock()
			continue
		}
		mp.table.erase(n)
		mp.table.mu.Unlock()
		mp.set.release(n.keyNode)
		mp.release(n.left)
		n = n.right
	}
}

// --- Default providers -----------------------------------------------------

// Default providers are process-wide lazy singletons, one per type
// parameterization. The cache is keyed by zero-size values of generic
// key types, which are distinct and comparable per instantiation.

type setProviderKey[T any] struct{}
type mapProviderKey[K, V any] struct{}

var defaultProviders sync.Map

// DefaultSetProvider returns the process-wide provider for an ordered
// element type, creating it on first use. It orders with the natural
// ordering and hashes with a seeded maphash.
func DefaultSetProvider[T cmp.Ordered]() *SetProvider[T] {
	key := setProviderKey[T]{}
	if v, ok := defaultProviders.Load(key); ok {
		return v.(*SetProvider[T])
	}
	p := NewSetProvider(cantor.OrderedLess[T](), cantor.ComparableHash[T](), cantor.ComparableEq[T]())
	v, _ := defaultProviders.LoadOrStore(key, p)
	return v.(*SetProvider[T])
}

// DefaultMapProvider returns the process-wide map provider for an
// ordered key type and a comparable value type, creating it on first
// use. Its key nodes live in DefaultSetProvider[K]().
func DefaultMapProvider[K cmp.Ordered, V comparable]() *MapProvider[K, V] {
	key := mapProviderKey[K, V]{}
	if v, ok := defaultProviders.Load(key); ok {
		return v.(*MapProvider[K, V])
	}
	mp := NewMapProvider[K, V](DefaultSetProvider[K](), cantor.ComparableHash[V](), cantor.ComparableEq[V]())
	v, _ := defaultProviders.LoadOrStore(key, mp)
	return v.(*MapProvider[K, V])
}
