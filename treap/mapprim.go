package treap

// Map nodes follow the same ownership convention as set nodes (see
// primitives.go). Every map node is co-created with the set node that
// represents the same subtree in the key set's provider, which keeps
// the key-set projection a constant-time operation.

// newMapNode builds a candidate around an already-interned key node and
// owned children, then canonicalizes it. The map hash folds the
// children's map hashes, the mapped value's hash and the key node's
// structural hash.
func newMapNode[K, V any](mp *MapProvider[K, V], key K, val V, keyNode *setNode[K], left, right *mapNode[K, V]) *mapNode[K, V] {
	cand := &mapNode[K, V]{
		key:     key,
		val:     val,
		keyNode: keyNode,
		hash:    hashCombine4(left.hashval(), right.hashval(), mp.mappedHash(val), keyNode.hash),
		left:    left,
		right:   right,
	}
	cand.refs.Store(1)
	return mp.intern(cand)
}

func keyNodeOf[K, V any](n *mapNode[K, V]) *setNode[K] {
	if n == nil {
		return nil
	}
	return n.keyNode
}

// makeMapLeaf creates (or finds) the node for a single entry together
// with its key node.
func makeMapLeaf[K, V any](mp *MapProvider[K, V], key K, val V) *mapNode[K, V] {
	kn := makeSetLeaf(mp.set, key)
	return newMapNode(mp, key, val, kn, nil, nil)
}

// cloneMapNode rebuilds a node around replaced children. The key node
// is rebuilt from the children's key nodes, reusing the parent's key
// and priority.
func cloneMapNode[K, V any](mp *MapProvider[K, V], parent *mapNode[K, V], left, right *mapNode[K, V]) *mapNode[K, V] {
	kn := newSetNode(mp.set, parent.keyNode.value, parent.keyNode.prio,
		keyNodeOf(left).ref(), keyNodeOf(right).ref())
	return newMapNode(mp, parent.key, parent.val, kn, left, right)
}

// mapRankKeys orders two map roots by (priority, key) alone; equal keys
// rank the same regardless of mapped values. Union keeps the left
// operand's entry in that case.
func mapRankKeys[K, V any](mp *MapProvider[K, V], a, b *mapNode[K, V]) ranking {
	if a.prio() < b.prio() {
		return rankLeft
	}
	if b.prio() < a.prio() {
		return rankRight
	}
	if mp.set.less(a.key, b.key) {
		return rankLeft
	}
	if mp.set.less(b.key, a.key) {
		return rankRight
	}
	return rankSame
}

// mapRank additionally distinguishes entries with equal keys whose
// mapped values differ; intersection and difference need to treat them
// as "same key, different element".
func mapRank[K, V any](mp *MapProvider[K, V], a, b *mapNode[K, V]) ranking {
	r := mapRankKeys(mp, a, b)
	if r == rankSame && !mp.mappedEq(a.val, b.val) {
		return rankNotSame
	}
	return r
}

func replaceMapLeft[K, V any](mp *MapProvider[K, V], parent, child *mapNode[K, V]) *mapNode[K, V] {
	if parent.left == child {
		mp.release(child)
		return parent.ref()
	}
	return cloneMapNode(mp, parent, child, parent.right.ref())
}

func replaceMapRight[K, V any](mp *MapProvider[K, V], parent, child *mapNode[K, V]) *mapNode[K, V] {
	if parent.right == child {
		mp.release(child)
		return parent.ref()
	}
	return cloneMapNode(mp, parent, parent.left.ref(), child)
}

func joinMapNodes[K, V any](mp *MapProvider[K, V], left, right *mapNode[K, V]) *mapNode[K, V] {
	if left == nil {
		return right.ref()
	}
	if right == nil {
		return left.ref()
	}
	switch mapRankKeys(mp, left, right) {
	case rankLeft:
		return replaceMapRight(mp, left, joinMapNodes(mp, left.right, right))
	case rankRight:
		return replaceMapLeft(mp, right, joinMapNodes(mp, left, right.left))
	}
	assertThat(false, "join seam carries equal keys")
	return nil
}

func joinMapOwned[K, V any](mp *MapProvider[K, V], left, right *mapNode[K, V]) *mapNode[K, V] {
	j := joinMapNodes(mp, left, right)
	mp.release(left)
	mp.release(right)
	return j
}

func splitMapNode[K, V any](mp *MapProvider[K, V], n *mapNode[K, V], key K) (*mapNode[K, V], *mapNode[K, V]) {
	if n == nil {
		return nil, nil
	}
	if mp.set.less(n.key, key) {
		lo, hi := splitMapNode(mp, n.right, key)
		return replaceMapRight(mp, n, lo), hi
	}
	lo, hi := splitMapNode(mp, n.left, key)
	return lo, replaceMapLeft(mp, n, hi)
}

// eraseMapNode removes the entry for key if match accepts it, mirroring
// the set-side erase. match refines key equality, e.g. to full-entry
// equality for erase-by-entry.
func eraseMapNode[K, V any](mp *MapProvider[K, V], n *mapNode[K, V], key K, match func(*mapNode[K, V]) bool) (*mapNode[K, V], bool) {
	if n == nil {
		return nil, false
	}
	if mp.set.less(n.key, key) {
		s, ok := eraseMapNode(mp, n.right, key, match)
		if ok {
			return replaceMapRight(mp, n, s), true
		}
		mp.release(s)
		return n.ref(), false
	}
	s, ok := eraseMapNode(mp, n.left, key, match)
	if ok {
		return replaceMapLeft(mp, n, s), true
	}
	mp.release(s)
	if !match(n) {
		return n.ref(), true
	}
	return joinMapNodes(mp, n.left, n.right), true
}

func tailMapNode[K, V any](mp *MapProvider[K, V], n *mapNode[K, V], first int) *mapNode[K, V] {
	for n != nil && first > n.left.count() {
		first -= n.left.count() + 1
		n = n.right
	}
	if first == 0 {
		return n.ref()
	}
	return replaceMapLeft(mp, n, tailMapNode(mp, n.left, first))
}

func headMapNode[K, V any](mp *MapProvider[K, V], n *mapNode[K, V], last int) *mapNode[K, V] {
	for n != nil && last <= n.left.count() {
		n = n.left
	}
	if last == n.count() {
		return n.ref()
	}
	return replaceMapRight(mp, n, headMapNode(mp, n.right, last-n.left.count()-1))
}
