package treap

/*
Ownership convention for the core tree functions, here and in merge.go:

- Node arguments are borrowed; a function never consumes a reference
  held by its caller.
- Results are owned: the caller receives one reference and must release
  it (or hand it on).
- The exceptions are the newSetNode/newMapNode constructors and the
  clone and replace helpers built on them, which consume the OWNED
  child references passed to them, and joinSetOwned/joinMapOwned,
  which consume both operands.
*/

// newSetNode builds a candidate with the given priority and owned
// children and canonicalizes it. size and hash fields follow from the
// children; the structural hash folds the priority, which in turn
// encodes the element's hash.
func newSetNode[T any](p *SetProvider[T], value T, prio uint64, left, right *setNode[T]) *setNode[T] {
	cand := &setNode[T]{
		value: value,
		prio:  prio,
		size:  1 + left.count() + right.count(),
		hash:  hashCombine3(left.hashval(), right.hashval(), prio),
		left:  left,
		right: right,
	}
	cand.refs.Store(1)
	return p.intern(cand)
}

// makeSetLeaf creates (or finds) the node for a single element.
func makeSetLeaf[T any](p *SetProvider[T], value T) *setNode[T] {
	return newSetNode(p, value, intmix(p.hash(value)), nil, nil)
}

// cloneSetNode rebuilds a node around replaced children, keeping the
// parent's element and priority.
func cloneSetNode[T any](p *SetProvider[T], parent *setNode[T], left, right *setNode[T]) *setNode[T] {
	return newSetNode(p, parent.value, parent.prio, left, right)
}

// setRank orders two roots by (priority, key). The pair determines the
// root of any canonical treap: min-heap on priority, ties broken by the
// element order.
func setRank[T any](p *SetProvider[T], a, b *setNode[T]) ranking {
	if a.prio < b.prio {
		return rankLeft
	}
	if b.prio < a.prio {
		return rankRight
	}
	if p.less(a.value, b.value) {
		return rankLeft
	}
	if p.less(b.value, a.value) {
		return rankRight
	}
	return rankSame
}

// replaceSetLeft rebuilds parent with a new left child, short-circuiting
// when the child is already in place so shared subtrees stay shared.
// child is owned by the caller and consumed.
func replaceSetLeft[T any](p *SetProvider[T], parent, child *setNode[T]) *setNode[T] {
	if parent.left == child {
		p.release(child)
		return parent.ref()
	}
	return cloneSetNode(p, parent, child, parent.right.ref())
}

func replaceSetRight[T any](p *SetProvider[T], parent, child *setNode[T]) *setNode[T] {
	if parent.right == child {
		p.release(child)
		return parent.ref()
	}
	return cloneSetNode(p, parent, parent.left.ref(), child)
}

// joinSetNodes merges two subtrees where every element of left sorts
// strictly before every element of right.
func joinSetNodes[T any](p *SetProvider[T], left, right *setNode[T]) *setNode[T] {
	if left == nil {
		return right.ref()
	}
	if right == nil {
		return left.ref()
	}
	switch setRank(p, left, right) {
	case rankLeft:
		return replaceSetRight(p, left, joinSetNodes(p, left.right, right))
	case rankRight:
		return replaceSetLeft(p, right, joinSetNodes(p, left, right.left))
	}
	assertThat(false, "join seam carries equal keys")
	return nil
}

// joinSetOwned is joinSetNodes over owned operands: both are consumed.
func joinSetOwned[T any](p *SetProvider[T], left, right *setNode[T]) *setNode[T] {
	j := joinSetNodes(p, left, right)
	p.release(left)
	p.release(right)
	return j
}

// splitSetNode partitions a subtree at key into (elements < key,
// elements >= key), copying only the search path.
func splitSetNode[T any](p *SetProvider[T], n *setNode[T], key T) (*setNode[T], *setNode[T]) {
	if n == nil {
		return nil, nil
	}
	if p.less(n.value, key) {
		lo, hi := splitSetNode(p, n.right, key)
		return replaceSetRight(p, n, lo), hi
	}
	lo, hi := splitSetNode(p, n.left, key)
	return lo, replaceSetLeft(p, n, hi)
}

// eraseSetNode removes key from the subtree, path-copying towards it.
// The boolean stops ancestors from re-examining siblings once the
// search path is resolved; thanks to the replace short-circuits an
// absent key rebuilds nothing.
func eraseSetNode[T any](p *SetProvider[T], n *setNode[T], key T) (*setNode[T], bool) {
	if n == nil {
		return nil, false
	}
	if p.less(n.value, key) {
		s, ok := eraseSetNode(p, n.right, key)
		if ok {
			return replaceSetRight(p, n, s), true
		}
		p.release(s)
		return n.ref(), false
	}
	s, ok := eraseSetNode(p, n.left, key)
	if ok {
		return replaceSetLeft(p, n, s), true
	}
	p.release(s)
	if !p.eq(n.value, key) {
		return n.ref(), true
	}
	return joinSetNodes(p, n.left, n.right), true
}
