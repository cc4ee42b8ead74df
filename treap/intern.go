package treap

import "sync"

// Initial bucket count. Must be a power of two; halving and doubling
// rely on it.
const minBucketCount = 8

// chained is the intern table's view of a node: a structural hash and
// an intrusive bucket-chain link.
type chained[N any] interface {
	comparable
	nextInChain() N
	setNextInChain(N)
	hashval() uint64
}

// nodeTable is the intern table of one provider: an open-chained hash
// table keyed by structural identity. The table holds non-owning
// back-references; a node is unlinked when its last reference is
// dropped. All access goes through mu, which is also the lock the
// refcount drop-to-zero protocol synchronizes on.
type nodeTable[N chained[N]] struct {
	mu      sync.Mutex
	buckets []N
	size    int
}

func (t *nodeTable[N]) init() {
	t.buckets = make([]N, minBucketCount)
}

// insert canonicalizes a candidate node. If a structurally equal node
// is chained already, that node is returned and the caller discards
// the candidate; otherwise the candidate is linked in and returned.
// match compares child pointers and element content; equal structural
// hashes are checked here. Callers hold mu.
func (t *nodeTable[N]) insert(cand N, match func(a, b N) bool) N {
	t.rehash()
	var zero N
	i := cand.hashval() & uint64(len(t.buckets)-1)
	for n := t.buckets[i]; n != zero; n = n.nextInChain() {
		if n.hashval() == cand.hashval() && match(n, cand) {
			return n
		}
	}
	cand.setNextInChain(t.buckets[i])
	t.buckets[i] = cand
	t.size++
	return cand
}

// erase unlinks a node from its bucket chain. The node must be
// present. Callers hold mu.
func (t *nodeTable[N]) erase(n N) {
	i := n.hashval() & uint64(len(t.buckets)-1)
	if t.buckets[i] == n {
		t.buckets[i] = n.nextInChain()
	} else {
		p := t.buckets[i]
		for p.nextInChain() != n {
			p = p.nextInChain()
		}
		p.setNextInChain(n.nextInChain())
	}
	t.size--
}

func (t *nodeTable[N]) rehash() {
	if t.size >= len(t.buckets) {
		t.extend()
	} else if t.size > minBucketCount && t.size<<1 < len(t.buckets) {
		t.reduce()
	}
}

func (t *nodeTable[N]) extend() {
	old := t.buckets
	t.buckets = make([]N, len(old)*2)
	var zero N
	mask := uint64(len(t.buckets) - 1)
	for _, head := range old {
		for head != zero {
			next := head.nextInChain()
			j := head.hashval() & mask
			head.setNextInChain(t.buckets[j])
			t.buckets[j] = head
			head = next
		}
	}
}

// reduce halves the bucket array by concatenating each high chain onto
// its low sibling; with power-of-two sizing both chains land in the
// same bucket.
func (t *nodeTable[N]) reduce() {
	half := len(t.buckets) / 2
	old := t.buckets
	t.buckets = make([]N, half)
	var zero N
	for i := 0; i < half; i++ {
		low, high := old[i], old[i+half]
		if low == zero {
			t.buckets[i] = high
			continue
		}
		t.buckets[i] = low
		for low.nextInChain() != zero {
			low = low.nextInChain()
		}
		low.setNextInChain(high)
	}
}
