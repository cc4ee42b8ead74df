package treap

import (
	"fmt"

	"github.com/npillmayer/cantor"
	tp "github.com/xlab/treeprint"
)

// Fresh providers per test keep node-count assertions independent of
// the process-wide default providers.

func newIntSetProvider() *SetProvider[int] {
	return NewSetProvider(cantor.OrderedLess[int](), cantor.ComparableHash[int](), cantor.ComparableEq[int]())
}

func newStringSetProvider() *SetProvider[string] {
	return NewSetProvider(cantor.OrderedLess[string](), cantor.ComparableHash[string](), cantor.ComparableEq[string]())
}

func newStringMapProvider() *MapProvider[string, string] {
	return NewMapProvider(newStringSetProvider(), cantor.ComparableHash[string](), cantor.ComparableEq[string]())
}

func newIntMapProvider() *MapProvider[int, int] {
	return NewMapProvider(newIntSetProvider(), cantor.ComparableHash[int](), cantor.ComparableEq[int]())
}

func printSet[T any](s *Set[T]) string {
	p := tp.New()
	ppt(p, s.root)
	return p.String()
}

func ppt[T any](p tp.Tree, node *setNode[T]) {
	if node == nil {
		return
	}
	if node.left == nil && node.right == nil {
		p.AddNode(node.String())
		return
	}
	branch := p.AddBranch(node.String())
	ppt(branch, node.left)
	ppt(branch, node.right)
}

// checkTreapShape walks a set subtree and verifies the search order,
// the heap order on priorities and the size and hash formulas.
func checkTreapShape[T any](p *SetProvider[T], n *setNode[T]) error {
	if n == nil {
		return nil
	}
	if n.left != nil {
		if !p.less(n.left.value, n.value) {
			return fmt.Errorf("order violated at %v: left child %v", n.value, n.left.value)
		}
		if n.left.prio < n.prio {
			return fmt.Errorf("heap violated at %v: left child priority smaller", n.value)
		}
	}
	if n.right != nil {
		if !p.less(n.value, n.right.value) {
			return fmt.Errorf("order violated at %v: right child %v", n.value, n.right.value)
		}
		if n.right.prio < n.prio {
			return fmt.Errorf("heap violated at %v: right child priority smaller", n.value)
		}
	}
	if n.size != 1+n.left.count()+n.right.count() {
		return fmt.Errorf("size field stale at %v", n.value)
	}
	if n.hash != hashCombine3(n.left.hashval(), n.right.hashval(), n.prio) {
		return fmt.Errorf("hash field stale at %v", n.value)
	}
	if err := checkTreapShape(p, n.left); err != nil {
		return err
	}
	return checkTreapShape(p, n.right)
}
