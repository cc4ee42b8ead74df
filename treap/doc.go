/*
Package treap implements persistent sorted sets and maps that share
structure through global hash-consing.

Containers are handles to immutable treap nodes. All nodes of a
container family are canonicalized in a provider's intern table, so two
containers holding the same elements are represented by the very same
root node. This makes cloning a container and testing two containers
for equal content constant-time operations, and it lets the merge
algorithms (union, intersection, difference, symmetric difference)
skip entire shared subtrees.

The treap shape is deterministic: the search key is the element order,
the heap key is a bit-mixed hash of the element. Any two containers
with equal content under the same provider converge to the same tree.
*/
package treap

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cantor.treap'.
func tracer() tracing.Trace {
	return tracing.Select("cantor.treap")
}
