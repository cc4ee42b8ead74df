package treap

import (
	"math/rand/v2"
	"testing"

	"github.com/go-quicktest/qt"
)

// Algebraic laws of the merge operations, exercised on pseudo-random
// sets sharing one provider. Content equality is root identity, so
// each law doubles as a check of canonical form.

func randomSets(p *SetProvider[int], seed uint64, n int) (a, b, c *Set[int]) {
	rng := rand.New(rand.NewPCG(seed, seed))
	a, b, c = NewSetOf(p), NewSetOf(p), NewSetOf(p)
	for i := 0; i < n; i++ {
		a.Insert(rng.IntN(2 * n))
		b.Insert(rng.IntN(2 * n))
		c.Insert(rng.IntN(2 * n))
	}
	return a, b, c
}

func TestMergeIdempotence(t *testing.T) {
	p := newIntSetProvider()
	a, _, _ := randomSets(p, 1, 200)
	qt.Assert(t, qt.IsTrue(a.Union(a).Equal(a)))
	qt.Assert(t, qt.IsTrue(a.Intersection(a).Equal(a)))
	qt.Assert(t, qt.IsTrue(a.Difference(a).Empty()))
	qt.Assert(t, qt.IsTrue(a.SymmetricDifference(a).Empty()))
}

func TestMergeCommutativity(t *testing.T) {
	p := newIntSetProvider()
	a, b, _ := randomSets(p, 2, 300)
	qt.Assert(t, qt.IsTrue(a.Union(b).Equal(b.Union(a))))
	qt.Assert(t, qt.IsTrue(a.Intersection(b).Equal(b.Intersection(a))))
	qt.Assert(t, qt.IsTrue(a.SymmetricDifference(b).Equal(b.SymmetricDifference(a))))
}

func TestMergeAssociativity(t *testing.T) {
	p := newIntSetProvider()
	a, b, c := randomSets(p, 3, 250)
	qt.Assert(t, qt.IsTrue(a.Union(b).Union(c).Equal(a.Union(b.Union(c)))))
	qt.Assert(t, qt.IsTrue(a.Intersection(b).Intersection(c).Equal(a.Intersection(b.Intersection(c)))))
	qt.Assert(t, qt.IsTrue(a.SymmetricDifference(b).SymmetricDifference(c).
		Equal(a.SymmetricDifference(b.SymmetricDifference(c)))))
}

func TestMergeDistributivity(t *testing.T) {
	p := newIntSetProvider()
	a, b, c := randomSets(p, 4, 250)
	lhs := a.Intersection(b.Union(c))
	rhs := a.Intersection(b).Union(a.Intersection(c))
	qt.Assert(t, qt.IsTrue(lhs.Equal(rhs)))
}

func TestMergeDeMorgan(t *testing.T) {
	p := newIntSetProvider()
	a, b, c := randomSets(p, 5, 250)
	lhs := a.Difference(b.Union(c))
	rhs := a.Difference(b).Intersection(a.Difference(c))
	qt.Assert(t, qt.IsTrue(lhs.Equal(rhs)))
}

func TestSymmetricDifferenceComposition(t *testing.T) {
	p := newIntSetProvider()
	a, b, _ := randomSets(p, 6, 300)
	viaDiff := a.Difference(b).Union(b.Difference(a))
	qt.Assert(t, qt.IsTrue(a.SymmetricDifference(b).Equal(viaDiff)))
	qt.Assert(t, qt.IsTrue(a.SymmetricDifference(b).SymmetricDifference(b).Equal(a)))
}

func TestIncludesAgreesWithDifference(t *testing.T) {
	p := newIntSetProvider()
	a, b, _ := randomSets(p, 7, 150)
	sub := a.Intersection(b)
	qt.Assert(t, qt.IsTrue(a.Includes(sub)))
	qt.Assert(t, qt.Equals(a.Includes(b), b.Difference(a).Empty()))
	qt.Assert(t, qt.Equals(b.Includes(a), a.Difference(b).Empty()))
}

func TestMergeCompoundAssignForms(t *testing.T) {
	p := newIntSetProvider()
	a, b, _ := randomSets(p, 8, 200)
	union := a.Union(b)
	inter := a.Intersection(b)
	diff := a.Difference(b)
	sym := a.SymmetricDifference(b)

	x := a.Clone()
	x.InsertSet(b)
	qt.Assert(t, qt.IsTrue(x.Equal(union)))
	x.Assign(a)
	x.RetainSet(b)
	qt.Assert(t, qt.IsTrue(x.Equal(inter)))
	x.Assign(a)
	x.EraseSet(b)
	qt.Assert(t, qt.IsTrue(x.Equal(diff)))
	x.Assign(a)
	x.ToggleSet(b)
	qt.Assert(t, qt.IsTrue(x.Equal(sym)))
}

func TestMergeCounts(t *testing.T) {
	p := newIntSetProvider()
	a, b, _ := randomSets(p, 9, 200)
	inter := a.Intersection(b)
	x := a.Clone()
	added := x.InsertSet(b)
	qt.Assert(t, qt.Equals(added, b.Len()-inter.Len()))
	y := a.Clone()
	removed := y.EraseSet(b)
	qt.Assert(t, qt.Equals(removed, inter.Len()))
}
