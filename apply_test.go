// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, nvars int) (*Engine, []Var) {
	t.Helper()
	e := New(Nodesize(1000), Cachesize(1000))
	vars := make([]Var, nvars)
	for i := range vars {
		v, err := e.NewVariable()
		require.NoError(t, err)
		vars[i] = v
	}
	return e, vars
}

func TestIteEquivalence(t *testing.T) {
	e, v := newTestEngine(t, 4)
	n1 := mustVar(t, e, v[0])
	n2 := mustVar(t, e, v[1])

	ite, err := e.Ite(n1, n2, mustNot(t, e, n2))
	require.NoError(t, err)

	lhs := mustOr(t, e, mustAnd(t, e, n1, n2), mustAnd(t, e, mustNot(t, e, n1), mustNot(t, e, n2)))

	equiv, err := e.Xor(ite, lhs)
	require.NoError(t, err)
	require.True(t, equiv.IsZero(), "ite(f,g,!g) <=> (f&g)|(!f&!g) should hold")
}

// TestOperations mirrors the teacher's TestOperations: build a BDD by
// conjoining random literals, enumerate every satisfying assignment with
// OneSat-driven subtraction, and check the enumerated sets sum back to the
// original function and leave nothing behind.
func TestOperations(t *testing.T) {
	const varnum = 4
	e, v := newTestEngine(t, varnum)

	check := func(x *BDD) {
		sum := e.BDDZero()
		remaining := x
		for !remaining.IsZero() {
			assignment, err := e.OneSat(remaining)
			require.NoError(t, err)
			term := e.BDDOne()
			for i := 1; i <= varnum; i++ {
				switch assignment[i] {
				case True:
					term = mustAnd(t, e, term, mustVar(t, e, v[i-1]))
				case False:
					term = mustAnd(t, e, term, mustNot(t, e, mustVar(t, e, v[i-1])))
				}
			}
			sum = mustOr(t, e, sum, term)
			next, err := e.apply(OpAnd, remaining.arc, term.arc.Negate())
			require.NoError(t, err)
			remaining = e.wrapBDD(next)
		}
		diff, err := e.Xor(sum, x)
		require.NoError(t, err)
		require.True(t, diff.IsZero(), "enumerated assignments should reconstruct the original function")
	}

	a, b, c, d := mustVar(t, e, v[0]), mustVar(t, e, v[1]), mustVar(t, e, v[2]), mustVar(t, e, v[3])
	na, nb := mustNot(t, e, a), mustNot(t, e, b)

	check(e.BDDOne())
	check(mustOr(t, e, mustAnd(t, e, a, b), mustAnd(t, e, na, nb)))
	check(mustAnd(t, e, c, d))

	rng := rand.New(rand.NewSource(1))
	set := e.BDDOne()
	for i := 0; i < 20; i++ {
		lit := mustVar(t, e, v[rng.Intn(varnum)])
		if rng.Intn(2) == 0 {
			lit = mustNot(t, e, lit)
		}
		set = mustAnd(t, e, set, lit)
	}
	check(set)
}

func mustVar(t *testing.T, e *Engine, v Var) *BDD {
	t.Helper()
	b, err := e.VarBDD(v)
	require.NoError(t, err)
	return b
}

// TestNVarBDDIsNegationOfVarBDD checks that NVarBDD(v) yields the same arc
// as Not(VarBDD(v)).
func TestNVarBDDIsNegationOfVarBDD(t *testing.T) {
	e, v := newTestEngine(t, 1)
	pos := mustVar(t, e, v[0])
	neg, err := e.NVarBDD(v[0])
	require.NoError(t, err)
	require.Equal(t, mustNot(t, e, pos).arc, neg.arc)
}

func mustNot(t *testing.T, e *Engine, f *BDD) *BDD {
	t.Helper()
	b, err := e.Not(f)
	require.NoError(t, err)
	return b
}

func mustAnd(t *testing.T, e *Engine, f, g *BDD) *BDD {
	t.Helper()
	b, err := e.And(f, g)
	require.NoError(t, err)
	return b
}

func mustOr(t *testing.T, e *Engine, f, g *BDD) *BDD {
	t.Helper()
	b, err := e.Or(f, g)
	require.NoError(t, err)
	return b
}
