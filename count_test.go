// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// nqueens mirrors the teacher's nqueens_test.go helper, adapted to the
// binary And/Or and complement-edge Not of this engine (no variadic
// And/Or, and implication built from Or(Not(a), b) since there is no Imp
// helper here).
func nqueens(t *testing.T, N int) (*big.Int, []TriState) {
	e, _ := newTestEngine(t, N*N)
	X := make([][]*BDD, N)
	for i := range X {
		X[i] = make([]*BDD, N)
		for j := range X[i] {
			v := Var(i*N + j + 1)
			X[i][j] = mustVar(t, e, v)
		}
	}

	imp := func(a, b *BDD) *BDD { return mustOr(t, e, mustNot(t, e, a), b) }

	queen := e.BDDOne()
	for i := 0; i < N; i++ {
		row := e.BDDZero()
		for j := 0; j < N; j++ {
			row = mustOr(t, e, row, X[i][j])
		}
		queen = mustAnd(t, e, queen, row)
	}

	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			a := e.BDDOne()
			for k := 0; k < N; k++ {
				if k != j {
					a = mustAnd(t, e, a, imp(X[i][j], mustNot(t, e, X[i][k])))
				}
			}
			b := e.BDDOne()
			for k := 0; k < N; k++ {
				if k != i {
					b = mustAnd(t, e, b, imp(X[i][j], mustNot(t, e, X[k][j])))
				}
			}
			c := e.BDDOne()
			for k := 0; k < N; k++ {
				if ll := k - i + j; ll >= 0 && ll < N && k != i {
					c = mustAnd(t, e, c, imp(X[i][j], mustNot(t, e, X[k][ll])))
				}
			}
			d := e.BDDOne()
			for k := 0; k < N; k++ {
				if ll := i + j - k; ll >= 0 && ll < N && k != i {
					d = mustAnd(t, e, d, imp(X[i][j], mustNot(t, e, X[k][ll])))
				}
			}
			queen = mustAnd(t, e, queen, mustAnd(t, e, a, b))
			queen = mustAnd(t, e, queen, mustAnd(t, e, c, d))
		}
	}

	count, err := e.Satcount(queen)
	require.NoError(t, err)
	assignment, err := e.OneSat(queen)
	require.NoError(t, err)
	return count, assignment
}

func TestNQueens8(t *testing.T) {
	count, assignment := nqueens(t, 8)
	require.Equal(t, big.NewInt(92), count)

	ones := 0
	for _, s := range assignment[1:] {
		if s == True {
			ones++
		}
	}
	require.Equal(t, 8, ones, "exactly one queen per row means 8 placed queens total")

	// No two placed queens share a row, column or diagonal.
	N := 8
	placed := make(map[[2]int]bool)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if assignment[i*N+j+1] == True {
				placed[[2]int{i, j}] = true
			}
		}
	}
	require.Len(t, placed, 8)
	rows, cols, diag1, diag2 := map[int]bool{}, map[int]bool{}, map[int]bool{}, map[int]bool{}
	for rc := range placed {
		r, c := rc[0], rc[1]
		require.False(t, rows[r], "two queens share row %d", r)
		require.False(t, cols[c], "two queens share column %d", c)
		require.False(t, diag1[r-c], "two queens share a diagonal")
		require.False(t, diag2[r+c], "two queens share the other diagonal")
		rows[r], cols[c], diag1[r-c], diag2[r+c] = true, true, true, true
	}
}

// TestCNFTwoClauses builds (x1 | !x2) & (x2 | x3), the two-clause CNF of
// spec §8's scenario 2, and checks that exactly 5 of the 8 assignments of
// (x1,x2,x3) satisfy it.
func TestCNFTwoClauses(t *testing.T) {
	e, v := newTestEngine(t, 3)
	x1, x2, x3 := mustVar(t, e, v[0]), mustVar(t, e, v[1]), mustVar(t, e, v[2])

	clause1 := mustOr(t, e, x1, mustNot(t, e, x2))
	clause2 := mustOr(t, e, x2, x3)
	f := mustAnd(t, e, clause1, clause2)

	count, err := e.Satcount(f)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(5), count)
}
