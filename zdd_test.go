// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZDDSingletons(t *testing.T) {
	e, v := newTestEngine(t, 3)

	s1, err := e.ZDDSingle(v[0])
	require.NoError(t, err)
	s2, err := e.ZDDSingle(v[1])
	require.NoError(t, err)
	s3, err := e.ZDDSingle(v[2])
	require.NoError(t, err)

	u12, err := e.Union(s1, s2)
	require.NoError(t, err)
	family, err := e.Union(u12, s3)
	require.NoError(t, err)

	count, err := e.ZDDCount(family)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(3), count)

	idx, err := e.BuildIndex(family)
	require.NoError(t, err)
	want := [][]Var{{v[0]}, {v[1]}, {v[2]}}
	for i, w := range want {
		got, err := idx.GetSet(family, big.NewInt(int64(i)))
		require.NoError(t, err)
		require.Equal(t, w, got)
	}
}

func TestZDDProduct(t *testing.T) {
	e, v := newTestEngine(t, 2)

	s1, err := e.ZDDSingle(v[0])
	require.NoError(t, err)
	s2, err := e.ZDDSingle(v[1])
	require.NoError(t, err)
	base := e.ZDDBase()

	left, err := e.Union(s1, base)
	require.NoError(t, err)
	right, err := e.Union(s2, base)
	require.NoError(t, err)

	product, err := e.Join(left, right)
	require.NoError(t, err)

	count, err := e.ZDDCount(product)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(4), count)

	idx, err := e.BuildIndex(product)
	require.NoError(t, err)
	it, err := e.DictIterate(product)
	require.NoError(t, err)
	var got [][]Var
	for {
		set, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, set)
	}
	// GetSet appends a node's own variable before descending into its
	// children, so elements of a multi-variable set come out highest-level
	// first: the last set here is {v1, v0}, not {v0, v1}.
	require.Equal(t, [][]Var{nil, {v[0]}, {v[1]}, {v[1], v[0]}}, got)
	_ = idx
}

func TestZDDDifferenceAndIntersect(t *testing.T) {
	e, v := newTestEngine(t, 2)
	s1, _ := e.ZDDSingle(v[0])
	s2, _ := e.ZDDSingle(v[1])
	both, err := e.Union(s1, s2)
	require.NoError(t, err)

	diff, err := e.Difference(both, s1)
	require.NoError(t, err)
	require.True(t, diff.arc == s2.arc)

	inter, err := e.Intersect(both, s1)
	require.NoError(t, err)
	require.True(t, inter.arc == s1.arc)
}

// TestZDDRestrict checks that ZDDRestrict keeps only the sets that are
// subsets of mask's single member set.
func TestZDDRestrict(t *testing.T) {
	e, v := newTestEngine(t, 3)
	family := buildThreeSetFamily(t, e, v) // {{}, {v0}, {v1}, {v2}}

	mask, err := e.ZDDSingle(v[0])
	require.NoError(t, err)
	// mask's member set is {v0}; the only subsets of {v0} present in the
	// family are {} and {v0}.
	restricted, err := e.ZDDRestrict(family, mask)
	require.NoError(t, err)

	count, err := e.ZDDCount(restricted)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), count)

	base := e.ZDDBase()
	s0, err := e.ZDDSingle(v[0])
	require.NoError(t, err)
	want, err := e.Union(base, s0)
	require.NoError(t, err)
	require.Equal(t, want.arc, restricted.arc)
}

func buildThreeSetFamily(t *testing.T, e *Engine, v []Var) *ZDD {
	t.Helper()
	s0, err := e.ZDDSingle(v[0])
	require.NoError(t, err)
	s1, err := e.ZDDSingle(v[1])
	require.NoError(t, err)
	s2, err := e.ZDDSingle(v[2])
	require.NoError(t, err)
	u, err := e.Union(s0, s1)
	require.NoError(t, err)
	u, err = e.Union(u, s2)
	require.NoError(t, err)
	withEmpty, err := e.Union(u, e.ZDDBase())
	require.NoError(t, err)
	return withEmpty
}

func TestZDDChange(t *testing.T) {
	e, v := newTestEngine(t, 2)
	base := e.ZDDBase()
	withV1, err := e.Change(base, v[0])
	require.NoError(t, err)

	single, err := e.ZDDSingle(v[0])
	require.NoError(t, err)
	require.Equal(t, single.arc, withV1.arc)

	back, err := e.Change(withV1, v[0])
	require.NoError(t, err)
	require.Equal(t, base.arc, back.arc)
}
