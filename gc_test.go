// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGCPreservesLiveDiagram(t *testing.T) {
	e, v := newTestEngine(t, 3)
	f := mustAnd(t, e, mustVar(t, e, v[0]), mustOr(t, e, mustVar(t, e, v[1]), mustVar(t, e, v[2])))

	before := e.AliveCount()
	e.CollectGarbage()
	after := e.AliveCount()
	require.Equal(t, before, after, "collecting garbage must not reclaim a node reachable from a live handle")

	// f is still usable after a collection.
	g, err := e.Not(f)
	require.NoError(t, err)
	require.False(t, g.IsZero())
}

func TestGCReclaimsUnreachableNodes(t *testing.T) {
	e, v := newTestEngine(t, 2)

	func() {
		tmp := mustAnd(t, e, mustVar(t, e, v[0]), mustVar(t, e, v[1]))
		_ = tmp
	}()
	// tmp is unreachable from any live handle now except through whatever
	// the garbage collector has not yet noticed; force finalizers to run
	// before collecting so the node's refcount has actually dropped.
	runtime.GC()
	runtime.GC()

	liveBefore := e.AliveCount()
	e.CollectGarbage()
	liveAfter := e.AliveCount()
	require.LessOrEqual(t, liveAfter, liveBefore)
}

func TestReleaseDropsRefImmediately(t *testing.T) {
	e, v := newTestEngine(t, 1)
	f := mustVar(t, e, v[0])
	idx := f.arc.Index()
	n := e.store.At(idx)
	require.Equal(t, uint32(1), n.RefCount())

	f.Release()
	n = e.store.At(idx)
	require.Equal(t, uint32(0), n.RefCount())
}

func TestCloneIncrementsRef(t *testing.T) {
	e, v := newTestEngine(t, 1)
	f := mustVar(t, e, v[0])
	idx := f.arc.Index()

	g := f.Clone()
	n := e.store.At(idx)
	require.Equal(t, uint32(2), n.RefCount())

	g.Release()
	n = e.store.At(idx)
	require.Equal(t, uint32(1), n.RefCount())
	f.Release()
}
