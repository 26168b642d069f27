// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEngineStartsEmpty(t *testing.T) {
	e := New(Nodesize(64), Cachesize(64))
	require.Equal(t, 0, e.VariableCount())
	require.True(t, e.BDDZero().IsZero())
	require.True(t, e.BDDOne().IsOne())
}

func TestNewVariableAppendsAtTopLevel(t *testing.T) {
	e := New(Nodesize(64), Cachesize(64))
	v1, err := e.NewVariable()
	require.NoError(t, err)
	v2, err := e.NewVariable()
	require.NoError(t, err)
	require.Equal(t, 2, e.VariableCount())

	l1, err := e.LevelOf(v1)
	require.NoError(t, err)
	l2, err := e.LevelOf(v2)
	require.NoError(t, err)
	// A later-allocated variable is appended above the existing top, so it
	// occupies the higher level (see DESIGN.md's level-direction decision).
	require.Greater(t, int(l2), int(l1))

	back, err := e.VarAtLevel(l2)
	require.NoError(t, err)
	require.Equal(t, v2, back)
}

func TestStatsReportsVariableAndNodeCounts(t *testing.T) {
	e, v := newTestEngine(t, 2)
	_ = mustAnd(t, e, mustVar(t, e, v[0]), mustVar(t, e, v[1]))

	out := e.Stats()
	require.Contains(t, out, "Variables:  2")
	require.True(t, strings.Contains(out, "Node table"))
	require.True(t, strings.Contains(out, "GCs run"))
}

func TestAliveCountTracksLiveHandles(t *testing.T) {
	e, v := newTestEngine(t, 2)
	before := e.AliveCount()

	f := mustAnd(t, e, mustVar(t, e, v[0]), mustVar(t, e, v[1]))
	afterBuild := e.AliveCount()
	require.Greater(t, afterBuild, before)

	f.Release()
}
