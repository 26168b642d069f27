// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"fmt"

	"go.uber.org/zap"
)

// Engine is the public façade (the "manager" of spec §2.7/§4.4): it owns
// the node store, unique table, operation cache and variable ordering,
// issues variables, builds terminals and single-variable diagrams, and
// gates access to every algorithm. Both BDD and ZDD handles share one
// Engine.
//
// Grounded on the teacher's hudd.go (tables/New), generalised from a
// BDD-only, fixed-varnum table into a shared BDD+ZDD engine with
// growable variable ordering.
type Engine struct {
	store *nodeStore
	uniq  *uniqueTable
	cache *opCache
	order *ordering
	cfg   *configs
	logger *zap.SugaredLogger

	err *Error

	gcCount     int
	sinceLastGC int // apply calls since the last GC, used by the threshold policy

	quantGen uint64 // generation counter for quantification cache tags (replaces a stale varset id)
	zddIndexGen uint64 // invalidated whenever GC runs (index.go)
}

// New creates an empty Engine with no variables allocated yet. Options
// configure initial table sizes, GC policy, logging and the unique
// table's hash seed; see config.go.
func New(options ...Option) *Engine {
	cfg := makeconfigs()
	for _, f := range options {
		f(cfg)
	}
	e := &Engine{
		store: newNodeStore(cfg.nodesize),
		uniq:  newUniqueTable(cfg.nodesize, cfg.hashSeed),
		cache: newOpCache(cfg.cachesize),
		order: newOrdering(),
		cfg:   cfg,
	}
	if cfg.logger != nil {
		e.logger = cfg.logger.Sugar()
	} else {
		e.logger = newNopSugar()
	}
	return e
}

// NewVariable appends a variable at the top level and returns its 1-based
// number.
func (e *Engine) NewVariable() (Var, error) {
	v, err := e.order.NewVariable()
	if err != nil {
		return 0, e.seterror(err.(*Error))
	}
	return v, nil
}

// VariableCount returns the number of currently allocated variables.
func (e *Engine) VariableCount() int {
	return e.order.VariableCount()
}

// LevelOf returns the level of v.
func (e *Engine) LevelOf(v Var) (Level, error) {
	return e.order.LevelOf(v)
}

// VarAtLevel returns the variable occupying lvl.
func (e *Engine) VarAtLevel(lvl Level) (Var, error) {
	return e.order.VarAtLevel(lvl)
}

// AliveCount returns the number of live nodes (spec §4.4): nodes reachable
// from a positive-refcount handle. This walks the store and is meant for
// diagnostics, not the hot path.
func (e *Engine) AliveCount() int {
	visited := make(map[uint64]bool)
	var mark func(a Arc)
	mark = func(a Arc) {
		if a.IsTerminal() {
			return
		}
		idx := a.Index()
		if visited[idx] {
			return
		}
		visited[idx] = true
		n := e.store.At(idx)
		mark(n.Arc0())
		mark(n.Arc1().Positive())
	}
	e.store.LiveSlots(func(idx uint64, n Node) {
		if n.RefCount() > 0 {
			mark(nodeArc(idx, false))
		}
	})
	return len(visited)
}

// Stats returns a human-readable summary of the engine's tables, in the
// style of the teacher's Stats()/stdio.go.
func (e *Engine) Stats() string {
	return fmt.Sprintf(
		"Variables:  %d\nNode table: %d (produced %d)\nUnique live:%d\nCache hit:  %.1f%%\nGCs run:    %d\n",
		e.order.VariableCount(), e.store.Len(), e.store.produced, e.uniq.Live(), e.cache.HitRatio()*100, e.gcCount,
	)
}

// addRef increments the reference count of the node a points to (a no-op
// for terminal arcs, which are never swept).
func (e *Engine) addRef(a Arc) {
	if a.IsTerminal() {
		return
	}
	idx := a.Index()
	n := e.store.At(idx)
	n.IncRef()
	e.store.Set(idx, n)
}

// delRef decrements the reference count of the node a points to. It does
// not free the node immediately: the node simply becomes a garbage
// collection candidate (spec §4.6).
func (e *Engine) delRef(a Arc) {
	if a.IsTerminal() {
		return
	}
	idx := a.Index()
	n := e.store.At(idx)
	n.DecRef()
	e.store.Set(idx, n)
}
