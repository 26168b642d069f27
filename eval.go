// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

// Grounded on original_source/include/sbdd2/tdzdd/DdEval.hpp
// (DdEval/DdValues/zdd_evaluate/bdd_evaluate): collect every reachable
// node once by level via BFS, then fold a user-supplied evaluator over
// each level in increasing order (terminal level 0 first, root last).
// BDD negated arcs are normalised to their positive form for node
// identity during the walk, and the evaluator is told at the end whether
// the root itself was complemented, matching the C++ original's
// arc.data & ~1 masking trick.

// Values holds a node's two evaluated children, passed to EvalNode.
type Values[T any] struct {
	Child   [2]T
	Level   [2]Level
	Negated [2]bool
}

// Evaluator is the set of hooks a bottom-up fold over a diagram must
// supply (spec §4.8).
type Evaluator[T any] interface {
	// Initialize is called once with the root's level before any node is
	// visited; it is not called when the root is a terminal.
	Initialize(maxLevel Level)
	// EvalTerminal computes the work value for one of the two terminals.
	EvalTerminal(which bool) T
	// EvalNode computes the work value for a non-terminal node given its
	// already-evaluated children.
	EvalNode(v Var, level Level, values Values[T]) T
}

// Evaluate runs a bottom-up evaluation of f (a BDD arc) and returns the
// work value computed for the positive form of f's root, together with
// whether f itself is complemented; applying that sign to the value is
// the caller's responsibility.
func Evaluate[T any](e *Engine, f Arc, ev Evaluator[T]) (value T, negated bool) {
	if f.IsTerminal() {
		return ev.EvalTerminal(f.IsOne()), false
	}
	root := f.Positive()
	negated = f.IsComplement()

	rv, _, _, _ := e.root(root)
	rootLevel := e.order.level(rv)
	ev.Initialize(rootLevel)

	type queued struct {
		arc   Arc
		level Level
	}
	index := make(map[Arc]int)
	var nodes []Arc
	var levels []Level
	var queue []queued

	push := func(a Arc) int {
		pos := a.Positive()
		if idx, ok := index[pos]; ok {
			return idx
		}
		idx := len(nodes)
		index[pos] = idx
		nodes = append(nodes, pos)
		var lvl Level
		if !pos.IsTerminal() {
			v, _, _, _ := e.root(pos)
			lvl = e.order.level(v)
		}
		levels = append(levels, lvl)
		if !pos.IsTerminal() {
			queue = append(queue, queued{pos, lvl})
		}
		return idx
	}
	rootIdx := push(root)

	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		_, low, high, _ := e.root(cur.arc)
		push(low)
		push(high)
	}

	byLevel := make(map[Level][]int)
	for idx, lvl := range levels {
		byLevel[lvl] = append(byLevel[lvl], idx)
	}

	work := make([]T, len(nodes))
	for idx, a := range nodes {
		if a.IsTerminal() {
			work[idx] = ev.EvalTerminal(a.IsOne())
		}
	}
	for lvl := Level(1); lvl <= rootLevel; lvl++ {
		for _, idx := range byLevel[lvl] {
			a := nodes[idx]
			if a.IsTerminal() {
				continue
			}
			v, low, high, _ := e.root(a)
			var vals Values[T]
			for b, child := range [2]Arc{low, high} {
				pos := child.Positive()
				ci := index[pos]
				vals.Child[b] = work[ci]
				vals.Level[b] = levels[ci]
				vals.Negated[b] = child.IsComplement()
			}
			work[idx] = ev.EvalNode(v, lvl, vals)
		}
	}
	return work[rootIdx], negated
}
