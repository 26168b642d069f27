// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

// Grounded on the teacher's gc.go (gbc/markrec/unmarkall): mark-and-sweep
// over the node table, protecting nodes with a positive refcount and
// anything reachable from them. We drop the teacher's refstack
// (pushref/popref around every recursive apply call): in this engine GC is
// only ever scheduled between top-level public calls (afterApply, see
// apply.go), never mid-recursion, so there is nothing transient to protect
// — a node built deep in a recursive apply call is always still reachable
// from the final result by the time GC could possibly run.

// CollectGarbage runs a synchronous mark-and-sweep pass: it flushes the
// operation cache (its arcs are not reference-counted and may point at
// nodes about to be freed), marks every node reachable from a positive
// refcount, and reclaims everything else (spec §4.9).
func (e *Engine) CollectGarbage() {
	e.logger.Debugw("starting gc", "nodes", e.store.Len())
	e.cache.Flush()

	marked := make([]bool, e.store.Len())
	var mark func(idx uint64)
	mark = func(idx uint64) {
		if idx == 0 || idx >= uint64(len(marked)) || marked[idx] {
			return
		}
		n := e.store.At(idx)
		if n.IsEmpty() || n.IsTombstone() {
			return
		}
		marked[idx] = true
		if a := n.Arc0(); !a.IsTerminal() {
			mark(a.Index())
		}
		if a := n.Arc1().Positive(); !a.IsTerminal() {
			mark(a.Index())
		}
	}

	e.store.LiveSlots(func(idx uint64, n Node) {
		if n.RefCount() > 0 {
			mark(idx)
		}
	})

	reclaimed := 0
	e.store.LiveSlots(func(idx uint64, n Node) {
		if marked[idx] {
			return
		}
		e.uniq.Remove(n.Var(), n.Arc0(), n.Arc1())
		e.store.Free(idx)
		reclaimed++
	})

	e.gcCount++
	e.sinceLastGC = 0
	e.zddIndexGen++
	e.logger.Debugw("finished gc", "reclaimed", reclaimed, "live", e.store.Len()-reclaimed)
}

// shouldCollect implements the GC threshold policy (spec §9 open
// question, resolved in DESIGN.md): once the node table has at least 256
// slots, collect when the number of apply calls since the last sweep
// reaches Minfreenodes percent of the table's size (at least 64), with
// GCThreshold (if set) as an absolute override. The threshold grows with
// the table, so collections never become more frequent as it grows.
func (e *Engine) shouldCollect() bool {
	if e.cfg.gcThreshold > 0 {
		return e.store.Len() >= e.cfg.gcThreshold && e.sinceLastGC >= e.cfg.gcThreshold/4+1
	}
	size := e.store.Len()
	if size < 256 {
		return false
	}
	threshold := size * e.cfg.minfreenodes / 100
	if threshold < 64 {
		threshold = 64
	}
	return e.sinceLastGC >= threshold
}
