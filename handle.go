// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import "runtime"

// BDD is a handle to a reduced, complemented-edge binary decision diagram
// rooted in an Engine. The zero value is not valid; handles are produced
// by Engine constructors (BDDZero, BDDOne, VarBDD, ...) and by the BDD
// algorithms (And, Or, Ite, ...).
//
// Grounded on the teacher's Node type (hudd.go), which is a *int wrapping
// a node index with a runtime.SetFinalizer-driven refcount decrement.
// We keep the same GC-piggybacking trick but on a small struct instead of
// a bare *int, since an Arc already carries the complement/terminal bits
// the teacher kept in a side table.
type BDD struct {
	eng *Engine
	arc Arc
}

// ZDD is a handle to a reduced, zero-suppressed decision diagram rooted in
// an Engine. BDD and ZDD share the same node store and unique table but
// are distinct Go types, so one cannot be passed where the other is
// expected; a complemented child reaching mkZNode is a FlavourMismatch
// error.
type ZDD struct {
	eng *Engine
	arc Arc
}

// wrapBDD increments the refcount of a and returns a handle whose
// finalizer decrements it again once the handle becomes unreachable. This
// is how "destruction decrements the refcount" (spec §4.6) is realised
// without requiring callers to ever call a Release/Close method, exactly
// the teacher's approach in retnode().
func (e *Engine) wrapBDD(a Arc) *BDD {
	e.addRef(a)
	h := &BDD{eng: e, arc: a}
	runtime.SetFinalizer(h, func(h *BDD) { h.eng.delRef(h.arc) })
	return h
}

func (e *Engine) wrapZDD(a Arc) *ZDD {
	e.addRef(a)
	h := &ZDD{eng: e, arc: a}
	runtime.SetFinalizer(h, func(h *ZDD) { h.eng.delRef(h.arc) })
	return h
}

// Clone returns a new handle to the same node, incrementing its refcount.
// Use this when a handle needs to outlive the scope that produced it and
// relying on the garbage collector's finalizer timing is not acceptable,
// e.g. when stashing a handle in a long-lived cache.
func (b *BDD) Clone() *BDD { return b.eng.wrapBDD(b.arc) }

// Release decrements the refcount immediately instead of waiting for the
// garbage collector to notice the handle is unreachable, and disarms the
// finalizer so it does not fire (and double-decrement) later.
func (b *BDD) Release() {
	runtime.SetFinalizer(b, nil)
	b.eng.delRef(b.arc)
}

func (z *ZDD) Clone() *ZDD { return z.eng.wrapZDD(z.arc) }

func (z *ZDD) Release() {
	runtime.SetFinalizer(z, nil)
	z.eng.delRef(z.arc)
}

// Engine returns the Engine that owns b.
func (b *BDD) Engine() *Engine { return b.eng }

// Engine returns the Engine that owns z.
func (z *ZDD) Engine() *Engine { return z.eng }

// IsZero reports whether b is the constant false function.
func (b *BDD) IsZero() bool { return b.arc.IsZero() }

// IsOne reports whether b is the constant true function.
func (b *BDD) IsOne() bool { return b.arc.IsOne() }

// IsEmpty reports whether z is the empty family of sets.
func (z *ZDD) IsEmpty() bool { return z.arc.IsZero() }

// IsBase reports whether z is the family containing only the empty set.
func (z *ZDD) IsBase() bool { return z.arc.IsOne() }

// root returns the (var, low, high) triple of the node b (or z) points to,
// and ok=false if the handle points to a terminal.
func (e *Engine) root(a Arc) (v Var, low, high Arc, ok bool) {
	if a.IsTerminal() {
		return 0, 0, 0, false
	}
	n := e.store.At(a.Index())
	v = n.Var()
	low, high = n.Arc0(), n.Arc1()
	if a.IsComplement() {
		low, high = low.Negate(), high.Negate()
	}
	return v, low, high, true
}

// BDDZero returns the constant false BDD.
func (e *Engine) BDDZero() *BDD { return e.wrapBDD(T0) }

// BDDOne returns the constant true BDD.
func (e *Engine) BDDOne() *BDD { return e.wrapBDD(T1) }

// ZDDEmpty returns the ZDD for the empty family of sets.
func (e *Engine) ZDDEmpty() *ZDD { return e.wrapZDD(T0) }

// ZDDBase returns the ZDD for the family containing only the empty set.
func (e *Engine) ZDDBase() *ZDD { return e.wrapZDD(T1) }

// mkNode hash-conses (v, low, high): it returns the existing node's arc if
// one with this exact triple already exists, or allocates a fresh one.
// This is the single chokepoint every BDD constructor and algorithm
// funnels through (ZDD nodes go through mkZNode instead), matching the
// teacher's unique table usage in bdd.go's makenode.
func (e *Engine) mkNode(v Var, low, high Arc) (Arc, *Error) {
	neg := false
	if low.IsComplement() || low.IsOne() {
		// BDD canonical form: the low edge is never complemented, and T1
		// counts as the complement of T0 here. Push the complement up to the
		// node's own out-edge (De Morgan) instead.
		low, high, neg = low.Negate(), high.Negate(), true
	}
	if low == high {
		// Reduction rule: a node whose two cofactors coincide is redundant
		// and collapses to that shared child.
		if neg {
			return low.Negate(), nil
		}
		return low, nil
	}
	if idx, ok := e.uniq.Find(v, low, high); ok {
		return nodeArc(idx, neg), nil
	}
	idx, err := e.store.Allocate(v, low, high)
	if err != nil {
		return 0, err.(*Error)
	}
	e.uniq.Insert(v, low, high, idx)
	return nodeArc(idx, neg), nil
}

// mkZNode is mkNode's zero-suppressed counterpart: a node whose high edge
// points to the empty family is redundant (v never participates in any
// set of the family) and collapses to its low child (spec §4.2 zero
// suppression). ZDD nodes never carry a complement bit; a complemented
// child is reported as a FlavourMismatch.
func (e *Engine) mkZNode(v Var, low, high Arc) (Arc, *Error) {
	if low.IsComplement() || high.IsComplement() {
		return 0, newError(FlavourMismatch, "ZDD node for variable %d has a complemented child", v)
	}
	if high.IsZero() {
		return low, nil
	}
	if idx, ok := e.uniq.Find(v, low, high); ok {
		return nodeArc(idx, false), nil
	}
	idx, err := e.store.Allocate(v, low, high)
	if err != nil {
		return 0, err.(*Error)
	}
	e.uniq.Insert(v, low, high, idx)
	return nodeArc(idx, false), nil
}

// VarBDD returns the BDD for the literal v (the function that is true
// exactly when variable v is true).
func (e *Engine) VarBDD(v Var) (*BDD, error) {
	if _, err := e.order.LevelOf(v); err != nil {
		return nil, e.seterror(err.(*Error))
	}
	a, err := e.mkNode(v, T0, T1)
	if err != nil {
		return nil, e.seterror(err)
	}
	return e.wrapBDD(a), nil
}

// NVarBDD returns the BDD for the negated literal ¬v.
func (e *Engine) NVarBDD(v Var) (*BDD, error) {
	b, err := e.VarBDD(v)
	if err != nil {
		return nil, err
	}
	return e.wrapBDD(b.arc.Negate()), nil
}

// ZDDSingle returns the ZDD whose only member set is {v}.
func (e *Engine) ZDDSingle(v Var) (*ZDD, error) {
	if _, err := e.order.LevelOf(v); err != nil {
		return nil, e.seterror(err.(*Error))
	}
	a, err := e.mkZNode(v, T0, T1)
	if err != nil {
		return nil, e.seterror(err)
	}
	return e.wrapZDD(a), nil
}
