// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

// ZDD set operations. No direct teacher analogue (the teacher is
// BDD-only); grounded on zzenonn-go-zdd/zdd.go's node-as-index ZDD for
// the general shape of a Go ZDD engine, and on spec §4.5's per-opcode
// terminal-rule table. Unlike BDD apply, ZDD nodes never carry a
// complement bit, so there is no De Morgan pull-out step, only zero
// suppression inside mkZNode (handle.go).

// Union returns the family of sets present in a or b (or both).
func (e *Engine) Union(a, b *ZDD) (*ZDD, error) {
	return e.zddApply(OpZUnion, a, b)
}

// Intersect returns the family of sets present in both a and b.
func (e *Engine) Intersect(a, b *ZDD) (*ZDD, error) {
	return e.zddApply(OpZIntersect, a, b)
}

// Difference returns the family of sets present in a but not in b.
func (e *Engine) Difference(a, b *ZDD) (*ZDD, error) {
	return e.zddApply(OpZDifference, a, b)
}

func (e *Engine) zddApply(op Opcode, a, b *ZDD) (*ZDD, error) {
	if a.eng != e || b.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "%s: handles belong to different engines", op))
	}
	res, err := e.zapply(op, a.arc, b.arc)
	if err != nil {
		return nil, e.seterror(err)
	}
	e.afterApply()
	return e.wrapZDD(res), nil
}

func (e *Engine) zapply(op Opcode, left, right Arc) (Arc, *Error) {
	switch op {
	case OpZUnion:
		if left == right {
			return left, nil
		}
		if left.IsZero() {
			return right, nil
		}
		if right.IsZero() {
			return left, nil
		}
	case OpZIntersect:
		if left == right {
			return left, nil
		}
		if left.IsZero() || right.IsZero() {
			return T0, nil
		}
	case OpZDifference:
		if left == right {
			return T0, nil
		}
		if left.IsZero() {
			return T0, nil
		}
		if right.IsZero() {
			return left, nil
		}
	}

	a, b := left, right
	if op == OpZUnion || op == OpZIntersect {
		if a > b {
			a, b = b, a
		}
	}
	if res, ok := e.cache.Lookup(op, a, b, 0, 0); ok {
		return res, nil
	}

	lv, llow, lhigh, lok := e.root(left)
	rv, rlow, rhigh, rok := e.root(right)
	var splitVar Var
	var lLow, lHigh, rLow, rHigh Arc
	switch {
	case lok && rok && lv == rv:
		splitVar, lLow, lHigh, rLow, rHigh = lv, llow, lhigh, rlow, rhigh
	case lok && (!rok || e.order.level(lv) > e.order.level(rv)):
		// right has no sets containing this variable: its sets all fall
		// on the "absent" (low) side regardless of op.
		splitVar, lLow, lHigh = lv, llow, lhigh
		rLow, rHigh = right, T0
	default:
		splitVar, rLow, rHigh = rv, rlow, rhigh
		lLow, lHigh = left, T0
	}

	low, err := e.zapply(op, lLow, rLow)
	if err != nil {
		return 0, err
	}
	high, err := e.zapply(op, lHigh, rHigh)
	if err != nil {
		return 0, err
	}
	res, merr := e.mkZNode(splitVar, low, high)
	if merr != nil {
		return 0, merr
	}
	e.cache.Store(op, a, b, 0, 0, res)
	return res, nil
}

// Change toggles membership of element v in every set of z.
func (e *Engine) Change(z *ZDD, v Var) (*ZDD, error) {
	if z.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "Change: handle belongs to a different engine"))
	}
	lvl, lerr := e.order.LevelOf(v)
	if lerr != nil {
		return nil, e.seterror(lerr.(*Error))
	}
	res, err := e.change(z.arc, v, lvl)
	if err != nil {
		return nil, e.seterror(err)
	}
	e.afterApply()
	return e.wrapZDD(res), nil
}

func (e *Engine) change(n Arc, v Var, lvl Level) (Arc, *Error) {
	if n.IsTerminal() {
		if n.IsZero() {
			return T0, nil
		}
		return e.mkZNode(v, T0, n)
	}
	nv, low, high, _ := e.root(n)
	nlvl := e.order.level(nv)
	if nlvl < lvl {
		return e.mkZNode(v, T0, n)
	}
	if nv == v {
		return e.mkZNode(v, high, low), nil
	}
	if res, ok := e.cache.Lookup(OpZChange, n, 0, 0, uint64(v)); ok {
		return res, nil
	}
	newLow, err := e.change(low, v, lvl)
	if err != nil {
		return 0, err
	}
	newHigh, err := e.change(high, v, lvl)
	if err != nil {
		return 0, err
	}
	res, merr := e.mkZNode(nv, newLow, newHigh)
	if merr != nil {
		return 0, merr
	}
	e.cache.Store(OpZChange, n, 0, 0, uint64(v), res)
	return res, nil
}

// Join (ZDD set-wise product) returns { s ∪ t | s ∈ a, t ∈ b }.
func (e *Engine) Join(a, b *ZDD) (*ZDD, error) {
	if a.eng != e || b.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "Join: handles belong to different engines"))
	}
	res, err := e.join(a.arc, b.arc)
	if err != nil {
		return nil, e.seterror(err)
	}
	e.afterApply()
	return e.wrapZDD(res), nil
}

func (e *Engine) join(left, right Arc) (Arc, *Error) {
	if left.IsZero() || right.IsZero() {
		return T0, nil
	}
	if left.IsOne() {
		return right, nil
	}
	if right.IsOne() {
		return left, nil
	}
	a, b := left, right
	if a > b {
		a, b = b, a
	}
	if res, ok := e.cache.Lookup(OpZJoin, a, b, 0, 0); ok {
		return res, nil
	}

	lv, llow, lhigh, _ := e.root(left)
	rv, rlow, rhigh, _ := e.root(right)

	var res Arc
	var err *Error
	switch {
	case e.order.level(lv) > e.order.level(rv):
		low, e1 := e.join(llow, right)
		if e1 != nil {
			return 0, e1
		}
		high, e2 := e.join(lhigh, right)
		if e2 != nil {
			return 0, e2
		}
		res, err = e.mkZNode(lv, low, high)
	case e.order.level(rv) > e.order.level(lv):
		low, e1 := e.join(left, rlow)
		if e1 != nil {
			return 0, e1
		}
		high, e2 := e.join(left, rhigh)
		if e2 != nil {
			return 0, e2
		}
		res, err = e.mkZNode(rv, low, high)
	default:
		ll, e1 := e.join(llow, rlow)
		if e1 != nil {
			return 0, e1
		}
		lh, e2 := e.join(llow, rhigh)
		if e2 != nil {
			return 0, e2
		}
		hl, e3 := e.join(lhigh, rlow)
		if e3 != nil {
			return 0, e3
		}
		hh, e4 := e.join(lhigh, rhigh)
		if e4 != nil {
			return 0, e4
		}
		high1, e5 := e.zapply(OpZUnion, lh, hl)
		if e5 != nil {
			return 0, e5
		}
		high2, e6 := e.zapply(OpZUnion, high1, hh)
		if e6 != nil {
			return 0, e6
		}
		res, err = e.mkZNode(lv, ll, high2)
	}
	if err != nil {
		return 0, err
	}
	e.cache.Store(OpZJoin, a, b, 0, 0, res)
	return res, nil
}

// ZDDRestrict removes every set of z that contains any element not allowed
// by mask: it keeps only sets s such that s ⊆ t for some member set t of
// mask.
func (e *Engine) ZDDRestrict(z, mask *ZDD) (*ZDD, error) {
	if z.eng != e || mask.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "ZDDRestrict: handles belong to different engines"))
	}
	res, err := e.zrestrict(z.arc, mask.arc)
	if err != nil {
		return nil, e.seterror(err)
	}
	e.afterApply()
	return e.wrapZDD(res), nil
}

func (e *Engine) zrestrict(n, mask Arc) (Arc, *Error) {
	if n.IsZero() {
		return T0, nil
	}
	if mask.IsZero() {
		return T0, nil
	}
	if n.IsOne() {
		return T1, nil
	}
	if res, ok := e.cache.Lookup(OpRestrict, n, mask, 0, 0); ok {
		return res, nil
	}
	nv, nlow, nhigh, _ := e.root(n)
	mv, mlow, mhigh, mok := e.root(mask)

	var maskLow, maskHigh Arc
	if mok && e.order.level(mv) >= e.order.level(nv) {
		// a set without mv fits inside a mask set with or without mv
		merged, uerr := e.zapply(OpZUnion, mlow, mhigh)
		if uerr != nil {
			return 0, uerr
		}
		if e.order.level(mv) > e.order.level(nv) {
			return e.zrestrict(n, merged)
		}
		maskLow, maskHigh = merged, mhigh
	} else {
		maskLow, maskHigh = mask, T0 // no set of mask contains nv
	}

	low, err := e.zrestrict(nlow, maskLow)
	if err != nil {
		return 0, err
	}
	var high Arc
	if maskHigh.IsZero() {
		high = T0
	} else {
		high, err = e.zrestrict(nhigh, maskHigh)
		if err != nil {
			return 0, err
		}
	}
	res, merr := e.mkZNode(nv, low, high)
	if merr != nil {
		return 0, merr
	}
	e.cache.Store(OpRestrict, n, mask, 0, 0, res)
	return res, nil
}
