// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import "math/big"

// Grounded on the teacher's hoperations.go Satcount/satcount (gap-aware
// 2^gap walk memoised in a map) and
// original_source/include/sbdd2/exact_int.hpp's always-exact contract: Go
// has no conditional bignum backend, so unlike the C++ original we always
// return a math/big.Int rather than switching to a fixed-width fast path.
//
// The teacher's level convention has the root at level 0 and levels
// increasing downward; ours is the opposite (root at the maximum level,
// terminal at level 0), so the gap term below is parentLevel-childLevel-1
// rather than the teacher's childLevel-parentLevel-1.

// Satcount returns the number of satisfying assignments of f, counted over
// every variable in the engine's current ordering (spec §4.5).
func (e *Engine) Satcount(f *BDD) (*big.Int, error) {
	if f.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "Satcount: handle belongs to a different engine"))
	}
	res := big.NewInt(0)
	top := e.rootLevel(f.arc)
	res.SetBit(res, int(Level(e.VariableCount())-top), 1)
	memo := make(map[Arc]*big.Int)
	return res.Mul(res, e.satcount(f.arc, memo)), nil
}

func (e *Engine) rootLevel(a Arc) Level {
	if a.IsTerminal() {
		return 0
	}
	v, _, _, _ := e.root(a)
	return e.order.level(v)
}

func (e *Engine) satcount(n Arc, memo map[Arc]*big.Int) *big.Int {
	if n.IsZero() {
		return big.NewInt(0)
	}
	if n.IsOne() {
		return big.NewInt(1)
	}
	if res, ok := memo[n]; ok {
		return res
	}
	v, low, high, _ := e.root(n)
	lvl := e.order.level(v)

	res := big.NewInt(0)
	gapLow := big.NewInt(0)
	gapLow.SetBit(gapLow, int(lvl-e.rootLevel(low)-1), 1)
	res.Add(res, gapLow.Mul(gapLow, e.satcount(low, memo)))

	gapHigh := big.NewInt(0)
	gapHigh.SetBit(gapHigh, int(lvl-e.rootLevel(high)-1), 1)
	res.Add(res, gapHigh.Mul(gapHigh, e.satcount(high, memo)))

	memo[n] = res
	return res
}

// ZDDCount returns the number of sets in the family z, with no gap term
// (every ZDD level strictly separates present/absent, so there is nothing
// to skip between a node and its non-suppressed children other than what
// zero-suppression already accounts for).
func (e *Engine) ZDDCount(z *ZDD) (*big.Int, error) {
	if z.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "ZDDCount: handle belongs to a different engine"))
	}
	memo := make(map[Arc]*big.Int)
	return e.zddcount(z.arc, memo), nil
}

func (e *Engine) zddcount(n Arc, memo map[Arc]*big.Int) *big.Int {
	if n.IsZero() {
		return big.NewInt(0)
	}
	if n.IsOne() {
		return big.NewInt(1)
	}
	if res, ok := memo[n]; ok {
		return res
	}
	_, low, high, _ := e.root(n)
	res := new(big.Int).Add(e.zddcount(low, memo), e.zddcount(high, memo))
	memo[n] = res
	return res
}

// TriState is one entry of a OneSat result: the value forced on the
// variable at that index (DontCare means the variable is free).
type TriState int8

const (
	DontCare TriState = -1
	False    TriState = 0
	True     TriState = 1
)

// OneSat walks from f's root following whichever child leads to a
// non-false descendant (preferring low), returning a partial assignment
// indexed by variable number (index 0 unused); variables never visited
// are DontCare (spec §4.5).
func (e *Engine) OneSat(f *BDD) ([]TriState, error) {
	if f.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "OneSat: handle belongs to a different engine"))
	}
	res := make([]TriState, e.VariableCount()+1)
	for i := range res {
		res[i] = DontCare
	}
	if f.arc.IsZero() {
		return nil, e.seterror(newError(InvariantViolation, "OneSat: f is the constant-false function"))
	}
	e.onesat(f.arc, res)
	return res, nil
}

func (e *Engine) onesat(n Arc, res []TriState) {
	if n.IsTerminal() {
		return
	}
	v, low, high, _ := e.root(n)
	if !low.IsZero() {
		res[v] = False
		e.onesat(low, res)
		return
	}
	res[v] = True
	e.onesat(high, res)
}
