// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import "math/big"

// Grounded on original_source/include/sbdd2/zdd_iterators.hpp
// (DictIterator/WeightIterator/RandomIterator), reworked into the
// idiomatic Go shape: a struct with a Next() (bool, error) method instead
// of a C++ input_iterator with operator++/operator*/operator==.

// DictIterator walks the sets of a ZDD family forward in ZDDIndex.GetSet
// order, in O(height) memory per step via a ZDDIndex. There is no reverse
// iterator.
type DictIterator struct {
	idx   *ZDDIndex
	z     *ZDD
	next  *big.Int
	total *big.Int
}

// DictIterate returns an iterator over z's family in GetSet order.
func (e *Engine) DictIterate(z *ZDD) (*DictIterator, error) {
	idx, err := e.BuildIndex(z)
	if err != nil {
		return nil, err
	}
	total, _ := idx.Count(z)
	return &DictIterator{idx: idx, z: z, next: big.NewInt(0), total: total}, nil
}

// Next returns the next set, or ok=false once the family is exhausted.
func (it *DictIterator) Next() (set []Var, ok bool, err error) {
	if it.next.Cmp(it.total) >= 0 {
		return nil, false, nil
	}
	s, gerr := it.idx.GetSet(it.z, it.next)
	if gerr != nil {
		return nil, false, gerr
	}
	it.next.Add(it.next, big.NewInt(1))
	return s, true, nil
}

// WeightIterator removes one minimum- (or maximum-) weight set at a time
// from a working copy of the family, per spec §4.7's dynamic-programming
// walk: at each node, weight(low) is compared against
// weight(high)+weight(v) to decide which branch currently holds the
// extremal set.
type WeightIterator struct {
	eng     *Engine
	weights map[Var]int64
	min     bool
	cur     *ZDD
}

// WeightIterate returns an iterator that removes sets from z (a private
// working copy; the caller's handle is unaffected) in ascending (min) or
// descending (max) order of weight, where weight(S) = sum of weights[v]
// for v in S.
func (e *Engine) WeightIterate(z *ZDD, weights map[Var]int64, ascending bool) (*WeightIterator, error) {
	if z.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "WeightIterate: handle belongs to a different engine"))
	}
	return &WeightIterator{eng: e, weights: weights, min: ascending, cur: z.Clone()}, nil
}

// Next returns the next extremal set and removes it from the working
// family, or ok=false once exhausted.
func (it *WeightIterator) Next() (set []Var, ok bool, err error) {
	if it.cur.IsEmpty() {
		return nil, false, nil
	}
	set, werr := it.eng.extremalSet(it.cur.arc, it.weights, it.min)
	if werr != nil {
		return nil, false, it.eng.seterror(werr)
	}
	single, serr := it.eng.singletonFamily(set)
	if serr != nil {
		return nil, false, it.eng.seterror(serr)
	}
	next, derr := it.eng.Difference(it.cur, single)
	if derr != nil {
		return nil, false, derr
	}
	it.cur.Release()
	it.cur = next
	return set, true, nil
}

// extremalSet finds the minimum- or maximum-weight set of the family n by
// a bottom-up comparison of low vs high + weight(v), memoised per node.
func (eng *Engine) extremalSet(n Arc, weights map[Var]int64, min bool) ([]Var, *Error) {
	type entry struct {
		w    int64
		pick []Var
	}
	const inf = int64(1) << 62
	memo := make(map[Arc]entry)
	var rec func(a Arc) entry
	rec = func(a Arc) entry {
		if a.IsZero() {
			if min {
				return entry{w: inf} // no set reachable this way
			}
			return entry{w: -inf}
		}
		if a.IsOne() {
			return entry{w: 0}
		}
		if cached, ok := memo[a]; ok {
			return cached
		}
		v, low, high, _ := eng.root(a)
		lowE := rec(low)
		highE := rec(high)
		highW := highE.w + weights[v]
		var res entry
		if (min && highW < lowE.w) || (!min && highW > lowE.w) {
			res = entry{w: highW, pick: append(append([]Var{}, highE.pick...), v)}
		} else {
			res = entry{w: lowE.w, pick: lowE.pick}
		}
		memo[a] = res
		return res
	}
	res := rec(n)
	return res.pick, nil
}

// singletonFamily builds the ZDD whose only member is set.
func (e *Engine) singletonFamily(set []Var) (*ZDD, error) {
	res := e.ZDDBase()
	for i := len(set) - 1; i >= 0; i-- {
		next, cerr := e.Change(res, set[i])
		if cerr != nil {
			return nil, cerr
		}
		res.Release()
		res = next
	}
	return res, nil
}

// RandomIterator samples sets uniformly from a family without
// replacement, guided by a ZDDIndex's subfamily counts so each draw costs
// O(height) instead of O(family size).
type RandomIterator struct {
	eng   *Engine
	cur   *ZDD
	rng   func() float64 // returns a uniform value in [0,1)
	count int
	drawn int
}

// RandomIterate returns an iterator drawing all sets of z in a uniformly
// random order without replacement. rng must return successive uniform
// values in [0,1); callers typically pass rand.Float64 from a seeded
// source.
func (e *Engine) RandomIterate(z *ZDD, rng func() float64) (*RandomIterator, error) {
	if z.eng != e {
		return nil, e.seterror(newError(FlavourMismatch, "RandomIterate: handle belongs to a different engine"))
	}
	idx, err := e.BuildIndex(z)
	if err != nil {
		return nil, err
	}
	total, _ := idx.Count(z)
	return &RandomIterator{eng: e, cur: z.Clone(), rng: rng, count: int(total.Int64())}, nil
}

// Next draws one more set uniformly from the remaining family.
func (it *RandomIterator) Next() (set []Var, ok bool, err error) {
	if it.drawn >= it.count {
		return nil, false, nil
	}
	idx, ierr := it.eng.BuildIndex(it.cur)
	if ierr != nil {
		return nil, false, ierr
	}
	total, _ := idx.Count(it.cur)
	if total.Sign() == 0 {
		return nil, false, nil
	}
	k := new(big.Int).Mul(total, big.NewInt(int64(it.rng()*(1<<32))))
	k.Rsh(k, 32)
	set, gerr := idx.GetSet(it.cur, k)
	if gerr != nil {
		return nil, false, gerr
	}
	single, serr := it.eng.singletonFamily(set)
	if serr != nil {
		return nil, false, serr
	}
	next, derr := it.eng.Difference(it.cur, single)
	if derr != nil {
		return nil, false, derr
	}
	it.cur.Release()
	it.cur = next
	it.drawn++
	return set, true, nil
}
