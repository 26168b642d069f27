// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

// Opcode enumerates the operations memoised in the operation cache (spec
// §4.3). BDD NOT has no opcode here: it is O(1) via the complement bit and
// never consults the cache.
type Opcode uint8

const (
	OpAnd Opcode = iota
	OpOr
	OpXor
	OpITE
	OpZNot // ZDD complement w.r.t. the universe, the one case ZDD needs a NOT opcode
	OpZUnion
	OpZIntersect
	OpZDifference
	OpZJoin
	OpZMeet
	OpZChange
	OpCofactor
	OpRestrict
	OpCompose
	OpExist
	OpForall
	OpRelProd
	OpCount
	OpOneSat
)

var opcodeNames = [...]string{
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpITE: "ite", OpZNot: "znot",
	OpZUnion: "zunion", OpZIntersect: "zintersect", OpZDifference: "zdifference",
	OpZJoin: "zjoin", OpZMeet: "zmeet", OpZChange: "zchange",
	OpCofactor: "cofactor", OpRestrict: "restrict", OpCompose: "compose",
	OpExist: "exist", OpForall: "forall", OpRelProd: "relprod",
	OpCount: "count", OpOneSat: "onesat",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "?"
}

// cacheEntry is one direct-mapped slot: (opcode, up to three argument arcs)
// -> result arc. A zero-value entry (valid == false) denotes an empty
// slot.
type cacheEntry struct {
	valid bool
	op    Opcode
	a, b, c Arc
	// tag disambiguates operations that need more identity than three arcs
	// can carry, such as a quantification variable-set id or a replacer id
	// (mirrors the teacher's quantset2cache/replacecache "id" fields).
	tag uint64
	res Arc
}

// opCache is the bounded, associative, semantically-weak cache described
// in spec §4.3: entries may be dropped or overwritten at any time and no
// consumer may depend on a hit. Grounded on the teacher's cache.go
// (applycache/itecache/quantcache/appexcache/replacecache), generalised
// here into the single opcode-tagged cache the expanded spec calls for.
type opCache struct {
	table      []cacheEntry
	mask       uint64
	hits, miss uint64
}

func newOpCache(size int) *opCache {
	n := nextPow2(size)
	if n < 16 {
		n = 16
	}
	return &opCache{table: make([]cacheEntry, n), mask: uint64(n - 1)}
}

func (c *opCache) slot(op Opcode, a, b, cc Arc, tag uint64) uint64 {
	h := mix3(uint64(op), uint64(a)^tag*0x9E3779B97F4A7C15, uint64(b)^uint64(cc)<<1)
	return h & c.mask
}

// mix3 is a small avalanche mixer for cache indexing; it does not need to
// be cryptographically strong, only to spread collisions, so we keep it a
// simple multiply-xor-shift chain rather than reaching for xxhash again on
// the hot apply path.
func mix3(a, b, c uint64) uint64 {
	x := a ^ (b + 0x9E3779B97F4A7C15 + (a << 6) + (a >> 2))
	x ^= c + 0x9E3779B97F4A7C15 + (x << 6) + (x >> 2)
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return x
}

// Lookup returns the cached result for (op, a, b, c, tag), if present.
func (c *opCache) Lookup(op Opcode, a, b, cc Arc, tag uint64) (Arc, bool) {
	e := &c.table[c.slot(op, a, b, cc, tag)]
	if e.valid && e.op == op && e.a == a && e.b == b && e.c == cc && e.tag == tag {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

// Store records the result of (op, a, b, c, tag), overwriting whatever was
// in that slot.
func (c *opCache) Store(op Opcode, a, b, cc Arc, tag uint64, res Arc) {
	c.table[c.slot(op, a, b, cc, tag)] = cacheEntry{valid: true, op: op, a: a, b: b, c: cc, tag: tag, res: res}
}

// Flush discards every entry; called immediately before garbage collection
// (spec §4.9) since the cache holds weak (non-counted) arcs that GC may
// invalidate.
func (c *opCache) Flush() {
	for i := range c.table {
		c.table[i] = cacheEntry{}
	}
}

func (c *opCache) HitRatio() float64 {
	total := c.hits + c.miss
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
