// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import "go.uber.org/zap"

// _MINFREENODES is the default Minfreenodes percentage used by the
// automatic GC policy (gc.go's shouldCollect).
const _MINFREENODES int = 20

// _DEFAULTMAXNODEINC is the default Maxnodeincrease value (about a million
// nodes), matching the teacher's config.go; the node store does not read
// it.
const _DEFAULTMAXNODEINC int = 1 << 20

// configs stores the construction-time parameters of an Engine. Grounded
// directly on the teacher's config.go functional-options pattern, extended
// with the ambient-stack options the expanded spec introduces.
type configs struct {
	nodesize        int
	cachesize       int
	cacheratio      int
	maxnodesize     int
	maxnodeincrease int
	minfreenodes    int
	gcThreshold     int
	hashSeed        uint64
	logger          *zap.Logger
}

func makeconfigs() *configs {
	return &configs{
		nodesize:        1024,
		cachesize:       10000,
		minfreenodes:    _MINFREENODES,
		maxnodeincrease: _DEFAULTMAXNODEINC,
		gcThreshold:     0, // 0 means "derive from minfreenodes", see gc.go
	}
}

// Option configures an Engine at construction time.
type Option func(*configs)

// Nodesize sets the preferred initial size of the node table.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size > 0 {
			c.nodesize = size
		}
	}
}

// Maxnodesize records a cap on the number of nodes the store may hold. The
// node store does not consult it: allocation is limited only by
// MaxNodeIndex.
func Maxnodesize(size int) Option {
	return func(c *configs) { c.maxnodesize = size }
}

// Maxnodeincrease records how many nodes a single resize may add. The node
// store grows by plain slice appends and does not consult it.
func Maxnodeincrease(size int) Option {
	return func(c *configs) { c.maxnodeincrease = size }
}

// Minfreenodes sets the percentage of the node table's size used by the
// automatic GC policy: with no GCThreshold, a collection runs once that
// many apply calls (at least 64) have happened since the last one.
func Minfreenodes(ratio int) Option {
	return func(c *configs) { c.minfreenodes = ratio }
}

// Cachesize sets the initial number of entries in the operation cache.
func Cachesize(size int) Option {
	return func(c *configs) { c.cachesize = size }
}

// Cacheratio records a percentage of node-table slots for the operation
// cache to grow by. The operation cache keeps the size it was created with
// and does not consult it.
func Cacheratio(ratio int) Option {
	return func(c *configs) { c.cacheratio = ratio }
}

// GCThreshold sets an absolute node-table size (live, freed and unused
// slots together) at or above which an automatic garbage collection runs
// after an apply, once more than GCThreshold/4 apply calls have happened
// since the last one (spec §4.9, §9 "GC threshold policy" open question).
// Zero (the default) derives a threshold from Minfreenodes and the node
// table's current size.
func GCThreshold(n int) Option {
	return func(c *configs) { c.gcThreshold = n }
}

// HashSeed seeds the unique table's mixing function, useful for
// deterministic tests that want to exercise hash collisions reproducibly.
func HashSeed(seed uint64) Option {
	return func(c *configs) { c.hashSeed = seed }
}

// Logger installs a structured logger for GC, resize and import
// diagnostics. The default is a no-op logger.
func Logger(l *zap.Logger) Option {
	return func(c *configs) { c.logger = l }
}
