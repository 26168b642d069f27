// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

// nextPow2 rounds size up to the next power of two (minimum 1). The
// teacher (primes.go) rounds table sizes up to the nearest prime, a BuDDY
// convention for hash-chaining tables; spec §4.2 and §4.3 both mandate
// power-of-two sizing instead (the unique table and the operation cache
// are probed/indexed with a bitmask, not a modulo), so the same "round a
// requested size up to a usable table size" role is kept here under a new
// strategy.
func nextPow2(size int) int {
	if size < 1 {
		return 1
	}
	n := 1
	for n < size {
		n <<= 1
	}
	return n
}
