// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// slotState is the tri-state of one uniqueTable slot: never used, holding
// a live entry, or tombstoned by a deletion (so that linear probing can
// skip over it without terminating early).
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// uniqueSlot is one entry of the open-addressed hash-consing table
// described in spec §4.2.
type uniqueSlot struct {
	state slotState
	v     Var
	low   Arc
	high  Arc
	index uint64
}

// uniqueTable is the hash-consing structure that enforces canonicity: for
// any (variable, low, high) triple there is at most one stored node.
//
// Grounded on the teacher's hashing.go (_PAIR/_TRIPLE Cantor-pairing
// mixing, replaced below by an xxhash-based mix) and on the array-backed
// unique table in bkernel.go, here generalised from hash-chaining to the
// open-addressing-with-tombstones scheme spec §4.2 calls for.
type uniqueTable struct {
	slots []uniqueSlot
	count int // occupied + tombstoned
	live  int // occupied only
	seed  uint64
}

const uniqueLoadFactor = 0.7

func newUniqueTable(initial int, seed uint64) *uniqueTable {
	size := nextPow2(initial)
	if size < 8 {
		size = 8
	}
	return &uniqueTable{slots: make([]uniqueSlot, size), seed: seed}
}

func (u *uniqueTable) hash(v Var, low, high Arc) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(v))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(low))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(high))
	return xxhash.Sum64(buf[:]) ^ u.seed
}

// Find looks up (v, low, high) and returns its node index if present.
func (u *uniqueTable) Find(v Var, low, high Arc) (uint64, bool) {
	mask := uint64(len(u.slots) - 1)
	h := u.hash(v, low, high) & mask
	for i := uint64(0); i < uint64(len(u.slots)); i++ {
		pos := (h + i) & mask
		s := &u.slots[pos]
		switch s.state {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if s.v == v && s.low == low && s.high == high {
				return s.index, true
			}
		}
	}
	return 0, false
}

// Insert records that (v, low, high) maps to index. The caller must have
// already established (via Find) that no entry exists.
func (u *uniqueTable) Insert(v Var, low, high Arc, index uint64) {
	if float64(u.count+1) > uniqueLoadFactor*float64(len(u.slots)) {
		u.grow()
	}
	mask := uint64(len(u.slots) - 1)
	h := u.hash(v, low, high) & mask
	for i := uint64(0); ; i++ {
		pos := (h + i) & mask
		s := &u.slots[pos]
		if s.state != slotOccupied {
			if s.state == slotEmpty {
				u.count++
			}
			*s = uniqueSlot{state: slotOccupied, v: v, low: low, high: high, index: index}
			u.live++
			return
		}
	}
}

// Remove deletes the entry for (v, low, high), tombstoning its slot so
// later probes for colliding keys still succeed. Used by garbage
// collection (gc.go) when a node is swept.
func (u *uniqueTable) Remove(v Var, low, high Arc) {
	mask := uint64(len(u.slots) - 1)
	h := u.hash(v, low, high) & mask
	for i := uint64(0); i < uint64(len(u.slots)); i++ {
		pos := (h + i) & mask
		s := &u.slots[pos]
		switch s.state {
		case slotEmpty:
			return
		case slotOccupied:
			if s.v == v && s.low == low && s.high == high {
				s.state = slotTombstone
				s.low, s.high, s.index = 0, 0, 0
				u.live--
				return
			}
		}
	}
}

// Clear empties the table entirely. Garbage collection does not use it:
// gc.go removes each swept node's entry with Remove.
func (u *uniqueTable) Clear() {
	for i := range u.slots {
		u.slots[i] = uniqueSlot{}
	}
	u.count, u.live = 0, 0
}

func (u *uniqueTable) grow() {
	old := u.slots
	u.slots = make([]uniqueSlot, len(old)*2)
	u.count, u.live = 0, 0
	for _, s := range old {
		if s.state == slotOccupied {
			u.Insert(s.v, s.low, s.high, s.index)
		}
	}
}

// Live returns the number of occupied (non-tombstoned) entries.
func (u *uniqueTable) Live() int {
	return u.live
}
