// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

// nodeStore is the append-with-holes table of Nodes described in spec
// §4.1. Index 0 is a reserved sentinel (never allocated); live node
// indices start at 1. Allocation first reuses a tombstoned slot from the
// free list, maintained by garbage collection, before growing the
// underlying slice.
//
// Grounded on the teacher's hkernel.go (noderesize, the setnode/delnode
// free-list-via-node-fields scheme); we keep the same two behaviours
// (reuse-before-grow, and a maximum node count) but track free slots with
// an explicit stack instead of overloading node fields as a linked list,
// which is simpler to reason about in Go and just as cheap.
type nodeStore struct {
	nodes    []Node
	freeList []uint64
	produced uint64 // total nodes ever allocated, for stats
}

func newNodeStore(initial int) *nodeStore {
	if initial < 1 {
		initial = 1
	}
	s := &nodeStore{nodes: make([]Node, 1, initial)} // index 0 reserved
	return s
}

// Len returns the current size of the backing table (live + free + never
// used).
func (s *nodeStore) Len() int {
	return len(s.nodes)
}

// At returns a copy of the node at index. Callers that need to mutate a
// node go through Set.
func (s *nodeStore) At(index uint64) Node {
	return s.nodes[index]
}

// Set overwrites the node at index.
func (s *nodeStore) Set(index uint64, n Node) {
	s.nodes[index] = n
}

// Allocate reserves a fresh slot for (v, low, high), reusing a freed index
// when one is available, and returns its index. It does not consult or
// update the unique table; callers (mkNode/mkZNode in handle.go) are
// responsible for that.
func (s *nodeStore) Allocate(v Var, low, high Arc) (uint64, error) {
	n := newNode(v, low, high)
	if len(s.freeList) > 0 {
		idx := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.nodes[idx] = n
		s.produced++
		return idx, nil
	}
	if uint64(len(s.nodes)) > MaxNodeIndex {
		return 0, &Error{Kind: CapacityExceeded, msg: "node store exhausted (2^42 - 1 nodes)"}
	}
	idx := uint64(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.produced++
	return idx, nil
}

// Free tombstones the slot at index and returns it to the free list. The
// caller (gc.go) is responsible for first removing the unique-table entry.
func (s *nodeStore) Free(index uint64) {
	s.nodes[index].MarkTombstone()
	s.freeList = append(s.freeList, index)
}

// LiveSlots calls f for every slot that is neither empty nor tombstoned.
func (s *nodeStore) LiveSlots(f func(index uint64, n Node)) {
	for i := uint64(1); i < uint64(len(s.nodes)); i++ {
		n := s.nodes[i]
		if n.IsEmpty() || n.IsTombstone() {
			continue
		}
		f(i, n)
	}
}
