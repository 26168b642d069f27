// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ImportFromExternal reads a diagram serialised in the linear binary format
// described in spec §6: a header followed by one fixed-size record per
// non-terminal node, each giving (variable, low, high). Grounded on the
// teacher's stdio.go I/O style (sequential bufio.Writer calls building up a
// text dump) applied to reading a binary record stream instead; the
// decoding itself uses stdlib encoding/binary the same way the teacher's
// own stdio.go hand-rolls its own text/DOT encoders rather than reaching
// for a generic serialisation framework — a bespoke legacy record layout
// has no natural home in a general-purpose format library.
//
// Each record is written bottom-up: by the time a record is read, every
// node its low/high fields reference has already been assigned an id by an
// earlier record (or is one of the two terminal sentinels). References are
// signed: 0 is the false terminal, 1 is the true terminal, a negative value
// complements whatever its absolute value resolves to (so -1 denotes the
// complement of true, i.e. false, matching packages that never emit an
// explicit false sentinel) and any other value n refers to the node
// produced by record n-2 (ids 0 and 1 being reserved for the terminals).
const (
	importMagic   uint32 = 0x44584431 // "DXD1"
	recordFixed          = 4 + 8 + 8  // variable (uint32) + low + high (int64)
)

// ImportFromExternal parses blob and rebuilds the diagram it describes,
// registering any variable numbers not yet known to the engine (spec §6:
// "allocating new ones if the diagram contains higher numbers than
// currently known") and reconstructing the DAG by hash-consing every
// record through mkNode, so the result is canonical even if the source
// tool's own reduction was imperfect.
func (e *Engine) ImportFromExternal(blob []byte) (*BDD, error) {
	r := bufio.NewReader(bytes.NewReader(blob))

	var magic, count uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, e.seterror(wrapSerialization(err, "import: truncated header"))
	}
	if magic != importMagic {
		return nil, e.seterror(newError(SerializationError, "import: bad magic %#x", magic))
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, e.seterror(wrapSerialization(err, "import: truncated record count"))
	}
	wantLen := 8 + int(count)*recordFixed + 8 // header + records + root reference
	if len(blob) < wantLen {
		return nil, e.seterror(newError(SerializationError, "import: blob too short for %d records (have %d bytes, want %d)", count, len(blob), wantLen))
	}

	// resolved[i] is the arc produced by record i; resolved has one slot
	// per record plus the two terminal sentinels at indices 0 and 1.
	resolved := make([]Arc, count+2)
	resolved[0] = T0
	resolved[1] = T1

	resolveRef := func(ref int64) (Arc, error) {
		if ref < 0 {
			a, err := resolveRefRec(resolved, -ref)
			if err != nil {
				return 0, err
			}
			return a.Negate(), nil
		}
		return resolveRefRec(resolved, ref)
	}

	for i := uint32(0); i < count; i++ {
		var variable uint32
		var low, high int64
		if err := binary.Read(r, binary.LittleEndian, &variable); err != nil {
			return nil, e.seterror(wrapSerialization(err, "import: record %d", i))
		}
		if err := binary.Read(r, binary.LittleEndian, &low); err != nil {
			return nil, e.seterror(wrapSerialization(err, "import: record %d", i))
		}
		if err := binary.Read(r, binary.LittleEndian, &high); err != nil {
			return nil, e.seterror(wrapSerialization(err, "import: record %d", i))
		}

		v := Var(variable)
		for e.order.VariableCount() < int(v) {
			if _, err := e.order.NewVariable(); err != nil {
				return nil, e.seterror(err.(*Error))
			}
		}

		lowArc, lerr := resolveRef(low)
		if lerr != nil {
			return nil, e.seterror(newError(SerializationError, "import: record %d: %v", i, lerr))
		}
		highArc, herr := resolveRef(high)
		if herr != nil {
			return nil, e.seterror(newError(SerializationError, "import: record %d: %v", i, herr))
		}

		arc, merr := e.mkNode(v, lowArc, highArc)
		if merr != nil {
			return nil, e.seterror(merr)
		}
		resolved[i+2] = arc
	}

	var root int64
	if err := binary.Read(r, binary.LittleEndian, &root); err != nil {
		return nil, e.seterror(wrapSerialization(err, "import: truncated root reference"))
	}
	if _, err := r.ReadByte(); err != io.EOF {
		e.logger.Debugw("import: trailing bytes after root reference ignored")
	}

	rootArc, rerr := resolveRef(root)
	if rerr != nil {
		return nil, e.seterror(newError(SerializationError, "import: root reference: %v", rerr))
	}
	return e.wrapBDD(rootArc), nil
}

func resolveRefRec(resolved []Arc, ref int64) (Arc, error) {
	if ref < 0 || ref >= int64(len(resolved)) {
		return 0, fmt.Errorf("reference %d out of range [0,%d)", ref, len(resolved))
	}
	return resolved[ref], nil
}
