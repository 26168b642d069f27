// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"fmt"
	"io"
	"sort"
)

// Grounded on the teacher's stdio.go (Stats/Print/PrintDot), adapted to
// the packed Node/Arc representation: we walk the store directly instead
// of the teacher's Allnodes callback, and print both BDD-style ? : edges
// and ZDD-style present/absent edges from the same dump.

// PrintDot writes a Graphviz DOT description of every node reachable from
// root to w, in the style of the teacher's PrintDot.
func (e *Engine) PrintDot(w io.Writer, root Arc, name string) {
	fmt.Fprintf(w, "digraph %s {\n", name)
	fmt.Fprintln(w, `  0 [shape=box, label="0"];`)
	fmt.Fprintln(w, `  1 [shape=box, label="1"];`)
	visited := make(map[uint64]bool)
	var walk func(a Arc)
	walk = func(a Arc) {
		if a.IsTerminal() {
			return
		}
		idx := a.Index()
		if visited[idx] {
			return
		}
		visited[idx] = true
		n := e.store.At(idx)
		fmt.Fprintf(w, "  %d [label=\"%d\"];\n", idx, n.Var())
		low, high := n.Arc0(), n.Arc1()
		fmt.Fprintf(w, "  %d -> %s [style=dashed];\n", idx, dotTarget(low))
		style := ""
		if high.IsComplement() {
			style = " [style=dotted]"
		}
		fmt.Fprintf(w, "  %d -> %s%s;\n", idx, dotTarget(high), style)
		walk(low)
		walk(high.Positive())
	}
	walk(root)
	fmt.Fprintln(w, "}")
}

func dotTarget(a Arc) string {
	if a.IsZero() {
		return "0"
	}
	if a.IsOne() {
		return "1"
	}
	return fmt.Sprintf("%d", a.Index())
}

// Print writes a tabular listing of every node reachable from root,
// sorted by index, in the teacher's `id [var] ? low : high` style (the
// bracketed field is the node's variable number).
func (e *Engine) Print(w io.Writer, root Arc) {
	if root.IsZero() {
		fmt.Fprintln(w, "False")
		return
	}
	if root.IsOne() {
		fmt.Fprintln(w, "True")
		return
	}
	visited := make(map[uint64]bool)
	var order []uint64
	var walk func(a Arc)
	walk = func(a Arc) {
		if a.IsTerminal() || visited[a.Index()] {
			return
		}
		visited[a.Index()] = true
		order = append(order, a.Index())
		n := e.store.At(a.Index())
		walk(n.Arc0())
		walk(n.Arc1().Positive())
	}
	walk(root)
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, idx := range order {
		n := e.store.At(idx)
		fmt.Fprintf(w, "%d\t[%d]\t? %s : %s\n", idx, n.Var(), dotTarget(n.Arc0()), dotTarget(n.Arc1()))
	}
}
