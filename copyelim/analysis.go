// Package copyelim is the copy-elimination dataflow analysis: a
// monotone forward dataflow over per-variable bitmasks of pending copy
// assignments that proves which explicit copy-insertion nodes a
// routine's lowering pass can safely delete.
//
// The analysis never mutates the CFG or the expression tree; a separate
// rewriter (package rewrite) consumes its result.
package copyelim

import (
	"fmt"

	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/bitset"
	"github.com/vellum-lang/vlc/cfg"
	"github.com/vellum-lang/vlc/dataflow"
)

// TryGetUnnecessaryCopies runs the analysis over fn and returns the set
// of copy nodes the rewriter may delete. An empty, non-nil map is
// returned when no copies are removable; the caller need not
// distinguish that from "none."
func TryGetUnnecessaryCopies(fn *cfg.Func) (map[*ast.CopyExpr]bool, error) {
	if fn == nil || fn.Entry == nil || fn.Exit == nil {
		return nil, &cfg.MalformedError{Reason: "func has no entry/exit block"}
	}
	if fn.Vars == nil {
		return nil, fmt.Errorf("copyelim: func has no flow context")
	}

	idx := NewIndex()
	w := newWalker(idx, fn.Vars)
	d := &driver{w: w, exit: fn.Exit, n: fn.Vars.NumVars()}

	dataflow.Run(fn, d)

	return extract(idx, w.needed, w.surviving), nil
}

// extract is the result extractor (spec.md §4.5): start from the
// filtered return-copy candidates, then add every registered copy whose
// id never made it into needed. The two sources are disjoint: return
// copies are never interned into idx (see visitReturn), so a return
// copy the exit filter rejects is not silently re-admitted by the
// second loop.
func extract(idx *Index, needed *bitset.Set, surviving map[*ast.CopyExpr]bool) map[*ast.CopyExpr]bool {
	result := make(map[*ast.CopyExpr]bool, idx.Len()+len(surviving))
	for c := range surviving {
		result[c] = true
	}
	for id := 0; id < idx.Len(); id++ {
		if !needed.Test(id) {
			result[idx.Node(id)] = true
		}
	}
	return result
}
