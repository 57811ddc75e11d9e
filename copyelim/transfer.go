package copyelim

import (
	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/bitset"
	"github.com/vellum-lang/vlc/cfg"
	"github.com/vellum-lang/vlc/flow"
)

// walker is the single-block transfer function (spec.md §4.3). It walks
// one block's statement list, threading a "current state" and
// maintaining two pieces of state that persist across the entire
// fixpoint run, not just one block:
//
//   - needed accumulates monotonically; it is a field of the walker,
//     never reset between blocks or between fixpoint iterations
//     (spec.md §9, "needed lifetime").
//   - returnCandidates and surviving track return-statement copies
//     across the whole routine; surviving is recomputed, not
//     accumulated, each time the exit block is processed.
type walker struct {
	idx  *Index
	vars *flow.Context

	needed *bitset.Set

	// returnCandidates maps a return-copy node directly to the source
	// variable it names, e.g. `return copy(x)` records x's index. It is
	// keyed on the node itself, not an Index id: a return copy that
	// never also appears as an assignment RHS is never interned into
	// idx, so the exit filter below is the only path by which it can
	// reach the result set.
	returnCandidates map[*ast.CopyExpr]int
	// surviving is the post-filter subset of returnCandidates,
	// overwritten every time the exit block is visited.
	surviving map[*ast.CopyExpr]bool

	state *State
}

func newWalker(idx *Index, vars *flow.Context) *walker {
	return &walker{
		idx:              idx,
		vars:             vars,
		needed:           bitset.New(0),
		returnCandidates: make(map[*ast.CopyExpr]int),
		surviving:        make(map[*ast.CopyExpr]bool),
	}
}

// processBlock runs the transfer over b's statements starting from in,
// and returns the resulting out-state. When isExit is true it also
// performs the return-copy exit filter as a side effect on w.surviving,
// per spec.md §4.3's "Exit block" and §4.4's driver description.
func (w *walker) processBlock(b *cfg.Block, in *State, isExit bool) *State {
	w.state = in
	for _, s := range b.Stmts {
		w.visitStmt(s)
	}
	if isExit {
		w.surviving = w.filterReturnCopies(w.state)
	}
	return w.state
}

func (w *walker) visitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		w.transferAssign(s)
	case *ast.Return:
		w.visitReturn(s)
	case *ast.ExprStmt:
		w.visitExpr(s.X)
	case *ast.If:
		// Then/Else were split into their own blocks at CFG build time;
		// only Cond belongs to this block.
		w.visitExpr(s.Cond)
	case *ast.While:
		w.visitExpr(s.Cond)
	default:
		// Unrecognized statement shape: fall through without acting.
		// Unknown is conservative, never a crash (spec.md §7).
	}
}

// visitExpr is the default recursion: it walks every child of e, then,
// for a VarRef, applies the kill step.
func (w *walker) visitExpr(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.VarRef:
		w.visitVarRef(e)
	case *ast.CopyExpr:
		w.visitExpr(e.Inner)
	case *ast.Lit:
	case *ast.BinExpr:
		w.visitExpr(e.Left)
		w.visitExpr(e.Right)
	case *ast.UnExpr:
		w.visitExpr(e.Operand)
	case *ast.Call:
		w.visitExpr(e.Fn)
		for _, a := range e.Args {
			w.visitExpr(a)
		}
	case *ast.Index:
		w.visitExpr(e.Array)
		w.visitExpr(e.Idx)
	case *ast.Field:
		w.visitExpr(e.Obj)
	case *ast.Assign:
		// Reached only if an assignment shows up somewhere other than
		// the RHS chain transferAssign already handles explicitly.
		w.transferAssign(e)
	default:
		// Unrecognized expression shape: no substructure to recurse
		// into that we know of; conservative no-op.
	}
}

// directVar resolves e to a qualifying direct variable per spec.md
// §4.3's assignment predicate: a direct (non-dynamic) reference that is
// not an auto-global and not reference-bound.
func (w *walker) directVar(e ast.Expr) (int, bool) {
	ref, ok := ast.AsVarRef(e)
	if !ok || !ref.IsDirect() {
		return 0, false
	}
	if w.vars.IsAutoGlobal(ref.Name) {
		return 0, false
	}
	idx, found := w.vars.Index(ref.Name)
	if !found || w.vars.IsReference(idx) {
		return 0, false
	}
	return idx, true
}

// directNonAutoGlobalVar is the narrower predicate the return-copy
// candidate rule uses (spec.md §4.3 "Return statement"): direct and
// non-auto-global, but not excluded merely for being reference-bound.
func (w *walker) directNonAutoGlobalVar(e ast.Expr) (int, bool) {
	ref, ok := ast.AsVarRef(e)
	if !ok || !ref.IsDirect() {
		return 0, false
	}
	if w.vars.IsAutoGlobal(ref.Name) {
		return 0, false
	}
	return w.vars.Index(ref.Name)
}

// transferAssign implements spec.md §4.3's "Assignment target = value".
// It returns the target's variable handle and whether the target
// qualified, so a caller peeling a nested assignment out of an RHS (case
// 2) can chain off the result.
func (w *walker) transferAssign(a *ast.Assign) (target int, qualifies bool) {
	t, qualifies := w.directVar(a.Target)
	if !qualifies {
		// Default recursion: any assignment whose target is not a
		// qualifying direct variable is handled like any other node.
		w.visitExpr(a.Target)
		w.visitExpr(a.Value)
		return 0, false
	}

	// Overwriting t is itself a might-change access to t's prior value
	// (spec.md §4.3's kill rule), so any copy already pending on t is
	// forced needed before its mask is replaced below. Without this, a
	// copy aliasing t through some earlier assignment would silently
	// lose its only witness that t was later mutated.
	w.needed.Or(w.state.maskAt(t))

	inner, wasCopied := ast.PeelCopy(a.Value)

	// Case 1: source is itself a qualifying direct variable.
	if vRef, ok := ast.AsVarRef(inner); ok {
		if v, ok := w.directVar(vRef); ok {
			w.applyAlias(t, v, a.Value, wasCopied)
			return t, true
		}
	}

	// Case 2: source is a nested assignment of the same qualifying form.
	if nested, ok := ast.AsAssign(inner); ok {
		if v, nestedQualifies := w.transferAssign(nested); nestedQualifies {
			w.applyAlias(t, v, a.Value, wasCopied)
			return t, true
		}
		w.state = w.state.WithValue(t, bitset.New(0))
		return t, true
	}

	// Case 3: source matches neither form.
	w.visitExpr(inner)
	w.state = w.state.WithValue(t, bitset.New(0))
	return t, true
}

// applyAlias applies case 1's two sub-cases: either a still-present copy
// wrapper establishes a fresh aliasing pair, or an earlier pass already
// removed the copy and t, v are now true aliases sharing one pending set.
func (w *walker) applyAlias(t, v int, value ast.Expr, wasCopied bool) {
	if wasCopied {
		c := w.idx.Ensure(value.(*ast.CopyExpr))
		w.state = w.state.WithCopyAssignment(t, v, c)
		return
	}
	w.state = w.state.WithValue(t, w.state.maskAt(v))
}

// visitVarRef is the kill step (spec.md §4.3 "Variable reference"): a
// might-change access on v forces every copy currently pending on v
// (or, conservatively, on every variable) into needed.
func (w *walker) visitVarRef(ref *ast.VarRef) {
	if !ref.Mode.MightChange() {
		return
	}
	if !ref.IsDirect() {
		w.markAllPendingNeeded()
		return
	}
	if w.vars.IsAutoGlobal(ref.Name) {
		return
	}
	idx, ok := w.vars.Index(ref.Name)
	if !ok {
		return
	}
	if w.vars.IsReference(idx) {
		// Conservative upgrade: mark every copy registered so far as
		// needed, not just those the current state has pending on some
		// variable. spec.md §9's open TODO ("mark only those that can
		// be referenced") is intentionally left unimplemented.
		w.markAllRegisteredNeeded()
		return
	}
	w.needed.Or(w.state.maskAt(idx))
}

func (w *walker) markAllPendingNeeded() {
	for i := 0; i < w.state.n; i++ {
		w.needed.Or(w.state.maskAt(i))
	}
}

func (w *walker) markAllRegisteredNeeded() {
	for i := 0; i < w.idx.Len(); i++ {
		w.needed.Set(i)
	}
}

// visitReturn implements spec.md §4.3's "Return statement". A
// return-copy candidate is tracked by node identity, not by interning
// it into idx: idx is the registry of copies that might be assignment
// RHSes, and a bare `return copy(x)` is never one of those, so it must
// not compete for a general-purpose "not needed" id it never earns
// through that path.
func (w *walker) visitReturn(r *ast.Return) {
	if r.Value == nil {
		return
	}
	if c, ok := r.Value.(*ast.CopyExpr); ok {
		if v, ok := w.directNonAutoGlobalVar(c.Inner); ok {
			w.returnCandidates[c] = v
		}
	}
	w.visitExpr(r.Value)
}

// filterReturnCopies implements spec.md §4.3's "Exit block" step: a
// return-copy candidate on variable v survives only if every pending
// copy on v at the exit is already needed, i.e. state[v] &^ needed == 0.
func (w *walker) filterReturnCopies(exitState *State) map[*ast.CopyExpr]bool {
	surviving := make(map[*ast.CopyExpr]bool, len(w.returnCandidates))
	for c, v := range w.returnCandidates {
		residual := bitset.AndNot(exitState.maskAt(v), w.needed)
		if residual.IsEmpty() {
			surviving[c] = true
		}
	}
	return surviving
}
