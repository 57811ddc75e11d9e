// Package dataflow is the generic forward-dataflow fixpoint engine that
// spec.md treats as an external collaborator: it owns the worklist,
// reachability, and reverse-postorder traversal, and knows nothing about
// bitmasks or copies. A concrete analysis supplies a Driver; the engine
// iterates Driver.ProcessBlock to a fixpoint.
package dataflow

import "github.com/vellum-lang/vlc/cfg"

// A State is an opaque per-block dataflow value. The engine only ever
// compares and merges States through the Driver; it never inspects one.
type State interface{}

// A Driver is the four operations spec.md §4.4 requires an analysis to
// expose to the fixpoint engine.
type Driver interface {
	// InitialState returns the default/uninitialized state, the
	// identity element for Merge.
	InitialState() State
	// Equal reports whether a and b are the same dataflow value.
	Equal(a, b State) bool
	// Merge joins two states (the dataflow lattice's meet/join).
	Merge(a, b State) State
	// ProcessBlock runs the transfer function for b given its in-state
	// and returns the resulting out-state.
	ProcessBlock(b *cfg.Block, in State) State
}

// Run iterates Driver over f's blocks, seeded in reverse postorder, until
// every block's out-state stabilizes, then returns the final out-state
// for each block.
//
// The lattice has finite height (bitmasks over a finite copy-id set,
// monotone transfer), so this is guaranteed to terminate; spec.md §5
// explicitly disclaims any cancellation mechanism on that basis.
func Run(f *cfg.Func, d Driver) map[*cfg.Block]State {
	order := cfg.ReversePostorder(f)

	out := make(map[*cfg.Block]State, len(f.Blocks))
	for _, b := range f.Blocks {
		out[b] = d.InitialState()
	}

	queued := make(map[*cfg.Block]bool, len(order))
	worklist := make([]*cfg.Block, len(order))
	copy(worklist, order)
	for _, b := range order {
		queued[b] = true
	}

	for len(worklist) > 0 {
		b := worklist[0]
		worklist = worklist[1:]
		queued[b] = false

		in := d.InitialState()
		for i, p := range b.Preds {
			if i == 0 {
				in = out[p]
			} else {
				in = d.Merge(in, out[p])
			}
		}

		next := d.ProcessBlock(b, in)
		if d.Equal(next, out[b]) {
			continue
		}
		out[b] = next
		for _, s := range b.Succs {
			if !queued[s] {
				queued[s] = true
				worklist = append(worklist, s)
			}
		}
	}
	return out
}
