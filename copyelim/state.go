package copyelim

import "github.com/vellum-lang/vlc/bitset"

// State is CopyAnalysisState (spec.md §3–§4.2): a total mapping from
// variable index to the bitmask of copy ids currently pending aliasing
// against that variable, represented as a length-N array of Bitsets.
//
// The distinguished default/uninitialized state (def == true) is what
// the fixpoint engine hands the transfer before any predecessor has
// produced a value; it is the identity for Merge and compares unequal
// to every non-default state, even an all-empty one, per spec.md §4.2.
type State struct {
	n    int
	def  bool
	masks []*bitset.Set // length n, only meaningful when !def
}

// NewState returns the default/uninitialized state for a routine with n
// variables.
func NewState(n int) *State {
	return &State{n: n, def: true}
}

// maskAt returns variable v's pending-copy mask, treating the default
// state as all-empty by returning a fresh empty set rather than
// materializing the mask array.
func (s *State) maskAt(v int) *bitset.Set {
	if s.def {
		return bitset.New(0)
	}
	return s.masks[v]
}

// materialize returns a non-default State with an independent copy of
// every mask (empty masks for a default receiver).
func (s *State) materialize() *State {
	masks := make([]*bitset.Set, s.n)
	for i := range masks {
		masks[i] = s.maskAt(i).Clone()
	}
	return &State{n: s.n, masks: masks}
}

// Clone returns a deep, independent copy of s.
func (s *State) Clone() *State {
	if s.def {
		return &State{n: s.n, def: true}
	}
	return s.materialize()
}

// StatesEqual reports whether s and t represent the same dataflow value.
// Both must belong to the same routine (same n); the engine never
// compares states across routines.
func StatesEqual(s, t *State) bool {
	if s.def != t.def {
		return false
	}
	if s.def {
		return true
	}
	for i := 0; i < s.n; i++ {
		if !bitset.Equal(s.masks[i], t.masks[i]) {
			return false
		}
	}
	return true
}

// MergeStates joins s and t: if either is default, the other is
// returned unchanged (default is the identity); otherwise the result is
// the pointwise bitwise-OR of the two mask arrays, the classic
// may-analysis join.
func MergeStates(s, t *State) *State {
	if s.def {
		return t
	}
	if t.def {
		return s
	}
	masks := make([]*bitset.Set, s.n)
	for i := 0; i < s.n; i++ {
		masks[i] = bitset.Union(s.masks[i], t.masks[i])
	}
	return &State{n: s.n, masks: masks}
}

// WithValue returns a state with state[v] = m, all else unchanged. It
// returns s itself, unmodified, if v's mask is already m.
func (s *State) WithValue(v int, m *bitset.Set) *State {
	if bitset.Equal(s.maskAt(v), m) {
		return s
	}
	out := s.materialize()
	out.masks[v] = m.Clone()
	return out
}

// WithCopyAssignment records that copy id c establishes aliasing between
// target variable t and source variable v: state[t] = {c}, replacing
// whatever t held (the target is reassigned, so no prior alias of it
// survives), while state[v] |= {c}, since the source still refers to the
// same value and now additionally shares it with t. It returns s itself,
// unmodified, if the state is already in this form.
func (s *State) WithCopyAssignment(t, v, c int) *State {
	newT := bitset.New(0)
	newT.Set(c)
	newV := s.maskAt(v).Clone()
	newV.Set(c)
	if bitset.Equal(s.maskAt(t), newT) && bitset.Equal(s.maskAt(v), newV) {
		return s
	}
	out := s.materialize()
	out.masks[t] = newT
	out.masks[v] = newV
	return out
}
