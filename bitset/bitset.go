// Package bitset implements a growable bit vector used as the lattice
// element for the copy-elimination dataflow analysis: a set of copy ids.
//
// spec.md allows a fixed 64-bit ceiling with copies beyond it treated
// conservatively as "needed"; this implementation instead grows the
// backing word slice as needed, which resolves that open question in
// favor of exact tracking at any copy count.
package bitset

const wordBits = 64

// A Set is a set of small non-negative integers, backed by a slice of
// 64-bit words that grows on demand.
type Set struct {
	words []uint64
}

// New returns an empty Set with room for at least n bits preallocated.
func New(n int) *Set {
	return &Set{words: make([]uint64, wordsFor(n))}
}

func wordsFor(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + wordBits - 1) / wordBits
}

func (s *Set) growTo(words int) {
	if words <= len(s.words) {
		return
	}
	grown := make([]uint64, words)
	copy(grown, s.words)
	s.words = grown
}

// Set adds i to the set.
func (s *Set) Set(i int) {
	w, b := i/wordBits, uint(i%wordBits)
	s.growTo(w + 1)
	s.words[w] |= 1 << b
}

// Clear removes i from the set.
func (s *Set) Clear(i int) {
	w, b := i/wordBits, uint(i%wordBits)
	if w >= len(s.words) {
		return
	}
	s.words[w] &^= 1 << b
}

// Test reports whether i is in the set.
func (s *Set) Test(i int) bool {
	w, b := i/wordBits, uint(i%wordBits)
	if s == nil || w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	if s == nil {
		return New(0)
	}
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &Set{words: words}
}

// Equal reports whether s and t have exactly the same members.
func Equal(s, t *Set) bool {
	a, b := wordsOf(s), wordsOf(t)
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var wa, wb uint64
		if i < len(a) {
			wa = a[i]
		}
		if i < len(b) {
			wb = b[i]
		}
		if wa != wb {
			return false
		}
	}
	return true
}

func wordsOf(s *Set) []uint64 {
	if s == nil {
		return nil
	}
	return s.words
}

// Or ORs t's members into s in place and reports whether s changed.
// This is the dataflow join: a classic may-analysis merges by union.
func (s *Set) Or(t *Set) (changed bool) {
	if t == nil {
		return false
	}
	s.growTo(len(t.words))
	for i, w := range t.words {
		if s.words[i]|w != s.words[i] {
			changed = true
		}
		s.words[i] |= w
	}
	return changed
}

// Union returns a new Set containing every member of s or t, without
// modifying either argument.
func Union(s, t *Set) *Set {
	u := s.Clone()
	u.Or(t)
	return u
}

// AndNot returns a new Set containing every member of s that is not a
// member of t: s &^ t. Used by the return-copy exit filter to test
// state[v] & ~needed.
func AndNot(s, t *Set) *Set {
	sw, tw := wordsOf(s), wordsOf(t)
	out := make([]uint64, len(sw))
	for i, w := range sw {
		if i < len(tw) {
			out[i] = w &^ tw[i]
		} else {
			out[i] = w
		}
	}
	return &Set{words: out}
}

// Members returns the sorted list of members, for tests and debugging.
func (s *Set) Members() []int {
	var out []int
	if s == nil {
		return out
	}
	for w, word := range s.words {
		for b := 0; b < wordBits; b++ {
			if word&(1<<uint(b)) != 0 {
				out = append(out, w*wordBits+b)
			}
		}
	}
	return out
}
