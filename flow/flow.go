// Package flow resolves the per-routine facts the copy-elimination
// analysis needs about a variable without consulting the CFG: its dense
// index, whether it is reference-bound, and whether a name is one of the
// language's auto-globals.
//
// This mirrors the symbol-table construction in a type checker's scope
// package: a name-to-index map built once, then treated as read-only.
package flow

// A Context is the read-only view of a routine's variables that the
// analysis consumes. Once built, a Context must not be mutated; the
// analysis runs concurrently with other routines' analyses and treats
// its Context as shared, immutable state.
type Context struct {
	names      []string
	indexOf    map[string]int
	references []bool
	autoGlobal map[string]bool
}

// NumVars returns N, the number of local variables in the routine.
func (c *Context) NumVars() int { return len(c.names) }

// Index resolves a direct variable name to its dense index.
// It returns false if name is not a local of this routine.
func (c *Context) Index(name string) (int, bool) {
	i, ok := c.indexOf[name]
	return i, ok
}

// Name returns the declared name of variable index i.
func (c *Context) Name(i int) string { return c.names[i] }

// IsReference reports whether variable i is subject to the language's
// explicit reference-binding feature, and so may be aliased by unknown
// peers outside the copy-elimination analysis's view.
func (c *Context) IsReference(i int) bool {
	if i < 0 || i >= len(c.references) {
		return false
	}
	return c.references[i]
}

// IsAutoGlobal reports whether name is one of the language's auto-global
// variables, implicitly visible in every scope and excluded from
// per-routine aliasing analysis.
func (c *Context) IsAutoGlobal(name string) bool { return c.autoGlobal[name] }

// A Builder incrementally constructs a Context. It is the only type that
// can mutate variable metadata; once Build is called the result is safe
// to share across goroutines analyzing different routines.
type Builder struct {
	names      []string
	indexOf    map[string]int
	references []bool
	autoGlobal map[string]bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{indexOf: make(map[string]int), autoGlobal: make(map[string]bool)}
}

// Declare registers a new local variable in declaration order and
// returns its dense index. Declaring the same name twice returns two
// distinct indices; Context.Index resolves to the most recent one,
// matching ordinary lexical shadowing.
func (b *Builder) Declare(name string, isReference bool) int {
	i := len(b.names)
	b.names = append(b.names, name)
	b.references = append(b.references, isReference)
	b.indexOf[name] = i
	return i
}

// MarkAutoGlobal registers name as an auto-global, excluded from analysis
// regardless of whether it also appears as a declared local.
func (b *Builder) MarkAutoGlobal(name string) {
	b.autoGlobal[name] = true
}

// Build finalizes the Context.
func (b *Builder) Build() *Context {
	return &Context{
		names:      append([]string(nil), b.names...),
		indexOf:    copyStringIntMap(b.indexOf),
		references: append([]bool(nil), b.references...),
		autoGlobal: copyStringBoolMap(b.autoGlobal),
	}
}

func copyStringIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
