package copyelim

import "github.com/vellum-lang/vlc/ast"

// Index is the CopyIndex registry (spec.md §4.1): it interns each
// copy-insertion node encountered during one analysis run into a dense
// integer id in [0, Len()), keyed on the node's pointer identity. It is
// local to one analysis run over one routine.
type Index struct {
	ids   map[*ast.CopyExpr]int
	nodes []*ast.CopyExpr
}

// NewIndex returns an empty registry.
func NewIndex() *Index {
	return &Index{ids: make(map[*ast.CopyExpr]int)}
}

// Ensure returns n's id, assigning the next free one on first encounter.
func (x *Index) Ensure(n *ast.CopyExpr) int {
	if id, ok := x.ids[n]; ok {
		return id
	}
	id := len(x.nodes)
	x.ids[n] = id
	x.nodes = append(x.nodes, n)
	return id
}

// Len returns the number of distinct copy nodes registered so far.
func (x *Index) Len() int { return len(x.nodes) }

// Node returns the copy node registered under id.
func (x *Index) Node(id int) *ast.CopyExpr { return x.nodes[id] }
