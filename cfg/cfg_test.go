package cfg

import (
	"testing"

	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/flow"
)

func vars(names ...string) *flow.Context {
	b := flow.NewBuilder()
	for _, n := range names {
		b.Declare(n, false)
	}
	return b.Build()
}

func TestBuildStraightLine(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.Assign{Target: &ast.VarRef{Name: "a", Mode: ast.Write}, Value: &ast.Lit{Kind: ast.IntLit, Int: 1}},
		&ast.Return{Value: &ast.VarRef{Name: "a", Mode: ast.Read}},
	}
	f, err := Build(stmts, vars("a"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reachable(f.Entry, f.Exit) {
		t.Fatal("exit should be reachable from entry")
	}
	if len(f.Entry.Stmts) != 2 {
		t.Fatalf("expected both statements in the entry block, got %d", len(f.Entry.Stmts))
	}
}

func TestBuildIfJoins(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.If{
			Cond: &ast.VarRef{Name: "c", Mode: ast.Read},
			Then: []ast.Stmt{&ast.Assign{Target: &ast.VarRef{Name: "a", Mode: ast.Write}, Value: &ast.Lit{Int: 1}}},
			Else: []ast.Stmt{&ast.Assign{Target: &ast.VarRef{Name: "a", Mode: ast.Write}, Value: &ast.Lit{Int: 2}}},
		},
		&ast.Return{Value: &ast.VarRef{Name: "a", Mode: ast.Read}},
	}
	f, err := Build(stmts, vars("c", "a"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(f.Entry.Succs) != 2 {
		t.Fatalf("expected the if to split into two successors, got %d", len(f.Entry.Succs))
	}
	if !reachable(f.Entry, f.Exit) {
		t.Fatal("exit should be reachable from entry")
	}
}

func TestBuildWhileLoopsBack(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.While{
			Cond: &ast.VarRef{Name: "c", Mode: ast.Read},
			Body: []ast.Stmt{&ast.Assign{Target: &ast.VarRef{Name: "a", Mode: ast.Write}, Value: &ast.Lit{Int: 1}}},
		},
		&ast.Return{Value: &ast.VarRef{Name: "a", Mode: ast.Read}},
	}
	f, err := Build(stmts, vars("c", "a"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var header *Block
	for _, b := range f.Blocks {
		if len(b.Stmts) == 1 {
			if _, ok := b.Stmts[0].(*ast.While); ok {
				header = b
			}
		}
	}
	if header == nil {
		t.Fatal("expected to find the while header block")
	}
	foundBackEdge := false
	for _, p := range header.Preds {
		for _, s := range p.Stmts {
			if _, ok := s.(*ast.Assign); ok {
				foundBackEdge = true
			}
		}
	}
	if !foundBackEdge {
		t.Fatal("expected the loop body to link back to the header")
	}
}

func TestReversePostorderStartsAtEntry(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.If{
			Cond: &ast.VarRef{Name: "c", Mode: ast.Read},
			Then: []ast.Stmt{&ast.Assign{Target: &ast.VarRef{Name: "a", Mode: ast.Write}, Value: &ast.Lit{Int: 1}}},
			Else: nil,
		},
		&ast.Return{Value: &ast.VarRef{Name: "a", Mode: ast.Read}},
	}
	f, err := Build(stmts, vars("c", "a"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	order := ReversePostorder(f)
	if len(order) == 0 || order[0] != f.Entry {
		t.Fatal("expected reverse postorder to start at the entry block")
	}
	pos := make(map[*Block]int, len(order))
	for i, b := range order {
		pos[b] = i
	}
	for _, b := range order {
		for _, s := range b.Succs {
			if s == f.Entry {
				continue // back edge into a loop header, not a violation
			}
			if pos[s] < pos[b] && s != b {
				// A successor appearing earlier than its predecessor is
				// only expected across back edges, which this fixture
				// has none of.
				t.Fatalf("block %d's successor %d appears earlier in the order", b.ID, s.ID)
			}
		}
	}
}

func TestReachableDetectsDisconnectedExit(t *testing.T) {
	// Build()'s own construction always links a routine's fallthrough or
	// every Return to Exit, so a *MalformedError can't arise from normal
	// statement lists; this exercises the guard directly against a
	// hand-built graph with a stranded exit block, the shape Build would
	// reject if its invariant were ever broken.
	entry := &Block{ID: 0}
	exit := &Block{ID: 1}
	if reachable(entry, exit) {
		t.Fatal("expected a disconnected exit block to be unreachable")
	}
	err := &MalformedError{Reason: "exit block is not reachable from entry"}
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}
