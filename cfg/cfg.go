// Package cfg builds the control-flow graph a routine's statement list
// lowers to. CFG construction is explicitly out of scope for the
// copy-elimination analysis (spec.md treats it as an external
// collaborator specified only by the interfaces it exposes); this is a
// small, real implementation of that collaborator so the rest of the
// module is runnable end to end.
package cfg

import (
	"fmt"

	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/flow"
)

// A Block is a maximal straight-line sequence of statements: control
// enters only at the top and leaves only at the bottom.
type Block struct {
	ID    int
	Stmts []ast.Stmt

	Preds []*Block
	Succs []*Block
}

// IsExit reports whether b is its Func's distinguished exit block.
func (b *Block) IsExit(f *Func) bool { return b == f.Exit }

func (b *Block) String() string { return fmt.Sprintf("block%d", b.ID) }

// A Func is one routine's control-flow graph.
type Func struct {
	Entry  *Block
	Exit   *Block
	Blocks []*Block
	Vars   *flow.Context
}

// A MalformedError reports a structural defect in a built CFG, such as
// an exit block unreachable from entry.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string { return "malformed cfg: " + e.Reason }

type builder struct {
	f *Func
}

func (b *builder) newBlock() *Block {
	blk := &Block{ID: len(b.f.Blocks)}
	b.f.Blocks = append(b.f.Blocks, blk)
	return blk
}

func (b *builder) link(from, to *Block) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// Build lowers a routine's statement list into a CFG over vars. It
// guarantees a single synthetic exit block reachable from every Return
// and from fallthrough off the end of the routine; if the result would
// leave the exit block unreachable, Build reports a *MalformedError
// rather than returning an inconsistent graph.
func Build(stmts []ast.Stmt, vars *flow.Context) (*Func, error) {
	f := &Func{Vars: vars}
	b := &builder{f: f}
	f.Entry = b.newBlock()
	f.Exit = b.newBlock()

	end := b.buildStmts(f.Entry, stmts)
	if end != nil {
		b.link(end, f.Exit)
	}

	if !reachable(f.Entry, f.Exit) {
		return nil, &MalformedError{Reason: "exit block is not reachable from entry"}
	}
	return f, nil
}

// buildStmts appends stmts to cur, splitting into new blocks at branches
// and loops, and returns the block that falls through after the last
// statement, or nil if every path out of stmts already terminated
// (via a Return that was linked directly to the exit).
func (b *builder) buildStmts(cur *Block, stmts []ast.Stmt) *Block {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.Return:
			cur.Stmts = append(cur.Stmts, s)
			b.link(cur, b.f.Exit)
			return nil

		case *ast.If:
			// The If statement itself stays in cur so the walker can
			// visit its Cond; Then/Else live in their own blocks.
			cur.Stmts = append(cur.Stmts, s)
			thenBlk := b.newBlock()
			elseBlk := b.newBlock()
			b.link(cur, thenBlk)
			b.link(cur, elseBlk)

			join := b.newBlock()
			if end := b.buildStmts(thenBlk, s.Then); end != nil {
				b.link(end, join)
			}
			if end := b.buildStmts(elseBlk, s.Else); end != nil {
				b.link(end, join)
			}
			cur = join

		case *ast.While:
			header := b.newBlock()
			header.Stmts = append(header.Stmts, s)
			b.link(cur, header)

			body := b.newBlock()
			after := b.newBlock()
			b.link(header, body)
			b.link(header, after)
			if end := b.buildStmts(body, s.Body); end != nil {
				b.link(end, header)
			}
			cur = after

		default:
			cur.Stmts = append(cur.Stmts, s)
		}
	}
	return cur
}

func reachable(from, to *Block) bool {
	seen := map[*Block]bool{from: true}
	work := []*Block{from}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if b == to {
			return true
		}
		for _, s := range b.Succs {
			if !seen[s] {
				seen[s] = true
				work = append(work, s)
			}
		}
	}
	return false
}

// ReversePostorder returns f's blocks ordered so that, ignoring back
// edges, every block appears after all of its predecessors. This is the
// order the fixpoint engine seeds its worklist with, per spec.md's
// "the engine owns the worklist, reachability, and reverse-postorder."
func ReversePostorder(f *Func) []*Block {
	seen := make(map[*Block]bool, len(f.Blocks))
	var post []*Block
	var visit func(*Block)
	visit = func(b *Block) {
		if seen[b] {
			return
		}
		seen[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
		post = append(post, b)
	}
	visit(f.Entry)
	// Reverse post to get reverse postorder.
	out := make([]*Block, len(post))
	for i, b := range post {
		out[len(post)-1-i] = b
	}
	return out
}
