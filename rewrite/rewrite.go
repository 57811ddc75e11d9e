// Package rewrite is the separate pass that consumes a copy-elimination
// analysis result and actually deletes the copy nodes it proved
// unnecessary. spec.md §1 scopes this out of the analysis itself
// ("Removal itself is done by a separate rewriter that consumes the
// analysis result"); this package is that rewriter. It performs no
// analysis of its own and trusts the set it is handed.
package rewrite

import (
	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/cfg"
)

// Apply walks every statement in fn, splicing out each *ast.CopyExpr
// present in removable and replacing it with its Inner expression. It
// returns the number of copy nodes removed.
func Apply(fn *cfg.Func, removable map[*ast.CopyExpr]bool) int {
	r := &rewriter{removable: removable}
	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			r.stmt(s)
		}
	}
	return r.removed
}

type rewriter struct {
	removable map[*ast.CopyExpr]bool
	removed   int
}

func (r *rewriter) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		s.Target = r.expr(s.Target)
		s.Value = r.expr(s.Value)
	case *ast.Return:
		s.Value = r.expr(s.Value)
	case *ast.ExprStmt:
		s.X = r.expr(s.X)
	case *ast.If:
		s.Cond = r.expr(s.Cond)
		for _, c := range s.Then {
			r.stmt(c)
		}
		for _, c := range s.Else {
			r.stmt(c)
		}
	case *ast.While:
		s.Cond = r.expr(s.Cond)
		for _, c := range s.Body {
			r.stmt(c)
		}
	}
}

// expr rewrites e in place where possible and returns the expression
// that should replace it in its parent slot: either e itself, or, when
// e is a removable copy wrapper, e's rewritten Inner.
func (r *rewriter) expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.CopyExpr:
		n.Inner = r.expr(n.Inner)
		if r.removable[n] {
			r.removed++
			return n.Inner
		}
		return n
	case *ast.BinExpr:
		n.Left = r.expr(n.Left)
		n.Right = r.expr(n.Right)
		return n
	case *ast.UnExpr:
		n.Operand = r.expr(n.Operand)
		return n
	case *ast.Call:
		n.Fn = r.expr(n.Fn)
		for i := range n.Args {
			n.Args[i] = r.expr(n.Args[i])
		}
		return n
	case *ast.Index:
		n.Array = r.expr(n.Array)
		n.Idx = r.expr(n.Idx)
		return n
	case *ast.Field:
		n.Obj = r.expr(n.Obj)
		return n
	case *ast.Assign:
		n.Target = r.expr(n.Target)
		n.Value = r.expr(n.Value)
		return n
	default:
		// VarRef, Lit: no children.
		return e
	}
}
