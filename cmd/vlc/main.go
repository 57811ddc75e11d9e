// Command vlc runs the copy-elimination analysis and rewriter over a
// set of built-in fixture routines and reports which copies it removed.
//
// A real build of this module would reach copyelim through a parser and
// a lowering pass; since those sit outside this module's scope, this
// command drives the pipeline directly from hand-built ASTs so the
// analysis is runnable and inspectable end to end.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eaburns/pretty"

	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/cfg"
	"github.com/vellum-lang/vlc/copyelim"
	"github.com/vellum-lang/vlc/internal/loc"
	"github.com/vellum-lang/vlc/rewrite"
)

var (
	fixtureName = flag.String("fixture", "simple-alias", "name of the built-in fixture routine to analyze")
	list        = flag.Bool("list", false, "list the available fixture names and exit")
	verbose     = flag.Bool("v", false, "enable verbose output")
	dump        = flag.Bool("dump", false, "pretty-print the routine before and after rewriting")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *list {
		for _, n := range fixtureNames() {
			fmt.Println(n)
		}
		return
	}

	fx, ok := fixtures[*fixtureName]
	if !ok {
		die(fmt.Errorf("no such fixture %q (try -list)", *fixtureName))
	}

	stmts, vars, src := fx.build()
	fn, err := cfg.Build(stmts, vars)
	if err != nil {
		die(err)
	}

	var files loc.Files
	files.Add(fx.name+".vlc", src)

	if *dump {
		fmt.Println("before:")
		pretty.Print(stmts)
		dumpCopies(files, stmts)
		fmt.Println()
	}

	removable, err := copyelim.TryGetUnnecessaryCopies(fn)
	if err != nil {
		die(err)
	}
	vprintf("%d copy node(s) proved unnecessary\n", len(removable))

	n := rewrite.Apply(fn, removable)
	fmt.Printf("%s: removed %d copy node(s)\n", fx.name, n)

	if *dump {
		fmt.Println("after:")
		pretty.Print(stmts)
		dumpCopies(files, stmts)
		fmt.Println()
	}
}

// dumpCopies resolves every copy node still present in stmts to its
// source location through files and prints one line per node, so
// -dump exercises loc.Files end to end instead of just carrying zero
// Rng values around.
func dumpCopies(files loc.Files, stmts []ast.Stmt) {
	var copies []*ast.CopyExpr
	for _, s := range stmts {
		collectCopiesStmt(s, &copies)
	}
	if len(copies) == 0 {
		fmt.Println("  (no copy nodes)")
		return
	}
	for _, c := range copies {
		if l := files.Loc(c.Range()); l != nil {
			fmt.Printf("  copy at %s\n", l)
		} else {
			fmt.Printf("  copy at <unresolved range %v>\n", c.Range())
		}
	}
}

func collectCopies(e ast.Expr, out *[]*ast.CopyExpr) {
	switch e := e.(type) {
	case nil:
	case *ast.CopyExpr:
		*out = append(*out, e)
		collectCopies(e.Inner, out)
	case *ast.BinExpr:
		collectCopies(e.Left, out)
		collectCopies(e.Right, out)
	case *ast.UnExpr:
		collectCopies(e.Operand, out)
	case *ast.Call:
		collectCopies(e.Fn, out)
		for _, a := range e.Args {
			collectCopies(a, out)
		}
	case *ast.Index:
		collectCopies(e.Array, out)
		collectCopies(e.Idx, out)
	case *ast.Field:
		collectCopies(e.Obj, out)
	case *ast.Assign:
		collectCopies(e.Target, out)
		collectCopies(e.Value, out)
	}
}

func collectCopiesStmt(s ast.Stmt, out *[]*ast.CopyExpr) {
	switch s := s.(type) {
	case *ast.Assign:
		collectCopies(s.Target, out)
		collectCopies(s.Value, out)
	case *ast.Return:
		collectCopies(s.Value, out)
	case *ast.ExprStmt:
		collectCopies(s.X, out)
	case *ast.If:
		collectCopies(s.Cond, out)
		for _, t := range s.Then {
			collectCopiesStmt(t, out)
		}
		for _, e := range s.Else {
			collectCopiesStmt(e, out)
		}
	case *ast.While:
		collectCopies(s.Cond, out)
		for _, st := range s.Body {
			collectCopiesStmt(st, out)
		}
	}
}

func vprintf(f string, vs ...interface{}) {
	if *verbose {
		fmt.Printf(f, vs...)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "  %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func die(err error) {
	fmt.Fprintln(flag.CommandLine.Output(), err)
	os.Exit(1)
}
