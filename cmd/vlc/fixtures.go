package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vellum-lang/vlc/ast"
	"github.com/vellum-lang/vlc/flow"
	"github.com/vellum-lang/vlc/internal/loc"
)

// A fixture is a hand-built routine the CLI can run the analysis over.
// Real source text would normally reach this point through a parser and
// a lowering pass that inserts CopyExprs; since parsing is outside this
// module's scope, fixtures play that role directly. They still record
// genuine source text and stamp every node's Rng against it via
// textBuilder, so -dump resolves through a real loc.Files table instead
// of printing zero ranges.
type fixture struct {
	name  string
	build func() ([]ast.Stmt, *flow.Context, string)
}

var fixtures = map[string]fixture{}

func register(name string, build func() ([]ast.Stmt, *flow.Context, string)) {
	fixtures[name] = fixture{name: name, build: build}
}

func fixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for n := range fixtures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// textBuilder emits a fixture's pseudo-source text as its nodes are
// built, so every node's Rng is a real byte range into the text it was
// "parsed" from rather than a zero value. Nodes are built in the same
// order their text is written, so nested spans (a CopyExpr wrapping its
// Inner, an Assign wrapping its Target and Value) fall out naturally
// from calling span around the writes that produce them.
type textBuilder struct {
	sb     strings.Builder
	offset int
}

func newTextBuilder() *textBuilder { return &textBuilder{} }

func (b *textBuilder) write(s string) {
	b.sb.WriteString(s)
	b.offset += len(s)
}

// span runs f, which writes some text via b.write, and returns the byte
// range covering everything it wrote.
func (b *textBuilder) span(f func()) loc.Range {
	start := b.offset
	f()
	return loc.Range{start, b.offset}
}

func (b *textBuilder) text() string { return b.sb.String() }

func vr(b *textBuilder, name string, mode ast.AccessMode) *ast.VarRef {
	rng := b.span(func() { b.write(name) })
	return &ast.VarRef{Name: name, Mode: mode, Rng: rng}
}

func dyn(b *textBuilder, mode ast.AccessMode) *ast.VarRef {
	rng := b.span(func() { b.write("$dyn") })
	return &ast.VarRef{Dynamic: true, Mode: mode, Rng: rng}
}

func lit(b *textBuilder, v int64) *ast.Lit {
	rng := b.span(func() { b.write(strconv.FormatInt(v, 10)) })
	return &ast.Lit{Kind: ast.IntLit, Int: v, Rng: rng}
}

func cp(b *textBuilder, inner func() ast.Expr) *ast.CopyExpr {
	var in ast.Expr
	rng := b.span(func() {
		b.write("copy(")
		in = inner()
		b.write(")")
	})
	return &ast.CopyExpr{Inner: in, Rng: rng}
}

func assign(b *textBuilder, target, value func() ast.Expr) *ast.Assign {
	var t, v ast.Expr
	rng := b.span(func() {
		t = target()
		b.write(" = ")
		v = value()
	})
	return &ast.Assign{Target: t, Value: v, Rng: rng}
}

func ret(b *textBuilder, value func() ast.Expr) *ast.Return {
	var v ast.Expr
	rng := b.span(func() {
		b.write("return ")
		v = value()
	})
	return &ast.Return{Value: v, Rng: rng}
}

func exprStmt(b *textBuilder, x func() ast.Expr) *ast.ExprStmt {
	var e ast.Expr
	rng := b.span(func() { e = x() })
	return &ast.ExprStmt{X: e, Rng: rng}
}

func ifStmt(b *textBuilder, cond func() ast.Expr, then, els func() []ast.Stmt) *ast.If {
	var c ast.Expr
	var t, e []ast.Stmt
	rng := b.span(func() {
		b.write("if ")
		c = cond()
		b.write(" {\n")
		t = then()
		b.write("} else {\n")
		e = els()
		b.write("}")
	})
	return &ast.If{Cond: c, Then: t, Else: e, Rng: rng}
}

func init() {
	register("simple-alias", func() ([]ast.Stmt, *flow.Context, string) {
		fb := flow.NewBuilder()
		fb.Declare("a", false)
		fb.Declare("b", false)
		b := newTextBuilder()

		s1 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr { return lit(b, 1) })
		b.write("\n")
		s2 := assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr {
			return cp(b, func() ast.Expr { return vr(b, "a", ast.Read) })
		})
		b.write("\n")
		s3 := ret(b, func() ast.Expr { return vr(b, "b", ast.Read) })

		return []ast.Stmt{s1, s2, s3}, fb.Build(), b.text()
	})

	register("mutate-after-alias", func() ([]ast.Stmt, *flow.Context, string) {
		fb := flow.NewBuilder()
		fb.Declare("a", false)
		fb.Declare("b", false)
		b := newTextBuilder()

		s1 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr { return lit(b, 1) })
		b.write("\n")
		s2 := assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr {
			return cp(b, func() ast.Expr { return vr(b, "a", ast.Read) })
		})
		b.write("\n")
		s3 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr { return lit(b, 2) })
		b.write("\n")
		s4 := ret(b, func() ast.Expr { return vr(b, "b", ast.Read) })

		return []ast.Stmt{s1, s2, s3, s4}, fb.Build(), b.text()
	})

	register("branch-join", func() ([]ast.Stmt, *flow.Context, string) {
		fb := flow.NewBuilder()
		fb.Declare("cond", false)
		fb.Declare("a", false)
		fb.Declare("b", false)
		b := newTextBuilder()

		s1 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr { return lit(b, 1) })
		b.write("\n")

		ifs := ifStmt(b,
			func() ast.Expr { return vr(b, "cond", ast.Read) },
			func() []ast.Stmt {
				s := assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr {
					return cp(b, func() ast.Expr { return vr(b, "a", ast.Read) })
				})
				b.write("\n")
				return []ast.Stmt{s}
			},
			func() []ast.Stmt {
				s := assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr { return lit(b, 0) })
				b.write("\n")
				return []ast.Stmt{s}
			},
		)
		b.write("\n")

		s3 := ret(b, func() ast.Expr { return vr(b, "b", ast.Read) })

		return []ast.Stmt{s1, ifs, s3}, fb.Build(), b.text()
	})

	register("chained-assign", func() ([]ast.Stmt, *flow.Context, string) {
		fb := flow.NewBuilder()
		fb.Declare("a", false)
		fb.Declare("b", false)
		fb.Declare("c", false)
		b := newTextBuilder()

		s1 := assign(b, func() ast.Expr { return vr(b, "c", ast.Write) }, func() ast.Expr { return lit(b, 1) })
		b.write("\n")
		s2 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr {
			return assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr {
				return cp(b, func() ast.Expr { return vr(b, "c", ast.Read) })
			})
		})
		b.write("\n")
		s3 := ret(b, func() ast.Expr { return vr(b, "a", ast.Read) })

		return []ast.Stmt{s1, s2, s3}, fb.Build(), b.text()
	})

	register("dynamic-kill", func() ([]ast.Stmt, *flow.Context, string) {
		fb := flow.NewBuilder()
		fb.Declare("a", false)
		fb.Declare("b", false)
		b := newTextBuilder()

		s1 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr { return lit(b, 1) })
		b.write("\n")
		s2 := assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr {
			return cp(b, func() ast.Expr { return vr(b, "a", ast.Read) })
		})
		b.write("\n")
		s3 := assign(b, func() ast.Expr { return dyn(b, ast.Write) }, func() ast.Expr { return lit(b, 9) })
		b.write("\n")
		s4 := ret(b, func() ast.Expr { return vr(b, "b", ast.Read) })

		return []ast.Stmt{s1, s2, s3, s4}, fb.Build(), b.text()
	})

	register("reference-kill", func() ([]ast.Stmt, *flow.Context, string) {
		fb := flow.NewBuilder()
		fb.Declare("a", false)
		fb.Declare("b", false)
		fb.Declare("r", true)
		b := newTextBuilder()

		s1 := assign(b, func() ast.Expr { return vr(b, "a", ast.Write) }, func() ast.Expr { return lit(b, 1) })
		b.write("\n")
		s2 := assign(b, func() ast.Expr { return vr(b, "b", ast.Write) }, func() ast.Expr {
			return cp(b, func() ast.Expr { return vr(b, "a", ast.Read) })
		})
		b.write("\n")
		s3 := exprStmt(b, func() ast.Expr { return vr(b, "r", ast.ReadWrite) })
		b.write("\n")
		s4 := ret(b, func() ast.Expr { return vr(b, "b", ast.Read) })

		return []ast.Stmt{s1, s2, s3, s4}, fb.Build(), b.text()
	})
}
