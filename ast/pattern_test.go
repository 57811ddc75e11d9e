package ast

import "testing"

func TestPeelCopy(t *testing.T) {
	inner := &VarRef{Name: "a", Mode: Read}
	c := &CopyExpr{Inner: inner}

	got, wasCopied := PeelCopy(c)
	if !wasCopied || got != Expr(inner) {
		t.Fatalf("PeelCopy(copy) = %v, %v, want inner, true", got, wasCopied)
	}

	got, wasCopied = PeelCopy(inner)
	if wasCopied || got != Expr(inner) {
		t.Fatalf("PeelCopy(non-copy) = %v, %v, want the same node, false", got, wasCopied)
	}
}

func TestAsVarRef(t *testing.T) {
	ref := &VarRef{Name: "a"}
	if v, ok := AsVarRef(ref); !ok || v != ref {
		t.Fatal("expected AsVarRef to recognize a *VarRef")
	}
	if _, ok := AsVarRef(&Lit{Kind: IntLit, Int: 1}); ok {
		t.Fatal("did not expect AsVarRef to match a *Lit")
	}
}

func TestAsAssign(t *testing.T) {
	a := &Assign{Target: &VarRef{Name: "a"}, Value: &Lit{Kind: IntLit, Int: 1}}
	if got, ok := AsAssign(a); !ok || got != a {
		t.Fatal("expected AsAssign to recognize an *Assign")
	}
	if _, ok := AsAssign(&Lit{Kind: IntLit, Int: 1}); ok {
		t.Fatal("did not expect AsAssign to match a *Lit")
	}
}

func TestAssignSatisfiesBothStmtAndExpr(t *testing.T) {
	inner := &Assign{Target: &VarRef{Name: "b"}, Value: &Lit{Kind: IntLit, Int: 1}}
	outer := &Assign{Target: &VarRef{Name: "a"}, Value: inner}

	var _ Stmt = outer
	var _ Expr = inner

	nested, ok := outer.Value.(*Assign)
	if !ok || nested != inner {
		t.Fatal("expected a chained assignment's Value to hold the nested *Assign")
	}
}

func TestAccessModeMightChange(t *testing.T) {
	cases := []struct {
		mode AccessMode
		want bool
	}{
		{Read, false},
		{Write, true},
		{ReadWrite, true},
		{RefBind, true},
		{ByRefArg, true},
	}
	for _, c := range cases {
		if got := c.mode.MightChange(); got != c.want {
			t.Errorf("%v.MightChange() = %v, want %v", c.mode, got, c.want)
		}
	}
}
