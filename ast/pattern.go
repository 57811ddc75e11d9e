package ast

// PeelCopy strips a copy-insertion wrapper off e, if present.
// It returns the inner expression and whether a wrapper was found.
// If e is not a *CopyExpr, it returns e itself and false.
func PeelCopy(e Expr) (inner Expr, wasCopied bool) {
	if c, ok := e.(*CopyExpr); ok {
		return c.Inner, true
	}
	return e, false
}

// AsVarRef reports whether e is a variable reference, returning it if so.
func AsVarRef(e Expr) (*VarRef, bool) {
	v, ok := e.(*VarRef)
	return v, ok
}

// AsAssign reports whether e is a chained assignment, returning it if
// so. Assign satisfies both Stmt and Expr; this helper is for the Expr
// side, where an assignment can appear nested inside another
// assignment's Value, as in `a = b = c`.
func AsAssign(e Expr) (*Assign, bool) {
	a, ok := e.(*Assign)
	return a, ok
}
