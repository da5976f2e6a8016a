package codemodel

// ExprKind classifies an expression.
type ExprKind uint8

// Expression kinds.
const (
	ExprIdent ExprKind = iota
	ExprThis
	ExprCall
)

// Expr is an expression of a method body. Bodies only ever reference
// parameters, fields of the unit and methods called on them.
type Expr struct {
	Kind ExprKind
	// Name is the identifier, the field or the called method.
	Name string
	// Recv is the receiver of a call. Nil calls a method of the unit.
	Recv *Expr
	Args []Expr
}

// Ident references a parameter or local name.
func Ident(name string) Expr { return Expr{Kind: ExprIdent, Name: name} }

// This references a field of the enclosing unit.
func This(field string) Expr { return Expr{Kind: ExprThis, Name: field} }

// Call calls method on recv.
func Call(recv Expr, method string, args ...Expr) Expr {
	return Expr{Kind: ExprCall, Name: method, Recv: &recv, Args: args}
}

// StmtKind classifies a statement.
type StmtKind uint8

// Statement kinds.
const (
	StmtReturn StmtKind = iota
	StmtAssign
	StmtDo
)

// Stmt is a statement of a method body.
type Stmt struct {
	Kind StmtKind
	// Target is assigned by assignment statements.
	Target Expr
	// Value is the returned, assigned or evaluated expression.
	Value Expr
}

// Return returns the value of e.
func Return(e Expr) Stmt { return Stmt{Kind: StmtReturn, Value: e} }

// Assign stores value into target.
func Assign(target, value Expr) Stmt {
	return Stmt{Kind: StmtAssign, Target: target, Value: value}
}

// Do evaluates e for its effect.
func Do(e Expr) Stmt { return Stmt{Kind: StmtDo, Value: e} }
