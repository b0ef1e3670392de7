package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/puregate/internal/token"
)

// VarDecl is a "var", "let" or "const" declaration.
type VarDecl struct {
	KindPos token.Position // position of the keyword
	Kind    string         // "var", "let" or "const"
	Decls   []*Declarator
	EndPos  token.Position
}

func (x *VarDecl) stmtNode() {}

func (x *VarDecl) Pos() token.Position { return x.KindPos }
func (x *VarDecl) End() token.Position { return x.EndPos }

func (x *VarDecl) String() string {
	return x.Kind + " " + joinNodes(x.Decls, ", ")
}

// Declarator is a single binding within a VarDecl.
type Declarator struct {
	Target Pattern
	Init   Expr // may be nil
}

func (x *Declarator) Pos() token.Position { return x.Target.Pos() }

func (x *Declarator) End() token.Position {
	if x.Init != nil {
		return x.Init.End()
	}
	return x.Target.End()
}

func (x *Declarator) String() string {
	if x.Init == nil {
		return x.Target.String()
	}
	return x.Target.String() + " = " + x.Init.String()
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	Func *Func
}

func (x *FuncDecl) stmtNode() {}

func (x *FuncDecl) Pos() token.Position { return x.Func.Pos() }
func (x *FuncDecl) End() token.Position { return x.Func.End() }
func (x *FuncDecl) String() string      { return x.Func.String() }

// ClassDecl is a class declaration statement.
type ClassDecl struct {
	Class *Class
}

func (x *ClassDecl) stmtNode() {}

func (x *ClassDecl) Pos() token.Position { return x.Class.Pos() }
func (x *ClassDecl) End() token.Position { return x.Class.End() }
func (x *ClassDecl) String() string      { return x.Class.String() }

// Return is a return statement.
type Return struct {
	ReturnPos token.Position
	Value     Expr // may be nil
}

func (x *Return) stmtNode() {}

func (x *Return) Pos() token.Position { return x.ReturnPos }

func (x *Return) End() token.Position {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.ReturnPos.Advance(len("return"))
}

func (x *Return) String() string {
	if x.Value == nil {
		return "return"
	}
	return "return " + x.Value.String()
}

// Throw is a throw statement.
type Throw struct {
	ThrowPos token.Position
	Value    Expr
}

func (x *Throw) stmtNode() {}

func (x *Throw) Pos() token.Position { return x.ThrowPos }
func (x *Throw) End() token.Position { return x.Value.End() }
func (x *Throw) String() string      { return "throw " + x.Value.String() }

// If is an if statement with an optional else branch.
type If struct {
	IfPos token.Position
	Cond  Expr
	Then  Stmt
	Else  Stmt // may be nil
}

func (x *If) stmtNode() {}

func (x *If) Pos() token.Position { return x.IfPos }

func (x *If) End() token.Position {
	if x.Else != nil {
		return x.Else.End()
	}
	return x.Then.End()
}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(x.Cond.String())
	out.WriteString(") ")
	out.WriteString(x.Then.String())
	if x.Else != nil {
		out.WriteString(" else ")
		out.WriteString(x.Else.String())
	}
	return out.String()
}

// For is a counted "for (init; test; update)" loop.
type For struct {
	ForPos token.Position
	Init   Node // *VarDecl, Expr, or nil
	Test   Expr // may be nil
	Update Expr // may be nil
	Body   Stmt
}

func (x *For) stmtNode() {}

func (x *For) Pos() token.Position { return x.ForPos }
func (x *For) End() token.Position { return x.Body.End() }

func (x *For) String() string {
	str := func(n Node) string {
		if n == nil {
			return ""
		}
		return n.String()
	}
	var test, update string
	if x.Test != nil {
		test = x.Test.String()
	}
	if x.Update != nil {
		update = x.Update.String()
	}
	return "for (" + str(x.Init) + "; " + test + "; " + update + ") " + x.Body.String()
}

// ForIn is a "for (left in right)" loop.
type ForIn struct {
	ForPos token.Position
	Left   Node // *VarDecl or Pattern
	Right  Expr
	Body   Stmt
}

func (x *ForIn) stmtNode() {}

func (x *ForIn) Pos() token.Position { return x.ForPos }
func (x *ForIn) End() token.Position { return x.Body.End() }

func (x *ForIn) String() string {
	return "for (" + x.Left.String() + " in " + x.Right.String() + ") " + x.Body.String()
}

// ForOf is a "for (left of right)" loop, optionally "for await".
type ForOf struct {
	ForPos token.Position
	Left   Node // *VarDecl or Pattern
	Right  Expr
	Body   Stmt
	Await  bool
}

func (x *ForOf) stmtNode() {}

func (x *ForOf) Pos() token.Position { return x.ForPos }
func (x *ForOf) End() token.Position { return x.Body.End() }

func (x *ForOf) String() string {
	head := "for ("
	if x.Await {
		head = "for await ("
	}
	return head + x.Left.String() + " of " + x.Right.String() + ") " + x.Body.String()
}

// While is a while loop.
type While struct {
	WhilePos token.Position
	Cond     Expr
	Body     Stmt
}

func (x *While) stmtNode() {}

func (x *While) Pos() token.Position { return x.WhilePos }
func (x *While) End() token.Position { return x.Body.End() }

func (x *While) String() string {
	return "while (" + x.Cond.String() + ") " + x.Body.String()
}

// DoWhile is a do...while loop.
type DoWhile struct {
	DoPos  token.Position
	Body   Stmt
	Cond   Expr
	EndPos token.Position
}

func (x *DoWhile) stmtNode() {}

func (x *DoWhile) Pos() token.Position { return x.DoPos }
func (x *DoWhile) End() token.Position { return x.EndPos }

func (x *DoWhile) String() string {
	return "do " + x.Body.String() + " while (" + x.Cond.String() + ")"
}

// Break is a break statement with an optional label.
type Break struct {
	BreakPos token.Position
	Label    *Ident
}

func (x *Break) stmtNode() {}

func (x *Break) Pos() token.Position { return x.BreakPos }

func (x *Break) End() token.Position {
	if x.Label != nil {
		return x.Label.End()
	}
	return x.BreakPos.Advance(len("break"))
}

func (x *Break) String() string {
	if x.Label != nil {
		return "break " + x.Label.Name
	}
	return "break"
}

// Continue is a continue statement with an optional label.
type Continue struct {
	ContinuePos token.Position
	Label       *Ident
}

func (x *Continue) stmtNode() {}

func (x *Continue) Pos() token.Position { return x.ContinuePos }

func (x *Continue) End() token.Position {
	if x.Label != nil {
		return x.Label.End()
	}
	return x.ContinuePos.Advance(len("continue"))
}

func (x *Continue) String() string {
	if x.Label != nil {
		return "continue " + x.Label.Name
	}
	return "continue"
}

// Block is a braced list of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position
}

func (x *Block) stmtNode() {}

func (x *Block) Pos() token.Position { return x.Lbrace }
func (x *Block) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Block) String() string {
	if len(x.Stmts) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(x.Stmts, "; ") + " }"
}

// Empty is a lone semicolon.
type Empty struct {
	Semicolon token.Position
}

func (x *Empty) stmtNode() {}

func (x *Empty) Pos() token.Position { return x.Semicolon }
func (x *Empty) End() token.Position { return x.Semicolon.Advance(1) }
func (x *Empty) String() string      { return ";" }

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) stmtNode() {}

func (x *ExprStmt) Pos() token.Position { return x.X.Pos() }
func (x *ExprStmt) End() token.Position { return x.X.End() }
func (x *ExprStmt) String() string      { return x.X.String() }

// Labeled is a statement prefixed with "label:".
type Labeled struct {
	Label *Ident
	Body  Stmt
}

func (x *Labeled) stmtNode() {}

func (x *Labeled) Pos() token.Position { return x.Label.Pos() }
func (x *Labeled) End() token.Position { return x.Body.End() }
func (x *Labeled) String() string      { return x.Label.Name + ": " + x.Body.String() }

// Switch is a switch statement.
type Switch struct {
	SwitchPos    token.Position
	Discriminant Expr
	Cases        []*Case
	Rbrace       token.Position
}

func (x *Switch) stmtNode() {}

func (x *Switch) Pos() token.Position { return x.SwitchPos }
func (x *Switch) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Switch) String() string {
	return "switch (" + x.Discriminant.String() + ") { " + joinNodes(x.Cases, " ") + " }"
}

// Case is one clause of a switch. Test is nil for the default clause.
type Case struct {
	CasePos token.Position
	Test    Expr
	Body    []Stmt
	EndPos  token.Position
}

func (x *Case) Pos() token.Position { return x.CasePos }
func (x *Case) End() token.Position { return x.EndPos }

func (x *Case) String() string {
	head := "default:"
	if x.Test != nil {
		head = "case " + x.Test.String() + ":"
	}
	if len(x.Body) == 0 {
		return head
	}
	return head + " " + joinNodes(x.Body, "; ")
}

// Try is a try statement with optional catch and finally clauses.
type Try struct {
	TryPos    token.Position
	Body      *Block
	Param     Pattern // catch binding; may be nil
	Handler   *Block  // may be nil
	Finalizer *Block  // may be nil
}

func (x *Try) stmtNode() {}

func (x *Try) Pos() token.Position { return x.TryPos }

func (x *Try) End() token.Position {
	if x.Finalizer != nil {
		return x.Finalizer.End()
	}
	if x.Handler != nil {
		return x.Handler.End()
	}
	return x.Body.End()
}

func (x *Try) String() string {
	var out strings.Builder
	out.WriteString("try ")
	out.WriteString(x.Body.String())
	if x.Handler != nil {
		out.WriteString(" catch ")
		if x.Param != nil {
			out.WriteString("(" + x.Param.String() + ") ")
		}
		out.WriteString(x.Handler.String())
	}
	if x.Finalizer != nil {
		out.WriteString(" finally ")
		out.WriteString(x.Finalizer.String())
	}
	return out.String()
}

// With is a with statement.
type With struct {
	WithPos token.Position
	Object  Expr
	Body    Stmt
}

func (x *With) stmtNode() {}

func (x *With) Pos() token.Position { return x.WithPos }
func (x *With) End() token.Position { return x.Body.End() }

func (x *With) String() string {
	return "with (" + x.Object.String() + ") " + x.Body.String()
}

// Debugger is a debugger statement.
type Debugger struct {
	DebuggerPos token.Position
}

func (x *Debugger) stmtNode() {}

func (x *Debugger) Pos() token.Position { return x.DebuggerPos }
func (x *Debugger) End() token.Position { return x.DebuggerPos.Advance(len("debugger")) }
func (x *Debugger) String() string      { return "debugger" }
