package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/puregate/internal/token"
)

// Ident is an expression node that refers to a variable by name. It is also
// a binding pattern.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode()    {}
func (x *Ident) patternNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// PrivateName is a "#name" class member reference.
type PrivateName struct {
	NamePos token.Position
	Name    string // includes the leading '#'
}

func (x *PrivateName) exprNode() {}

func (x *PrivateName) Pos() token.Position { return x.NamePos }
func (x *PrivateName) End() token.Position { return x.NamePos.Advance(len(x.Name)) }
func (x *PrivateName) String() string      { return x.Name }

// This is the "this" keyword.
type This struct {
	ThisPos token.Position
}

func (x *This) exprNode() {}

func (x *This) Pos() token.Position { return x.ThisPos }
func (x *This) End() token.Position { return x.ThisPos.Advance(4) }
func (x *This) String() string      { return "this" }

// Super is the "super" keyword.
type Super struct {
	SuperPos token.Position
}

func (x *Super) exprNode() {}

func (x *Super) Pos() token.Position { return x.SuperPos }
func (x *Super) End() token.Position { return x.SuperPos.Advance(5) }
func (x *Super) String() string      { return "super" }

// Func is a function expression, arrow function, method, or the function
// held by a FuncDecl.
type Func struct {
	FuncPos   token.Position // start of the function (keyword, async, or parameters)
	Name      *Ident         // may be nil
	Params    []Pattern
	Body      *Block // nil for expression-bodied arrows
	ExprBody  Expr   // expression body of an arrow function
	Async     bool
	Generator bool
	Arrow     bool
}

func (x *Func) exprNode() {}

func (x *Func) Pos() token.Position { return x.FuncPos }

func (x *Func) End() token.Position {
	if x.Body != nil {
		return x.Body.End()
	}
	return x.ExprBody.End()
}

func (x *Func) String() string {
	var out bytes.Buffer
	if x.Async {
		out.WriteString("async ")
	}
	params := "(" + joinNodes(x.Params, ", ") + ")"
	if x.Arrow {
		out.WriteString(params)
		out.WriteString(" => ")
		if x.Body != nil {
			out.WriteString(x.Body.String())
		} else {
			out.WriteString(x.ExprBody.String())
		}
		return out.String()
	}
	out.WriteString("function")
	if x.Generator {
		out.WriteString("*")
	}
	if x.Name != nil {
		out.WriteString(" " + x.Name.Name)
	}
	out.WriteString(params)
	out.WriteString(" ")
	out.WriteString(x.Body.String())
	return out.String()
}

// Class is a class expression or the class held by a ClassDecl.
type Class struct {
	ClassPos   token.Position
	Name       *Ident // may be nil
	SuperClass Expr   // may be nil
	Members    []*ClassMember
	Rbrace     token.Position
}

func (x *Class) exprNode() {}

func (x *Class) Pos() token.Position { return x.ClassPos }
func (x *Class) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Class) String() string {
	var out strings.Builder
	out.WriteString("class")
	if x.Name != nil {
		out.WriteString(" " + x.Name.Name)
	}
	if x.SuperClass != nil {
		out.WriteString(" extends " + x.SuperClass.String())
	}
	out.WriteString(" { " + joinNodes(x.Members, "; ") + " }")
	return out.String()
}

// MemberKind distinguishes class body elements.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberField
	MemberStaticBlock
)

// ClassMember is one element of a class body.
type ClassMember struct {
	Kind     MemberKind
	Key      Expr // nil for static blocks
	Computed bool
	Static   bool
	Value    Expr   // *Func for methods, initializer for fields; may be nil
	Body     *Block // static block body
	StartPos token.Position
	EndPos   token.Position
}

func (x *ClassMember) Pos() token.Position { return x.StartPos }
func (x *ClassMember) End() token.Position { return x.EndPos }

func (x *ClassMember) String() string {
	if x.Kind == MemberStaticBlock {
		return "static " + x.Body.String()
	}
	var out strings.Builder
	if x.Static {
		out.WriteString("static ")
	}
	switch x.Kind {
	case MemberGetter:
		out.WriteString("get ")
	case MemberSetter:
		out.WriteString("set ")
	}
	key := x.Key.String()
	if x.Computed {
		key = "[" + key + "]"
	}
	out.WriteString(key)
	if x.Kind == MemberField {
		if x.Value != nil {
			out.WriteString(" = " + x.Value.String())
		}
		return out.String()
	}
	out.WriteString("()")
	return out.String()
}

// Unary is a prefix operator expression such as "!x", "-x", "typeof x",
// "void x" or "delete x.y".
type Unary struct {
	OpPos token.Position
	Op    string
	X     Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }
func (x *Unary) End() token.Position { return x.X.End() }

func (x *Unary) String() string {
	if len(x.Op) > 1 {
		return "(" + x.Op + " " + x.X.String() + ")"
	}
	return "(" + x.Op + x.X.String() + ")"
}

// Update is "++" or "--" applied before or after an operand.
type Update struct {
	OpPos  token.Position
	Op     string // "++" or "--"
	Prefix bool
	X      Expr
}

func (x *Update) exprNode() {}

func (x *Update) Pos() token.Position {
	if x.Prefix {
		return x.OpPos
	}
	return x.X.Pos()
}

func (x *Update) End() token.Position {
	if x.Prefix {
		return x.X.End()
	}
	return x.OpPos.Advance(2)
}

func (x *Update) String() string {
	if x.Prefix {
		return x.Op + x.X.String()
	}
	return x.X.String() + x.Op
}

// Binary is an infix operator expression, including the logical operators.
type Binary struct {
	X     Expr
	OpPos token.Position
	Op    string
	Y     Expr
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }
func (x *Binary) End() token.Position { return x.Y.End() }

func (x *Binary) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Logical reports whether the operator is "&&", "||" or "??".
func (x *Binary) Logical() bool {
	return x.Op == "&&" || x.Op == "||" || x.Op == "??"
}

// Assign is an assignment expression, including compound assignments.
type Assign struct {
	Target Pattern
	OpPos  token.Position
	Op     string // "=", "+=", ...
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// Cond is a ternary conditional expression.
type Cond struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (x *Cond) exprNode() {}

func (x *Cond) Pos() token.Position { return x.Test.Pos() }
func (x *Cond) End() token.Position { return x.Alternate.End() }

func (x *Cond) String() string {
	return "(" + x.Test.String() + " ? " + x.Consequent.String() + " : " + x.Alternate.String() + ")"
}

// Call is a function call. Optional is set for "f?.()".
type Call struct {
	Callee   Expr
	Args     []Expr
	Optional bool
	Rparen   token.Position
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Callee.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	op := ""
	if x.Optional {
		op = "?."
	}
	return x.Callee.String() + op + "(" + joinNodes(x.Args, ", ") + ")"
}

// New is a "new" expression.
type New struct {
	NewPos token.Position
	Callee Expr
	Args   []Expr
	EndPos token.Position
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }
func (x *New) End() token.Position { return x.EndPos }

func (x *New) String() string {
	return "new " + x.Callee.String() + "(" + joinNodes(x.Args, ", ") + ")"
}

// Member is a property access: "a.b", "a[b]", "a?.b" or "a.#b". It is also
// an assignment target.
type Member struct {
	Object   Expr
	Property Expr // *Ident or *PrivateName unless Computed
	Computed bool
	Optional bool
	EndPos   token.Position
}

func (x *Member) exprNode()    {}
func (x *Member) patternNode() {}

func (x *Member) Pos() token.Position { return x.Object.Pos() }
func (x *Member) End() token.Position { return x.EndPos }

func (x *Member) String() string {
	if x.Computed {
		op := ""
		if x.Optional {
			op = "?."
		}
		return x.Object.String() + op + "[" + x.Property.String() + "]"
	}
	if x.Optional {
		return x.Object.String() + "?." + x.Property.String()
	}
	return x.Object.String() + "." + x.Property.String()
}

// PropertyName returns the statically known property name.
func (x *Member) PropertyName() (string, bool) {
	if p, ok := x.Property.(*PrivateName); ok && !x.Computed {
		return p.Name, true
	}
	return StaticKey(x.Property, x.Computed)
}

// Sequence is a comma-separated list of expressions.
type Sequence struct {
	Exprs []Expr
}

func (x *Sequence) exprNode() {}

func (x *Sequence) Pos() token.Position { return x.Exprs[0].Pos() }
func (x *Sequence) End() token.Position { return x.Exprs[len(x.Exprs)-1].End() }
func (x *Sequence) String() string      { return "(" + joinNodes(x.Exprs, ", ") + ")" }

// Spread is "...expr" in an array literal or call argument list.
type Spread struct {
	Ellipsis token.Position
	X        Expr
}

func (x *Spread) exprNode() {}

func (x *Spread) Pos() token.Position { return x.Ellipsis }
func (x *Spread) End() token.Position { return x.X.End() }
func (x *Spread) String() string      { return "..." + x.X.String() }

// Yield is a yield expression inside a generator.
type Yield struct {
	YieldPos token.Position
	Delegate bool
	X        Expr // may be nil
}

func (x *Yield) exprNode() {}

func (x *Yield) Pos() token.Position { return x.YieldPos }

func (x *Yield) End() token.Position {
	if x.X != nil {
		return x.X.End()
	}
	return x.YieldPos.Advance(5)
}

func (x *Yield) String() string {
	s := "yield"
	if x.Delegate {
		s += "*"
	}
	if x.X != nil {
		s += " " + x.X.String()
	}
	return s
}

// Await is an await expression.
type Await struct {
	AwaitPos token.Position
	X        Expr
}

func (x *Await) exprNode() {}

func (x *Await) Pos() token.Position { return x.AwaitPos }
func (x *Await) End() token.Position { return x.X.End() }
func (x *Await) String() string      { return "await " + x.X.String() }

// MetaProperty is "new.target" or "import.meta".
type MetaProperty struct {
	Meta     *Ident
	Property *Ident
}

func (x *MetaProperty) exprNode() {}

func (x *MetaProperty) Pos() token.Position { return x.Meta.Pos() }
func (x *MetaProperty) End() token.Position { return x.Property.End() }
func (x *MetaProperty) String() string      { return x.Meta.Name + "." + x.Property.Name }

// ImportCall is a dynamic "import(source)" expression.
type ImportCall struct {
	ImportPos token.Position
	Source    Expr
	Rparen    token.Position
}

func (x *ImportCall) exprNode() {}

func (x *ImportCall) Pos() token.Position { return x.ImportPos }
func (x *ImportCall) End() token.Position { return x.Rparen.Advance(1) }
func (x *ImportCall) String() string      { return "import(" + x.Source.String() + ")" }
