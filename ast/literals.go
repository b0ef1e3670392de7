package ast

import (
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/puregate/internal/token"
)

// Number is a numeric literal, kept in its source form.
type Number struct {
	ValuePos token.Position
	ValueEnd token.Position
	Literal  string
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValueEnd }
func (x *Number) String() string      { return x.Literal }

// String is a string literal. Value holds the decoded contents.
type String struct {
	ValuePos token.Position
	ValueEnd token.Position
	Value    string
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValueEnd }
func (x *String) String() string      { return strconv.Quote(x.Value) }

// Template is a template literal. Quasis holds the raw text chunks, which
// always number one more than Exprs.
type Template struct {
	Backtick token.Position
	Quasis   []string
	Exprs    []Expr
	EndPos   token.Position
}

func (x *Template) exprNode() {}

func (x *Template) Pos() token.Position { return x.Backtick }
func (x *Template) End() token.Position { return x.EndPos }

func (x *Template) String() string {
	var out strings.Builder
	out.WriteByte('`')
	for i, q := range x.Quasis {
		out.WriteString(q)
		if i < len(x.Exprs) {
			out.WriteString("${")
			out.WriteString(x.Exprs[i].String())
			out.WriteString("}")
		}
	}
	out.WriteByte('`')
	return out.String()
}

// TaggedTemplate is a template literal preceded by a tag expression.
type TaggedTemplate struct {
	Tag   Expr
	Quasi *Template
}

func (x *TaggedTemplate) exprNode() {}

func (x *TaggedTemplate) Pos() token.Position { return x.Tag.Pos() }
func (x *TaggedTemplate) End() token.Position { return x.Quasi.End() }
func (x *TaggedTemplate) String() string      { return x.Tag.String() + x.Quasi.String() }

// Regex is a regular expression literal.
type Regex struct {
	ValuePos token.Position
	ValueEnd token.Position
	Pattern  string
	Flags    string
}

func (x *Regex) exprNode() {}

func (x *Regex) Pos() token.Position { return x.ValuePos }
func (x *Regex) End() token.Position { return x.ValueEnd }
func (x *Regex) String() string      { return "/" + x.Pattern + "/" + x.Flags }

// Bool is true or false.
type Bool struct {
	ValuePos token.Position
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) End() token.Position {
	if x.Value {
		return x.ValuePos.Advance(4)
	}
	return x.ValuePos.Advance(5)
}

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

// Null is the null literal.
type Null struct {
	NullPos token.Position
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }
func (x *Null) End() token.Position { return x.NullPos.Advance(4) }
func (x *Null) String() string      { return "null" }

// Array is an array literal. Holes are represented by nil elements.
type Array struct {
	Lbrack   token.Position
	Elements []Expr
	Rbrack   token.Position
}

func (x *Array) exprNode() {}

func (x *Array) Pos() token.Position { return x.Lbrack }
func (x *Array) End() token.Position { return x.Rbrack.Advance(1) }
func (x *Array) String() string      { return "[" + joinNodes(x.Elements, ", ") + "]" }

// PropertyKind distinguishes object literal members.
type PropertyKind int

const (
	PropInit   PropertyKind = iota // key: value, shorthand, or method
	PropGet                        // get key() {}
	PropSet                        // set key(v) {}
	PropSpread                     // ...value
)

// Object is an object literal.
type Object struct {
	Lbrace token.Position
	Props  []*Property
	Rbrace token.Position
}

func (x *Object) exprNode() {}

func (x *Object) Pos() token.Position { return x.Lbrace }
func (x *Object) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Object) String() string {
	if len(x.Props) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(x.Props, ", ") + " }"
}

// Property is one member of an object literal. For PropSpread the key is
// nil and Value is the spread argument.
type Property struct {
	Kind      PropertyKind
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
	Method    bool
	StartPos  token.Position
}

func (x *Property) Pos() token.Position { return x.StartPos }
func (x *Property) End() token.Position { return x.Value.End() }

func (x *Property) String() string {
	if x.Kind == PropSpread {
		return "..." + x.Value.String()
	}
	if x.Shorthand {
		return x.Value.String()
	}
	key := x.Key.String()
	if x.Computed {
		key = "[" + key + "]"
	}
	switch x.Kind {
	case PropGet:
		return "get " + key + "()"
	case PropSet:
		return "set " + key + "()"
	}
	if x.Method {
		return key + "()"
	}
	return key + ": " + x.Value.String()
}

// KeyName returns the static name of a non-computed key or a computed
// string literal key.
func (x *Property) KeyName() (string, bool) {
	return StaticKey(x.Key, x.Computed)
}

// StaticKey returns the property name of key when it is known statically.
func StaticKey(key Expr, computed bool) (string, bool) {
	switch k := key.(type) {
	case *Ident:
		if !computed {
			return k.Name, true
		}
	case *String:
		return k.Value, true
	case *Number:
		return k.Literal, true
	}
	return "", false
}
