package ast

import "github.com/deepnoodle-ai/puregate/internal/token"

// ObjectPattern is a destructuring pattern such as "{ a, b: c, ...rest }".
type ObjectPattern struct {
	Lbrace token.Position
	Props  []*PatternProp
	Rest   *RestElement // may be nil
	Rbrace token.Position
}

func (x *ObjectPattern) patternNode() {}

func (x *ObjectPattern) Pos() token.Position { return x.Lbrace }
func (x *ObjectPattern) End() token.Position { return x.Rbrace.Advance(1) }

func (x *ObjectPattern) String() string {
	s := joinNodes(x.Props, ", ")
	if x.Rest != nil {
		if s != "" {
			s += ", "
		}
		s += x.Rest.String()
	}
	return "{ " + s + " }"
}

// PatternProp is one "key: target" entry of an ObjectPattern.
type PatternProp struct {
	Key       Expr
	Value     Pattern
	Computed  bool
	Shorthand bool
}

func (x *PatternProp) Pos() token.Position { return x.Key.Pos() }
func (x *PatternProp) End() token.Position { return x.Value.End() }

func (x *PatternProp) String() string {
	if x.Shorthand {
		return x.Value.String()
	}
	key := x.Key.String()
	if x.Computed {
		key = "[" + key + "]"
	}
	return key + ": " + x.Value.String()
}

// ArrayPattern is a destructuring pattern such as "[a, , b = 1, ...rest]".
// Holes are represented by nil elements.
type ArrayPattern struct {
	Lbrack   token.Position
	Elements []Pattern
	Rbrack   token.Position
}

func (x *ArrayPattern) patternNode() {}

func (x *ArrayPattern) Pos() token.Position { return x.Lbrack }
func (x *ArrayPattern) End() token.Position { return x.Rbrack.Advance(1) }
func (x *ArrayPattern) String() string      { return "[" + joinNodes(x.Elements, ", ") + "]" }

// AssignPattern is a target with a default value: "a = 1".
type AssignPattern struct {
	Target  Pattern
	Default Expr
}

func (x *AssignPattern) patternNode() {}

func (x *AssignPattern) Pos() token.Position { return x.Target.Pos() }
func (x *AssignPattern) End() token.Position { return x.Default.End() }
func (x *AssignPattern) String() string      { return x.Target.String() + " = " + x.Default.String() }

// RestElement is "...target" inside a pattern or parameter list.
type RestElement struct {
	Ellipsis token.Position
	Target   Pattern
}

func (x *RestElement) patternNode() {}

func (x *RestElement) Pos() token.Position { return x.Ellipsis }
func (x *RestElement) End() token.Position { return x.Target.End() }
func (x *RestElement) String() string      { return "..." + x.Target.String() }

// BoundNames returns the identifiers a pattern binds, in source order.
// Member expression targets bind nothing.
func BoundNames(p Pattern) []*Ident {
	var names []*Ident
	var collect func(Pattern)
	collect = func(p Pattern) {
		switch p := p.(type) {
		case *Ident:
			names = append(names, p)
		case *ObjectPattern:
			for _, prop := range p.Props {
				collect(prop.Value)
			}
			if p.Rest != nil {
				collect(p.Rest)
			}
		case *ArrayPattern:
			for _, el := range p.Elements {
				if el != nil {
					collect(el)
				}
			}
		case *AssignPattern:
			collect(p.Target)
		case *RestElement:
			collect(p.Target)
		}
	}
	collect(p)
	return names
}
