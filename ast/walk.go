package ast

import (
	"fmt"
	"iter"
)

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses an AST in depth-first order. If f returns true, Inspect
// continues into the children of the node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Children returns the non-nil direct children of node in source order.
// The FuncDecl and ClassDecl wrappers expose the parts of the function or
// class they hold, so each construct is visited exactly once. Children
// panics on a node type it does not know.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if !isNil(n) {
				out = append(out, n)
			}
		}
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Stmts {
			add(s)
		}

	// Statements
	case *VarDecl:
		for _, d := range n.Decls {
			add(d)
		}
	case *Declarator:
		add(n.Target, n.Init)
	case *FuncDecl:
		return funcChildren(n.Func)
	case *ClassDecl:
		return classChildren(n.Class)
	case *Return:
		add(n.Value)
	case *Throw:
		add(n.Value)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *For:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForIn:
		add(n.Left, n.Right, n.Body)
	case *ForOf:
		add(n.Left, n.Right, n.Body)
	case *While:
		add(n.Cond, n.Body)
	case *DoWhile:
		add(n.Body, n.Cond)
	case *Break:
		add(n.Label)
	case *Continue:
		add(n.Label)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *Empty, *Debugger, *BadStmt, *BadExpr:
		// No children
	case *ExprStmt:
		add(n.X)
	case *Labeled:
		add(n.Label, n.Body)
	case *Switch:
		add(n.Discriminant)
		for _, c := range n.Cases {
			add(c)
		}
	case *Case:
		add(n.Test)
		for _, s := range n.Body {
			add(s)
		}
	case *Try:
		add(n.Body, n.Param, n.Handler, n.Finalizer)
	case *With:
		add(n.Object, n.Body)
	case *Import:
		for _, s := range n.Specs {
			add(s)
		}
		add(n.Source)
	case *ImportSpec:
		if n.Imported != nil && n.Imported != n.Local {
			add(n.Imported)
		}
		add(n.Local)
	case *ExportNamed:
		add(n.Decl)
		for _, s := range n.Specs {
			add(s)
		}
		add(n.Source)
	case *ExportSpec:
		add(n.Local)
		if n.Exported != n.Local {
			add(n.Exported)
		}
	case *ExportDefault:
		add(n.Value)
	case *ExportAll:
		add(n.Exported, n.Source)

	// Expressions
	case *Ident, *PrivateName, *This, *Super, *Number, *String, *Regex, *Bool, *Null:
		// Leaves
	case *Template:
		for _, e := range n.Exprs {
			add(e)
		}
	case *TaggedTemplate:
		add(n.Tag, n.Quasi)
	case *Array:
		for _, e := range n.Elements {
			add(e)
		}
	case *Object:
		for _, p := range n.Props {
			add(p)
		}
	case *Property:
		if !n.Shorthand {
			add(n.Key)
		}
		add(n.Value)
	case *Func:
		return funcChildren(n)
	case *Class:
		return classChildren(n)
	case *ClassMember:
		add(n.Key, n.Value, n.Body)
	case *Unary:
		add(n.X)
	case *Update:
		add(n.X)
	case *Binary:
		add(n.X, n.Y)
	case *Assign:
		add(n.Target, n.Value)
	case *Cond:
		add(n.Test, n.Consequent, n.Alternate)
	case *Call:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *New:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *Member:
		add(n.Object, n.Property)
	case *Sequence:
		for _, e := range n.Exprs {
			add(e)
		}
	case *Spread:
		add(n.X)
	case *Yield:
		add(n.X)
	case *Await:
		add(n.X)
	case *MetaProperty:
		add(n.Meta, n.Property)
	case *ImportCall:
		add(n.Source)

	// Patterns
	case *ObjectPattern:
		for _, p := range n.Props {
			add(p)
		}
		add(n.Rest)
	case *PatternProp:
		if !n.Shorthand {
			add(n.Key)
		}
		add(n.Value)
	case *ArrayPattern:
		for _, e := range n.Elements {
			add(e)
		}
	case *AssignPattern:
		add(n.Target, n.Default)
	case *RestElement:
		add(n.Target)
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", node))
	}
	return out
}

func funcChildren(f *Func) []Node {
	var out []Node
	if f.Name != nil {
		out = append(out, f.Name)
	}
	for _, p := range f.Params {
		out = append(out, p)
	}
	if f.Body != nil {
		out = append(out, f.Body)
	} else if f.ExprBody != nil {
		out = append(out, f.ExprBody)
	}
	return out
}

func classChildren(c *Class) []Node {
	var out []Node
	if c.Name != nil {
		out = append(out, c.Name)
	}
	if c.SuperClass != nil {
		out = append(out, c.SuperClass)
	}
	for _, m := range c.Members {
		out = append(out, m)
	}
	return out
}

// isNil reports whether n is nil or an interface holding a nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Ident:
		return v == nil
	case *String:
		return v == nil
	case *Block:
		return v == nil
	case *RestElement:
		return v == nil
	case *Template:
		return v == nil
	case *VarDecl:
		return v == nil
	}
	return false
}
