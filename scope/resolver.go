package scope

import "github.com/deepnoodle-ai/puregate/ast"

// resolver records declarations and reference occurrences while walking the
// program. References are linked to bindings once the walk is complete.
type resolver struct {
	table    *Table
	cur      ID
	exported bool
}

func (r *resolver) push(kind Kind, node ast.Node) ID {
	prev := r.cur
	r.cur = r.table.newScope(prev, kind, node)
	return prev
}

func (r *resolver) pop(prev ID) { r.cur = prev }

// varScope returns the nearest function or module scope, where var and
// function declarations are hoisted to.
func (r *resolver) varScope() ID {
	return r.table.scopes[r.cur].Func
}

func (r *resolver) reference(ident *ast.Ident) {
	if _, ok := r.table.refs[ident]; ok {
		return
	}
	r.table.refs[ident] = &reference{scope: r.cur, binding: NoBinding}
	r.table.refOrder = append(r.table.refOrder, ident)
}

func (r *resolver) declare(s ID, ident *ast.Ident, kind BindingKind) {
	if ident == nil {
		return
	}
	id := r.table.declare(s, ident, kind)
	if r.exported {
		r.table.bindings[id].Exported = true
	}
}

func (r *resolver) visitAll(nodes []ast.Node) {
	for _, n := range nodes {
		r.visit(n)
	}
}

func (r *resolver) visitStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if s != nil {
			r.visit(s)
		}
	}
}

func (r *resolver) visit(node ast.Node) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.Ident:
		r.reference(n)
	case *ast.VarDecl:
		r.varDecl(n)
	case *ast.FuncDecl:
		if n.Func.Name != nil {
			r.declare(r.varScope(), n.Func.Name, Function)
		}
		r.function(n.Func, false)
	case *ast.ClassDecl:
		if n.Class.Name != nil {
			r.declare(r.cur, n.Class.Name, Class)
		}
		r.class(n.Class, false)
	case *ast.Block:
		prev := r.push(BlockScope, n)
		r.visitStmts(n.Stmts)
		r.pop(prev)
	case *ast.For:
		prev := r.push(ForScope, n)
		r.visitAll(ast.Children(n))
		r.pop(prev)
	case *ast.ForIn:
		prev := r.push(ForScope, n)
		r.forHead(n.Left)
		r.visit(n.Right)
		r.visit(n.Body)
		r.pop(prev)
	case *ast.ForOf:
		prev := r.push(ForScope, n)
		r.forHead(n.Left)
		r.visit(n.Right)
		r.visit(n.Body)
		r.pop(prev)
	case *ast.Switch:
		r.visit(n.Discriminant)
		prev := r.push(SwitchScope, n)
		for _, c := range n.Cases {
			r.visit(c.Test)
			r.visitStmts(c.Body)
		}
		r.pop(prev)
	case *ast.Try:
		r.visit(n.Body)
		if n.Handler != nil {
			prev := r.push(CatchScope, n.Handler)
			if n.Param != nil {
				r.pattern(n.Param, Catch, r.cur)
			}
			r.visitStmts(n.Handler.Stmts)
			r.pop(prev)
		}
		if n.Finalizer != nil {
			r.visit(n.Finalizer)
		}
	case *ast.Labeled:
		r.visit(n.Body)
	case *ast.Break, *ast.Continue:
		// Labels are not bindings.
	case *ast.Import:
		for _, spec := range n.Specs {
			r.declare(r.cur, spec.Local, Import)
		}
	case *ast.ExportNamed:
		if n.Decl != nil {
			r.exported = true
			r.visit(n.Decl)
			r.exported = false
		}
		if n.Source == nil {
			for _, spec := range n.Specs {
				r.reference(spec.Local)
			}
		}
	case *ast.ExportDefault:
		r.exported = true
		r.visit(n.Value)
		r.exported = false
	case *ast.ExportAll:
		// Re-exports bind nothing locally.

	// Expressions
	case *ast.Func:
		r.function(n, true)
	case *ast.Class:
		r.class(n, true)
	case *ast.Member:
		r.visit(n.Object)
		if n.Computed {
			r.visit(n.Property)
		}
	case *ast.Property:
		if n.Computed {
			r.visit(n.Key)
		}
		r.visit(n.Value)
	case *ast.MetaProperty:
		// import.meta and new.target
	case *ast.PatternProp:
		// Assignment patterns; declaration patterns go through pattern.
		if n.Computed {
			r.visit(n.Key)
		}
		r.visit(n.Value)
	default:
		r.visitAll(ast.Children(node))
	}
}

func (r *resolver) varDecl(n *ast.VarDecl) {
	kind, target := Var, r.varScope()
	switch n.Kind {
	case "let":
		kind, target = Let, r.cur
	case "const":
		kind, target = Const, r.cur
	}
	for _, d := range n.Decls {
		r.pattern(d.Target, kind, target)
		r.visit(d.Init)
	}
}

// forHead handles the left side of a for-in or for-of loop.
func (r *resolver) forHead(left ast.Node) {
	if decl, ok := left.(*ast.VarDecl); ok {
		r.varDecl(decl)
		return
	}
	r.visit(left)
}

// pattern declares the names bound by p in scope s. Default values and
// computed keys inside the pattern are references in the current scope.
func (r *resolver) pattern(p ast.Pattern, kind BindingKind, s ID) {
	switch p := p.(type) {
	case nil:
	case *ast.Ident:
		r.declare(s, p, kind)
	case *ast.Member:
		r.visit(p)
	case *ast.ObjectPattern:
		for _, prop := range p.Props {
			if prop.Computed {
				r.visit(prop.Key)
			}
			r.pattern(prop.Value, kind, s)
		}
		if p.Rest != nil {
			r.pattern(p.Rest, kind, s)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			r.pattern(el, kind, s)
		}
	case *ast.AssignPattern:
		r.pattern(p.Target, kind, s)
		r.visit(p.Default)
	case *ast.RestElement:
		r.pattern(p.Target, kind, s)
	}
}

// function opens a function scope for f. A named function expression binds
// its own name inside that scope.
func (r *resolver) function(f *ast.Func, expr bool) {
	exported := r.exported
	r.exported = false
	prev := r.push(FunctionScope, f)
	if expr && f.Name != nil {
		r.declare(r.cur, f.Name, Function)
	}
	for _, param := range f.Params {
		r.pattern(param, Parameter, r.cur)
	}
	if f.Body != nil {
		r.visitStmts(f.Body.Stmts)
	} else {
		r.visit(f.ExprBody)
	}
	r.pop(prev)
	r.exported = exported
}

func (r *resolver) class(c *ast.Class, expr bool) {
	exported := r.exported
	r.exported = false
	r.visit(c.SuperClass)
	prev := r.push(ClassScope, c)
	if expr && c.Name != nil {
		r.declare(r.cur, c.Name, Class)
	}
	for _, m := range c.Members {
		if m.Computed {
			r.visit(m.Key)
		}
		switch {
		case m.Kind == ast.MemberStaticBlock:
			inner := r.push(FunctionScope, m)
			r.visitStmts(m.Body.Stmts)
			r.pop(inner)
		case m.Value != nil:
			r.visit(m.Value)
		}
	}
	r.pop(prev)
	r.exported = exported
}
