// Package purity decides whether a parsed program is free of mutation of
// shared state, side effects, global access and forbidden constructs.
//
// The analyzer makes a single depth-first pre-order pass over the AST.
// Locality questions are answered by a scope.Table: an identifier is local
// when its binding lives in the same function as the access site, and
// bindings declared directly in the module scope are never local.
package purity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/scope"
	"github.com/rs/zerolog"
)

type config struct {
	rules          *Rules
	allowedIdents  []string
	allowedMembers []string
	filename       string
	table          *scope.Table
	logger         zerolog.Logger
}

// Option configures Analyze.
type Option func(*config)

// WithRules replaces the baseline rule set.
func WithRules(r *Rules) Option {
	return func(c *config) { c.rules = r }
}

// WithAllowedIdentifiers permits free identifiers that are forbidden by
// default.
func WithAllowedIdentifiers(names ...string) Option {
	return func(c *config) { c.allowedIdents = append(c.allowedIdents, names...) }
}

// WithAllowedMembers permits member paths, "prefix.*" wildcards or bare
// method names that are forbidden by default.
func WithAllowedMembers(paths ...string) Option {
	return func(c *config) { c.allowedMembers = append(c.allowedMembers, paths...) }
}

// WithFilename sets the file label used in violation locations.
func WithFilename(name string) Option {
	return func(c *config) { c.filename = name }
}

// WithTable reuses a scope table already resolved for the program.
func WithTable(t *scope.Table) Option {
	return func(c *config) { c.table = t }
}

// WithLogger sets the logger that receives the verdict at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Analyze checks program for purity violations. The source text is used
// only for snippets. Analyze never panics: an internal failure is reported
// as a single side_effect violation with pattern FailurePattern.
func Analyze(program *ast.Program, source string, opts ...Option) (result *Result) {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	rules := cfg.rules
	if rules == nil {
		rules = DefaultRules()
	}
	if len(cfg.allowedIdents) > 0 || len(cfg.allowedMembers) > 0 {
		rules = rules.Allow(cfg.allowedIdents, cfg.allowedMembers)
	}

	defer func() {
		if r := recover(); r != nil {
			result = failure(fmt.Errorf("%v", r), cfg.filename)
		}
		if !result.Valid {
			cfg.logger.Debug().
				Int("violations", len(result.Violations)).
				Str("file", cfg.filename).
				Msg("purity check failed")
			return
		}
		cfg.logger.Debug().Str("file", cfg.filename).Msg("purity check passed")
	}()

	table := cfg.table
	if table == nil {
		t, err := scope.Resolve(program)
		if err != nil {
			return failure(err, cfg.filename)
		}
		table = t
	}

	a := &analyzer{
		rules:      rules,
		table:      table,
		source:     source,
		filename:   cfg.filename,
		topLevel:   map[*ast.Assign]bool{},
		consumed:   map[ast.Node]bool{},
		violations: []Violation{},
	}
	a.run(program)
	return &Result{Valid: len(a.violations) == 0, Violations: a.violations}
}

func failure(err error, filename string) *Result {
	loc := diag.Location{Line: 1, File: filename}
	return &Result{
		Valid: false,
		Violations: []Violation{{
			Kind:     SideEffect,
			Pattern:  FailurePattern,
			Location: loc,
			Message:  "purity analysis failed: " + err.Error(),
		}},
	}
}

type analyzer struct {
	rules      *Rules
	table      *scope.Table
	source     string
	filename   string
	topLevel   map[*ast.Assign]bool // assignments that are module-level statements
	consumed   map[ast.Node]bool    // nodes already accounted for by an enclosing handler
	violations []Violation
}

func (a *analyzer) run(program *ast.Program) {
	for _, stmt := range program.Stmts {
		if es, ok := stmt.(*ast.ExprStmt); ok {
			if as, ok := es.X.(*ast.Assign); ok {
				a.topLevel[as] = true
			}
		}
	}
	a.walk(program)
}

func (a *analyzer) walk(node ast.Node) {
	a.visit(node)
	for _, child := range ast.Children(node) {
		a.walk(child)
	}
}

func (a *analyzer) visit(node ast.Node) {
	kind := ast.Kind(node)
	if msg, ok := a.rules.Constructs[kind]; ok {
		a.report(node, ForbiddenConstruct, kind, msg)
	}
	switch n := node.(type) {
	case *ast.Ident:
		a.ident(n)
	case *ast.Member:
		a.member(n)
	case *ast.Assign:
		a.assign(n)
	case *ast.Update:
		a.update(n)
	case *ast.Unary:
		if n.Op == "delete" {
			a.deletion(n)
		}
	case *ast.Call:
		a.call(n)
	case *ast.Program, *ast.VarDecl, *ast.Declarator, *ast.FuncDecl, *ast.ClassDecl,
		*ast.Return, *ast.Throw, *ast.If, *ast.For, *ast.ForIn, *ast.ForOf, *ast.While,
		*ast.DoWhile, *ast.Break, *ast.Continue, *ast.Block, *ast.Empty, *ast.ExprStmt,
		*ast.Labeled, *ast.Switch, *ast.Case, *ast.Try, *ast.With, *ast.Debugger,
		*ast.Import, *ast.ImportSpec, *ast.ExportNamed, *ast.ExportSpec, *ast.ExportDefault,
		*ast.ExportAll, *ast.BadStmt, *ast.BadExpr:
	case *ast.PrivateName, *ast.This, *ast.Super, *ast.Number, *ast.String, *ast.Template,
		*ast.TaggedTemplate, *ast.Regex, *ast.Bool, *ast.Null, *ast.Array, *ast.Object,
		*ast.Property, *ast.Func, *ast.Class, *ast.ClassMember, *ast.Binary, *ast.Cond,
		*ast.New, *ast.Sequence, *ast.Spread, *ast.Yield, *ast.Await, *ast.MetaProperty,
		*ast.ImportCall:
	case *ast.ObjectPattern, *ast.PatternProp, *ast.ArrayPattern, *ast.AssignPattern,
		*ast.RestElement:
	default:
		panic(fmt.Sprintf("purity: unexpected node type %T", node))
	}
}

// ident flags references to forbidden free identifiers. Declarations,
// property names and labels are never references.
func (a *analyzer) ident(id *ast.Ident) {
	if a.consumed[id] || !a.table.IsFree(id) {
		return
	}
	if c, ok := a.rules.Identifiers[id.Name]; ok {
		a.report(id, c.Kind(), id.Name, c.message(id.Name))
	}
}

// member flags forbidden dotted paths. A match consumes the inner parts of
// the chain so the same access is reported once.
func (a *analyzer) member(m *ast.Member) {
	if a.consumed[m] {
		return
	}
	path, chain, ok := a.dottedPath(m)
	if !ok {
		return
	}
	pattern, c, ok := a.rules.MatchMember(path)
	if !ok {
		return
	}
	a.report(m, c.Kind(), pattern, c.message(path))
	for _, n := range chain {
		a.consumed[n] = true
	}
}

// dottedPath reduces a member chain to "a.b.c". It fails for computed
// segments that are not literals and for roots that are not identifiers.
// The root's binding does not matter: a parameter or local named fs is
// matched like the module.
func (a *analyzer) dottedPath(m *ast.Member) (string, []ast.Node, bool) {
	var parts []string
	var chain []ast.Node
	var x ast.Expr = m
	for {
		switch v := x.(type) {
		case *ast.Member:
			name, ok := v.PropertyName()
			if !ok {
				return "", nil, false
			}
			parts = append(parts, name)
			if v != m {
				chain = append(chain, v)
			}
			x = v.Object
		case *ast.Ident:
			parts = append(parts, v.Name)
			chain = append(chain, v)
			slices.Reverse(parts)
			return strings.Join(parts, "."), chain, true
		default:
			return "", nil, false
		}
	}
}

func (a *analyzer) assign(n *ast.Assign) {
	a.target(n.Target, n, a.topLevel[n])
}

func (a *analyzer) target(p ast.Pattern, at ast.Node, top bool) {
	switch t := p.(type) {
	case *ast.Ident:
		a.reassign(t, at)
	case *ast.Member:
		a.propertyAssign(t, at, top)
	case *ast.ObjectPattern:
		for _, prop := range t.Props {
			a.target(prop.Value, at, top)
		}
		if t.Rest != nil {
			a.target(t.Rest.Target, at, top)
		}
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el != nil {
				a.target(el, at, top)
			}
		}
	case *ast.AssignPattern:
		a.target(t.Target, at, top)
	case *ast.RestElement:
		a.target(t.Target, at, top)
	}
}

func (a *analyzer) reassign(id *ast.Ident, at ast.Node) {
	a.consumed[id] = true
	if a.table.IsLocal(id) {
		return
	}
	if b, ok := a.table.Lookup(id); ok && b.Kind == scope.Parameter {
		a.report(at, Mutation, "parameter reassignment: "+id.Name,
			fmt.Sprintf("reassigning parameter '%s' of an enclosing function mutates captured state", id.Name))
		return
	}
	a.report(at, Mutation, "variable reassignment: "+id.Name,
		fmt.Sprintf("reassigning '%s' mutates state outside the current function", id.Name))
}

func (a *analyzer) propertyAssign(m *ast.Member, at ast.Node, top bool) {
	if top && a.exportSlot(m) {
		return
	}
	if root := rootIdent(m.Object); root != nil && a.table.IsLocal(root) {
		return
	}
	a.report(at, Mutation, "property assignment",
		fmt.Sprintf("assigning to '%s' mutates an object outside the current function", m.String()))
}

// exportSlot reports whether m is module.exports, a property of it, or a
// property of the free exports object.
func (a *analyzer) exportSlot(m *ast.Member) bool {
	inner := m
	for {
		next, ok := inner.Object.(*ast.Member)
		if !ok {
			break
		}
		inner = next
	}
	root, ok := inner.Object.(*ast.Ident)
	if !ok || !a.table.IsFree(root) {
		return false
	}
	switch root.Name {
	case "exports":
		return true
	case "module":
		name, ok := inner.PropertyName()
		return ok && name == "exports"
	}
	return false
}

func (a *analyzer) update(n *ast.Update) {
	switch x := n.X.(type) {
	case *ast.Ident:
		a.reassign(x, n)
	case *ast.Member:
		a.report(n, Mutation, "property update",
			fmt.Sprintf("'%s' updates a property in place", n.String()))
	}
}

func (a *analyzer) deletion(n *ast.Unary) {
	m, ok := n.X.(*ast.Member)
	if !ok {
		return
	}
	if root := rootIdent(m.Object); root != nil && a.table.IsLocal(root) {
		return
	}
	a.report(n, Mutation, "property deletion",
		fmt.Sprintf("deleting '%s' mutates an object outside the current function", m.String()))
}

func (a *analyzer) call(n *ast.Call) {
	m, ok := n.Callee.(*ast.Member)
	if !ok {
		return
	}
	if path, ok := staticPath(m); ok {
		if a.rules.isAllowed(path) {
			return
		}
		if a.rules.MutatingCalls[path] {
			a.reflection(n, path)
			return
		}
	}
	name, ok := m.PropertyName()
	if !ok || a.rules.PureMethods[name] || !a.rules.MutatingMethods[name] {
		return
	}
	// Receivers that are not rooted in an identifier are fresh values.
	root := rootIdent(m.Object)
	if root == nil || a.ownedBy(root) {
		return
	}
	a.report(n, Mutation, name,
		fmt.Sprintf("'%s' modifies '%s' in place, which is visible outside the current function", name, m.Object.String()))
}

// reflection flags a mutating reflection call. The only exemption is a
// fresh object or array literal as the target, as in Object.assign({}, a).
func (a *analyzer) reflection(n *ast.Call, path string) {
	target := "its argument"
	if len(n.Args) > 0 {
		switch n.Args[0].(type) {
		case *ast.Object, *ast.Array:
			return
		}
		target = "'" + n.Args[0].String() + "'"
	}
	a.report(n, Mutation, path,
		fmt.Sprintf("'%s' modifies %s in place; create a new object instead", path, target))
}

// ownedBy reports whether the current function created the value bound to
// root, as opposed to receiving it from a caller.
func (a *analyzer) ownedBy(root *ast.Ident) bool {
	return a.table.IsLocal(root) && !a.table.IsOwnParameter(root)
}

func (a *analyzer) report(node ast.Node, kind Kind, pattern, msg string) {
	loc := diag.RangeOf(node.Pos(), node.End())
	if loc.File == "" {
		loc.File = a.filename
	}
	loc = loc.Normalize()
	a.violations = append(a.violations, Violation{
		Kind:     kind,
		Pattern:  pattern,
		Location: loc,
		Snippet:  diag.Snippet(a.source, loc),
		Message:  msg,
	})
}

// rootIdent returns the identifier at the base of a member chain, or nil
// when the chain starts at any other expression.
func rootIdent(x ast.Expr) *ast.Ident {
	for {
		switch v := x.(type) {
		case *ast.Ident:
			return v
		case *ast.Member:
			x = v.Object
		default:
			return nil
		}
	}
}

// staticPath renders a member chain as "a.b.c" without any scope checks.
func staticPath(m *ast.Member) (string, bool) {
	var parts []string
	var x ast.Expr = m
	for {
		switch v := x.(type) {
		case *ast.Member:
			name, ok := v.PropertyName()
			if !ok {
				return "", false
			}
			parts = append(parts, name)
			x = v.Object
		case *ast.Ident:
			parts = append(parts, v.Name)
			slices.Reverse(parts)
			return strings.Join(parts, "."), true
		default:
			return "", false
		}
	}
}
