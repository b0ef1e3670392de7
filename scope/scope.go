// Package scope resolves identifier occurrences in a parsed program to the
// bindings that declare them.
//
// Scopes and bindings live in flat arenas addressed by integer IDs. Each
// scope records its parent and the nearest enclosing function scope, so two
// occurrences share a function exactly when their function IDs are equal.
// The module scope is always ID 0.
package scope

import (
	"fmt"

	"github.com/deepnoodle-ai/puregate/ast"
)

// ID addresses a scope within a Table.
type ID int

// NoScope is the parent of the module scope.
const NoScope ID = -1

// BindingID addresses a binding within a Table.
type BindingID int

// NoBinding is returned for identifiers that resolve to nothing.
const NoBinding BindingID = -1

// Kind classifies scopes.
type Kind int

const (
	ModuleScope Kind = iota
	FunctionScope
	BlockScope
	CatchScope
	ClassScope
	ForScope
	SwitchScope
)

var kindNames = [...]string{"module", "function", "block", "catch", "class", "for", "switch"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BindingKind records how a name was declared.
type BindingKind int

const (
	Var BindingKind = iota
	Let
	Const
	Function
	Class
	Parameter
	Catch
	Import
)

var bindingKindNames = [...]string{"var", "let", "const", "function", "class", "parameter", "catch", "import"}

func (k BindingKind) String() string {
	if int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return fmt.Sprintf("BindingKind(%d)", int(k))
}

// Scope is one lexical scope.
type Scope struct {
	ID     ID
	Parent ID
	Kind   Kind
	Func   ID       // nearest enclosing function or module scope, possibly itself
	Node   ast.Node // node that opened the scope

	names map[string]BindingID
}

// Binding is one declared name.
type Binding struct {
	ID       BindingID
	Name     string
	Kind     BindingKind
	Scope    ID
	Func     ID         // function scope the binding belongs to
	Decl     *ast.Ident // first declaring occurrence
	Exported bool       // declared by an export declaration
}

type reference struct {
	scope   ID
	binding BindingID
}

// Table holds the resolved scopes and bindings of one program. It is
// immutable once Resolve returns and safe for concurrent readers.
type Table struct {
	scopes   []Scope
	bindings []Binding
	refs     map[*ast.Ident]*reference
	decls    map[*ast.Ident]reference
	nodes    map[ast.Node]ID
	refsOf   [][]*ast.Ident
	refOrder []*ast.Ident
}

// Resolve builds the scope table for program. Declarations are collected in
// a first pass and references resolved afterwards, so hoisted names resolve
// regardless of their position in the source.
func Resolve(program *ast.Program) (t *Table, err error) {
	if program == nil {
		return nil, fmt.Errorf("scope: nil program")
	}
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("scope: %v", r)
		}
	}()
	t = &Table{
		refs:  map[*ast.Ident]*reference{},
		decls: map[*ast.Ident]reference{},
		nodes: map[ast.Node]ID{},
	}
	r := &resolver{table: t}
	r.cur = t.newScope(NoScope, ModuleScope, program)
	for _, stmt := range program.Stmts {
		r.visit(stmt)
	}
	t.link()
	return t, nil
}

func (t *Table) newScope(parent ID, kind Kind, node ast.Node) ID {
	id := ID(len(t.scopes))
	fn := id
	if kind != FunctionScope && kind != ModuleScope {
		fn = t.scopes[parent].Func
	}
	t.scopes = append(t.scopes, Scope{
		ID:     id,
		Parent: parent,
		Kind:   kind,
		Func:   fn,
		Node:   node,
		names:  map[string]BindingID{},
	})
	if node != nil {
		if _, ok := t.nodes[node]; !ok {
			t.nodes[node] = id
		}
	}
	return id
}

func (t *Table) declare(s ID, ident *ast.Ident, kind BindingKind) BindingID {
	sc := &t.scopes[s]
	if id, ok := sc.names[ident.Name]; ok {
		t.decls[ident] = reference{scope: s, binding: id}
		return id
	}
	id := BindingID(len(t.bindings))
	t.bindings = append(t.bindings, Binding{
		ID:    id,
		Name:  ident.Name,
		Kind:  kind,
		Scope: s,
		Func:  sc.Func,
		Decl:  ident,
	})
	sc.names[ident.Name] = id
	t.decls[ident] = reference{scope: s, binding: id}
	return id
}

// link resolves every recorded reference by walking parent scopes.
func (t *Table) link() {
	t.refsOf = make([][]*ast.Ident, len(t.bindings))
	for _, ident := range t.refOrder {
		ref := t.refs[ident]
		ref.binding = t.find(ref.scope, ident.Name)
		if ref.binding != NoBinding {
			t.refsOf[ref.binding] = append(t.refsOf[ref.binding], ident)
		}
	}
}

func (t *Table) find(s ID, name string) BindingID {
	for s != NoScope {
		if id, ok := t.scopes[s].names[name]; ok {
			return id
		}
		s = t.scopes[s].Parent
	}
	return NoBinding
}

// Lookup returns the binding an identifier refers to or declares.
func (t *Table) Lookup(ident *ast.Ident) (Binding, bool) {
	if ref, ok := t.refs[ident]; ok {
		if ref.binding == NoBinding {
			return Binding{}, false
		}
		return t.bindings[ref.binding], true
	}
	if d, ok := t.decls[ident]; ok {
		return t.bindings[d.binding], true
	}
	return Binding{}, false
}

// AccessFunc returns the function scope enclosing the occurrence of ident.
// It returns 0 at module level and for identifiers the table never saw.
func (t *Table) AccessFunc(ident *ast.Ident) ID {
	if ref, ok := t.refs[ident]; ok {
		return t.scopes[ref.scope].Func
	}
	if d, ok := t.decls[ident]; ok {
		return t.scopes[d.scope].Func
	}
	return 0
}

// IsLocal reports whether ident is bound inside the same function it is
// accessed from. Bindings declared directly in the module scope are never
// local; those in nested top-level blocks and loop heads are.
func (t *Table) IsLocal(ident *ast.Ident) bool {
	b, ok := t.Lookup(ident)
	if !ok || b.Scope == 0 {
		return false
	}
	return b.Func == t.AccessFunc(ident)
}

// IsOwnParameter reports whether ident is a parameter of the function it is
// accessed from.
func (t *Table) IsOwnParameter(ident *ast.Ident) bool {
	b, ok := t.Lookup(ident)
	return ok && b.Kind == Parameter && b.Func == t.AccessFunc(ident)
}

// IsReference reports whether ident was seen in a reference position, as
// opposed to a declaration, a property name or a label.
func (t *Table) IsReference(ident *ast.Ident) bool {
	_, ok := t.refs[ident]
	return ok
}

// IsFree reports whether ident is a reference that resolves to no binding.
func (t *Table) IsFree(ident *ast.Ident) bool {
	ref, ok := t.refs[ident]
	return ok && ref.binding == NoBinding
}

// References returns the reference occurrences of a binding in source order.
func (t *Table) References(id BindingID) []*ast.Ident {
	if id < 0 || int(id) >= len(t.refsOf) {
		return nil
	}
	return append([]*ast.Ident(nil), t.refsOf[id]...)
}

// Bindings returns all bindings in declaration order.
func (t *Table) Bindings() []Binding {
	return append([]Binding(nil), t.bindings...)
}

// Scope returns the scope with the given ID.
func (t *Table) Scope(id ID) Scope {
	return t.scopes[id]
}

// Len returns the number of scopes in the table.
func (t *Table) Len() int {
	return len(t.scopes)
}

// FuncOf returns the scope opened by node. Function nodes, static blocks and
// the program map to their function scope.
func (t *Table) FuncOf(node ast.Node) (ID, bool) {
	id, ok := t.nodes[node]
	return id, ok
}
