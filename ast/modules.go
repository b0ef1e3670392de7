package ast

import (
	"strings"

	"github.com/deepnoodle-ai/puregate/internal/token"
)

// ImportKind distinguishes the forms of an import specifier.
type ImportKind int

const (
	ImportNamed     ImportKind = iota // import { a as b }
	ImportDefault                     // import a
	ImportNamespace                   // import * as a
)

// Import is an import declaration.
type Import struct {
	ImportPos token.Position
	Specs     []*ImportSpec
	Source    *String
}

func (x *Import) stmtNode() {}

func (x *Import) Pos() token.Position { return x.ImportPos }
func (x *Import) End() token.Position { return x.Source.End() }

func (x *Import) String() string {
	if len(x.Specs) == 0 {
		return "import " + x.Source.String()
	}
	return "import " + joinNodes(x.Specs, ", ") + " from " + x.Source.String()
}

// ImportSpec binds one imported name locally.
type ImportSpec struct {
	Kind     ImportKind
	Imported *Ident // name in the source module; nil unless Kind is ImportNamed
	Local    *Ident
}

func (x *ImportSpec) Pos() token.Position {
	if x.Imported != nil {
		return x.Imported.Pos()
	}
	return x.Local.Pos()
}

func (x *ImportSpec) End() token.Position { return x.Local.End() }

func (x *ImportSpec) String() string {
	switch x.Kind {
	case ImportDefault:
		return x.Local.Name
	case ImportNamespace:
		return "* as " + x.Local.Name
	}
	if x.Imported != nil && x.Imported.Name != x.Local.Name {
		return "{ " + x.Imported.Name + " as " + x.Local.Name + " }"
	}
	return "{ " + x.Local.Name + " }"
}

// ExportNamed is "export <declaration>" or "export { a, b as c } [from ...]".
type ExportNamed struct {
	ExportPos token.Position
	Decl      Stmt // *VarDecl, *FuncDecl or *ClassDecl; nil when Specs are used
	Specs     []*ExportSpec
	Source    *String // may be nil
	EndPos    token.Position
}

func (x *ExportNamed) stmtNode() {}

func (x *ExportNamed) Pos() token.Position { return x.ExportPos }

func (x *ExportNamed) End() token.Position {
	if x.Decl != nil {
		return x.Decl.End()
	}
	return x.EndPos
}

func (x *ExportNamed) String() string {
	if x.Decl != nil {
		return "export " + x.Decl.String()
	}
	s := "export { " + joinNodes(x.Specs, ", ") + " }"
	if x.Source != nil {
		s += " from " + x.Source.String()
	}
	return s
}

// ExportedNames returns the names this declaration adds to the module's
// export list.
func (x *ExportNamed) ExportedNames() []*Ident {
	if x.Decl == nil {
		names := make([]*Ident, 0, len(x.Specs))
		for _, s := range x.Specs {
			names = append(names, s.Exported)
		}
		return names
	}
	switch d := x.Decl.(type) {
	case *VarDecl:
		var names []*Ident
		for _, decl := range d.Decls {
			names = append(names, BoundNames(decl.Target)...)
		}
		return names
	case *FuncDecl:
		if d.Func.Name != nil {
			return []*Ident{d.Func.Name}
		}
	case *ClassDecl:
		if d.Class.Name != nil {
			return []*Ident{d.Class.Name}
		}
	}
	return nil
}

// ExportSpec is one entry of an export list.
type ExportSpec struct {
	Local    *Ident
	Exported *Ident
}

func (x *ExportSpec) Pos() token.Position { return x.Local.Pos() }
func (x *ExportSpec) End() token.Position { return x.Exported.End() }

func (x *ExportSpec) String() string {
	if x.Local.Name == x.Exported.Name {
		return x.Local.Name
	}
	return x.Local.Name + " as " + x.Exported.Name
}

// ExportDefault is "export default <expression or declaration>".
type ExportDefault struct {
	ExportPos token.Position
	Value     Node // Expr, *FuncDecl or *ClassDecl
}

func (x *ExportDefault) stmtNode() {}

func (x *ExportDefault) Pos() token.Position { return x.ExportPos }
func (x *ExportDefault) End() token.Position { return x.Value.End() }
func (x *ExportDefault) String() string      { return "export default " + x.Value.String() }

// ExportAll is "export * [as name] from source".
type ExportAll struct {
	ExportPos token.Position
	Exported  *Ident // may be nil
	Source    *String
}

func (x *ExportAll) stmtNode() {}

func (x *ExportAll) Pos() token.Position { return x.ExportPos }
func (x *ExportAll) End() token.Position { return x.Source.End() }

func (x *ExportAll) String() string {
	var out strings.Builder
	out.WriteString("export *")
	if x.Exported != nil {
		out.WriteString(" as " + x.Exported.Name)
	}
	out.WriteString(" from " + x.Source.String())
	return out.String()
}
