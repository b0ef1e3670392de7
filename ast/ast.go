// Package ast defines the abstract syntax tree representation of JavaScript
// source code accepted by the validation pipeline.
package ast

import (
	"strings"

	"github.com/deepnoodle-ai/puregate/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Pattern represents a binding or assignment target: an identifier, a member
// expression, or a destructuring pattern.
type Pattern interface {
	Node
	patternNode()
}

// SourceType records which module convention a program was parsed under.
type SourceType int

const (
	// Script is a file that exports through module.exports / exports.
	Script SourceType = iota
	// Module is a file that uses import and export declarations.
	Module
)

func (s SourceType) String() string {
	if s == Module {
		return "module"
	}
	return "script"
}

// Program is the root node of a parsed file.
type Program struct {
	Stmts      []Stmt
	SourceType SourceType
	EOF        token.Position // position of the end of input
}

func (x *Program) Pos() token.Position {
	if len(x.Stmts) > 0 {
		return x.Stmts[0].Pos()
	}
	return x.EOF
}

func (x *Program) End() token.Position { return x.EOF }

func (x *Program) String() string {
	parts := make([]string, 0, len(x.Stmts))
	for _, s := range x.Stmts {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

// BadExpr represents an expression containing syntax errors.
// It is used by the parser to continue parsing after an error,
// allowing subsequent errors to be detected without giving up.
type BadExpr struct {
	From token.Position // start of bad expression
	To   token.Position // end of bad expression
}

func (x *BadExpr) exprNode() {}

func (x *BadExpr) Pos() token.Position { return x.From }
func (x *BadExpr) End() token.Position { return x.To }
func (x *BadExpr) String() string      { return "<bad expression>" }

// BadStmt represents a statement containing syntax errors.
type BadStmt struct {
	From token.Position // start of bad statement
	To   token.Position // end of bad statement
}

func (x *BadStmt) stmtNode() {}

func (x *BadStmt) Pos() token.Position { return x.From }
func (x *BadStmt) End() token.Position { return x.To }
func (x *BadStmt) String() string      { return "<bad statement>" }

// Source returns the slice of src covered by node, or node.String() when the
// positions do not fall within src.
func Source(src string, node Node) string {
	start, end := node.Pos().Char, node.End().Char
	if start < 0 || end > len(src) || start >= end {
		return node.String()
	}
	return src[start:end]
}

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if Node(n) == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, n.String())
	}
	return strings.Join(parts, sep)
}
