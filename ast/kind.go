package ast

import "fmt"

// Node kind tags. They follow the names used by ESTree so reports read the
// same as other JavaScript tooling.
const (
	KindProgram             = "Program"
	KindVariableDeclaration = "VariableDeclaration"
	KindVariableDeclarator  = "VariableDeclarator"
	KindFunctionDeclaration = "FunctionDeclaration"
	KindClassDeclaration    = "ClassDeclaration"
	KindReturn              = "ReturnStatement"
	KindThrow               = "ThrowStatement"
	KindIf                  = "IfStatement"
	KindFor                 = "ForStatement"
	KindForIn               = "ForInStatement"
	KindForOf               = "ForOfStatement"
	KindWhile               = "WhileStatement"
	KindDoWhile             = "DoWhileStatement"
	KindBreak               = "BreakStatement"
	KindContinue            = "ContinueStatement"
	KindBlock               = "BlockStatement"
	KindEmpty               = "EmptyStatement"
	KindExpressionStatement = "ExpressionStatement"
	KindLabeled             = "LabeledStatement"
	KindSwitch              = "SwitchStatement"
	KindSwitchCase          = "SwitchCase"
	KindTry                 = "TryStatement"
	KindWith                = "WithStatement"
	KindDebugger            = "DebuggerStatement"
	KindImport              = "ImportDeclaration"
	KindImportSpecifier     = "ImportSpecifier"
	KindExportNamed         = "ExportNamedDeclaration"
	KindExportSpecifier     = "ExportSpecifier"
	KindExportDefault       = "ExportDefaultDeclaration"
	KindExportAll           = "ExportAllDeclaration"
	KindIdentifier          = "Identifier"
	KindPrivateIdentifier   = "PrivateIdentifier"
	KindThis                = "ThisExpression"
	KindSuper               = "Super"
	KindLiteral             = "Literal"
	KindTemplateLiteral     = "TemplateLiteral"
	KindTaggedTemplate      = "TaggedTemplateExpression"
	KindArray               = "ArrayExpression"
	KindObject              = "ObjectExpression"
	KindProperty            = "Property"
	KindFunctionExpression  = "FunctionExpression"
	KindArrowFunction       = "ArrowFunctionExpression"
	KindClassExpression     = "ClassExpression"
	KindMethodDefinition    = "MethodDefinition"
	KindPropertyDefinition  = "PropertyDefinition"
	KindStaticBlock         = "StaticBlock"
	KindUnary               = "UnaryExpression"
	KindUpdate              = "UpdateExpression"
	KindBinary              = "BinaryExpression"
	KindLogical             = "LogicalExpression"
	KindAssignment          = "AssignmentExpression"
	KindConditional         = "ConditionalExpression"
	KindCall                = "CallExpression"
	KindNew                 = "NewExpression"
	KindMember              = "MemberExpression"
	KindSequence            = "SequenceExpression"
	KindSpread              = "SpreadElement"
	KindYield               = "YieldExpression"
	KindAwait               = "AwaitExpression"
	KindMetaProperty        = "MetaProperty"
	KindImportExpression    = "ImportExpression"
	KindObjectPattern       = "ObjectPattern"
	KindArrayPattern        = "ArrayPattern"
	KindAssignmentPattern   = "AssignmentPattern"
	KindRestElement         = "RestElement"
	KindInvalid             = "Invalid"
)

// Kind returns the node-kind tag for node. It panics on a node type it does
// not know.
func Kind(node Node) string {
	switch n := node.(type) {
	case *Program:
		return KindProgram
	case *VarDecl:
		return KindVariableDeclaration
	case *Declarator:
		return KindVariableDeclarator
	case *FuncDecl:
		return KindFunctionDeclaration
	case *ClassDecl:
		return KindClassDeclaration
	case *Return:
		return KindReturn
	case *Throw:
		return KindThrow
	case *If:
		return KindIf
	case *For:
		return KindFor
	case *ForIn:
		return KindForIn
	case *ForOf:
		return KindForOf
	case *While:
		return KindWhile
	case *DoWhile:
		return KindDoWhile
	case *Break:
		return KindBreak
	case *Continue:
		return KindContinue
	case *Block:
		return KindBlock
	case *Empty:
		return KindEmpty
	case *ExprStmt:
		return KindExpressionStatement
	case *Labeled:
		return KindLabeled
	case *Switch:
		return KindSwitch
	case *Case:
		return KindSwitchCase
	case *Try:
		return KindTry
	case *With:
		return KindWith
	case *Debugger:
		return KindDebugger
	case *Import:
		return KindImport
	case *ImportSpec:
		return KindImportSpecifier
	case *ExportNamed:
		return KindExportNamed
	case *ExportSpec:
		return KindExportSpecifier
	case *ExportDefault:
		return KindExportDefault
	case *ExportAll:
		return KindExportAll
	case *Ident:
		return KindIdentifier
	case *PrivateName:
		return KindPrivateIdentifier
	case *This:
		return KindThis
	case *Super:
		return KindSuper
	case *Number, *String, *Regex, *Bool, *Null:
		return KindLiteral
	case *Template:
		return KindTemplateLiteral
	case *TaggedTemplate:
		return KindTaggedTemplate
	case *Array:
		return KindArray
	case *Object:
		return KindObject
	case *Property:
		return KindProperty
	case *Func:
		if n.Arrow {
			return KindArrowFunction
		}
		return KindFunctionExpression
	case *Class:
		return KindClassExpression
	case *ClassMember:
		switch n.Kind {
		case MemberField:
			return KindPropertyDefinition
		case MemberStaticBlock:
			return KindStaticBlock
		}
		return KindMethodDefinition
	case *Unary:
		return KindUnary
	case *Update:
		return KindUpdate
	case *Binary:
		if n.Logical() {
			return KindLogical
		}
		return KindBinary
	case *Assign:
		return KindAssignment
	case *Cond:
		return KindConditional
	case *Call:
		return KindCall
	case *New:
		return KindNew
	case *Member:
		return KindMember
	case *Sequence:
		return KindSequence
	case *Spread:
		return KindSpread
	case *Yield:
		return KindYield
	case *Await:
		return KindAwait
	case *MetaProperty:
		return KindMetaProperty
	case *ImportCall:
		return KindImportExpression
	case *ObjectPattern:
		return KindObjectPattern
	case *PatternProp:
		return KindProperty
	case *ArrayPattern:
		return KindArrayPattern
	case *AssignPattern:
		return KindAssignmentPattern
	case *RestElement:
		return KindRestElement
	case *BadExpr, *BadStmt:
		return KindInvalid
	}
	panic(fmt.Sprintf("ast: unexpected node type %T", node))
}
