package parser

import (
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// parseStatement parses the statement starting at curToken and leaves
// curToken on its last token. It returns nil after raising an error.
func (p *Parser) parseStatement() ast.Stmt {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, errors.E1009, "maximum nesting depth exceeded")
		return nil
	}
	switch p.curToken.Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVarStatement()
	case token.FUNCTION:
		return p.parseFuncDecl(false, p.curToken.StartPosition, true)
	case token.CLASS:
		return p.parseClassDecl(true)
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK, token.CONTINUE:
		return p.parseJump()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.WITH:
		return p.parseWith()
	case token.DEBUGGER:
		stmt := &ast.Debugger{DebuggerPos: p.curToken.StartPosition}
		if !p.endStatement("debugger statement") {
			return nil
		}
		return stmt
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.SEMICOLON:
		return &ast.Empty{Semicolon: p.curToken.StartPosition}
	case token.IMPORT:
		if !p.peekTokenIn(token.LPAREN, token.PERIOD) {
			return p.parseImport()
		}
	case token.EXPORT:
		return p.parseExport()
	case token.ENUM:
		p.setTokenError(p.curToken, errors.E1006, "'enum' is a reserved word")
		return nil
	case token.IDENT:
		if p.curIsWord("async") && p.peekTokenIs(token.FUNCTION) && !p.peekToken.NewlineBefore {
			start := p.curToken.StartPosition
			p.nextToken()
			return p.parseFuncDecl(true, start, true)
		}
		if p.peekTokenIs(token.COLON) {
			return p.parseLabeled()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.endStatement("statement") {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

// parseSubStatement parses the body of an if, loop or labeled statement.
// curToken is on the token before the body.
func (p *Parser) parseSubStatement(context string) ast.Stmt {
	p.nextToken()
	p.atTop = false
	switch {
	case p.curTokenIn(token.LET, token.CONST, token.CLASS):
		p.setTokenError(p.curToken, errors.E1003,
			"lexical declaration cannot appear in a single-statement context")
		return nil
	case p.curTokenIs(token.FUNCTION) && p.strict:
		p.setTokenError(p.curToken, errors.E1012,
			"function declarations are not allowed as the body of %s in strict mode", context)
		return nil
	case p.curTokenIs(token.EOF):
		p.expectedError(context, "statement", p.curToken)
		return nil
	}
	return p.parseStatement()
}

// parseLoopBody parses the body of an iteration statement.
func (p *Parser) parseLoopBody(context string) ast.Stmt {
	p.fn.loops++
	p.fn.breakable++
	defer func() {
		p.fn.loops--
		p.fn.breakable--
	}()
	return p.parseSubStatement(context)
}

func (p *Parser) parseBlock() *ast.Block {
	return p.parseBlockBody(false)
}

// parseBlockBody parses a braced statement list with curToken on "{" and
// leaves curToken on "}".
func (p *Parser) parseBlockBody(prologue bool) *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	block.Stmts = p.parseStatementList(prologue, token.RBRACE)
	if !p.curTokenIs(token.RBRACE) {
		p.expectedError("block", "}", p.curToken)
		return nil
	}
	block.Rbrace = p.curToken.StartPosition
	return block
}

func (p *Parser) parseVarStatement() ast.Stmt {
	decl := p.parseVarDecl(false)
	if decl == nil {
		return nil
	}
	if !p.endStatement(decl.Kind + " declaration") {
		return nil
	}
	decl.EndPos = p.curToken.EndPosition
	return decl
}

// parseVarDecl parses "var|let|const" and its declarators with curToken on
// the keyword. In a for-statement head the initializer may be omitted when
// "in" or "of" follows.
func (p *Parser) parseVarDecl(inFor bool) *ast.VarDecl {
	decl := &ast.VarDecl{KindPos: p.curToken.StartPosition, Kind: p.curToken.Literal}
	context := decl.Kind + " declaration"
	for {
		p.nextToken()
		target := p.parseBindingTarget(context)
		if target == nil {
			return nil
		}
		if ident, ok := target.(*ast.Ident); ok && ident.Name == "let" && decl.Kind != "var" {
			p.setNodeError(ident, errors.E1006, "'let' cannot be a lexically bound name")
			return nil
		}
		d := &ast.Declarator{Target: target}
		switch {
		case p.peekTokenIs(token.ASSIGN):
			p.nextToken()
			p.nextToken()
			d.Init = p.parseAssignment()
			if d.Init == nil {
				return nil
			}
		case inFor && (p.peekTokenIs(token.IN) || p.peekIsWord("of")):
		case decl.Kind == "const":
			p.setNodeError(target, errors.E1004, "missing initializer in const declaration")
			return nil
		default:
			if _, ok := target.(*ast.Ident); !ok {
				p.setNodeError(target, errors.E1004, "missing initializer in destructuring declaration")
				return nil
			}
		}
		decl.Decls = append(decl.Decls, d)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	decl.EndPos = p.curToken.EndPosition
	return decl
}

func (p *Parser) parseFuncDecl(async bool, start token.Position, requireName bool) ast.Stmt {
	fn := p.parseFunction(async, start, requireName, "function declaration")
	if fn == nil {
		return nil
	}
	return &ast.FuncDecl{Func: fn}
}

func (p *Parser) parseClassDecl(requireName bool) ast.Stmt {
	class := p.parseClass(requireName, "class declaration")
	if class == nil {
		return nil
	}
	return &ast.ClassDecl{Class: class}
}

// parseCondition parses "(expr)" with curToken on the keyword before it.
func (p *Parser) parseCondition(context string) ast.Expr {
	if !p.expectPeek(context, token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.expectPeek(context, token.RPAREN) {
		return nil
	}
	return cond
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{IfPos: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("if statement"); stmt.Cond == nil {
		return nil
	}
	if stmt.Then = p.parseSubStatement("an if statement"); stmt.Then == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if stmt.Else = p.parseSubStatement("an if statement"); stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{WhilePos: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("while statement"); stmt.Cond == nil {
		return nil
	}
	if stmt.Body = p.parseLoopBody("a while statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDoWhile() ast.Stmt {
	stmt := &ast.DoWhile{DoPos: p.curToken.StartPosition}
	if stmt.Body = p.parseLoopBody("a do-while statement"); stmt.Body == nil {
		return nil
	}
	if !p.expectPeek("do-while statement", token.WHILE) {
		return nil
	}
	if stmt.Cond = p.parseCondition("do-while statement"); stmt.Cond == nil {
		return nil
	}
	// The semicolon after do-while is always optional.
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	stmt.EndPos = p.curToken.EndPosition
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	forPos := p.curToken.StartPosition
	await := false
	if p.peekIsWord("await") {
		p.nextToken()
		if !p.awaitAllowed() {
			p.setTokenError(p.curToken, errors.E1003, "for await is only valid in async functions and modules")
			return nil
		}
		await = true
	}
	if !p.expectPeek("for statement", token.LPAREN) {
		return nil
	}
	p.nextToken()

	var init ast.Node
	saved := p.noIn
	p.noIn = true
	switch {
	case p.curTokenIs(token.SEMICOLON):
	case p.curTokenIn(token.VAR, token.LET, token.CONST):
		if decl := p.parseVarDecl(true); decl != nil {
			init = decl
		}
	default:
		if expr := p.parseExpression(); expr != nil {
			init = expr
		}
	}
	p.noIn = saved
	if p.hadNewError() {
		return nil
	}

	if init != nil && (p.peekTokenIs(token.IN) || p.peekIsWord("of")) {
		return p.parseForInOf(forPos, init, await)
	}
	if await {
		p.expectedError("for await statement", "of", p.peekToken)
		return nil
	}
	stmt := &ast.For{ForPos: forPos, Init: init}
	if init != nil && !p.expectPeek("for statement", token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		if stmt.Test = p.parseExpression(); stmt.Test == nil {
			return nil
		}
	}
	if !p.expectPeek("for statement", token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if stmt.Update = p.parseExpression(); stmt.Update == nil {
			return nil
		}
	}
	if !p.expectPeek("for statement", token.RPAREN) {
		return nil
	}
	if stmt.Body = p.parseLoopBody("a for statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForInOf finishes a for-in or for-of statement with peekToken on "in"
// or "of".
func (p *Parser) parseForInOf(forPos token.Position, init ast.Node, await bool) ast.Stmt {
	of := p.peekIsWord("of")
	kind := "for-in"
	if of {
		kind = "for-of"
	}
	if await && !of {
		p.expectedError("for await statement", "of", p.peekToken)
		return nil
	}
	var left ast.Node
	switch init := init.(type) {
	case *ast.VarDecl:
		if len(init.Decls) != 1 {
			p.setNodeError(init, errors.E1003, "only one variable may be declared in a %s loop", kind)
			return nil
		}
		if init.Decls[0].Init != nil {
			p.setNodeError(init, errors.E1003, "%s loop variable declaration may not have an initializer", kind)
			return nil
		}
		left = init
	case ast.Expr:
		target := p.toPattern(init)
		if target == nil {
			p.setNodeError(init, errors.E1005, "invalid left-hand side in %s loop", kind)
			return nil
		}
		left = target
	}
	p.nextToken()
	p.nextToken()
	var right ast.Expr
	if of {
		right = p.parseAssignment()
	} else {
		right = p.parseExpression()
	}
	if right == nil {
		return nil
	}
	if !p.expectPeek(kind+" statement", token.RPAREN) {
		return nil
	}
	body := p.parseLoopBody("a " + kind + " statement")
	if body == nil {
		return nil
	}
	if of {
		return &ast.ForOf{ForPos: forPos, Left: left, Right: right, Body: body, Await: await}
	}
	return &ast.ForIn{ForPos: forPos, Left: left, Right: right, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	if p.fn.depth == 0 && p.module {
		p.setTokenError(p.curToken, errors.E1003, "return outside of function")
		return nil
	}
	if !p.peekTokenIn(token.SEMICOLON, token.RBRACE, token.EOF) && !p.peekToken.NewlineBefore {
		p.nextToken()
		if stmt.Value = p.parseExpression(); stmt.Value == nil {
			return nil
		}
	}
	if !p.endStatement("return statement") {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Stmt {
	stmt := &ast.Throw{ThrowPos: p.curToken.StartPosition}
	if p.peekToken.NewlineBefore {
		p.setTokenError(p.peekToken, errors.E1003, "illegal newline after throw")
		return nil
	}
	p.nextToken()
	if stmt.Value = p.parseExpression(); stmt.Value == nil {
		return nil
	}
	if !p.endStatement("throw statement") {
		return nil
	}
	return stmt
}

// parseJump parses break and continue statements.
func (p *Parser) parseJump() ast.Stmt {
	tok := p.curToken
	var label *ast.Ident
	if p.peekTokenIs(token.IDENT) && !p.peekToken.NewlineBefore {
		p.nextToken()
		label = p.newIdent(p.curToken)
		if !p.hasLabel(label.Name) {
			p.setNodeError(label, errors.E1003, "undefined label '%s'", label.Name)
			return nil
		}
	}
	if label == nil {
		switch {
		case tok.Type == token.BREAK && p.fn.breakable == 0:
			p.setTokenError(tok, errors.E1003, "illegal break statement")
			return nil
		case tok.Type == token.CONTINUE && p.fn.loops == 0:
			p.setTokenError(tok, errors.E1003, "illegal continue statement: no surrounding iteration statement")
			return nil
		}
	}
	if !p.endStatement(tok.Literal + " statement") {
		return nil
	}
	if tok.Type == token.BREAK {
		return &ast.Break{BreakPos: tok.StartPosition, Label: label}
	}
	return &ast.Continue{ContinuePos: tok.StartPosition, Label: label}
}

func (p *Parser) hasLabel(name string) bool {
	for _, l := range p.fn.labels {
		if l == name {
			return true
		}
	}
	return false
}

func (p *Parser) parseLabeled() ast.Stmt {
	label := p.newIdent(p.curToken)
	if (label.Name == "await" && p.awaitAllowed()) || (label.Name == "yield" && p.fn.generator) {
		p.setNodeError(label, errors.E1006, "'%s' is a reserved word here", label.Name)
		return nil
	}
	if p.hasLabel(label.Name) {
		p.setNodeError(label, errors.E1003, "label '%s' has already been declared", label.Name)
		return nil
	}
	p.nextToken()
	p.fn.labels = append(p.fn.labels, label.Name)
	defer func() { p.fn.labels = p.fn.labels[:len(p.fn.labels)-1] }()
	body := p.parseSubStatement("a labeled statement")
	if body == nil {
		return nil
	}
	return &ast.Labeled{Label: label, Body: body}
}

func (p *Parser) parseTry() ast.Stmt {
	stmt := &ast.Try{TryPos: p.curToken.StartPosition}
	if !p.expectPeek("try statement", token.LBRACE) {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			p.nextToken()
			if stmt.Param = p.parseBindingTarget("catch clause"); stmt.Param == nil {
				return nil
			}
			if !p.expectPeek("catch clause", token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek("catch clause", token.LBRACE) {
			return nil
		}
		if stmt.Handler = p.parseBlock(); stmt.Handler == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek("finally clause", token.LBRACE) {
			return nil
		}
		if stmt.Finalizer = p.parseBlock(); stmt.Finalizer == nil {
			return nil
		}
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.expectedError("try statement", "catch or finally", p.peekToken)
		return nil
	}
	return stmt
}

func (p *Parser) parseSwitch() ast.Stmt {
	stmt := &ast.Switch{SwitchPos: p.curToken.StartPosition}
	if stmt.Discriminant = p.parseCondition("switch statement"); stmt.Discriminant == nil {
		return nil
	}
	if !p.expectPeek("switch statement", token.LBRACE) {
		return nil
	}
	p.fn.breakable++
	defer func() { p.fn.breakable-- }()
	p.nextToken()
	hasDefault := false
	for !p.curTokenIs(token.RBRACE) {
		c := &ast.Case{CasePos: p.curToken.StartPosition}
		switch p.curToken.Type {
		case token.CASE:
			p.nextToken()
			if c.Test = p.parseExpression(); c.Test == nil {
				return nil
			}
		case token.DEFAULT:
			if hasDefault {
				p.setTokenError(p.curToken, errors.E1003, "more than one default clause in switch statement")
				return nil
			}
			hasDefault = true
		default:
			p.expectedError("switch statement", "case or default", p.curToken)
			return nil
		}
		if !p.expectPeek("switch case", token.COLON) {
			return nil
		}
		p.nextToken()
		c.Body = p.parseStatementList(false, token.CASE, token.DEFAULT, token.RBRACE)
		c.EndPos = p.prevToken.EndPosition
		stmt.Cases = append(stmt.Cases, c)
		if p.curTokenIs(token.EOF) {
			p.expectedError("switch statement", "}", p.curToken)
			return nil
		}
	}
	stmt.Rbrace = p.curToken.StartPosition
	return stmt
}

func (p *Parser) parseWith() ast.Stmt {
	stmt := &ast.With{WithPos: p.curToken.StartPosition}
	if p.strict {
		p.setTokenError(p.curToken, errors.E1012, "'with' statements are not allowed in strict mode")
		return nil
	}
	if stmt.Object = p.parseCondition("with statement"); stmt.Object == nil {
		return nil
	}
	if stmt.Body = p.parseSubStatement("a with statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}
