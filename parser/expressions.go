package parser

import (
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

func (p *Parser) parseIdent() ast.Expr {
	tok := p.curToken
	switch tok.Literal {
	case "async":
		if p.peekToken.NewlineBefore {
			break
		}
		switch {
		case p.peekTokenIs(token.FUNCTION):
			p.nextToken()
			fn := p.parseFunction(true, tok.StartPosition, false, "function expression")
			if fn == nil {
				return nil
			}
			return fn
		case p.peekTokenIs(token.IDENT) && p.arrowAfterPeek():
			p.nextToken()
			return p.parseIdentArrow(true, tok.StartPosition)
		case p.peekTokenIs(token.LPAREN) && p.parenArrowAfterPeek():
			p.nextToken()
			return p.parseArrow(true, tok.StartPosition)
		}
	case "await":
		if p.awaitAllowed() {
			return p.parseAwait()
		}
	case "yield":
		if p.fn.generator {
			return p.parseYield()
		}
	}
	if p.peekTokenIs(token.ARROW) && !p.peekToken.NewlineBefore {
		return p.parseIdentArrow(false, tok.StartPosition)
	}
	return p.newIdent(tok)
}

func (p *Parser) parseAwait() ast.Expr {
	await := &ast.Await{AwaitPos: p.curToken.StartPosition}
	p.nextToken()
	await.X = p.parseNode(PREFIX)
	if await.X == nil {
		return nil
	}
	return await
}

func (p *Parser) parseYield() ast.Expr {
	yield := &ast.Yield{YieldPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.ASTERISK) {
		p.nextToken()
		yield.Delegate = true
	} else if p.peekToken.NewlineBefore || p.peekTokenIn(
		token.RPAREN, token.RBRACKET, token.RBRACE, token.COMMA,
		token.SEMICOLON, token.COLON, token.EOF, token.IN, token.QUESTION,
	) {
		return yield
	}
	p.nextToken()
	yield.X = p.parseAssignment()
	if yield.X == nil {
		return nil
	}
	return yield
}

// arrowAfterPeek reports whether the token after peekToken is "=>" on the
// same line.
func (p *Parser) arrowAfterPeek() bool {
	state := p.l.SaveState()
	defer p.l.RestoreState(state)
	next, _ := p.l.Next()
	return next.Type == token.ARROW && !next.NewlineBefore
}

// parenArrowAfterPeek reports whether peekToken is a "(" whose matching ")"
// is followed by "=>".
func (p *Parser) parenArrowAfterPeek() bool {
	state := p.l.SaveState()
	defer p.l.RestoreState(state)
	first, _ := p.l.Next()
	return p.scanArrow(first)
}

// arrowAhead reports whether curToken is a "(" whose matching ")" is
// followed by "=>".
func (p *Parser) arrowAhead() bool {
	state := p.l.SaveState()
	defer p.l.RestoreState(state)
	return p.scanArrow(p.peekToken)
}

// scanArrow reads tokens from the lexer, starting with tok which follows an
// opening parenthesis, until the parenthesis is closed, and reports whether
// "=>" comes next.
func (p *Parser) scanArrow(tok token.Token) bool {
	depth := 1
	for {
		switch tok.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
			if depth == 0 {
				if tok.Type != token.RPAREN {
					return false
				}
				next, _ := p.l.Next()
				return next.Type == token.ARROW && !next.NewlineBefore
			}
		case token.EOF:
			return false
		}
		tok, _ = p.l.Next()
	}
}

// parseIdentArrow parses "x => body" with curToken on the parameter.
func (p *Parser) parseIdentArrow(async bool, start token.Position) ast.Expr {
	param := p.parseBindingIdent("arrow function")
	if param == nil {
		return nil
	}
	fn := &ast.Func{FuncPos: start, Params: []ast.Pattern{param}, Async: async, Arrow: true}
	if !p.expectPeek("arrow function", token.ARROW) {
		return nil
	}
	return p.parseArrowBody(fn)
}

// parseArrow parses "(params) => body" with curToken on "(".
func (p *Parser) parseArrow(async bool, start token.Position) ast.Expr {
	fn := &ast.Func{FuncPos: start, Async: async, Arrow: true}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	fn.Params = params
	if !p.expectPeek("arrow function", token.ARROW) {
		return nil
	}
	return p.parseArrowBody(fn)
}

func (p *Parser) parseArrowBody(fn *ast.Func) ast.Expr {
	p.nextToken()
	saved := p.enterFunction(fn.Async, false)
	defer p.leaveFunction(saved)
	if p.curTokenIs(token.LBRACE) {
		fn.Body = p.parseFunctionBody()
		if fn.Body == nil {
			return nil
		}
		return fn
	}
	fn.ExprBody = p.parseAssignment()
	if fn.ExprBody == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseGroupedOrArrow() ast.Expr {
	start := p.curToken.StartPosition
	if p.arrowAhead() {
		return p.parseArrow(false, start)
	}
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expectPeek("parenthesized expression", token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseUnary() ast.Expr {
	op := p.curToken
	p.nextToken()
	x := p.parseNode(PREFIX)
	if x == nil {
		return nil
	}
	if op.Type == token.DELETE && p.strict {
		if _, ok := x.(*ast.Ident); ok {
			p.setNodeError(x, errors.E1012, "delete of an unqualified identifier in strict mode")
			return nil
		}
	}
	return &ast.Unary{OpPos: op.StartPosition, Op: op.Literal, X: x}
}

func (p *Parser) parsePrefixUpdate() ast.Expr {
	op := p.curToken
	p.nextToken()
	x := p.parseNode(PREFIX)
	if x == nil {
		return nil
	}
	if !isSimpleTarget(x) {
		p.setNodeError(x, errors.E1005, "invalid left-hand side in prefix operation")
		return nil
	}
	return &ast.Update{OpPos: op.StartPosition, Op: op.Literal, Prefix: true, X: x}
}

func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	op := p.curToken
	if !isSimpleTarget(left) {
		p.setNodeError(left, errors.E1005, "invalid left-hand side in postfix operation")
		return nil
	}
	return &ast.Update{OpPos: op.StartPosition, Op: op.Literal, X: left}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.curToken
	precedence := p.currentPrecedence()
	if op.Type == token.POW {
		// Exponentiation is right-associative.
		precedence--
	}
	p.nextToken()
	right := p.parseNode(precedence)
	if right == nil {
		return nil
	}
	return &ast.Binary{X: left, OpPos: op.StartPosition, Op: op.Literal, Y: right}
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	op := p.curToken
	var target ast.Pattern
	if op.Type == token.ASSIGN {
		target = p.toPattern(left)
	} else if isSimpleTarget(left) {
		target = left.(ast.Pattern)
	}
	if target == nil {
		p.setNodeError(left, errors.E1005, "invalid assignment target")
		return nil
	}
	p.nextToken()
	// Assignment is right-associative.
	value := p.parseNode(ASSIGN - 1)
	if value == nil {
		return nil
	}
	return &ast.Assign{Target: target, OpPos: op.StartPosition, Op: op.Literal, Value: value}
}

func (p *Parser) parseTernary(test ast.Expr) ast.Expr {
	cond := &ast.Cond{Test: test}
	saved := p.noIn
	p.noIn = false
	p.nextToken()
	cond.Consequent = p.parseAssignment()
	p.noIn = saved
	if cond.Consequent == nil {
		return nil
	}
	if !p.expectPeek("conditional expression", token.COLON) {
		return nil
	}
	p.nextToken()
	cond.Alternate = p.parseAssignment()
	if cond.Alternate == nil {
		return nil
	}
	return cond
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	return &ast.Call{Callee: callee, Args: args, Rparen: p.curToken.StartPosition}
}

// parseArguments parses a parenthesized argument list with curToken on "(".
// It leaves curToken on ")".
func (p *Parser) parseArguments() ([]ast.Expr, bool) {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	args := []ast.Expr{}
	p.nextToken()
	for !p.curTokenIs(token.RPAREN) {
		if p.curTokenIs(token.EOF) {
			p.expectedError("argument list", ")", p.curToken)
			return nil, false
		}
		var arg ast.Expr
		if p.curTokenIs(token.SPREAD) {
			arg = p.parseSpread()
		} else {
			arg = p.parseAssignment()
		}
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			break
		}
		if !p.expectPeek("argument list", token.COMMA) {
			return nil, false
		}
		p.nextToken()
	}
	return args, true
}

func (p *Parser) parseSpread() ast.Expr {
	spread := &ast.Spread{Ellipsis: p.curToken.StartPosition}
	p.nextToken()
	spread.X = p.parseAssignment()
	if spread.X == nil {
		return nil
	}
	return spread
}

func (p *Parser) parseIndex(object ast.Expr) ast.Expr {
	return p.parseComputedMember(object, false)
}

func (p *Parser) parseComputedMember(object ast.Expr, optional bool) ast.Expr {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	p.nextToken()
	prop := p.parseExpression()
	if prop == nil {
		return nil
	}
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	return &ast.Member{
		Object:   object,
		Property: prop,
		Computed: true,
		Optional: optional,
		EndPos:   p.curToken.EndPosition,
	}
}

func (p *Parser) parseMember(object ast.Expr) ast.Expr {
	return p.parseMemberName(object, false)
}

// parseMemberName parses the property name after "." or "?." and builds the
// member expression.
func (p *Parser) parseMemberName(object ast.Expr, optional bool) ast.Expr {
	p.nextToken()
	var prop ast.Expr
	switch {
	case p.curTokenIs(token.PRIVATE_NAME):
		prop = &ast.PrivateName{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	case p.curToken.IsIdentifierName():
		prop = p.newIdent(p.curToken)
	default:
		p.expectedError("member expression", "property name", p.curToken)
		return nil
	}
	return &ast.Member{
		Object:   object,
		Property: prop,
		Optional: optional,
		EndPos:   p.curToken.EndPosition,
	}
}

func (p *Parser) parseOptionalChain(object ast.Expr) ast.Expr {
	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		return &ast.Call{Callee: object, Args: args, Optional: true, Rparen: p.curToken.StartPosition}
	case p.peekTokenIs(token.LBRACKET):
		p.nextToken()
		return p.parseComputedMember(object, true)
	default:
		return p.parseMemberName(object, true)
	}
}

func (p *Parser) parseTaggedTemplate(tag ast.Expr) ast.Expr {
	if isOptionalChain(tag) {
		p.setTokenError(p.curToken, errors.E1003, "tagged template cannot be used in an optional chain")
		return nil
	}
	quasi := p.parseTemplate()
	if quasi == nil {
		return nil
	}
	return &ast.TaggedTemplate{Tag: tag, Quasi: quasi}
}

func (p *Parser) parseNew() ast.Expr {
	tok := p.curToken
	if p.peekTokenIs(token.PERIOD) {
		p.nextToken()
		p.nextToken()
		if !p.curIsWord("target") {
			p.expectedError("new.target", "target", p.curToken)
			return nil
		}
		return &ast.MetaProperty{
			Meta:     &ast.Ident{NamePos: tok.StartPosition, Name: "new"},
			Property: p.newIdent(p.curToken),
		}
	}
	p.nextToken()
	var callee ast.Expr
	if p.curTokenIs(token.NEW) {
		callee = p.parseNew()
	} else {
		prefix := p.prefixParseFns[p.curToken.Type]
		if prefix == nil {
			p.noPrefixParseFnError(p.curToken)
			return nil
		}
		callee = prefix()
	}
	if callee == nil || p.hadNewError() {
		return nil
	}
	// The callee extends over member accesses but not over calls: the first
	// argument list belongs to the new expression.
	for p.peekTokenIn(token.PERIOD, token.LBRACKET, token.TEMPLATE) {
		infix := p.infixParseFns[p.peekToken.Type]
		p.nextToken()
		callee = infix(callee)
		if callee == nil || p.hadNewError() {
			return nil
		}
	}
	expr := &ast.New{NewPos: tok.StartPosition, Callee: callee, EndPos: callee.End()}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		expr.Args = args
		expr.EndPos = p.curToken.EndPosition
	}
	return expr
}

// parseImportExpr parses import(source) and import.meta.
func (p *Parser) parseImportExpr() ast.Expr {
	tok := p.curToken
	switch {
	case p.peekTokenIs(token.PERIOD):
		p.nextToken()
		p.nextToken()
		if !p.curIsWord("meta") {
			p.expectedError("import.meta", "meta", p.curToken)
			return nil
		}
		if !p.module {
			p.setTokenError(p.curToken, errors.E1011, "import.meta may only appear in a module")
			return nil
		}
		return &ast.MetaProperty{
			Meta:     &ast.Ident{NamePos: tok.StartPosition, Name: "import"},
			Property: p.newIdent(p.curToken),
		}
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		if len(args) == 0 || len(args) > 2 {
			p.setTokenError(p.curToken, errors.E1003, "import() requires one or two arguments")
			return nil
		}
		if _, spread := args[0].(*ast.Spread); spread {
			p.setNodeError(args[0], errors.E1003, "spread is not allowed in import()")
			return nil
		}
		return &ast.ImportCall{ImportPos: tok.StartPosition, Source: args[0], Rparen: p.curToken.StartPosition}
	}
	p.peekError("import expression", token.LPAREN, p.peekToken)
	return nil
}

// isSimpleTarget reports whether expr may be the operand of ++, -- or a
// compound assignment.
func isSimpleTarget(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.Member:
		return !isOptionalChain(e)
	}
	return false
}

// isOptionalChain reports whether expr is part of an optional chain such as
// a?.b.c or a?.().
func isOptionalChain(expr ast.Expr) bool {
	for {
		switch e := expr.(type) {
		case *ast.Member:
			if e.Optional {
				return true
			}
			expr = e.Object
		case *ast.Call:
			if e.Optional {
				return true
			}
			expr = e.Callee
		default:
			return false
		}
	}
}
