package parser

import (
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// parseFunction parses a function declaration or expression with curToken
// on the "function" keyword. start is the position of the keyword or of a
// preceding "async".
func (p *Parser) parseFunction(async bool, start token.Position, requireName bool, context string) *ast.Func {
	fn := &ast.Func{FuncPos: start, Async: async}
	if p.peekTokenIs(token.ASTERISK) {
		p.nextToken()
		fn.Generator = true
	}
	if !p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		fn.Name = p.parseBindingIdent(context)
		if fn.Name == nil {
			return nil
		}
	} else if requireName {
		p.peekError(context, token.IDENT, p.peekToken)
		return nil
	}
	if !p.expectPeek(context, token.LPAREN) {
		return nil
	}
	if !p.parseFunctionRest(fn) {
		return nil
	}
	return fn
}

// parseMethod parses the parameters and body of an object or class method
// with curToken on "(".
func (p *Parser) parseMethod(async, generator bool, start token.Position) *ast.Func {
	fn := &ast.Func{FuncPos: start, Async: async, Generator: generator}
	if !p.parseFunctionRest(fn) {
		return nil
	}
	return fn
}

func (p *Parser) parseFunctionRest(fn *ast.Func) bool {
	saved := p.enterFunction(fn.Async, fn.Generator)
	defer p.leaveFunction(saved)
	params, ok := p.parseParams()
	if !ok {
		return false
	}
	fn.Params = params
	if !p.expectPeek("function body", token.LBRACE) {
		return false
	}
	fn.Body = p.parseFunctionBody()
	return fn.Body != nil
}

// parseParams parses a formal parameter list with curToken on "(" and leaves
// curToken on ")".
func (p *Parser) parseParams() ([]ast.Pattern, bool) {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	params := []ast.Pattern{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		if p.curTokenIs(token.SPREAD) {
			rest := p.parseRestBinding("parameter list")
			if rest == nil {
				return nil, false
			}
			params = append(params, rest)
			if !p.peekTokenIs(token.RPAREN) {
				p.setTokenError(p.peekToken, errors.E1003, "rest parameter must be last formal parameter")
				return nil, false
			}
			p.nextToken()
			return params, true
		}
		param := p.parseBindingElement("parameter list")
		if param == nil {
			return nil, false
		}
		params = append(params, param)
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return params, true
		}
		if !p.expectPeek("parameter list", token.COMMA) {
			return nil, false
		}
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return params, true
		}
	}
}

// parseFunctionBody parses a function body with curToken on "{". A
// "use strict" directive applies until the enclosing leaveFunction.
func (p *Parser) parseFunctionBody() *ast.Block {
	return p.parseBlockBody(true)
}

func (p *Parser) parseFuncExpr() ast.Expr {
	fn := p.parseFunction(false, p.curToken.StartPosition, false, "function expression")
	if fn == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseClassExpr() ast.Expr {
	class := p.parseClass(false, "class expression")
	if class == nil {
		return nil
	}
	return class
}

// parseClass parses a class with curToken on the "class" keyword. Class
// bodies are always strict.
func (p *Parser) parseClass(requireName bool, context string) *ast.Class {
	class := &ast.Class{ClassPos: p.curToken.StartPosition}
	saved := p.strict
	p.strict = true
	defer func() { p.strict = saved }()
	if !p.peekTokenIn(token.EXTENDS, token.LBRACE) {
		p.nextToken()
		class.Name = p.parseBindingIdent(context)
		if class.Name == nil {
			return nil
		}
	} else if requireName {
		p.peekError(context, token.IDENT, p.peekToken)
		return nil
	}
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		class.SuperClass = p.parseNode(POSTFIX)
		if class.SuperClass == nil {
			return nil
		}
	}
	if !p.expectPeek("class body", token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.EOF:
			p.expectedError("class body", "}", p.curToken)
			return nil
		case token.SEMICOLON:
			p.nextToken()
			continue
		}
		member := p.parseClassMember()
		if member == nil {
			return nil
		}
		class.Members = append(class.Members, member)
		p.nextToken()
	}
	class.Rbrace = p.curToken.StartPosition
	return class
}

func (p *Parser) parseClassMember() *ast.ClassMember {
	m := &ast.ClassMember{StartPos: p.curToken.StartPosition}
	if p.curIsWord("static") && p.startsMethodName() {
		if p.peekTokenIs(token.LBRACE) {
			p.nextToken()
			saved := p.enterFunction(false, false)
			body := p.parseBlockBody(false)
			p.leaveFunction(saved)
			if body == nil {
				return nil
			}
			m.Kind = ast.MemberStaticBlock
			m.Body = body
			m.EndPos = body.End()
			return m
		}
		m.Static = true
		p.nextToken()
	}
	async, generator, kind := false, false, ast.MemberMethod
	if p.curIsWord("async") && p.startsMethodName() && !p.peekToken.NewlineBefore {
		async = true
		p.nextToken()
	}
	if p.curTokenIs(token.ASTERISK) {
		generator = true
		p.nextToken()
	}
	if !async && !generator && (p.curIsWord("get") || p.curIsWord("set")) && p.startsMethodName() {
		kind = ast.MemberGetter
		if p.curToken.Literal == "set" {
			kind = ast.MemberSetter
		}
		p.nextToken()
	}
	key, computed := p.parsePropertyKey("class body", true)
	if key == nil {
		return nil
	}
	m.Key, m.Computed = key, computed
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		fn := p.parseMethod(async, generator, key.Pos())
		if fn == nil {
			return nil
		}
		m.Kind = kind
		m.Value = fn
		m.EndPos = fn.End()
		return m
	}
	if async || generator || kind != ast.MemberMethod {
		p.peekError("method definition", token.LPAREN, p.peekToken)
		return nil
	}
	m.Kind = ast.MemberField
	m.EndPos = p.curToken.EndPosition
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		saved := p.enterFunction(false, false)
		m.Value = p.parseAssignment()
		p.leaveFunction(saved)
		if m.Value == nil {
			return nil
		}
		m.EndPos = m.Value.End()
	}
	if !p.endStatement("class field") {
		return nil
	}
	return m
}
