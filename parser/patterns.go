package parser

import (
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// checkBindingName reports an error and returns false when tok may not be
// used as the name of a binding here.
func (p *Parser) checkBindingName(tok token.Token) bool {
	name := tok.Literal
	if tok.Type != token.IDENT {
		if token.IsKeyword(name) {
			p.setTokenError(tok, errors.E1006, "'%s' is a reserved word", name)
		} else {
			p.expectedError("binding", "identifier", tok)
		}
		return false
	}
	switch {
	case name == "await" && p.awaitAllowed():
		p.setTokenError(tok, errors.E1006, "'await' is a reserved word in async functions and modules")
		return false
	case name == "yield" && p.fn.generator:
		p.setTokenError(tok, errors.E1006, "'yield' is a reserved word in generators")
		return false
	case p.strict && (name == "eval" || name == "arguments"):
		p.setTokenError(tok, errors.E1012, "cannot bind '%s' in strict mode", name)
		return false
	case p.strict && token.IsStrictReserved(name):
		p.setTokenError(tok, errors.E1006, "'%s' is a reserved word in strict mode", name)
		return false
	}
	return true
}

// parseBindingIdent parses a single binding name with curToken on it.
func (p *Parser) parseBindingIdent(context string) *ast.Ident {
	tok := p.curToken
	if tok.Type != token.IDENT && !token.IsKeyword(tok.Literal) {
		p.expectedError(context, "identifier", tok)
		return nil
	}
	if !p.checkBindingName(tok) {
		return nil
	}
	return p.newIdent(tok)
}

// parseBindingTarget parses an identifier or a destructuring pattern.
func (p *Parser) parseBindingTarget(context string) ast.Pattern {
	switch p.curToken.Type {
	case token.LBRACKET:
		if pat := p.parseArrayBindingPattern(); pat != nil {
			return pat
		}
		return nil
	case token.LBRACE:
		if pat := p.parseObjectBindingPattern(); pat != nil {
			return pat
		}
		return nil
	}
	if ident := p.parseBindingIdent(context); ident != nil {
		return ident
	}
	return nil
}

// parseBindingElement parses a binding target with an optional default.
func (p *Parser) parseBindingElement(context string) ast.Pattern {
	target := p.parseBindingTarget(context)
	if target == nil {
		return nil
	}
	if !p.peekTokenIs(token.ASSIGN) {
		return target
	}
	p.nextToken()
	p.nextToken()
	def := p.parseAssignment()
	if def == nil {
		return nil
	}
	return &ast.AssignPattern{Target: target, Default: def}
}

// parseRestBinding parses "...target" with curToken on the ellipsis.
func (p *Parser) parseRestBinding(context string) *ast.RestElement {
	ellipsis := p.curToken.StartPosition
	p.nextToken()
	target := p.parseBindingTarget(context)
	if target == nil {
		return nil
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.setTokenError(p.peekToken, errors.E1003, "rest element may not have a default initializer")
		return nil
	}
	return &ast.RestElement{Ellipsis: ellipsis, Target: target}
}

func (p *Parser) parseArrayBindingPattern() *ast.ArrayPattern {
	pat := &ast.ArrayPattern{Lbrack: p.curToken.StartPosition}
	p.nextToken()
	for !p.curTokenIs(token.RBRACKET) {
		switch p.curToken.Type {
		case token.EOF:
			p.expectedError("array pattern", "]", p.curToken)
			return nil
		case token.COMMA:
			pat.Elements = append(pat.Elements, nil)
			p.nextToken()
			continue
		case token.SPREAD:
			rest := p.parseRestBinding("array pattern")
			if rest == nil {
				return nil
			}
			pat.Elements = append(pat.Elements, rest)
			if !p.peekTokenIs(token.RBRACKET) {
				p.setTokenError(p.peekToken, errors.E1003, "rest element must be last element")
				return nil
			}
			p.nextToken()
			pat.Rbrack = p.curToken.StartPosition
			return pat
		}
		el := p.parseBindingElement("array pattern")
		if el == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, el)
		if p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			break
		}
		if !p.expectPeek("array pattern", token.COMMA) {
			return nil
		}
		p.nextToken()
	}
	pat.Rbrack = p.curToken.StartPosition
	return pat
}

func (p *Parser) parseObjectBindingPattern() *ast.ObjectPattern {
	pat := &ast.ObjectPattern{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.EOF:
			p.expectedError("object pattern", "}", p.curToken)
			return nil
		case token.SPREAD:
			ellipsis := p.curToken.StartPosition
			p.nextToken()
			ident := p.parseBindingIdent("object pattern")
			if ident == nil {
				return nil
			}
			pat.Rest = &ast.RestElement{Ellipsis: ellipsis, Target: ident}
			if !p.peekTokenIs(token.RBRACE) {
				p.setTokenError(p.peekToken, errors.E1003, "rest element must be last element")
				return nil
			}
			p.nextToken()
			pat.Rbrace = p.curToken.StartPosition
			return pat
		}
		prop := p.parsePatternProp()
		if prop == nil {
			return nil
		}
		pat.Props = append(pat.Props, prop)
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		if !p.expectPeek("object pattern", token.COMMA) {
			return nil
		}
		p.nextToken()
	}
	pat.Rbrace = p.curToken.StartPosition
	return pat
}

func (p *Parser) parsePatternProp() *ast.PatternProp {
	keyTok := p.curToken
	key, computed := p.parsePropertyKey("object pattern", false)
	if key == nil {
		return nil
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		value := p.parseBindingElement("object pattern")
		if value == nil {
			return nil
		}
		return &ast.PatternProp{Key: key, Value: value, Computed: computed}
	}
	if computed {
		p.peekError("object pattern", token.COLON, p.peekToken)
		return nil
	}
	if !p.checkBindingName(keyTok) {
		return nil
	}
	ident, ok := key.(*ast.Ident)
	if !ok {
		p.peekError("object pattern", token.COLON, p.peekToken)
		return nil
	}
	prop := &ast.PatternProp{Key: ident, Value: ident, Shorthand: true}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		def := p.parseAssignment()
		if def == nil {
			return nil
		}
		prop.Value = &ast.AssignPattern{Target: ident, Default: def}
	}
	return prop
}

// toPattern reinterprets an expression parsed on the left of "=" as an
// assignment target. It returns nil when expr is not a valid target.
func (p *Parser) toPattern(expr ast.Expr) ast.Pattern {
	switch e := expr.(type) {
	case *ast.Ident:
		if p.strict && (e.Name == "eval" || e.Name == "arguments") {
			return nil
		}
		return e
	case *ast.Member:
		if isOptionalChain(e) {
			return nil
		}
		return e
	case *ast.Array:
		pat := &ast.ArrayPattern{Lbrack: e.Lbrack, Rbrack: e.Rbrack}
		for i, el := range e.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*ast.Spread); ok {
				if i != len(e.Elements)-1 {
					return nil
				}
				target := p.toPattern(spread.X)
				if target == nil {
					return nil
				}
				pat.Elements = append(pat.Elements, &ast.RestElement{Ellipsis: spread.Ellipsis, Target: target})
				continue
			}
			target := p.toPatternElement(el)
			if target == nil {
				return nil
			}
			pat.Elements = append(pat.Elements, target)
		}
		return pat
	case *ast.Object:
		pat := &ast.ObjectPattern{Lbrace: e.Lbrace, Rbrace: e.Rbrace}
		for i, prop := range e.Props {
			switch {
			case prop.Kind == ast.PropSpread:
				if i != len(e.Props)-1 {
					return nil
				}
				target := p.toPattern(prop.Value)
				if target == nil {
					return nil
				}
				pat.Rest = &ast.RestElement{Ellipsis: prop.StartPos, Target: target}
			case prop.Kind != ast.PropInit || prop.Method:
				return nil
			default:
				target := p.toPatternElement(prop.Value)
				if target == nil {
					return nil
				}
				pat.Props = append(pat.Props, &ast.PatternProp{
					Key:       prop.Key,
					Value:     target,
					Computed:  prop.Computed,
					Shorthand: prop.Shorthand,
				})
			}
		}
		return pat
	}
	return nil
}

// toPatternElement converts a destructuring element, where "x = 1" denotes
// a target with a default value.
func (p *Parser) toPatternElement(expr ast.Expr) ast.Pattern {
	if a, ok := expr.(*ast.Assign); ok && a.Op == "=" {
		return &ast.AssignPattern{Target: a.Target, Default: a.Value}
	}
	return p.toPattern(expr)
}
