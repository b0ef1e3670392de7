package parser

import (
	"strings"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/lexer"
	"github.com/deepnoodle-ai/puregate/internal/tmpl"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

func (p *Parser) parseNumber() ast.Expr {
	return p.newNumber(p.curToken)
}

func (p *Parser) newNumber(tok token.Token) *ast.Number {
	return &ast.Number{ValuePos: tok.StartPosition, ValueEnd: tok.EndPosition, Literal: tok.Literal}
}

func (p *Parser) parseString() ast.Expr {
	return p.newString(p.curToken)
}

func (p *Parser) newString(tok token.Token) *ast.String {
	return &ast.String{ValuePos: tok.StartPosition, ValueEnd: tok.EndPosition, Value: tok.Literal}
}

func (p *Parser) parseRegex() ast.Expr {
	tok := p.curToken
	lit := tok.Literal
	end := strings.LastIndexByte(lit, '/')
	if end < 1 {
		p.setTokenError(tok, errors.E1002, "unterminated regular expression literal")
		return nil
	}
	return &ast.Regex{
		ValuePos: tok.StartPosition,
		ValueEnd: tok.EndPosition,
		Pattern:  lit[1:end],
		Flags:    lit[end+1:],
	}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{ValuePos: p.curToken.StartPosition, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expr {
	return &ast.Null{NullPos: p.curToken.StartPosition}
}

func (p *Parser) parseThis() ast.Expr {
	return &ast.This{ThisPos: p.curToken.StartPosition}
}

func (p *Parser) parseSuper() ast.Expr {
	if !p.peekTokenIn(token.LPAREN, token.PERIOD, token.LBRACKET) {
		p.expectedError("super expression", "( or .", p.peekToken)
		return nil
	}
	return &ast.Super{SuperPos: p.curToken.StartPosition}
}

// parsePrivateName handles "#x in obj" brand checks.
func (p *Parser) parsePrivateName() ast.Expr {
	if !p.peekTokenIs(token.IN) {
		p.setTokenError(p.curToken, errors.E1001, "unexpected private name %s", p.curToken.Literal)
		return nil
	}
	return &ast.PrivateName{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
}

func (p *Parser) parseTemplateExpr() ast.Expr {
	t := p.parseTemplate()
	if t == nil {
		return nil
	}
	return t
}

// parseTemplate parses the template literal in curToken. Each ${...}
// interpolation is parsed with a lexer positioned at its location in the
// file so that errors point into the template.
func (p *Parser) parseTemplate() *ast.Template {
	tok := p.curToken
	parsed, err := tmpl.Parse(tok.Literal)
	if err != nil {
		p.setTokenError(tok, errors.E1002, "%s", err.Error())
		return nil
	}
	result := &ast.Template{Backtick: tok.StartPosition, EndPos: tok.EndPosition}
	var quasi strings.Builder
	for _, frag := range parsed.Fragments() {
		if !frag.IsVariable() {
			quasi.WriteString(frag.Value())
			continue
		}
		result.Quasis = append(result.Quasis, quasi.String())
		quasi.Reset()
		start := tok.StartPosition.AdvanceText("`" + tok.Literal[:frag.Offset()])
		expr := p.parseEmbedded(frag.Value(), start)
		if expr == nil {
			return nil
		}
		result.Exprs = append(result.Exprs, expr)
	}
	result.Quasis = append(result.Quasis, quasi.String())
	return result
}

// parseEmbedded parses src, located at start in the file, as a single
// expression using a temporary lexer. The parser's token state is restored
// afterwards.
func (p *Parser) parseEmbedded(src string, start token.Position) ast.Expr {
	savedLexer, savedPrev, savedCur, savedPeek := p.l, p.prevToken, p.curToken, p.peekToken
	savedBraces, savedNoIn := p.braces, p.noIn
	defer func() {
		p.l, p.prevToken, p.curToken, p.peekToken = savedLexer, savedPrev, savedCur, savedPeek
		p.braces, p.noIn = savedBraces, savedNoIn
	}()
	p.l = lexer.NewAt(src, start)
	p.l.SetFilename(savedLexer.Filename())
	p.braces, p.noIn = 0, false
	p.nextToken()
	p.nextToken()
	if p.curTokenIs(token.EOF) {
		p.setTokenError(p.curToken, errors.E1004, "empty template interpolation")
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		p.expectedError("template literal", "}", p.peekToken)
		return nil
	}
	return expr
}

func (p *Parser) parseArray() ast.Expr {
	arr := &ast.Array{Lbrack: p.curToken.StartPosition, Elements: []ast.Expr{}}
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	p.nextToken()
	for !p.curTokenIs(token.RBRACKET) {
		if p.curTokenIs(token.EOF) {
			p.expectedError("array literal", "]", p.curToken)
			return nil
		}
		if p.curTokenIs(token.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			p.nextToken()
			continue
		}
		var el ast.Expr
		if p.curTokenIs(token.SPREAD) {
			el = p.parseSpread()
		} else {
			el = p.parseAssignment()
		}
		if el == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, el)
		if p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			break
		}
		if !p.expectPeek("array literal", token.COMMA) {
			return nil
		}
		p.nextToken()
	}
	arr.Rbrack = p.curToken.StartPosition
	return arr
}

func (p *Parser) parseObject() ast.Expr {
	obj := &ast.Object{Lbrace: p.curToken.StartPosition}
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.expectedError("object literal", "}", p.curToken)
			return nil
		}
		prop := p.parseProperty()
		if prop == nil {
			return nil
		}
		obj.Props = append(obj.Props, prop)
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		if !p.expectPeek("object literal", token.COMMA) {
			return nil
		}
		p.nextToken()
	}
	obj.Rbrace = p.curToken.StartPosition
	return obj
}

// startsMethodName reports whether peekToken can follow a get, set, async
// or static modifier, as opposed to the modifier word being the key itself.
func (p *Parser) startsMethodName() bool {
	return !p.peekTokenIn(token.COMMA, token.COLON, token.LPAREN, token.RBRACE,
		token.ASSIGN, token.SEMICOLON, token.EOF)
}

func (p *Parser) parseProperty() *ast.Property {
	start := p.curToken.StartPosition
	if p.curTokenIs(token.SPREAD) {
		p.nextToken()
		value := p.parseAssignment()
		if value == nil {
			return nil
		}
		return &ast.Property{Kind: ast.PropSpread, Value: value, StartPos: start}
	}
	async, generator, kind := false, false, ast.PropInit
	if p.curIsWord("async") && p.startsMethodName() && !p.peekToken.NewlineBefore {
		async = true
		p.nextToken()
	}
	if p.curTokenIs(token.ASTERISK) {
		generator = true
		p.nextToken()
	}
	if !async && !generator && (p.curIsWord("get") || p.curIsWord("set")) && p.startsMethodName() {
		kind = ast.PropGet
		if p.curToken.Literal == "set" {
			kind = ast.PropSet
		}
		p.nextToken()
	}
	keyTok := p.curToken
	key, computed := p.parsePropertyKey("object literal", false)
	if key == nil {
		return nil
	}
	prop := &ast.Property{Kind: kind, Key: key, Computed: computed, StartPos: start}
	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		fn := p.parseMethod(async, generator, key.Pos())
		if fn == nil {
			return nil
		}
		prop.Value = fn
		prop.Method = kind == ast.PropInit
		return prop
	case async || generator || kind != ast.PropInit:
		p.peekError("method definition", token.LPAREN, p.peekToken)
		return nil
	case p.peekTokenIs(token.COLON):
		p.nextToken()
		p.nextToken()
		prop.Value = p.parseAssignment()
		if prop.Value == nil {
			return nil
		}
		return prop
	}
	// Shorthand property, possibly with a default when used as a pattern.
	if computed || keyTok.Type != token.IDENT {
		if keyTok.IsIdentifierName() && keyTok.Type != token.IDENT {
			p.setTokenError(keyTok, errors.E1006, "'%s' is a reserved word", keyTok.Literal)
			return nil
		}
		p.peekError("object literal", token.COLON, p.peekToken)
		return nil
	}
	ident := key.(*ast.Ident)
	prop.Shorthand = true
	prop.Value = ident
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		opPos := p.curToken.StartPosition
		p.nextToken()
		def := p.parseAssignment()
		if def == nil {
			return nil
		}
		prop.Value = &ast.Assign{Target: ident, OpPos: opPos, Op: "=", Value: def}
	}
	return prop
}

// parsePropertyKey parses an object or class member key with curToken on its
// first token. Private names are accepted only in classes.
func (p *Parser) parsePropertyKey(context string, private bool) (ast.Expr, bool) {
	tok := p.curToken
	switch tok.Type {
	case token.LBRACKET:
		p.nextToken()
		key := p.parseAssignment()
		if key == nil {
			return nil, false
		}
		if !p.expectPeek("computed property name", token.RBRACKET) {
			return nil, false
		}
		return key, true
	case token.STRING:
		return p.newString(tok), false
	case token.NUMBER:
		return p.newNumber(tok), false
	case token.PRIVATE_NAME:
		if private {
			return &ast.PrivateName{NamePos: tok.StartPosition, Name: tok.Literal}, false
		}
	}
	if tok.IsIdentifierName() {
		return p.newIdent(tok), false
	}
	p.expectedError(context, "property name", tok)
	return nil, false
}
