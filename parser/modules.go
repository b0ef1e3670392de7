package parser

import (
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// checkModuleItem reports whether an import or export declaration may
// appear at curToken.
func (p *Parser) checkModuleItem(kind string) bool {
	if !p.module {
		p.setTokenError(p.curToken, errors.E1011, "%s declarations may only appear in a module", kind)
		return false
	}
	if !p.atTop {
		p.setTokenError(p.curToken, errors.E1003, "'import' and 'export' may only appear at the top level")
		return false
	}
	return true
}

func (p *Parser) parseImport() ast.Stmt {
	if !p.checkModuleItem("import") {
		return nil
	}
	stmt := &ast.Import{ImportPos: p.curToken.StartPosition}
	p.nextToken()
	if p.curTokenIs(token.STRING) {
		stmt.Source = p.newString(p.curToken)
		if !p.endStatement("import declaration") {
			return nil
		}
		return stmt
	}
	if p.curTokenIs(token.IDENT) {
		local := p.parseBindingIdent("import declaration")
		if local == nil {
			return nil
		}
		stmt.Specs = append(stmt.Specs, &ast.ImportSpec{Kind: ast.ImportDefault, Local: local})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			if !p.curTokenIn(token.ASTERISK, token.LBRACE) {
				p.expectedError("import declaration", "* or {", p.curToken)
				return nil
			}
		}
	}
	switch p.curToken.Type {
	case token.ASTERISK:
		p.nextToken()
		if !p.curIsWord("as") {
			p.expectedError("namespace import", "as", p.curToken)
			return nil
		}
		p.nextToken()
		local := p.parseBindingIdent("namespace import")
		if local == nil {
			return nil
		}
		stmt.Specs = append(stmt.Specs, &ast.ImportSpec{Kind: ast.ImportNamespace, Local: local})
	case token.LBRACE:
		specs, ok := p.parseNamedImports()
		if !ok {
			return nil
		}
		stmt.Specs = append(stmt.Specs, specs...)
	default:
		if len(stmt.Specs) == 0 {
			p.expectedError("import declaration", "import specifier or string", p.curToken)
			return nil
		}
	}
	if stmt.Source = p.parseFromClause("import declaration"); stmt.Source == nil {
		return nil
	}
	if !p.endStatement("import declaration") {
		return nil
	}
	return stmt
}

// parseNamedImports parses "{ a, b as c }" with curToken on "{".
func (p *Parser) parseNamedImports() ([]*ast.ImportSpec, bool) {
	var specs []*ast.ImportSpec
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		tok := p.curToken
		if !tok.IsIdentifierName() {
			p.expectedError("import specifier", "identifier", tok)
			return nil, false
		}
		spec := &ast.ImportSpec{Kind: ast.ImportNamed}
		if p.peekIsWord("as") {
			p.nextToken()
			p.nextToken()
			spec.Imported = p.newIdent(tok)
			if spec.Local = p.parseBindingIdent("import specifier"); spec.Local == nil {
				return nil, false
			}
		} else {
			if !p.checkBindingName(tok) {
				return nil, false
			}
			spec.Local = p.newIdent(tok)
			spec.Imported = spec.Local
		}
		specs = append(specs, spec)
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		if !p.expectPeek("import specifier list", token.COMMA) {
			return nil, false
		}
		p.nextToken()
	}
	return specs, true
}

// parseFromClause parses "from 'source'" following curToken.
func (p *Parser) parseFromClause(context string) *ast.String {
	if !p.peekIsWord("from") {
		p.expectedError(context, "from", p.peekToken)
		return nil
	}
	p.nextToken()
	if !p.expectPeek(context, token.STRING) {
		return nil
	}
	return p.newString(p.curToken)
}

func (p *Parser) parseExport() ast.Stmt {
	if !p.checkModuleItem("export") {
		return nil
	}
	exportPos := p.curToken.StartPosition
	p.nextToken()
	switch p.curToken.Type {
	case token.DEFAULT:
		return p.parseExportDefault(exportPos)
	case token.ASTERISK:
		return p.parseExportAll(exportPos)
	case token.LBRACE:
		return p.parseExportList(exportPos)
	}
	var decl ast.Stmt
	switch {
	case p.curTokenIn(token.VAR, token.LET, token.CONST):
		decl = p.parseVarStatement()
	case p.curTokenIs(token.FUNCTION):
		decl = p.parseFuncDecl(false, p.curToken.StartPosition, true)
	case p.curIsWord("async") && p.peekTokenIs(token.FUNCTION) && !p.peekToken.NewlineBefore:
		start := p.curToken.StartPosition
		p.nextToken()
		decl = p.parseFuncDecl(true, start, true)
	case p.curTokenIs(token.CLASS):
		decl = p.parseClassDecl(true)
	default:
		p.expectedError("export declaration", "declaration", p.curToken)
		return nil
	}
	if decl == nil {
		return nil
	}
	stmt := &ast.ExportNamed{ExportPos: exportPos, Decl: decl}
	for _, name := range stmt.ExportedNames() {
		if !p.recordExport(name.Name, name.Pos(), name.End()) {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseExportDefault(exportPos token.Position) ast.Stmt {
	defaultTok := p.curToken
	p.nextToken()
	var value ast.Node
	switch {
	case p.curTokenIs(token.FUNCTION):
		value = p.parseFuncDecl(false, p.curToken.StartPosition, false)
	case p.curIsWord("async") && p.peekTokenIs(token.FUNCTION) && !p.peekToken.NewlineBefore:
		start := p.curToken.StartPosition
		p.nextToken()
		value = p.parseFuncDecl(true, start, false)
	case p.curTokenIs(token.CLASS):
		value = p.parseClassDecl(false)
	default:
		expr := p.parseAssignment()
		if expr == nil || !p.endStatement("export default") {
			return nil
		}
		value = expr
	}
	if p.hadNewError() || value == nil {
		return nil
	}
	if !p.recordExport("default", defaultTok.StartPosition, defaultTok.EndPosition) {
		return nil
	}
	return &ast.ExportDefault{ExportPos: exportPos, Value: value}
}

func (p *Parser) parseExportAll(exportPos token.Position) ast.Stmt {
	stmt := &ast.ExportAll{ExportPos: exportPos}
	if p.peekIsWord("as") {
		p.nextToken()
		p.nextToken()
		if !p.curToken.IsIdentifierName() {
			p.expectedError("export declaration", "identifier", p.curToken)
			return nil
		}
		stmt.Exported = p.newIdent(p.curToken)
	}
	if stmt.Source = p.parseFromClause("export declaration"); stmt.Source == nil {
		return nil
	}
	if !p.endStatement("export declaration") {
		return nil
	}
	if stmt.Exported != nil && !p.recordExport(stmt.Exported.Name, stmt.Exported.Pos(), stmt.Exported.End()) {
		return nil
	}
	return stmt
}

// parseExportList parses "export { a, b as c } [from 'source']" with
// curToken on "{".
func (p *Parser) parseExportList(exportPos token.Position) ast.Stmt {
	stmt := &ast.ExportNamed{ExportPos: exportPos}
	var locals []token.Token
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		tok := p.curToken
		if !tok.IsIdentifierName() {
			p.expectedError("export specifier", "identifier", tok)
			return nil
		}
		spec := &ast.ExportSpec{Local: p.newIdent(tok)}
		spec.Exported = spec.Local
		if p.peekIsWord("as") {
			p.nextToken()
			p.nextToken()
			if !p.curToken.IsIdentifierName() {
				p.expectedError("export specifier", "identifier", p.curToken)
				return nil
			}
			spec.Exported = p.newIdent(p.curToken)
		}
		stmt.Specs = append(stmt.Specs, spec)
		locals = append(locals, tok)
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		if !p.expectPeek("export specifier list", token.COMMA) {
			return nil
		}
		p.nextToken()
	}
	if p.peekIsWord("from") {
		if stmt.Source = p.parseFromClause("export declaration"); stmt.Source == nil {
			return nil
		}
	} else {
		// Without a source the local names refer to bindings, so they must
		// be identifiers.
		for _, tok := range locals {
			if tok.Type != token.IDENT {
				p.setTokenError(tok, errors.E1006, "'%s' is a reserved word", tok.Literal)
				return nil
			}
		}
	}
	if !p.endStatement("export declaration") {
		return nil
	}
	stmt.EndPos = p.curToken.EndPosition
	for _, spec := range stmt.Specs {
		if !p.recordExport(spec.Exported.Name, spec.Exported.Pos(), spec.Exported.End()) {
			return nil
		}
	}
	return stmt
}

// recordExport registers an exported name and reports duplicates.
func (p *Parser) recordExport(name string, start, end token.Position) bool {
	if p.exports[name] {
		p.setRangeError(start, end, errors.E1010, "duplicate export '%s'", name)
		return false
	}
	p.exports[name] = true
	return true
}
