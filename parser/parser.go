// Package parser is used to generate the abstract syntax tree (AST) for a
// JavaScript program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
//
// The parser always runs in recovery mode: after an error it skips to the
// next statement boundary and keeps going, so a single call reports as many
// independent problems as possible, up to a configurable cap.
package parser

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/lexer"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as JavaScript source code and return the AST. This
// is shorthand way to create a Lexer and Parser and then call Parse on that.
//
// When errors are found the returned program is partial and the error is a
// *Errors holding at most the configured number of errors.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	// Extract filename from options before creating the parser, so that lexer
	// errors in the first tokens have proper location context.
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	l := lexer.New(input)
	if probe.filename != "" {
		l.SetFilename(probe.filename)
	}
	if probe.convention == ConventionInfer {
		options = append(options, WithConvention(InferConvention(input)))
	}
	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in error positions.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithMaxErrors sets how many errors are collected before parsing stops.
// Values below one select the default of 10.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

// WithConvention selects the module convention. ConventionInfer is resolved
// by Parse from the input text; a Parser created directly with New treats it
// as a script.
func WithConvention(c Convention) Option {
	return func(p *Parser) {
		p.convention = c
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// DefaultMaxErrors is the default number of errors collected per parse.
const DefaultMaxErrors = 10

// funcContext describes the innermost enclosing function.
type funcContext struct {
	depth     int // 0 at the top level of the file
	async     bool
	generator bool

	// enclosing loops, and loops plus switches, within this function
	loops     int
	breakable int
	labels    []string
}

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx    context.Context
	ctxErr error

	// l is our lexer. It is swapped while parsing template interpolations.
	l *lexer.Lexer

	// root is the lexer over the whole file, used for source lines.
	root *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing, at most maxErrors of them
	errors []*Error

	// errorCount counts every error raised, including duplicates and those
	// past the cap.
	errorCount int

	// stmtErrorCount is errorCount at the start of the current statement, or
	// after the last recovery. An error count above it means the statement
	// being parsed is broken.
	stmtErrorCount int

	// positions that already have an error
	errorPositions map[int]bool

	// start offsets of ILLEGAL tokens whose lexer error was recorded
	lexErrors map[int]bool

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int

	// Maximum number of errors to collect
	maxErrors int

	convention Convention
	module     bool
	strict     bool

	// braces is the number of "{" tokens opened and not yet closed as of
	// curToken. Error recovery uses it to stay inside the current block.
	braces int

	// noIn disables the "in" operator while parsing a for-statement head.
	noIn bool

	// atTop is set while parsing a statement directly in the program body.
	atTop bool

	fn funcContext

	// exported names, for duplicate detection in modules
	exports map[string]bool
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	// Create the parser and apply any provided options
	p := &Parser{
		l:              l,
		root:           l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		errorPositions: map[int]bool{},
		lexErrors:      map[int]bool{},
		exports:        map[string]bool{},
		maxDepth:       DefaultMaxDepth,
		maxErrors:      DefaultMaxErrors,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.maxErrors < 1 {
		p.maxErrors = DefaultMaxErrors
	}
	if p.filename != "" && l.Filename() == "" {
		l.SetFilename(p.filename)
	}
	p.module = p.convention == ConventionDeclarativeExport
	p.strict = p.module

	// Register prefix-functions
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TEMPLATE, p.parseTemplateExpr)
	p.registerPrefix(token.REGEX, p.parseRegex)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.SUPER, p.parseSuper)
	p.registerPrefix(token.PRIVATE_NAME, p.parsePrivateName)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrArrow)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LBRACE, p.parseObject)
	p.registerPrefix(token.FUNCTION, p.parseFuncExpr)
	p.registerPrefix(token.CLASS, p.parseClassExpr)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.IMPORT, p.parseImportExpr)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)
	for _, t := range []token.Type{
		token.BANG, token.MINUS, token.PLUS, token.TILDE,
		token.TYPEOF, token.VOID, token.DELETE,
	} {
		p.registerPrefix(t, p.parseUnary)
	}
	p.registerPrefix(token.PLUS_PLUS, p.parsePrefixUpdate)
	p.registerPrefix(token.MINUS_MINUS, p.parsePrefixUpdate)

	// Register infix functions
	for t, prec := range precedences {
		switch {
		case prec == ASSIGN:
			p.registerInfix(t, p.parseAssign)
		case prec >= LOGICAL_OR && prec <= EXPONENT:
			p.registerInfix(t, p.parseBinary)
		}
	}
	p.registerInfix(token.QUESTION, p.parseTernary)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfix)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfix)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.PERIOD, p.parseMember)
	p.registerInfix(token.QUESTION_DOT, p.parseOptionalChain)
	p.registerInfix(token.TEMPLATE, p.parseTaggedTemplate)

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]
	return p
}

// advanceToken moves to the next token from the lexer without error checking.
// Used internally by synchronize() during error recovery.
func (p *Parser) advanceToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
	p.countBraces()
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	p.countBraces()
	if err == nil {
		return
	}
	// The lexer encountered an error. We consider all lexer errors
	// "syntax errors" and the statement being parsed is now broken.
	p.lexErrors[p.peekToken.StartPosition.Char] = true
	p.addError(&Error{
		code:  lexErrorCode(err.Error()),
		cause: err,
		file:  p.l.Filename(),
		start: p.peekToken.StartPosition,
		end:   p.peekToken.EndPosition,
		line:  p.root.LineAt(p.peekToken.StartPosition),
	})
}

func (p *Parser) countBraces() {
	switch p.curToken.Type {
	case token.LBRACE:
		p.braces++
	case token.RBRACE:
		p.braces--
	}
}

// Parse the program that is provided via the lexer.
// Returns the AST and any errors encountered. If there are errors, the AST
// is partial: broken statements are replaced with *ast.BadStmt.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	program := &ast.Program{SourceType: ast.Script}
	if p.module {
		program.SourceType = ast.Module
	}
	program.Stmts = p.parseStatementList(true)
	program.EOF = p.curToken.StartPosition
	if p.ctxErr != nil {
		return nil, p.ctxErr
	}
	if p.errorCount > 0 && len(p.errors) > 0 {
		return program, newErrors(p.errors)
	}
	return program, nil
}

// registerPrefix registers a function for handling a prefix-based statement.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based statement.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// addError records an error. Only the first error at a given position is
// kept, and nothing is kept once the cap is reached, but every call still
// marks the current statement as broken.
func (p *Parser) addError(err *Error) {
	p.errorCount++
	pos := err.StartPosition().Char
	if p.errorPositions[pos] {
		return
	}
	p.errorPositions[pos] = true
	if len(p.errors) < p.maxErrors {
		p.errors = append(p.errors, err)
	}
}

// tooManyErrors returns true if error limit has been reached.
func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= p.maxErrors
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return p.errorCount > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached: a
// semicolon, the last token before a line break or a closing brace, or the
// end of input. level is the brace depth of the statement list being
// recovered; braces opened after the error are skipped as a unit.
//
// It reports true when curToken is the "}" that closes the statement list,
// in which case the caller must not advance past it.
func (p *Parser) synchronize(level int) bool {
	for {
		if p.curTokenIs(token.RBRACE) && p.braces < level {
			return true
		}
		if p.curTokenIs(token.EOF) || p.peekTokenIs(token.EOF) {
			return false
		}
		if p.braces == level {
			if p.curTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekToken.NewlineBefore {
				return false
			}
		}
		p.advanceToken()
	}
}

// parseStatementList parses statements until curToken is one of ends or the
// end of input. Broken statements are replaced by *ast.BadStmt after the
// parser resynchronizes. A leading "use strict" directive enables strict
// mode when prologue is set.
func (p *Parser) parseStatementList(prologue bool, ends ...token.Type) []ast.Stmt {
	level := p.braces
	top := len(ends) == 0 && p.fn.depth == 0
	var stmts []ast.Stmt
	for !p.curTokenIs(token.EOF) && !p.curTokenIn(ends...) {
		if p.cancelled() || p.tooManyErrors() {
			break
		}
		p.stmtErrorCount = p.errorCount
		p.atTop = top
		start := p.curToken.StartPosition
		stmt := p.parseStatement()
		if p.hadNewError() {
			closed := p.synchronize(level)
			p.stmtErrorCount = p.errorCount
			stmts = append(stmts, &ast.BadStmt{From: start, To: p.curToken.EndPosition})
			if closed {
				if len(ends) > 0 {
					return stmts
				}
				// A stray "}" at the top level.
				p.braces = level
			}
		} else if stmt != nil {
			stmts = append(stmts, stmt)
			if prologue {
				if s, ok := directive(stmt); ok {
					if s == "use strict" {
						p.strict = true
					}
				} else {
					prologue = false
				}
			}
		}
		p.nextToken()
	}
	return stmts
}

// directive returns the value of a string-literal expression statement.
func directive(stmt ast.Stmt) (string, bool) {
	if es, ok := stmt.(*ast.ExprStmt); ok {
		if s, ok := es.X.(*ast.String); ok {
			return s.Value, true
		}
	}
	return "", false
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	if t.Type == token.EOF {
		p.setTokenError(t, errors.E1007, "unexpected end of input")
		return
	}
	p.setTokenError(t, errors.E1001, "unexpected token '%s'", t.Literal)
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.expectedError(context, tokenTypeDescription(expected), got)
}

func (p *Parser) expectedError(context string, expected string, got token.Token) {
	code := errors.E1001
	if got.Type == token.EOF {
		code = errors.E1007
	}
	p.setTokenError(got, code, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, expected)
}

// cancelled checks if the parsing context has been cancelled.
// Returns true if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil || p.ctxErr != nil {
		return p.ctxErr != nil
	}
	select {
	case <-p.ctx.Done():
		p.ctxErr = p.ctx.Err()
		return true
	default:
		return false
	}
}

// parseNode parses an expression whose operators bind tighter than
// precedence. parseNode(LOWEST) parses a single assignment expression.
func (p *Parser) parseNode(precedence int) ast.Expr {
	if p.hadNewError() {
		return nil
	}
	// Check recursion depth
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, errors.E1009, "maximum nesting depth exceeded")
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if p.hadNewError() || leftExp == nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if p.hadNewError() || leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// parseAssignment parses a single assignment-level expression.
func (p *Parser) parseAssignment() ast.Expr {
	return p.parseNode(LOWEST)
}

// parseExpression parses a comma-separated expression.
func (p *Parser) parseExpression() ast.Expr {
	first := p.parseAssignment()
	if first == nil || !p.peekTokenIs(token.COMMA) {
		return first
	}
	exprs := []ast.Expr{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseAssignment()
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
	}
	return &ast.Sequence{Exprs: exprs}
}

func (p *Parser) illegalToken() ast.Expr {
	if p.lexErrors[p.curToken.StartPosition.Char] {
		// Already reported by nextToken; only mark the statement broken.
		p.errorCount++
		return nil
	}
	p.setTokenError(p.curToken, errors.E1001, "illegal token %s", p.curToken.Literal)
	return nil
}

func (p *Parser) setTokenError(t token.Token, code errors.ErrorCode, msg string, args ...any) {
	p.setRangeError(t.StartPosition, t.EndPosition, code, msg, args...)
}

func (p *Parser) setNodeError(n ast.Node, code errors.ErrorCode, msg string, args ...any) {
	p.setRangeError(n.Pos(), n.End(), code, msg, args...)
}

func (p *Parser) setRangeError(start, end token.Position, code errors.ErrorCode, msg string, args ...any) {
	p.addError(&Error{
		code:  code,
		msg:   fmt.Sprintf(msg, args...),
		file:  p.l.Filename(),
		start: start,
		end:   end,
		line:  p.root.LineAt(start),
	})
}

// newIdent creates a new Ident node from a token.
func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// curTokenIn returns true if the current token has one of the given types.
func (p *Parser) curTokenIn(types ...token.Type) bool {
	for _, t := range types {
		if p.curToken.Type == t {
			return true
		}
	}
	return false
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// peekTokenIn returns true if the next token has one of the given types.
func (p *Parser) peekTokenIn(types ...token.Type) bool {
	for _, t := range types {
		if p.peekToken.Type == t {
			return true
		}
	}
	return false
}

// curIsWord reports whether curToken is the contextual keyword word.
func (p *Parser) curIsWord(word string) bool {
	return p.curToken.Type == token.IDENT && p.curToken.Literal == word
}

// peekIsWord reports whether peekToken is the contextual keyword word.
func (p *Parser) peekIsWord(word string) bool {
	return p.peekToken.Type == token.IDENT && p.peekToken.Literal == word
}

// expectPeek validates if the next token is of the given type, and advances if
// it is. If it's a different type, then an error is stored.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// endStatement consumes the terminator of the statement ending at curToken.
// A semicolon may be omitted before "}", at the end of input, or when the
// next token starts a new line.
func (p *Parser) endStatement(context string) bool {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) || p.peekToken.NewlineBefore {
		return true
	}
	p.peekError(context, token.SEMICOLON, p.peekToken)
	return false
}

// peekPrecedence returns the precedence of the next token.
func (p *Parser) peekPrecedence() int {
	switch p.peekToken.Type {
	case token.IN:
		if p.noIn {
			return LOWEST
		}
	case token.PLUS_PLUS, token.MINUS_MINUS:
		// No line terminator is allowed before a postfix operator.
		if p.peekToken.NewlineBefore {
			return LOWEST
		}
	}
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// currentPrecedence returns the precedence of the current token.
func (p *Parser) currentPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// enterFunction starts parsing the body of a function and returns the
// state to hand to leaveFunction.
func (p *Parser) enterFunction(async, generator bool) parserScope {
	saved := parserScope{fn: p.fn, strict: p.strict, noIn: p.noIn}
	p.fn = funcContext{depth: p.fn.depth + 1, async: async, generator: generator}
	p.noIn = false
	return saved
}

func (p *Parser) leaveFunction(saved parserScope) {
	p.fn = saved.fn
	p.strict = saved.strict
	p.noIn = saved.noIn
}

type parserScope struct {
	fn     funcContext
	strict bool
	noIn   bool
}

// awaitAllowed reports whether "await" is an operator here.
func (p *Parser) awaitAllowed() bool {
	return p.fn.async || (p.module && p.fn.depth == 0)
}

func lexErrorCode(msg string) errors.ErrorCode {
	switch msg {
	case "unterminated string literal", "unterminated template literal",
		"unterminated comment", "unterminated regular expression literal":
		return errors.E1002
	case "invalid number literal", "invalid numeric separator",
		"identifier starts immediately after numeric literal":
		return errors.E1008
	}
	return errors.E1001
}
