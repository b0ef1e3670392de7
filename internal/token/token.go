// Package token defines the keywords and tokens produced when lexing
// JavaScript source code.
package token

import "unicode/utf8"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number, counted in runes
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// AdvanceText returns the Position reached after consuming text starting at
// p. Unlike Advance it follows line breaks and counts columns in runes.
func (p Position) AdvanceText(text string) Position {
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		i += w
		p.Char += w
		if r == '\n' {
			p.Line++
			p.Column = 0
			p.LineStart = p.Char
		} else {
			p.Column++
		}
	}
	return p
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
	// NewlineBefore is set when at least one line terminator separates this
	// token from the previous one. It drives automatic semicolon insertion.
	NewlineBefore bool
}

// Special tokens and literals
const (
	ILLEGAL      Type = "ILLEGAL"
	EOF          Type = "EOF"
	IDENT        Type = "IDENT"
	PRIVATE_NAME Type = "PRIVATE_NAME"
	NUMBER       Type = "NUMBER"
	STRING       Type = "STRING"
	TEMPLATE     Type = "TEMPLATE"
	REGEX        Type = "REGEX"
)

// Punctuators
const (
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"
	PERIOD    Type = "."
	SPREAD    Type = "..."
	SEMICOLON Type = ";"
	COMMA     Type = ","
	COLON     Type = ":"
	QUESTION  Type = "?"
	ARROW     Type = "=>"

	LT        Type = "<"
	GT        Type = ">"
	LT_EQUALS Type = "<="
	GT_EQUALS Type = ">="
	EQ        Type = "=="
	NOT_EQ    Type = "!="
	STRICT_EQ Type = "==="
	STRICT_NE Type = "!=="

	PLUS        Type = "+"
	MINUS       Type = "-"
	ASTERISK    Type = "*"
	SLASH       Type = "/"
	MOD         Type = "%"
	POW         Type = "**"
	PLUS_PLUS   Type = "++"
	MINUS_MINUS Type = "--"
	LT_LT       Type = "<<"
	GT_GT       Type = ">>"
	GT_GT_GT    Type = ">>>"
	AMPERSAND   Type = "&"
	BITOR       Type = "|"
	CARET       Type = "^"
	BANG        Type = "!"
	TILDE       Type = "~"
	AND         Type = "&&"
	OR          Type = "||"
	NULLISH     Type = "??"

	QUESTION_DOT Type = "?."

	ASSIGN          Type = "="
	PLUS_EQUALS     Type = "+="
	MINUS_EQUALS    Type = "-="
	ASTERISK_EQUALS Type = "*="
	SLASH_EQUALS    Type = "/="
	MOD_EQUALS      Type = "%="
	POW_EQUALS      Type = "**="
	LT_LT_EQUALS    Type = "<<="
	GT_GT_EQUALS    Type = ">>="
	GT_GT_GT_EQUALS Type = ">>>="
	AND_EQUALS      Type = "&="
	OR_EQUALS       Type = "|="
	XOR_EQUALS      Type = "^="
	LOGICAL_AND_EQ  Type = "&&="
	LOGICAL_OR_EQ   Type = "||="
	NULLISH_EQUALS  Type = "??="
)

// Keywords. The type of a keyword token is the keyword itself.
const (
	AWAIT      Type = "await"
	BREAK      Type = "break"
	CASE       Type = "case"
	CATCH      Type = "catch"
	CLASS      Type = "class"
	CONST      Type = "const"
	CONTINUE   Type = "continue"
	DEBUGGER   Type = "debugger"
	DEFAULT    Type = "default"
	DELETE     Type = "delete"
	DO         Type = "do"
	ELSE       Type = "else"
	ENUM       Type = "enum"
	EXPORT     Type = "export"
	EXTENDS    Type = "extends"
	FALSE      Type = "false"
	FINALLY    Type = "finally"
	FOR        Type = "for"
	FUNCTION   Type = "function"
	IF         Type = "if"
	IMPORT     Type = "import"
	IN         Type = "in"
	INSTANCEOF Type = "instanceof"
	LET        Type = "let"
	NEW        Type = "new"
	NULL       Type = "null"
	RETURN     Type = "return"
	SUPER      Type = "super"
	SWITCH     Type = "switch"
	THIS       Type = "this"
	THROW      Type = "throw"
	TRUE       Type = "true"
	TRY        Type = "try"
	TYPEOF     Type = "typeof"
	VAR        Type = "var"
	VOID       Type = "void"
	WHILE      Type = "while"
	WITH       Type = "with"
)

// Reserved keywords. Contextual words such as async, await, yield, of, get,
// set, static, from and as are lexed as identifiers and recognized by the
// parser where they carry meaning.
var keywords = map[string]Type{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"class":      CLASS,
	"const":      CONST,
	"continue":   CONTINUE,
	"debugger":   DEBUGGER,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"enum":       ENUM,
	"export":     EXPORT,
	"extends":    EXTENDS,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"import":     IMPORT,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"let":        LET,
	"new":        NEW,
	"null":       NULL,
	"return":     RETURN,
	"super":      SUPER,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
	"with":       WITH,
}

// Words that are reserved only in strict mode code (which includes every
// ES module).
var strictReserved = map[string]bool{
	"implements": true,
	"interface":  true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
	"await":      true,
	"eval":       true,
	"arguments":  true,
}

// LookupIdentifier used to determine whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the given word is a reserved keyword.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// IsStrictReserved reports whether word may not be used as a binding name in
// strict mode code.
func IsStrictReserved(word string) bool {
	return strictReserved[word]
}

// IsAssignment reports whether t is "=" or a compound assignment operator.
func IsAssignment(t Type) bool {
	switch t {
	case ASSIGN, PLUS_EQUALS, MINUS_EQUALS, ASTERISK_EQUALS, SLASH_EQUALS,
		MOD_EQUALS, POW_EQUALS, LT_LT_EQUALS, GT_GT_EQUALS, GT_GT_GT_EQUALS,
		AND_EQUALS, OR_EQUALS, XOR_EQUALS, LOGICAL_AND_EQ, LOGICAL_OR_EQ,
		NULLISH_EQUALS:
		return true
	}
	return false
}

// IsIdentifierName reports whether a token may serve as a property name
// after "." or as an object key. Any keyword qualifies.
func (t Token) IsIdentifierName() bool {
	if t.Type == IDENT {
		return true
	}
	return IsKeyword(t.Literal) && LookupIdentifier(t.Literal) == t.Type
}
