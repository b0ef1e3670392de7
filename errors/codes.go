package errors

// ErrorCode represents a unique identifier for diagnostic types.
// Codes are organized by category:
//   - E1xxx: Syntax errors
//   - P2xxx: Purity violations
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated literal or comment
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier or reserved word misuse
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Duplicate export
	E1011 ErrorCode = "E1011" // Module syntax in a property-export file
	E1012 ErrorCode = "E1012" // Strict mode violation

	// Purity violations (P2xxx)
	P2001 ErrorCode = "P2001" // Mutation of non-local state
	P2002 ErrorCode = "P2002" // Side effect
	P2003 ErrorCode = "P2003" // Global environment access
	P2004 ErrorCode = "P2004" // Forbidden construct
	P2099 ErrorCode = "P2099" // Analyzer failure
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "invalid number literal",
	E1009: "maximum nesting depth exceeded",
	E1010: "duplicate export",
	E1011: "module syntax not allowed",
	E1012: "strict mode violation",

	P2001: "mutation of non-local state",
	P2002: "side effect",
	P2003: "global environment access",
	P2004: "forbidden construct",
	P2099: "analyzer failure",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the diagnostic category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[0] {
	case 'E':
		return "syntax"
	case 'P':
		return "purity"
	default:
		return "unknown"
	}
}

// Codes returns every known code in ascending order.
func Codes() []ErrorCode {
	return []ErrorCode{
		E1001, E1002, E1003, E1004, E1005, E1006, E1007, E1008, E1009, E1010,
		E1011, E1012, P2001, P2002, P2003, P2004, P2099,
	}
}
