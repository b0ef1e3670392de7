package parser

import "github.com/deepnoodle-ai/puregate/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	TERNARY     // ? :
	LOGICAL_OR  // || ??
	LOGICAL_AND // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == != === !==
	RELATIONAL  // < > <= >= in instanceof
	SHIFT       // << >> >>>
	SUM         // + -
	PRODUCT     // * / %
	EXPONENT    // **
	PREFIX      // -X !X typeof X
	POSTFIX     // X++ X--
	CALL        // f(X) a.b a[b] a?.b tag`x`
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.MOD_EQUALS:      ASSIGN,
	token.POW_EQUALS:      ASSIGN,
	token.LT_LT_EQUALS:    ASSIGN,
	token.GT_GT_EQUALS:    ASSIGN,
	token.GT_GT_GT_EQUALS: ASSIGN,
	token.AND_EQUALS:      ASSIGN,
	token.OR_EQUALS:       ASSIGN,
	token.XOR_EQUALS:      ASSIGN,
	token.LOGICAL_AND_EQ:  ASSIGN,
	token.LOGICAL_OR_EQ:   ASSIGN,
	token.NULLISH_EQUALS:  ASSIGN,
	token.QUESTION:        TERNARY,
	token.OR:              LOGICAL_OR,
	token.NULLISH:         LOGICAL_OR,
	token.AND:             LOGICAL_AND,
	token.BITOR:           BIT_OR,
	token.CARET:           BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.STRICT_EQ:       EQUALS,
	token.STRICT_NE:       EQUALS,
	token.LT:              RELATIONAL,
	token.GT:              RELATIONAL,
	token.LT_EQUALS:       RELATIONAL,
	token.GT_EQUALS:       RELATIONAL,
	token.IN:              RELATIONAL,
	token.INSTANCEOF:      RELATIONAL,
	token.LT_LT:           SHIFT,
	token.GT_GT:           SHIFT,
	token.GT_GT_GT:        SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.POW:             EXPONENT,
	token.PLUS_PLUS:       POSTFIX,
	token.MINUS_MINUS:     POSTFIX,
	token.LPAREN:          CALL,
	token.LBRACKET:        CALL,
	token.PERIOD:          CALL,
	token.QUESTION_DOT:    CALL,
	token.TEMPLATE:        CALL,
}
