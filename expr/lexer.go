package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokIdent
	tokPlus     // +
	tokMinus    // -
	tokStar     // *
	tokPow      // **
	tokSlash    // /
	tokPercent  // %
	tokLParen   // (
	tokRParen   // )
	tokLBrace   // {
	tokRBrace   // }
	tokPipe     // |
	tokComma    // ,
	tokQuestion // ?
	tokColon    // :
	tokEq       // ==
	tokNe       // !=
	tokLt       // <
	tokLe       // <=
	tokGt       // >
	tokGe       // >=
	tokAnd      // &&
	tokOr       // ||
	tokNot      // !
	tokArrow    // ->
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokInt:      "integer",
	tokIdent:    "identifier",
	tokPlus:     "'+'",
	tokMinus:    "'-'",
	tokStar:     "'*'",
	tokPow:      "'**'",
	tokSlash:    "'/'",
	tokPercent:  "'%'",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokPipe:     "'|'",
	tokComma:    "','",
	tokQuestion: "'?'",
	tokColon:    "':'",
	tokEq:       "'=='",
	tokNe:       "'!='",
	tokLt:       "'<'",
	tokLe:       "'<='",
	tokGt:       "'>'",
	tokGe:       "'>='",
	tokAnd:      "'&&'",
	tokOr:       "'||'",
	tokNot:      "'!'",
	tokArrow:    "'->'",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset into the source
	num  int // value of a tokInt
}

// two-character operators are matched before their one-character prefixes
var operators = []struct {
	text string
	kind tokenKind
}{
	{"**", tokPow},
	{"==", tokEq},
	{"!=", tokNe},
	{"<=", tokLe},
	{">=", tokGe},
	{"&&", tokAnd},
	{"||", tokOr},
	{"->", tokArrow},
	{"+", tokPlus},
	{"-", tokMinus},
	{"*", tokStar},
	{"/", tokSlash},
	{"%", tokPercent},
	{"(", tokLParen},
	{")", tokRParen},
	{"{", tokLBrace},
	{"}", tokRBrace},
	{"|", tokPipe},
	{",", tokComma},
	{"?", tokQuestion},
	{":", tokColon},
	{"<", tokLt},
	{">", tokGt},
	{"!", tokNot},
}

// lex splits src into tokens. The returned slice always ends with tokEOF.
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case isDigit(c):
			start := i
			for i < len(src) && (isDigit(rune(src[i])) || src[i] == '_') {
				i++
			}
			text := src[start:i]
			n, err := strconv.Atoi(strings.ReplaceAll(text, "_", ""))
			if err != nil {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("integer literal %s out of range", text)}
			}
			tokens = append(tokens, token{kind: tokInt, text: text, pos: start, num: n})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(src[i:], op.text) {
					tokens = append(tokens, token{kind: op.kind, text: op.text, pos: i})
					i += len(op.text)
					matched = true
					break
				}
			}
			if !matched {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", src[i])}
			}
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
