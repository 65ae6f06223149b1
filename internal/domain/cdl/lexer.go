package cdl

import (
	"strings"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

// pointGroupSet is the union of every system's enumerated point groups,
// consulted when disambiguating point-group literals from numbers.
var pointGroupSet = crystal.AllPointGroups()

// Lexer tokenises preprocessed CDL text.  The parser pulls tokens on demand,
// which lets it switch the lexer into raw mode for feature blocks and the
// modifier tail.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a Lexer over the preprocessed input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next scans and returns the next token.  At end of input it returns a
// TokenEOF; an unexpected character fails with CodeLexError.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]

	switch c {
	case '[':
		l.pos++
		return Token{Type: TokenLBracket, Text: "[", Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenRBracket, Text: "]", Pos: start}, nil
	case '{':
		l.pos++
		return Token{Type: TokenLBrace, Text: "{", Pos: start}, nil
	case '}':
		l.pos++
		return Token{Type: TokenRBrace, Text: "}", Pos: start}, nil
	case ':':
		l.pos++
		return Token{Type: TokenColon, Text: ":", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Type: TokenComma, Text: ",", Pos: start}, nil
	case '+':
		l.pos++
		return Token{Type: TokenPlus, Text: "+", Pos: start}, nil
	case '|':
		l.pos++
		return Token{Type: TokenPipe, Text: "|", Pos: start}, nil
	case '@':
		l.pos++
		return Token{Type: TokenAt, Text: "@", Pos: start}, nil
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Text: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Text: ")", Pos: start}, nil
	}

	if isIdentStart(c) {
		return l.scanIdentifier(), nil
	}
	if c == '-' || isDigit(c) {
		return l.scanNumberOrPointGroup()
	}

	return Token{}, errors.Newf(errors.CodeLexError, "unexpected character %q at position %d", string(c), start)
}

// ReadRawFeatures captures the raw text between the just-consumed '[' and its
// matching ']', tracking nested brackets by depth.  The result is trimmed.
// A missing close bracket fails with CodeUnterminatedFeatures.
func (l *Lexer) ReadRawFeatures() (string, error) {
	depth := 1
	start := l.pos
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				raw := strings.TrimSpace(l.input[start:l.pos])
				l.pos++
				return raw, nil
			}
		}
		l.pos++
	}
	return "", errors.New(errors.CodeUnterminatedFeatures, "feature block is missing its closing ']'")
}

// ReadRawToEnd returns everything from the current position to the end of the
// input and advances past it.  Used for the modifier tail after '|'.
func (l *Lexer) ReadRawToEnd() string {
	raw := l.input[l.pos:]
	l.pos = len(l.input)
	return raw
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// scanIdentifier reads an identifier run [A-Za-z_][A-Za-z0-9_/-]* and
// classifies it: a crystal-system keyword (case-folded) becomes SYSTEM, a
// known point-group literal becomes POINT_GROUP, anything else IDENTIFIER.
func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) && isIdentCont(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]

	if _, ok := crystal.ParseSystem(text); ok {
		return Token{Type: TokenSystem, Text: strings.ToLower(text), Pos: start}
	}
	if _, ok := pointGroupSet[text]; ok {
		return Token{Type: TokenPointGroup, Text: text, Pos: start}
	}
	return Token{Type: TokenIdentifier, Text: text, Pos: start}
}

// scanNumberOrPointGroup implements the key disambiguation: before scanning a
// number, read the longest run of [A-Za-z0-9/-] and check it against the
// point-group set.  A match not immediately followed by '.' is emitted as
// POINT_GROUP; otherwise scanning falls back to a signed number.
func (l *Lexer) scanNumberOrPointGroup() (Token, error) {
	start := l.pos

	end := l.pos
	for end < len(l.input) && isPointGroupChar(l.input[end]) {
		end++
	}
	run := l.input[start:end]
	if _, ok := pointGroupSet[run]; ok {
		if end >= len(l.input) || l.input[end] != '.' {
			l.pos = end
			return Token{Type: TokenPointGroup, Text: run, Pos: start}, nil
		}
	}

	// Number: optional leading '-', digits, optional single '.' + digits.
	p := l.pos
	if l.input[p] == '-' {
		p++
	}
	digits := 0
	for p < len(l.input) && isDigit(l.input[p]) {
		p++
		digits++
	}
	if digits == 0 {
		return Token{}, errors.Newf(errors.CodeLexError, "unexpected character %q at position %d", string(l.input[start]), start)
	}
	isFloat := false
	if p < len(l.input) && l.input[p] == '.' && p+1 < len(l.input) && isDigit(l.input[p+1]) {
		isFloat = true
		p++
		for p < len(l.input) && isDigit(l.input[p]) {
			p++
		}
	}
	text := l.input[start:p]
	l.pos = p
	if isFloat {
		return Token{Type: TokenFloat, Text: text, Pos: start}, nil
	}
	return Token{Type: TokenInteger, Text: text, Pos: start}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '/' || c == '-'
}

func isPointGroupChar(c byte) bool {
	return isDigit(c) || c == '/' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
