package cdl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

var (
	twinRe         = regexp.MustCompile(`(?i)twin\(\s*(\w+)\s*\)`)
	modificationRe = regexp.MustCompile(`(?i)(elongate|flatten|scale)\(\s*([abc])\s*:\s*([\d.]+)\s*\)`)
	phenomenonRe   = regexp.MustCompile(`phenomenon\[([^\]]*)\]`)
)

// Parse runs the full CDL front end on raw input: length check, preprocessing
// (comments, definitions), tokenisation, and recursive-descent parsing.
//
// Grammar:
//
//	program   := SYSTEM '[' pg ']' ':' form_list ('|' tail)?
//	pg        := POINT_GROUP | IDENTIFIER
//	form_list := form_or_group ('+' form_or_group)*
//	form_or_group := (IDENTIFIER ':' &('(' | '{'))? (group | form)
//	group     := '(' form_list ')' features?
//	form      := miller ('@' scale)? features?
//
// An unknown point group is a warning, never an error; an unknown crystal
// system is fatal.
func Parse(input string) (*ParseResult, error) {
	if len(input) > MaxInputLen {
		return nil, errors.Newf(errors.CodeInputTooLong, "expression exceeds %d characters", MaxInputLen)
	}
	if strings.TrimSpace(input) == "" {
		return nil, errors.New(errors.CodeEmptyInput, "expression is empty")
	}

	pre, err := Preprocess(input)
	if err != nil {
		return nil, err
	}

	p := &parser{lex: NewLexer(pre.Text)}
	result, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	result.Definitions = pre.Definitions
	result.DocComments = pre.DocComments
	return result, nil
}

// parser is the recursive-descent parser.  It pulls tokens lazily from the
// lexer through a small lookahead buffer, which lets it hand the lexer raw
// capture duties for feature blocks and the modifier tail without the buffer
// running ahead of the raw region.
type parser struct {
	lex *Lexer
	buf []Token
}

// peek returns the n-th upcoming token (0-based) without consuming it.
func (p *parser) peek(n int) (Token, error) {
	for len(p.buf) <= n {
		tok, err := p.lex.Next()
		if err != nil {
			return Token{}, err
		}
		p.buf = append(p.buf, tok)
	}
	return p.buf[n], nil
}

// next consumes and returns the next token.
func (p *parser) next() (Token, error) {
	tok, err := p.peek(0)
	if err != nil {
		return Token{}, err
	}
	p.buf = p.buf[1:]
	return tok, nil
}

// expect consumes the next token and fails with CodeParseError unless it has
// the wanted type.
func (p *parser) expect(want TokenType) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Type != want {
		return Token{}, parseErrorf(want.String(), tok)
	}
	return tok, nil
}

func parseErrorf(expected string, got Token) *errors.AppError {
	gotText := got.Type.String()
	if got.Text != "" {
		gotText = fmt.Sprintf("%s %q", got.Type, got.Text)
	}
	return errors.Newf(errors.CodeParseError, "expected %s, got %s", expected, gotText).
		WithDetail(fmt.Sprintf("position %d", got.Pos))
}

func (p *parser) parseProgram() (*ParseResult, error) {
	sysTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if sysTok.Type != TokenSystem {
		return nil, errors.Newf(errors.CodeUnknownSystem, "unknown crystal system %q", sysTok.Text).
			WithDetail(fmt.Sprintf("position %d", sysTok.Pos))
	}
	system, _ := crystal.ParseSystem(sysTok.Text)

	result := &ParseResult{System: system}

	if _, err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}
	pgTok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch pgTok.Type {
	case TokenPointGroup, TokenIdentifier:
		result.PointGroup = pgTok.Text
	default:
		return nil, parseErrorf("POINT_GROUP", pgTok)
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	// Point-group/system cross-check is a warning diagnostic only.
	if !system.HasPointGroup(result.PointGroup) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("point group %q is not in the %s system's enumerated set", result.PointGroup, system))
	}

	forms, err := p.parseFormList()
	if err != nil {
		return nil, err
	}
	result.Forms = forms

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenPipe:
		p.parseTail(p.lex.ReadRawToEnd(), result)
	case TokenEOF:
	default:
		return nil, parseErrorf("'+', '|' or EOF", tok)
	}
	return result, nil
}

func (p *parser) parseFormList() ([]FormNode, error) {
	var nodes []FormNode
	for {
		node, err := p.parseFormOrGroup()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)

		tok, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenPlus {
			return nodes, nil
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}
}

// parseFormOrGroup handles the optional label binding: an IDENTIFIER
// followed by ':' binds to the group or form that follows, which requires a
// three-token lookahead (IDENTIFIER ':' then '(' or '{').
func (p *parser) parseFormOrGroup() (FormNode, error) {
	label := ""
	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenIdentifier {
		colon, err := p.peek(1)
		if err != nil {
			return nil, err
		}
		if colon.Type == TokenColon {
			after, err := p.peek(2)
			if err != nil {
				return nil, err
			}
			if after.Type == TokenLParen || after.Type == TokenLBrace {
				label = tok.Text
				p.buf = p.buf[2:] // consume IDENTIFIER ':'
			}
		}
	}

	tok, err = p.peek(0)
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenLParen:
		return p.parseGroup(label)
	case TokenLBrace:
		return p.parseForm(label)
	default:
		return nil, parseErrorf("'(' or '{'", tok)
	}
}

func (p *parser) parseGroup(label string) (FormNode, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	children, err := p.parseFormList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	group := &FormGroup{Children: children, Label: label}

	features, ok, err := p.tryParseFeatures()
	if err != nil {
		return nil, err
	}
	if ok {
		group.Features = features
	}
	return group, nil
}

func (p *parser) parseForm(label string) (FormNode, error) {
	miller, err := p.parseMiller()
	if err != nil {
		return nil, err
	}
	form := &CrystalForm{Miller: miller, Scale: 1, Label: label}

	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenAt {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		scale, err := p.parseScale()
		if err != nil {
			return nil, err
		}
		form.Scale = scale
	}

	features, ok, err := p.tryParseFeatures()
	if err != nil {
		return nil, err
	}
	if ok {
		form.Features = features
	}
	return form, nil
}

// parseMiller collects integer components inside a Miller brace.  Commas are
// separators and are skipped.  INTEGER tokens and point-group literals whose
// text parses as a signed integer both contribute components; multi-digit
// tokens split digit-by-digit, with the sign carried by the first digit.
// This per-character splitting is how {10-10} encodes (1, 0, -1, 0).
func (p *parser) parseMiller() (crystal.MillerIndex, error) {
	var zero crystal.MillerIndex
	if _, err := p.expect(TokenLBrace); err != nil {
		return zero, err
	}

	var components []int
	for {
		tok, err := p.next()
		if err != nil {
			return zero, err
		}
		switch tok.Type {
		case TokenRBrace:
			switch len(components) {
			case 3:
				return crystal.NewMiller(components[0], components[1], components[2]), nil
			case 4:
				return crystal.NewMiller4(components[0], components[1], components[2], components[3]), nil
			default:
				return zero, errors.Newf(errors.CodeMillerArity, "miller index must have 3 or 4 components, got %d", len(components))
			}
		case TokenComma:
			// Separator only.
		case TokenInteger:
			components = append(components, splitMillerToken(tok.Text)...)
		case TokenPointGroup:
			if _, err := strconv.Atoi(tok.Text); err != nil {
				return zero, parseErrorf("miller component", tok)
			}
			components = append(components, splitMillerToken(tok.Text)...)
		default:
			return zero, parseErrorf("miller component or '}'", tok)
		}
	}
}

// splitMillerToken turns a signed integer literal into Miller components:
// tokens with two or more digit characters split into single digits, the
// sign applying to the first digit only.
func splitMillerToken(text string) []int {
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")

	if millerDigits(text) < 2 {
		v, _ := strconv.Atoi(text)
		return []int{v}
	}

	out := make([]int, 0, len(digits))
	for i, r := range digits {
		d := int(r - '0')
		if i == 0 && neg {
			d = -d
		}
		out = append(out, d)
	}
	return out
}

// parseScale accepts FLOAT, INTEGER, or a numeric point-group literal as the
// form scale.  The scale must be strictly positive.
func (p *parser) parseScale() (float64, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	switch tok.Type {
	case TokenFloat, TokenInteger:
	case TokenPointGroup:
		if _, err := strconv.Atoi(tok.Text); err != nil {
			return 0, parseErrorf("scale value", tok)
		}
	default:
		return 0, parseErrorf("scale value", tok)
	}
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil || v <= 0 {
		return 0, errors.Newf(errors.CodeParseError, "form scale must be positive, got %q", tok.Text).
			WithDetail(fmt.Sprintf("position %d", tok.Pos))
	}
	return v, nil
}

// tryParseFeatures captures a feature block if the next token is '['.
// The block's raw content is read directly from the lexer so arbitrary text
// (including characters that are not valid CDL tokens) survives intact.
func (p *parser) tryParseFeatures() (string, bool, error) {
	tok, err := p.peek(0)
	if err != nil {
		return "", false, err
	}
	if tok.Type != TokenLBracket {
		return "", false, nil
	}
	if _, err := p.next(); err != nil {
		return "", false, err
	}
	raw, err := p.lex.ReadRawFeatures()
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

// parseTail extracts twin, modification, and phenomenon clauses from the raw
// modifier text after '|'.  Clause extraction is pattern-based and lenient:
// malformed clauses are skipped, zero factors are reported as warnings.
func (p *parser) parseTail(raw string, result *ParseResult) {
	result.Modifier = strings.TrimSpace(raw)

	if m := twinRe.FindStringSubmatch(raw); m != nil {
		result.Twin = &TwinSpec{Law: m[1]}
	}

	for _, m := range modificationRe.FindAllStringSubmatch(raw, -1) {
		factor, err := strconv.ParseFloat(m[3], 64)
		if err != nil || factor <= 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("ignoring %s clause with non-positive factor %q", strings.ToLower(m[1]), m[3]))
			continue
		}
		result.Modifications = append(result.Modifications, ModificationSpec{
			Type:   ModType(strings.ToLower(m[1])),
			Axis:   Axis(strings.ToLower(m[2])),
			Factor: factor,
		})
	}

	if m := phenomenonRe.FindStringSubmatch(raw); m != nil {
		result.Phenomenon = m[1]
	}
}
