package cdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// lexAll drains the lexer, returning every token up to and including EOF.
func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	lex := NewLexer(input)
	var out []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out
		}
	}
}

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexerBasicProgram(t *testing.T) {
	tokens := lexAll(t, "cubic[m3m]:{100}@1")
	assert.Equal(t, []TokenType{
		TokenSystem, TokenLBracket, TokenPointGroup, TokenRBracket, TokenColon,
		TokenLBrace, TokenInteger, TokenRBrace, TokenAt, TokenPointGroup, TokenEOF,
	}, tokenTypes(tokens))
	assert.Equal(t, "cubic", tokens[0].Text)
	assert.Equal(t, "m3m", tokens[2].Text)
	// "1" is a triclinic point-group literal; the parser accepts it as a
	// numeric scale source.
	assert.Equal(t, "1", tokens[9].Text)
}

func TestLexerPointGroupDisambiguation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TokenType
		text  string
	}{
		{"slash group", "4/mmm", TokenPointGroup, "4/mmm"},
		{"bar group", "-43m", TokenPointGroup, "-43m"},
		{"numeric group", "23", TokenPointGroup, "23"},
		{"letter group", "m3m", TokenPointGroup, "m3m"},
		{"bar numeric group", "-3", TokenPointGroup, "-3"},
		{"plain integer", "100", TokenInteger, "100"},
		{"negative integer", "-110", TokenInteger, "-110"},
		{"float wins over group prefix", "1.5", TokenFloat, "1.5"},
		{"float with group-shaped integer part", "32.25", TokenFloat, "32.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(tt.input)
			tok, err := lex.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tok.Type)
			assert.Equal(t, tt.text, tok.Text)
		})
	}
}

func TestLexerCaseFoldsSystem(t *testing.T) {
	tokens := lexAll(t, "CUBIC[m3m]:{100}")
	assert.Equal(t, TokenSystem, tokens[0].Type)
	assert.Equal(t, "cubic", tokens[0].Text)
}

func TestLexerSkipsWhitespace(t *testing.T) {
	tokens := lexAll(t, "  cubic \t [ m3m ]\n: { 1 0 0 }")
	assert.Equal(t, TokenSystem, tokens[0].Type)
	assert.Equal(t, TokenEOF, tokens[len(tokens)-1].Type)
}

func TestLexerUnknownCharacter(t *testing.T) {
	lex := NewLexer("cubic[m3m]:{100} ^")
	var err error
	var tok Token
	for {
		tok, err = lex.Next()
		if err != nil || tok.Type == TokenEOF {
			break
		}
	}
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeLexError))
}

func TestLexerRawFeatures(t *testing.T) {
	lex := NewLexer("[striations, etched [deep]] rest")
	tok, err := lex.Next()
	require.NoError(t, err)
	require.Equal(t, TokenLBracket, tok.Type)

	raw, err := lex.ReadRawFeatures()
	require.NoError(t, err)
	assert.Equal(t, "striations, etched [deep]", raw)

	next, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenIdentifier, next.Type)
	assert.Equal(t, "rest", next.Text)
}

func TestLexerRawFeaturesUnterminated(t *testing.T) {
	lex := NewLexer("[no closing")
	_, err := lex.Next()
	require.NoError(t, err)

	_, err = lex.ReadRawFeatures()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnterminatedFeatures))
}
