package token_test

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/svfmt/token"
)

func TestLookup(t *testing.T) {
	tests := map[string]struct {
		in   string
		want token.Kind
	}{
		"Keyword":                  {"module", token.Module},
		"KeywordEnd":               {"endmodule", token.EndModule},
		"KeywordAssign":            {"assign", token.Assign},
		"Identifier":               {"clk_i", token.Identifier},
		"KeywordIsCaseSensitive":   {"Module", token.Identifier},
		"LongerThanAnyKeyword":     {"endmodule_x", token.Identifier},
		"EmptyStringIsIdentifier":  {"", token.Identifier},
		"KeywordPrefixIdentifier":  {"inputs", token.Identifier},
		"KeywordLikeButDifferent":  {"wires", token.Identifier},
		"ParameterIsLongestMatch":  {"parameter", token.Parameter},
		"BeginKeywordIsRecognized": {"begin", token.Begin},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.EqualValuesf(t, token.Lookup(tt.in), tt.want, "Lookup(%q)", tt.in)
		})
	}
}

func TestKindSets(t *testing.T) {
	assert.Truef(t, token.Comma.IsTerminal(), "Comma.IsTerminal()")
	assert.Truef(t, token.LeftParen.IsTerminal(), "LeftParen.IsTerminal()")
	assert.Falsef(t, token.Identifier.IsTerminal(), "Identifier.IsTerminal()")
	assert.Falsef(t, token.Module.IsTerminal(), "Module.IsTerminal()")

	assert.Truef(t, token.Module.IsKeyword(), "Module.IsKeyword()")
	assert.Truef(t, token.EndModule.IsKeyword(), "EndModule.IsKeyword()")
	assert.Falsef(t, token.Comma.IsKeyword(), "Comma.IsKeyword()")
	assert.Falsef(t, token.Number.IsKeyword(), "Number.IsKeyword()")
}

func TestToken(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tests := map[string]struct {
			in   token.Token
			want string
		}{
			"IdentifierUsesLiteral": {token.Token{Type: token.Identifier, Literal: "clk"}, "clk"},
			"NumberUsesLiteral":     {token.Token{Type: token.Number, Literal: "8'hFF"}, "8'hFF"},
			"CommentUsesLiteral":    {token.Token{Type: token.Comment, Literal: "// x"}, "// x"},
			"KeywordUsesKind":       {token.Token{Type: token.Module, Literal: "module"}, "module"},
			"TerminalUsesKind":      {token.Token{Type: token.Semicolon}, ";"},
		}

		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				assert.EqualValuesf(t, tt.in.String(), tt.want, "Token.String()")
			})
		}
	})

	t.Run("Width", func(t *testing.T) {
		tests := map[string]struct {
			in   token.Token
			want int
		}{
			"ASCII":     {token.Token{Type: token.Identifier, Literal: "abcd"}, 4},
			"Terminal":  {token.Token{Type: token.Semicolon}, 1},
			"WideRunes": {token.Token{Type: token.Comment, Literal: "// 全角"}, 7},
		}

		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				assert.EqualValuesf(t, tt.in.Width(), tt.want, "Token.Width()")
			})
		}
	})

	t.Run("EndOffset", func(t *testing.T) {
		tok := token.Token{Type: token.Identifier, Literal: "abcd", Offset: 10}
		assert.EqualValuesf(t, tok.EndOffset(), 14, "Token.EndOffset()")
	})
}

func TestPosition(t *testing.T) {
	a := token.Position{Line: 1, Column: 5}
	b := token.Position{Line: 2, Column: 1}

	assert.Truef(t, a.IsValid(), "IsValid()")
	assert.Falsef(t, token.Position{}.IsValid(), "zero Position.IsValid()")
	assert.Truef(t, a.Before(b), "%s.Before(%s)", a, b)
	assert.Falsef(t, b.Before(a), "%s.Before(%s)", b, a)
	assert.Truef(t, b.After(a), "%s.After(%s)", b, a)
	assert.EqualValuesf(t, a.String(), "1:5", "Position.String()")
}
