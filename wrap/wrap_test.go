package wrap_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
	"github.com/teleivo/svfmt/format"
	"github.com/teleivo/svfmt/style"
	"github.com/teleivo/svfmt/token"
	"github.com/teleivo/svfmt/wrap"
)

// testStyle is small enough that wrapping decisions are easy to compute by hand.
func testStyle() style.Style {
	s := style.Default()
	s.ColumnLimit = 20
	s.IndentationSpaces = 2
	s.WrapSpaces = 4
	s.OverColumnLimitPenalty = 100
	s.LineBreakPenalty = 2
	return s
}

// newTokens splits src on whitespace runs into identifier format tokens with single-space
// contracts and a break penalty of 2.
func newTokens(src string) []format.Token {
	var out []format.Token
	off := 0
	for off < len(src) {
		if src[off] == ' ' {
			off++
			continue
		}
		end := off
		for end < len(src) && src[end] != ' ' {
			end++
		}
		tok := &token.Token{
			Type: token.Identifier, Literal: src[off:end], Offset: off,
			Start: token.Position{Line: 1, Column: off + 1},
			End:   token.Position{Line: 1, Column: end},
		}
		before := format.Spacing{Spaces: 1, PreservedLen: -1}
		if len(out) == 0 {
			before.Spaces = 0
		}
		out = append(out, format.Token{Tok: tok, Before: before, BreakPenalty: 2})
		off = end
	}
	return out
}

func newLine(indent int, tokens []format.Token) format.UnwrappedLine {
	line := format.NewUnwrappedLine(indent, tokens, 0)
	line.SpanUpToIndex(len(tokens))
	return line
}

func actions(e format.Excerpt) []format.SpacingDecision {
	out := make([]format.SpacingDecision, len(e.Decisions))
	for i, d := range e.Decisions {
		out[i] = d.Action
	}
	return out
}

func TestSearch(t *testing.T) {
	t.Run("EmptyLineNeedsNoSearch", func(t *testing.T) {
		line := format.NewUnwrappedLine(0, nil, 0)

		e := wrap.Search(line, testStyle())

		assert.Truef(t, e.CompletedFormatting(), "empty line is complete")
		assert.EqualValuesf(t, len(e.Decisions), 0, "no decisions for an empty line")
	})

	t.Run("SingleTokenSitsAtIndentation", func(t *testing.T) {
		line := newLine(2, newTokens("aaaa"))

		e := wrap.Search(line, testStyle())

		require.EqualValuesf(t, len(e.Decisions), 1, "one decision")
		assert.EqualValuesf(t, e.Render(nil, true), "  aaaa", "Render()")
	})

	t.Run("FittingLineAppendsEverything", func(t *testing.T) {
		line := newLine(0, newTokens("aaaa bbbb cccc"))

		e := wrap.Search(line, testStyle())

		assert.EqualValuesf(t, actions(e), []format.SpacingDecision{
			format.Appended, format.Appended, format.Appended,
		}, "all tokens appended")
		assert.EqualValuesf(t, e.Render(nil, true), "aaaa bbbb cccc", "Render()")
	})

	t.Run("WrapsCheaperThanOverflow", func(t *testing.T) {
		s := testStyle()
		s.ColumnLimit = 10

		// Appending cccc would end at column 14, 4 over the limit (penalty 400); a single break
		// costs only its break penalty of 2.
		line := newLine(0, newTokens("aaaa bbbb cccc"))
		e := wrap.Search(line, s)

		assert.EqualValuesf(t, actions(e), []format.SpacingDecision{
			format.Appended, format.Appended, format.Wrapped,
		}, "last token wraps")
		assert.EqualValuesf(t, e.Render(nil, true), "aaaa bbbb\n    cccc", "Render()")
		assert.Truef(t, e.CompletedFormatting(), "search ran to optimality")
	})

	t.Run("MustAppendForbidsTheWrap", func(t *testing.T) {
		s := testStyle()
		s.ColumnLimit = 10

		tokens := newTokens("aaaa bbbb cccc")
		tokens[2].Before.BreakDecision = format.MustAppend
		e := wrap.Search(newLine(0, tokens), s)

		assert.EqualValuesf(t, e.Render(nil, true), "aaaa bbbb cccc", "Render()")
	})

	t.Run("MustWrapForbidsTheAppend", func(t *testing.T) {
		tokens := newTokens("aaaa bbbb")
		tokens[1].Before.BreakDecision = format.MustWrap
		e := wrap.Search(newLine(0, tokens), testStyle())

		assert.EqualValuesf(t, e.Render(nil, true), "aaaa\n    bbbb", "Render()")
	})

	t.Run("PreserveCopiesOriginalBytes", func(t *testing.T) {
		src := "aaaa   bbbb"
		tokens := newTokens(src)
		tokens[1].Before.BreakDecision = format.Preserve
		tokens[1].Before.PreservedOffset = 4
		tokens[1].Before.PreservedLen = 3

		e := wrap.Search(newLine(0, tokens), testStyle())

		assert.EqualValuesf(t, actions(e), []format.SpacingDecision{
			format.Appended, format.Preserved,
		}, "preserve forces a single branch")
		assert.EqualValuesf(t, e.Render([]byte(src), true), "aaaa   bbbb", "Render()")
	})

	t.Run("AbortedSearchFinishesGreedily", func(t *testing.T) {
		s := testStyle()
		s.MaxSearchStates = 1

		tokens := newTokens("aaaa bbbb cccc dddd eeee")
		e := wrap.Search(newLine(0, tokens), s)

		assert.Falsef(t, e.CompletedFormatting(), "aborted search is flagged incomplete")
		assert.EqualValuesf(t, e.Render(nil, true), "aaaa bbbb cccc dddd eeee", "greedy finish appends where legal")
	})

	t.Run("AbortedSearchStillHonorsForcedWraps", func(t *testing.T) {
		s := testStyle()
		s.MaxSearchStates = 1

		tokens := newTokens("aaaa bbbb cccc")
		tokens[2].Before.BreakDecision = format.MustWrap
		e := wrap.Search(newLine(0, tokens), s)

		assert.Falsef(t, e.CompletedFormatting(), "aborted search is flagged incomplete")
		assert.EqualValuesf(t, e.Render(nil, true), "aaaa bbbb\n    cccc", "forced wrap kept")
	})

	t.Run("WrappedContinuationUsesIndentPlusWrapSpaces", func(t *testing.T) {
		s := testStyle()
		s.ColumnLimit = 12

		tokens := newTokens("aaaa bbbb cccc")
		e := wrap.Search(newLine(2, tokens), s)

		// Indentation 2 + wrap spaces 4 = 6 leading spaces on the continuation line.
		assert.EqualValuesf(t, e.Render(nil, true), "  aaaa bbbb\n      cccc", "Render()")
	})
}

func TestFitsOnLine(t *testing.T) {
	tests := map[string]struct {
		src     string
		indent  int
		limit   int
		prepare func([]format.Token)
		want    bool
	}{
		"EmptyLineFits":          {src: "", indent: 0, limit: 10, want: true},
		"ExactlyAtLimit":         {src: "aaaa bbbb", indent: 0, limit: 9, want: true},
		"OneOverLimit":           {src: "aaaa bbbb", indent: 0, limit: 8, want: false},
		"IndentationCounts":      {src: "aaaa bbbb", indent: 2, limit: 10, want: false},
		"SingleWideTokenTooLong": {src: "aaaaaaaaaaaa", indent: 0, limit: 10, want: false},
		"MustWrapNeverFits": {
			src: "aa bb", indent: 0, limit: 80,
			prepare: func(tokens []format.Token) {
				tokens[1].Before.BreakDecision = format.MustWrap
			},
			want: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := testStyle()
			s.ColumnLimit = tt.limit
			tokens := newTokens(tt.src)
			if tt.prepare != nil {
				tt.prepare(tokens)
			}
			line := newLine(tt.indent, tokens)

			assert.EqualValuesf(t, wrap.FitsOnLine(&line, s), tt.want, "FitsOnLine(%q)", tt.src)
		})
	}
}

// TestNoOverrunsUnlessForced is the property seed: random token arrays that fit on one line must
// produce zero newlines from the searcher.
func TestNoOverrunsUnlessForced(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for range 100 {
		n := 1 + rng.Intn(20)
		var words []string
		for range n {
			words = append(words, strings.Repeat("x", 1+rng.Intn(9)))
		}
		tokens := newTokens(strings.Join(words, " "))
		line := newLine(rng.Intn(4), tokens)

		s := testStyle()
		s.ColumnLimit = 200
		require.Truef(t, wrap.FitsOnLine(&line, s), "line of %d short tokens fits under limit 200", n)

		e := wrap.Search(line, s)
		for i, d := range e.Decisions {
			assert.Falsef(t, d.Action == format.Wrapped, "token %d must not wrap when the line fits", i)
		}
	}
}
