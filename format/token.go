// Package format holds the shared data model of the formatting core: format tokens with their
// mutable spacing contracts, unwrapped lines spanning a shared token array, the partition tree
// built from them, and formatted excerpts with every spacing decision bound.
//
// Format tokens are allocated once by the upstream lexer and live for the whole formatting run.
// The core mutates only their spacing contracts; token text is never edited.
package format

import (
	"fmt"

	"github.com/teleivo/svfmt/token"
)

// SpacingOptions constrains the decision the line wrapper is allowed to take for the whitespace
// before a token.
type SpacingOptions int

const (
	// Undecided leaves the choice between appending and wrapping to the optimizer.
	Undecided SpacingOptions = iota
	// MustAppend forbids a newline before the token.
	MustAppend
	// MustWrap requires a newline before the token.
	MustWrap
	// Preserve copies the original inter-token text verbatim.
	Preserve
	// AppendAligned forbids a newline and makes the required spaces authoritative; it is set by
	// the column aligner and locks the decision against later passes.
	AppendAligned
)

// String returns the spacing option in the spelling used by debug output.
func (s SpacingOptions) String() string {
	switch s {
	case Undecided:
		return "undecided"
	case MustAppend:
		return "must-append"
	case MustWrap:
		return "must-wrap"
	case Preserve:
		return "preserve"
	case AppendAligned:
		return "append-aligned"
	default:
		panic(fmt.Sprintf("missing String() case for format.SpacingOptions: %d", int(s)))
	}
}

// SpacingDecision is a bound spacing choice in a formatted excerpt.
type SpacingDecision int

const (
	// Appended places the token on the current line after its required spaces.
	Appended SpacingDecision = iota
	// Wrapped places the token on a fresh line after indentation.
	Wrapped
	// Preserved copies the original inter-token bytes.
	Preserved
	// Aligned places the token after the space count chosen by the column aligner.
	Aligned
)

// String returns the spacing decision in the spelling used by debug output.
func (s SpacingDecision) String() string {
	switch s {
	case Appended:
		return "appended"
	case Wrapped:
		return "wrapped"
	case Preserved:
		return "preserved"
	case Aligned:
		return "aligned"
	default:
		panic(fmt.Sprintf("missing String() case for format.SpacingDecision: %d", int(s)))
	}
}

// Spacing is the mutable before-contract of a format token: the whitespace that must precede it.
type Spacing struct {
	// Spaces is the number of spaces required before the token when it is appended.
	Spaces int

	// Newlines is the number of newlines required before the token, 0 or 1.
	Newlines int

	// PreservedOffset and PreservedLen describe the span of original inter-token bytes, as an
	// offset into the shared source buffer. Only meaningful when BreakDecision is Preserve;
	// PreservedLen < 0 means no span was recorded.
	PreservedOffset int
	PreservedLen    int

	// BreakDecision constrains which decisions the wrapper may take.
	BreakDecision SpacingOptions
}

// Token is a format token: a reference to one immutable lexer token plus the mutable spacing
// contract describing the whitespace that must precede it.
type Token struct {
	Tok    *token.Token
	Before Spacing

	// BreakPenalty is the cost of placing a newline before this token, if discretionary.
	BreakPenalty int
}

// Width returns the display width of the token text.
func (t *Token) Width() int {
	return t.Tok.Width()
}

// LeadingSpaces returns the width of the spacing required before the token. When the original
// spacing is preserved this honors the recorded span length instead of the required space count.
func (t *Token) LeadingSpaces() int {
	if t.Before.BreakDecision == Preserve && t.Before.PreservedLen >= 0 {
		return t.Before.PreservedLen
	}
	return t.Before.Spaces
}

// String returns the token text.
func (t *Token) String() string {
	return t.Tok.String()
}
