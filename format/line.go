package format

import (
	"fmt"
	"strings"
)

// PartitionPolicy describes how a partition combines the output of its children.
type PartitionPolicy int

const (
	// Uninitialized marks a partition whose policy was never set.
	Uninitialized PartitionPolicy = iota
	// AlwaysExpand renders every child on its own line(s).
	AlwaysExpand
	// FitOnLineElseExpand collapses into one line if it doesn't exceed the column limit.
	FitOnLineElseExpand
	// ApplyOptimalLayout hands the subtree to the layout solver which chooses between
	// horizontal and vertical arrangements by cost.
	ApplyOptimalLayout
	// WrapSubPartitions packs children into as few lines as fit, wrapping between them.
	WrapSubPartitions
	// SuccessfullyAligned marks a subtree whose spacing was bound by the column aligner; later
	// passes skip it.
	SuccessfullyAligned
)

// String returns the policy in the spelling used by debug output.
func (p PartitionPolicy) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case AlwaysExpand:
		return "always-expand"
	case FitOnLineElseExpand:
		return "fit-else-expand"
	case ApplyOptimalLayout:
		return "optimal-layout"
	case WrapSubPartitions:
		return "wrap-subpartitions"
	case SuccessfullyAligned:
		return "aligned"
	default:
		panic(fmt.Sprintf("missing String() case for format.PartitionPolicy: %d", int(p)))
	}
}

// Construct tags an unwrapped line with the language region it came from, for the style switches
// that disable formatting per construct.
type Construct int

const (
	ConstructNone Construct = iota
	// ConstructPortDeclarations marks a module's port declaration list.
	ConstructPortDeclarations
	// ConstructInstantiation marks a module instantiation.
	ConstructInstantiation
)

// UnwrappedLine is a partition of the input token stream that is an independent unit of work for
// the other formatting phases. It is a half-open range over a shared format token array together
// with an indentation depth and a partition policy. The range can be grown at either end without
// copying; it never shrinks below its initial value.
type UnwrappedLine struct {
	indent     int
	tokens     []Token // the shared format token array, owned by the caller
	start, end int
	policy     PartitionPolicy
	construct  Construct
}

// NewUnwrappedLine returns a line with indentation depth indent whose range starts empty at index
// start of the shared token array.
func NewUnwrappedLine(indent int, tokens []Token, start int) UnwrappedLine {
	return UnwrappedLine{indent: indent, tokens: tokens, start: start, end: start, policy: AlwaysExpand}
}

// SpanNextToken extends the range by one token at the back.
func (l *UnwrappedLine) SpanNextToken() { l.end++ }

// SpanPrevToken extends the range by one token at the front.
func (l *UnwrappedLine) SpanPrevToken() { l.start-- }

// SpanUpToIndex extends the range up to index end of the shared array (exclusive).
func (l *UnwrappedLine) SpanUpToIndex(end int) { l.end = end }

// SpanBackToIndex extends the range back to index start of the shared array (inclusive).
func (l *UnwrappedLine) SpanBackToIndex(start int) { l.start = start }

// StartIndex returns the index of the first spanned token in the shared array.
func (l *UnwrappedLine) StartIndex() int { return l.start }

// EndIndex returns the index one past the last spanned token in the shared array.
func (l *UnwrappedLine) EndIndex() int { return l.end }

// Tokens returns the spanned slice of the shared format token array. Mutations through the slice
// mutate the shared array.
func (l *UnwrappedLine) Tokens() []Token {
	return l.tokens[l.start:l.end]
}

// Size returns the number of tokens in the line.
func (l *UnwrappedLine) Size() int { return l.end - l.start }

// IsEmpty reports whether the line spans no tokens.
func (l *UnwrappedLine) IsEmpty() bool { return l.end == l.start }

// Indent returns the number of leading spaces on any line this range produces.
func (l *UnwrappedLine) Indent() int { return l.indent }

// SetIndent sets the indentation depth.
func (l *UnwrappedLine) SetIndent(spaces int) { l.indent = spaces }

// Policy returns the partition policy.
func (l *UnwrappedLine) Policy() PartitionPolicy { return l.policy }

// SetPolicy sets the partition policy.
func (l *UnwrappedLine) SetPolicy(p PartitionPolicy) { l.policy = p }

// Construct returns the language region tag.
func (l *UnwrappedLine) Construct() Construct { return l.construct }

// SetConstruct sets the language region tag.
func (l *UnwrappedLine) SetConstruct(c Construct) { l.construct = c }

// CompactWidth returns the width the line occupies when all tokens are appended with only their
// required spacing, excluding indentation and excluding the leading spaces of the first token.
// The second return value is false when a token after the first requires a wrap, in which case
// the line cannot render as a single line and the width only covers a lower bound.
func (l *UnwrappedLine) CompactWidth() (int, bool) {
	var width int
	singleLine := true
	for i, tok := range l.Tokens() {
		if i > 0 {
			if tok.Before.BreakDecision == MustWrap {
				singleLine = false
			}
			width += tok.LeadingSpaces()
		}
		width += tok.Width()
	}
	return width, singleLine
}

// String renders the line's token texts separated by single spaces, for debugging.
func (l *UnwrappedLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d> ", l.indent)
	for i, tok := range l.Tokens() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.String())
	}
	fmt.Fprintf(&sb, "], policy: %s", l.policy)
	return sb.String()
}

// BoundSpacing is one bound spacing decision of a formatted excerpt.
type BoundSpacing struct {
	Action SpacingDecision
	// Spaces is the number of spaces preceding the token: on the current line for Appended and
	// Aligned, after the newline for Wrapped. Unused for Preserved.
	Spaces int
}

// Excerpt is the result of formatting one unwrapped line. Wrapping and spacing decisions are
// considered bound; decisions run parallel to the line's tokens.
type Excerpt struct {
	Line      UnwrappedLine
	Decisions []BoundSpacing

	complete bool
}

// NewExcerpt returns an excerpt for line with zeroed decisions: every token is Appended with no
// spaces.
func NewExcerpt(line UnwrappedLine) Excerpt {
	return Excerpt{Line: line, Decisions: make([]BoundSpacing, line.Size()), complete: true}
}

// MarkIncomplete signals that the analysis used to construct this excerpt did not run to
// completion and the result may be sub-optimal.
func (e *Excerpt) MarkIncomplete() { e.complete = false }

// CompletedFormatting reports whether this result represents optimal formatting.
func (e *Excerpt) CompletedFormatting() bool { return e.complete }

// Render returns the formatted text of the excerpt. If indent is true the spacing left of the
// first token is included. Preserved decisions copy the original inter-token bytes from src.
func (e *Excerpt) Render(src []byte, indent bool) string {
	var sb strings.Builder
	tokens := e.Line.Tokens()
	for i, tok := range tokens {
		d := e.Decisions[i]
		switch {
		case i == 0:
			if indent {
				sb.WriteString(strings.Repeat(" ", e.Line.Indent()))
			}
		case d.Action == Wrapped:
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", d.Spaces))
		case d.Action == Preserved:
			before := tok.Before
			if before.PreservedLen >= 0 {
				sb.Write(src[before.PreservedOffset : before.PreservedOffset+before.PreservedLen])
			}
		default: // Appended, Aligned
			sb.WriteString(strings.Repeat(" ", d.Spaces))
		}
		sb.WriteString(tok.String())
	}
	return sb.String()
}

// Commit binds the excerpt's decisions back into the shared format token array so that the
// serialized output can be produced from the contracts alone.
func (e *Excerpt) Commit() {
	tokens := e.Line.Tokens()
	for i := range tokens {
		if i == 0 {
			continue
		}
		d := e.Decisions[i]
		before := &tokens[i].Before
		switch d.Action {
		case Appended:
			before.BreakDecision = MustAppend
			before.Spaces = d.Spaces
			before.Newlines = 0
		case Aligned:
			before.BreakDecision = AppendAligned
			before.Spaces = d.Spaces
			before.Newlines = 0
		case Wrapped:
			before.BreakDecision = MustWrap
			before.Spaces = d.Spaces
			before.Newlines = 1
		case Preserved:
			before.BreakDecision = Preserve
		}
	}
}
