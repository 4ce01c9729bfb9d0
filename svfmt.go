// Package svfmt implements the formatting core of a SystemVerilog source formatter: given a
// partition tree of unwrapped lines whose tokens carry spacing annotations, it decides where to
// break lines, how deeply to indent, and how to align columns across adjacent constructs so the
// resulting text fits within the configured column limit at minimum penalty.
//
// The core consumes an already-built partition tree (lexing and parsing happen upstream) and
// emits the serialized text together with the bound spacing contracts. Three subsystems do the
// work: the line-wrap searcher in [github.com/teleivo/svfmt/wrap], the layout solver in
// [github.com/teleivo/svfmt/reshape], and the column aligner in
// [github.com/teleivo/svfmt/align]. The driver in this package walks the partition tree,
// dispatches each subtree according to its partition policy, and serializes the bound spacing
// decisions to text.
package svfmt

import (
	"strings"

	"github.com/teleivo/svfmt/align"
	"github.com/teleivo/svfmt/format"
	"github.com/teleivo/svfmt/reshape"
	"github.com/teleivo/svfmt/style"
	"github.com/teleivo/svfmt/wrap"
)

// Aligner hooks a construct-specific cell scanner into the driver. When Match accepts a
// partition, its children are handed to the column-alignment engine before the regular
// wrap/layout dispatch. Declined alignment falls through to wrapping and layout.
type Aligner struct {
	Match   func(*format.Partition) bool
	Scanner align.CellScanner
	Policy  align.Policy
}

// Formatter drives the formatting core. Its output depends only on the tokens, the partition tree
// and the style; the formatter keeps no state across calls, but [Formatter.Format] mutates the
// tree and its tokens.
type Formatter struct {
	Style style.Style

	// Source is the original source buffer; preserved spacing spans point into it.
	Source []byte

	// Disabled are the byte ranges in which formatting is turned off.
	Disabled format.ByteRanges

	// Aligners are the per-construct alignment hooks supplied by the upstream language layer.
	Aligners []Aligner
}

// NewFormatter returns a formatter with the given style over the given source buffer.
func NewFormatter(s style.Style, source []byte) *Formatter {
	return &Formatter{Style: s, Source: source}
}

// Result is the outcome of formatting one partition tree.
type Result struct {
	// Text is the formatted output.
	Text string

	// Complete reports whether every line-wrap search ran to optimality. When false the text is
	// still renderable but possibly sub-optimal.
	Complete bool
}

// Format walks the partition tree, binds every spacing decision, and serializes the result. The
// shared format token array referenced by the tree is mutated: afterwards every before-contract
// is bound.
func (f *Formatter) Format(tree *format.Partition) Result {
	var excerpts []format.Excerpt
	f.dispatch(tree, &excerpts)

	complete := true
	var sb strings.Builder
	for _, e := range excerpts {
		if e.Line.IsEmpty() {
			continue
		}
		sb.WriteString(e.Render(f.Source, true))
		sb.WriteByte('\n')
		if !e.CompletedFormatting() {
			complete = false
		}
	}
	return Result{Text: sb.String(), Complete: complete}
}

// dispatch routes one subtree to wrapping, layout, or alignment according to its partition
// policy, appending the bound excerpts in output order.
func (f *Formatter) dispatch(p *format.Partition, excerpts *[]format.Excerpt) {
	if f.disabledConstruct(p) {
		align.IndentOnly([]*format.Partition{p})
		*excerpts = append(*excerpts, excerptFromContracts(p.Line))
		return
	}

	for _, a := range f.Aligners {
		if a.Match(p) && len(p.Children) > 0 {
			var groups []align.Group
			for _, rows := range align.GroupsBetweenBlankLines(p.Children) {
				groups = append(groups, align.Group{Rows: rows, Scanner: a.Scanner, Policy: a.Policy})
			}
			align.Tabular(groups, f.Disabled, f.Style)
			break
		}
	}

	switch p.Line.Policy() {
	case format.SuccessfullyAligned:
		*excerpts = append(*excerpts, excerptFromContracts(p.Line))

	case format.FitOnLineElseExpand:
		if wrap.FitsOnLine(&p.Line, f.Style) || p.IsLeaf() {
			f.searchLeaf(p, excerpts)
			return
		}
		f.recurse(p, excerpts)

	case format.ApplyOptimalLayout, format.WrapSubPartitions:
		reshape.Reshape(p, f.Style)
		f.recurse(p, excerpts)

	default: // AlwaysExpand, Uninitialized
		f.recurse(p, excerpts)
	}
}

func (f *Formatter) recurse(p *format.Partition, excerpts *[]format.Excerpt) {
	if p.IsLeaf() {
		f.searchLeaf(p, excerpts)
		return
	}
	for _, c := range p.Children {
		f.dispatch(c, excerpts)
	}
}

// searchLeaf wrap-searches one unwrapped line and commits the winning decisions back into the
// shared token array.
func (f *Formatter) searchLeaf(p *format.Partition, excerpts *[]format.Excerpt) {
	if p.Line.IsEmpty() {
		return
	}

	if f.Disabled.IntersectsLine(&p.Line) {
		preserveLine(&p.Line)
		*excerpts = append(*excerpts, excerptFromContracts(p.Line))
		return
	}

	if !f.Style.TryWrapLongLines && !wrap.FitsOnLine(&p.Line, f.Style) {
		// Wrap optimization is disabled; give up on this line and emit it as-is.
		preserveLine(&p.Line)
		*excerpts = append(*excerpts, excerptFromContracts(p.Line))
		return
	}

	e := wrap.Search(p.Line, f.Style)
	e.Commit()
	*excerpts = append(*excerpts, e)
}

// disabledConstruct reports whether the style turns formatting off for the language region this
// partition came from.
func (f *Formatter) disabledConstruct(p *format.Partition) bool {
	switch p.Line.Construct() {
	case format.ConstructPortDeclarations:
		return !f.Style.FormatModulePortDeclarations
	case format.ConstructInstantiation:
		return !f.Style.FormatModuleInstantiations
	default:
		return false
	}
}

// preserveLine binds the line to its original spacing: the first token starts the line at the
// indentation column, every other token keeps the original inter-token bytes.
func preserveLine(line *format.UnwrappedLine) {
	tokens := line.Tokens()
	for i := range tokens {
		if i == 0 {
			continue
		}
		prevEnd := tokens[i-1].Tok.EndOffset()
		tokens[i].Before.BreakDecision = format.Preserve
		tokens[i].Before.PreservedOffset = prevEnd
		tokens[i].Before.PreservedLen = tokens[i].Tok.Offset - prevEnd
	}
}

// excerptFromContracts builds an excerpt whose decisions are read off the already-bound spacing
// contracts instead of a search.
func excerptFromContracts(line format.UnwrappedLine) format.Excerpt {
	e := format.NewExcerpt(line)
	for i, tok := range line.Tokens() {
		switch tok.Before.BreakDecision {
		case format.MustWrap:
			e.Decisions[i] = format.BoundSpacing{Action: format.Wrapped, Spaces: tok.Before.Spaces}
		case format.Preserve:
			e.Decisions[i] = format.BoundSpacing{Action: format.Preserved}
		case format.AppendAligned:
			e.Decisions[i] = format.BoundSpacing{Action: format.Aligned, Spaces: tok.Before.Spaces}
		default:
			e.Decisions[i] = format.BoundSpacing{Action: format.Appended, Spaces: tok.Before.Spaces}
		}
	}
	return e
}
