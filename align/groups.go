package align

import (
	"github.com/teleivo/svfmt/format"
)

// GroupAction classifies one partition while scanning for alignable runs.
type GroupAction int

const (
	// GroupIgnore skips the partition without closing the current run, e.g. for comment-only
	// rows.
	GroupIgnore GroupAction = iota
	// GroupMatch includes the partition in the current run.
	GroupMatch
	// GroupNoMatch closes the current run.
	GroupNoMatch
)

// Classification is the result of inspecting one partition: the action plus a subtype so that
// adjacent but differently shaped constructs don't align with each other.
type Classification struct {
	Action  GroupAction
	Subtype int
}

// Run is a matched run of sibling partitions with its subtype tag.
type Run struct {
	Rows    []*format.Partition
	Subtype int
}

// FilterRows returns the partitions not rejected by ignore, preserving order. The ignored ones,
// e.g. comments or blank lines, do not participate in column alignment.
func FilterRows(rows []*format.Partition, ignore func(*format.Partition) bool) []*format.Partition {
	var qualified []*format.Partition
	for _, row := range rows {
		if !ignore(row) {
			qualified = append(qualified, row)
		}
	}
	return qualified
}

// MatchSubranges extracts runs of consecutive partitions classified as matching with the same
// subtype. Runs shorter than minMatchCount are dropped; ignored partitions extend a run without
// joining it.
func MatchSubranges(rows []*format.Partition, selector func(*format.Partition) Classification, minMatchCount int) []Run {
	var result []Run

	lastSubtype := 0
	matchCount := 0
	runStart := 0
	flush := func(end int) {
		if matchCount >= minMatchCount {
			result = append(result, Run{Rows: rows[runStart:end], Subtype: lastSubtype})
		}
	}

	for i, row := range rows {
		c := selector(row)
		switch c.Action {
		case GroupIgnore:
			continue
		case GroupMatch:
			if matchCount == 0 {
				runStart = i
				lastSubtype = c.Subtype
			}
			if c.Subtype != lastSubtype {
				// Subtype mismatch closes the last run and opens a new one.
				flush(i)
				matchCount = 0
				runStart = i
				lastSubtype = c.Subtype
			}
			matchCount++
		case GroupNoMatch:
			flush(i)
			matchCount = 0
		}
	}
	flush(len(rows))
	return result
}

// GroupsBetweenBlankLines splits the rows at blank lines in the original source, so vertically
// separated blocks align independently. Blank lines are detected from the gap between one row's
// last token and the next row's first token.
func GroupsBetweenBlankLines(rows []*format.Partition) [][]*format.Partition {
	var groups [][]*format.Partition
	var current []*format.Partition
	for i, row := range rows {
		if i > 0 && startsAfterBlankLine(rows[i-1], row) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, row)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func startsAfterBlankLine(prev, next *format.Partition) bool {
	prevTokens := prev.Line.Tokens()
	nextTokens := next.Line.Tokens()
	if len(prevTokens) == 0 || len(nextTokens) == 0 {
		return false
	}
	return nextTokens[0].Tok.Start.Line > prevTokens[len(prevTokens)-1].Tok.End.Line+1
}
