package align

import (
	"slices"

	"github.com/teleivo/svfmt/format"
	"github.com/teleivo/svfmt/style"
	"github.com/teleivo/svfmt/token"
)

// ColumnProperties carries the per-column flags a cell scanner can request.
type ColumnProperties struct {
	// FlushLeft pads after the cell content; otherwise the cell is flushed right and padded
	// before it.
	FlushLeft bool
}

// ColumnPositionEntry marks the start of one alignment cell in a row. The syntax path establishes
// a total ordering among all desired alignment points across rows, given that they may come from
// optional or repeated language constructs.
type ColumnPositionEntry struct {
	Path       []int
	Start      *token.Token
	Properties ColumnProperties
}

// CellScanner reports the sparse column positions of one row. Scanners are construct-specific and
// supplied by the upstream language layer.
type CellScanner func(row *format.Partition) []ColumnPositionEntry

// cell is a sub-range [lo, hi) of a row's format tokens, possibly empty.
type cell struct {
	tokens []format.Token // the row's full token slice
	lo, hi int

	compactWidth    int
	leftBorderWidth int
}

func (c *cell) isEmpty() bool { return c.hi == c.lo }

func (c *cell) slice() []format.Token { return c.tokens[c.lo:c.hi] }

func (c *cell) updateWidths() {
	c.compactWidth = cellWidth(c.slice())
	c.leftBorderWidth = 0
	if !c.isEmpty() {
		c.leftBorderWidth = c.tokens[c.lo].Before.Spaces
	}
}

// cellWidth sums token widths plus required inter-token spaces, excluding the leading space of
// the first token.
func cellWidth(tokens []format.Token) int {
	var width int
	for i := range tokens {
		if i > 0 {
			width += tokens[i].LeadingSpaces()
		}
		width += tokens[i].Width()
	}
	return width
}

// columnConfig aggregates the cells of one column: the maximum compact width and left border
// across all rows.
type columnConfig struct {
	width      int
	leftBorder int
}

func (c columnConfig) totalWidth() int { return c.leftBorder + c.width }

func (c *columnConfig) updateFromCell(cl *cell) {
	c.width = max(c.width, cl.compactWidth)
	c.leftBorder = max(c.leftBorder, cl.leftBorderWidth)
}

// aggregateColumn accumulates the scanner entries that map onto one unique syntax path.
type aggregateColumn struct {
	path []int
	// properties are taken from the first entry seen for the column; scanners are expected to
	// report consistent properties per path.
	properties ColumnProperties
}

// columnSchema is the sorted union of syntax paths across all rows, establishing a 1:1 mapping
// from path to column index.
type columnSchema struct {
	columns []aggregateColumn
}

func (cs *columnSchema) collect(entries []ColumnPositionEntry) {
	for _, e := range entries {
		i, found := slices.BinarySearchFunc(cs.columns, e.Path, func(c aggregateColumn, p []int) int {
			return slices.Compare(c.path, p)
		})
		if found {
			continue
		}
		cs.columns = slices.Insert(cs.columns, i, aggregateColumn{path: e.Path, properties: e.Properties})
	}
}

func (cs *columnSchema) indexOf(path []int) (int, bool) {
	return slices.BinarySearchFunc(cs.columns, path, func(c aggregateColumn, p []int) int {
		return slices.Compare(c.path, p)
	})
}

// fillRow translates a row's sparse column entries into a dense vector of cells. Skipped columns
// get zero-width cells; a final reverse pass sets each cell's upper bound to the next cell's
// lower bound.
func fillRow(tokens []format.Token, entries []ColumnPositionEntry, schema *columnSchema) ([]cell, bool) {
	row := make([]cell, len(schema.columns))
	for i := range row {
		row[i].tokens = tokens
	}

	tokenIdx := 0
	lastColumn := 0
	for _, e := range entries {
		column, found := schema.indexOf(e.Path)
		if !found || column < lastColumn {
			// Inconsistent scanner output; decline alignment for the group.
			return nil, false
		}

		for tokenIdx < len(tokens) && tokens[tokenIdx].Tok != e.Start {
			tokenIdx++
		}
		if tokenIdx == len(tokens) {
			return nil, false
		}

		// Null cells between the previous column and this one share the zero-width range at the
		// current token.
		for ; lastColumn <= column; lastColumn++ {
			row[lastColumn].lo = tokenIdx
			row[lastColumn].hi = tokenIdx
		}
	}
	for ; lastColumn < len(row); lastColumn++ {
		row[lastColumn].lo = len(tokens)
		row[lastColumn].hi = len(tokens)
	}

	upperBound := len(tokens)
	for i := len(row) - 1; i >= 0; i-- {
		row[i].hi = upperBound
		upperBound = row[i].lo
	}
	return row, true
}

// deferredAlignment is a saved spacing mutation, examined before applying so that alignment can
// be declined wholesale.
type deferredAlignment struct {
	tok       *format.Token
	newSpaces int
}

// alignVsFlushLeftDifference is the edit distance in spaces between aligned and flushed-left
// formatting of this token.
func (d deferredAlignment) alignVsFlushLeftDifference() int {
	return d.newSpaces - d.tok.Before.Spaces
}

func (d deferredAlignment) apply() {
	d.tok.Before.BreakDecision = format.AppendAligned
	d.tok.Before.Spaces = d.newSpaces
	d.tok.Before.Newlines = 0
}

// computeRowSpacings walks one row left to right, accruing the spacing of borders and empty cells
// and flushing it into the first token of each non-empty cell.
func computeRowSpacings(configs []columnConfig, schema *columnSchema, row []cell) []deferredAlignment {
	var actions []deferredAlignment
	accruedSpaces := 0
	for i := range row {
		accruedSpaces += configs[i].leftBorder
		if row[i].isEmpty() {
			accruedSpaces += configs[i].width
			continue
		}

		padding := configs[i].width - row[i].compactWidth
		var leftSpacing int
		if schema.columns[i].properties.FlushLeft {
			leftSpacing = accruedSpaces
			accruedSpaces = padding
		} else {
			leftSpacing = accruedSpaces + padding
			accruedSpaces = 0
		}
		actions = append(actions, deferredAlignment{tok: &row[i].tokens[row[i].lo], newSpaces: leftSpacing})
	}
	return actions
}

// Group is an alignable run of sibling partitions sharing structure, e.g. a list of port
// declarations. Each partition is one row.
type Group struct {
	Rows    []*format.Partition
	Scanner CellScanner
	Policy  Policy
}

// groupData holds the alignment calculations of one group. Empty actions mean alignment was
// declined or not applicable.
type groupData struct {
	matrix  [][]cell
	actions [][]deferredAlignment
}

func (d *groupData) maxAbsoluteAlignVsFlushLeftDifference() int {
	var result int
	for _, actions := range d.actions {
		for _, a := range actions {
			if diff := a.alignVsFlushLeftDifference(); diff > result {
				result = diff
			} else if -diff > result {
				result = -diff
			}
		}
	}
	return result
}

// calculate computes the dry-run alignment spacings for the group without mutating any token.
func (g *Group) calculate(limit int) groupData {
	var data groupData
	// Alignment requires 2+ rows.
	if len(g.Rows) <= 1 {
		return data
	}

	schema := &columnSchema{}
	entriesPerRow := make([][]ColumnPositionEntry, len(g.Rows))
	for i, row := range g.Rows {
		entriesPerRow[i] = g.Scanner(row)
		schema.collect(entriesPerRow[i])
	}

	data.matrix = make([][]cell, len(g.Rows))
	for i, row := range g.Rows {
		filled, ok := fillRow(row.Line.Tokens(), entriesPerRow[i], schema)
		if !ok {
			return groupData{}
		}
		data.matrix[i] = filled
	}

	for _, row := range data.matrix {
		for i := range row {
			row[i].updateWidths()
		}
		// The leftmost border is forced to 0: that position is determined by the partition's
		// indentation, not by alignment.
		if len(row) > 0 {
			row[0].leftBorderWidth = 0
		}
	}

	configs := make([]columnConfig, len(schema.columns))
	for _, row := range data.matrix {
		for i := range row {
			configs[i].updateFromCell(&row[i])
		}
	}

	// Assume indentation is the same for all partitions in the group.
	totalColumnWidth := g.Rows[0].Line.Indent()
	for _, c := range configs {
		totalColumnWidth += c.totalWidth()
	}
	if totalColumnWidth > limit {
		return data
	}
	if !g.rowsFitUnderLimit(data.matrix, totalColumnWidth, limit) {
		return data
	}

	data.actions = make([][]deferredAlignment, 0, len(data.matrix))
	for _, row := range data.matrix {
		data.actions = append(data.actions, computeRowSpacings(configs, schema, row))
	}
	return data
}

// rowsFitUnderLimit also accounts for the unaligned epilog of each row, e.g. trailing comments
// that follow the last aligned column.
func (g *Group) rowsFitUnderLimit(matrix [][]cell, totalColumnWidth, limit int) bool {
	for i, row := range matrix {
		if len(row) == 0 {
			continue
		}
		epilog := g.Rows[i].Line.Tokens()[row[len(row)-1].hi:]
		if totalColumnWidth+cellWidth(epilog) > limit {
			return false
		}
	}
	return true
}

// inferPolicy guesses whether the user wants alignment. Rules are priority ordered: cheap
// alignment is forced, near-flush-left input stays flush left, gratuitous extra spacing triggers
// alignment, anything else preserves the original spacing.
func (g *Group) inferPolicy(data *groupData) Policy {
	const forceAlignMaxThreshold = 2
	if data.maxAbsoluteAlignVsFlushLeftDifference() <= forceAlignMaxThreshold {
		return Align
	}

	maxExcessSpaces := 0
	for _, row := range g.Rows {
		tokens := row.Line.Tokens()
		for i := 1; i < len(tokens); i++ {
			orig := tokens[i].Tok.Offset - tokens[i-1].Tok.EndOffset()
			if tokens[i].Tok.Start.Line != tokens[i-1].Tok.End.Line {
				continue
			}
			if excess := orig - tokens[i].Before.Spaces; excess > maxExcessSpaces {
				maxExcessSpaces = excess
			}
		}
	}

	const flushLeftMaxThreshold = 2
	if maxExcessSpaces <= flushLeftMaxThreshold {
		return FlushLeft
	}
	const forceAlignMinThreshold = 4
	if maxExcessSpaces >= forceAlignMinThreshold {
		return Align
	}
	return Preserve
}

// apply mutates the spacing contracts with the calculated alignment and commits the decisions:
// every still-undecided token is promoted to must-append and the whole subtree of every row is
// tagged as successfully aligned so later passes skip it.
func (g *Group) apply(data *groupData) {
	for _, actions := range data.actions {
		for _, a := range actions {
			a.apply()
		}
	}

	for i, row := range data.matrix {
		if len(row) == 0 {
			continue
		}
		tokens := g.Rows[i].Line.Tokens()
		for j := range tokens {
			if tokens[j].Before.BreakDecision == format.Undecided {
				tokens[j].Before.BreakDecision = format.MustAppend
			}
		}
		g.Rows[i].PostOrder(func(node *format.Partition) {
			node.Line.SetPolicy(format.SuccessfullyAligned)
		})
	}
}

// Align computes and, depending on the user-elected or inferred policy, applies column alignment
// to the group.
func (g *Group) Align(s style.Style) {
	policy := g.Policy
	var data groupData
	switch policy {
	case Align, Infer:
		data = g.calculate(s.ColumnLimit)
	}

	if policy == Infer {
		policy = g.inferPolicy(&data)
	}

	switch policy {
	case Align:
		if len(data.actions) > 0 {
			g.apply(&data)
		}
	case FlushLeft:
		// Flush left is the default behavior elsewhere. Nothing to do.
	default:
		IndentOnly(g.Rows)
	}
}

// Tabular aligns each group in turn. A group that overlaps a formatting-disabled byte range is
// left unformatted except for its indentation.
func Tabular(groups []Group, disabled format.ByteRanges, s style.Style) {
	for _, g := range groups {
		if len(g.Rows) == 0 {
			continue
		}
		partiallyDisabled := false
		for _, row := range g.Rows {
			if disabled.IntersectsLine(&row.Line) {
				partiallyDisabled = true
				break
			}
		}
		if partiallyDisabled {
			IndentOnly(g.Rows)
			continue
		}
		g.Align(s)
	}
}

// IndentOnly leaves the rows unformatted except for their indentation: each row starts on a fresh
// line at its own indent and every other token keeps its original spacing bytes.
func IndentOnly(rows []*format.Partition) {
	for _, row := range rows {
		tokens := row.Line.Tokens()
		for i := range tokens {
			if i == 0 {
				tokens[i].Before.BreakDecision = format.MustWrap
				tokens[i].Before.Newlines = 1
				tokens[i].Before.Spaces = row.Line.Indent()
			} else {
				prevEnd := tokens[i-1].Tok.EndOffset()
				tokens[i].Before.BreakDecision = format.Preserve
				tokens[i].Before.PreservedOffset = prevEnd
				tokens[i].Before.PreservedLen = tokens[i].Tok.Offset - prevEnd
			}
		}
		row.PostOrder(func(node *format.Partition) {
			node.Line.SetPolicy(format.SuccessfullyAligned)
		})
	}
}
