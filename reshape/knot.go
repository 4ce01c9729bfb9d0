// Package reshape chooses how to compose the children of a partition subtree — horizontally,
// vertically, or wrapped — so the resulting text minimizes a cost functional over all legal
// starting columns, then materializes the choice as a new partition subtree.
//
// Every subtree's value is a knot set: a piecewise-linear, convex cost function of the starting
// column. Three operators combine child knot sets — horizontal concatenation, vertical stacking,
// and the pointwise lower envelope — and a dynamic program built on them solves the wrap policy.
package reshape

import (
	"fmt"
	"math"
	"strings"

	"github.com/teleivo/svfmt/style"
)

// Knot is a breakpoint on a piecewise-linear cost curve. The line
// cost(m) = Intercept + Gradient*(m-Column) is valid from Column until the next knot's column.
type Knot struct {
	// Column is the starting column at which this piece begins.
	Column int
	// Span is the visible width of the last line of this layout, used when composing
	// horizontally.
	Span int
	// Intercept and Gradient describe the cost line of this piece.
	Intercept float64
	Gradient  float64
	// BeforeSpaces is the minimum space budget needed before this layout when composed to the
	// right of another.
	BeforeSpaces int
	// Layout is the concrete layout realizing this piece.
	Layout *LayoutTree
}

// newKnot builds a knot. For text layouts the leading-space budget is taken from the first
// token's spacing contract, overriding beforeSpaces.
func newKnot(column, span int, intercept, gradient float64, layout *LayoutTree, beforeSpaces int) Knot {
	if layout != nil && layout.Value.Type == LayoutText {
		if line := &layout.Value.Line; line.Size() > 0 {
			beforeSpaces = line.Tokens()[0].Before.Spaces
		}
	}
	return Knot{
		Column: column, Span: span, Intercept: intercept, Gradient: gradient,
		BeforeSpaces: beforeSpaces, Layout: layout,
	}
}

// KnotSet is a sequence of knots in strictly increasing column, describing a subtree's complete
// cost-vs-starting-column function on [0, ∞). The empty set stands for zero cost everywhere and
// is produced only by childless choice and wrap layouts.
type KnotSet []Knot

// Clone returns a copy of the set. Layout references are shared; during choice solving multiple
// knots may reference the same layout and the driver takes exclusive ownership only after
// selecting a winner.
func (ks KnotSet) Clone() KnotSet {
	out := make(KnotSet, len(ks))
	copy(out, ks)
	return out
}

// PlusConst returns a copy of the set with value added to every intercept.
func (ks KnotSet) PlusConst(value float64) KnotSet {
	out := ks.Clone()
	for i := range out {
		out[i].Intercept += value
	}
	return out
}

// withRestOfLine composes the set with the cost curve of the text that will follow it on its last
// line. An empty rest-of-line leaves the curve unchanged.
func (ks KnotSet) withRestOfLine(rest KnotSet, s style.Style) KnotSet {
	if len(rest) == 0 {
		return ks.Clone()
	}
	if len(ks) == 0 {
		return rest.Clone()
	}
	return hPlus(ks, rest, s)
}

// ValueAt evaluates the curve at margin m.
func (ks KnotSet) ValueAt(m int) float64 {
	c := cursor{set: ks}
	c.moveToMargin(m)
	return c.valueAt(m)
}

// String renders the knots as (column span intercept gradient) tuples for debugging.
func (ks KnotSet) String() string {
	var sb strings.Builder
	for i, k := range ks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%d %d %g %g)", k.Column, k.Span, k.Intercept, k.Gradient)
	}
	return sb.String()
}

// cursor walks a knot set. It is an input iterator that can be repositioned to any margin by
// scanning forward or back through the knot array; it never mutates the set.
type cursor struct {
	set KnotSet
	idx int
}

func (c *cursor) knot() *Knot { return &c.set[c.idx] }

func (c *cursor) column() int { return c.set[c.idx].Column }

// valueAt evaluates the current piece at margin m.
func (c *cursor) valueAt(m int) float64 {
	k := c.knot()
	return k.Intercept + k.Gradient*float64(m-k.Column)
}

// nextKnot returns the column of the following knot, or math.MaxInt past the last piece.
func (c *cursor) nextKnot() int {
	if c.idx+1 >= len(c.set) {
		return math.MaxInt
	}
	return c.set[c.idx+1].Column
}

// moveToMargin repositions the cursor onto the piece containing margin m.
func (c *cursor) moveToMargin(m int) {
	if c.column() > m {
		for c.column() > m {
			c.idx--
		}
	} else {
		for c.nextKnot() <= m {
			c.idx++
		}
	}
}
