package reshape

import (
	"math"

	"github.com/teleivo/svfmt/format"
	"github.com/teleivo/svfmt/internal/assert"
	"github.com/teleivo/svfmt/style"
)

// cpack biases the wrap dynamic program toward fewer, longer lines: a break placed after child j
// of n pays n-j times this much.
const cpack = 1e-3

// hPlus is horizontal concatenation: at each starting column m the combined cost equals
// left(m) + right(m + left.span + right.leadingSpaces), adjusted so the over-limit region past
// the right layout's shifted origin is not double counted. Both knot sequences are walked in
// lock-step, advancing whichever knot goes stale next.
func hPlus(left, right KnotSet, s style.Style) KnotSet {
	var ret KnotSet

	s1 := cursor{set: left}
	s2 := cursor{set: right}

	s1Margin := 0
	s2Margin := s1.knot().Span + s2.knot().BeforeSpaces
	s2.moveToMargin(s2Margin)

	for {
		g1 := s1.knot().Gradient
		g2 := s2.knot().Gradient

		overhang := s2Margin - s.ColumnLimit
		gCur := g1 + g2
		iCur := s1.valueAt(s1Margin) + s2.valueAt(s2Margin)
		if overhang >= 0 {
			gCur -= float64(s.OverColumnLimitPenalty)
			iCur -= float64(s.OverColumnLimitPenalty * overhang)
		}

		ret = append(ret, newKnot(
			s1Margin, s1.knot().Span+s2.knot().Span+s2.knot().BeforeSpaces, iCur, gCur,
			newTree(LayoutLine, s1.knot().Layout, s2.knot().Layout), s1.knot().BeforeSpaces))

		kn1 := s1.nextKnot()
		kn2 := s2.nextKnot()
		if kn1 == math.MaxInt && kn2 == math.MaxInt {
			break
		}

		if kn1-s1Margin <= kn2-s2Margin {
			s1.idx++
			s1Margin = kn1
			s2Margin = s1Margin + s1.knot().Span + s2.knot().BeforeSpaces
			s2.moveToMargin(s2Margin)
		} else {
			s2.idx++
			s2Margin = kn2
			s1Margin = s2Margin - s1.knot().Span - s2.knot().BeforeSpaces
		}
	}

	return ret
}

// vSum is vertical stacking: at each starting column the combined cost is the sum of all
// children's costs at that column. The next knot is the smallest next knot across all child
// cursors; after each step every cursor is advanced to the new margin.
func vSum(sets []KnotSet, s style.Style) KnotSet {
	nonEmpty := make([]KnotSet, 0, len(sets))
	for _, set := range sets {
		if len(set) > 0 {
			nonEmpty = append(nonEmpty, set)
		}
	}
	if len(nonEmpty) == 0 {
		return KnotSet{}
	}

	cursors := make([]cursor, len(nonEmpty))
	for i, set := range nonEmpty {
		cursors[i] = cursor{set: set}
	}

	var ret KnotSet
	margin := 0
	for {
		var iCur, gCur float64
		stacked := newTree(LayoutStack)
		for i := range cursors {
			iCur += cursors[i].valueAt(margin)
			gCur += cursors[i].knot().Gradient
			stacked.adoptSubtree(cursors[i].knot().Layout)
		}
		last := len(cursors) - 1
		ret = append(ret, newKnot(margin, cursors[last].knot().Span, iCur, gCur, stacked,
			cursors[0].knot().BeforeSpaces))

		dStar := math.MaxInt
		for i := range cursors {
			kn := cursors[i].nextKnot()
			if kn == math.MaxInt || kn <= margin {
				continue
			}
			if kn-margin < dStar {
				dStar = kn - margin
			}
		}
		if dStar == math.MaxInt {
			break
		}

		margin += dStar
		for i := range cursors {
			cursors[i].moveToMargin(margin)
		}
	}

	return ret
}

// minOf is the pointwise lower envelope of several knot sets: at each starting column the
// cheapest candidate is selected, and a new knot is emitted wherever two candidates' cost lines
// cross within the current segment.
func minOf(sets []KnotSet, s style.Style) KnotSet {
	nonEmpty := make([]KnotSet, 0, len(sets))
	for _, set := range sets {
		if len(set) > 0 {
			nonEmpty = append(nonEmpty, set)
		}
	}
	if len(nonEmpty) == 0 {
		return KnotSet{}
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0].Clone()
	}

	cursors := make([]cursor, len(nonEmpty))
	for i, set := range nonEmpty {
		cursors[i] = cursor{set: set}
	}

	var ret KnotSet
	kl := 0
	lastMinSet := -1
	lastMinIdx := -1

	for kl < math.MaxInt {
		kh := math.MaxInt - 1
		for i := range cursors {
			if kn := cursors[i].nextKnot(); kn-1 < kh {
				kh = kn - 1
			}
		}

		gradients := make([]float64, len(cursors))
		for i := range cursors {
			gradients[i] = cursors[i].knot().Gradient
		}

		for {
			values := make([]float64, len(cursors))
			for i := range cursors {
				values[i] = cursors[i].valueAt(kl)
			}

			// Ties go to the smaller gradient: at an exact crossing the flatter line wins the
			// columns to the right, and the crossover scan below only looks strictly ahead.
			iMin := 0
			for i, v := range values {
				if v < values[iMin] || (v == values[iMin] && gradients[i] < gradients[iMin]) {
					iMin = i
				}
			}
			minValue := values[iMin]
			minGradient := gradients[iMin]
			minCursor := &cursors[iMin]

			if iMin != lastMinSet || minCursor.idx != lastMinIdx {
				k := minCursor.knot()
				ret = append(ret, newKnot(kl, k.Span, minValue, minGradient, k.Layout, k.BeforeSpaces))
				lastMinSet = iMin
				lastMinIdx = minCursor.idx
			}

			// Find the nearest crossover with any candidate whose line undercuts the current
			// minimum further right.
			crossover := math.MaxInt
			for i := range cursors {
				if gradients[i] >= minGradient {
					continue
				}
				gamma := (values[i] - minValue) / (minGradient - gradients[i])
				d := int(math.Ceil(gamma))
				if d > 0 && kl+d <= kh && kl+d < crossover {
					crossover = kl + d
				}
			}

			if crossover < math.MaxInt {
				kl = crossover
			} else {
				kl = kh + 1
				if kl < math.MaxInt {
					for i := range cursors {
						cursors[i].moveToMargin(kl)
					}
				}
				break
			}
		}
	}

	return ret
}

// lineWidth is the width of the line rendered compactly, including its indentation.
func lineWidth(line *format.UnwrappedLine) int {
	w, _ := line.CompactWidth()
	return line.Indent() + w
}

// solve computes the knot set of the layout subtree, composed with the cost curve of the text
// that will share its last line.
func solve(tree *LayoutTree, restOfLine KnotSet, s style.Style) KnotSet {
	switch tree.Value.Type {
	case LayoutText:
		if len(restOfLine) > 0 {
			return solve(tree, KnotSet{}, s).withRestOfLine(restOfLine, s)
		}

		line := tree.Value.Line
		span := lineWidth(&line)
		leaf := newTextTree(line)
		over := float64(s.OverColumnLimitPenalty)
		if span >= s.ColumnLimit {
			return KnotSet{
				newKnot(0, span, float64(span-s.ColumnLimit)*over, over, leaf, 0),
			}
		}
		return KnotSet{
			newKnot(0, span, 0, 0, leaf, 0),
			newKnot(s.ColumnLimit-span, span, 0, over, leaf, 0),
		}

	case LayoutStack:
		n := len(tree.Children)
		solutions := make([]KnotSet, 0, n)
		for _, child := range tree.Children[:n-1] {
			solutions = append(solutions, solve(child, KnotSet{}, s))
		}
		solutions = append(solutions, solve(tree.Children[n-1], restOfLine, s))

		set := vSum(solutions, s)
		return set.PlusConst(float64((n - 1) * s.LineBreakPenalty))

	case LayoutLine:
		set := restOfLine.Clone()
		for i := len(tree.Children) - 1; i >= 0; i-- {
			set = solve(tree.Children[i], set, s)
		}
		return set

	case LayoutChoice:
		if len(tree.Children) == 0 {
			return KnotSet{}
		}
		// Alternatives are exclusive, so each must pay for the same continuation.
		solutions := make([]KnotSet, 0, len(tree.Children))
		for _, child := range tree.Children {
			solutions = append(solutions, solve(child, restOfLine, s))
		}
		return minOf(solutions, s)

	case LayoutWrap:
		n := len(tree.Children)
		if n == 0 {
			return KnotSet{}
		}

		eltLayouts := make([]KnotSet, n)
		for i, child := range tree.Children {
			eltLayouts[i] = solve(child, KnotSet{}, s)
		}

		// Fill from the end: wrap[i] is the best layout of the suffix starting at child i,
		// choosing per position between breaking (stack on top of wrap[j+1]) and extending the
		// current line.
		wrapSolutions := make([]KnotSet, n)
		for i := n - 1; i >= 0; i-- {
			var candidates []KnotSet
			lineLayout := eltLayouts[i]
			for j := i; j < n-1; j++ {
				full := vSum([]KnotSet{lineLayout, wrapSolutions[j+1]}, s)
				candidates = append(candidates,
					full.PlusConst(float64(s.LineBreakPenalty)+cpack*float64(n-j)))
				lineLayout = lineLayout.withRestOfLine(eltLayouts[j+1], s)
			}
			candidates = append(candidates, lineLayout.withRestOfLine(restOfLine, s))
			wrapSolutions[i] = minOf(candidates, s)
		}

		return wrapSolutions[0]

	default:
		panic("reshape: unknown layout type")
	}
}

// buildLayoutTree derives the solver's block tree from a partition subtree: partition policies map
// to layout variants, text layouts containing forced breaks are split into vertical stacks, and
// choice layouts are expanded into their horizontal and vertical alternatives.
func buildLayoutTree(p *format.Partition, s style.Style) *LayoutTree {
	tree := transformPartition(p)

	// Split text layouts at forced breaks into a stack of single-line texts.
	tree.applyPostOrder(func(node *LayoutTree) {
		if node.Value.Type != LayoutText {
			return
		}
		line := node.Value.Line
		if _, singleLine := line.CompactWidth(); singleLine {
			return
		}

		tokens := line.Tokens()
		start := line.StartIndex()
		bounds := []int{start}
		for i := 1; i < len(tokens); i++ {
			if tokens[i].Before.BreakDecision == format.MustWrap {
				bounds = append(bounds, start+i)
			}
		}

		node.Value.Type = LayoutStack
		for bi, b := range bounds {
			end := line.EndIndex()
			if bi+1 < len(bounds) {
				end = bounds[bi+1]
			}
			node.adoptSubtree(newTextTree(sliceLine(&line, b, end)))
		}
	})

	// Expand each choice into its two concrete alternatives: everything on one line, or the
	// stack with continuation lines indented by the wrap spaces.
	tree.applyPostOrder(func(node *LayoutTree) {
		if node.Value.Type != LayoutChoice {
			return
		}

		lineTree := node.deepCopy()
		lineTree.Value.Type = LayoutLine
		stackTree := node.deepCopy()
		stackTree.Value.Type = LayoutStack
		if len(stackTree.Children) > 1 {
			stackTree.Children[1].applyPreOrder(func(n *LayoutTree) {
				n.Value.Line.SetIndent(n.Value.Line.Indent() + s.WrapSpaces)
			})
		}

		node.Children = nil
		node.adoptSubtree(lineTree)
		node.adoptSubtree(stackTree)
	})

	return tree
}

// transformPartition maps the partition subtree onto a layout tree of the same shape.
func transformPartition(p *format.Partition) *LayoutTree {
	node := &LayoutTree{Value: Layout{Type: LayoutText, Line: p.Line}}
	if !p.IsLeaf() {
		switch p.Line.Policy() {
		case format.ApplyOptimalLayout:
			node.Value.Type = LayoutChoice
		case format.WrapSubPartitions:
			node.Value.Type = LayoutWrap
		default:
			node.Value.Type = LayoutText
		}
	}
	for _, c := range p.Children {
		node.adoptSubtree(transformPartition(c))
	}
	return node
}

// sliceLine returns a zero-indent line over the same shared token array spanning [start, end).
func sliceLine(line *format.UnwrappedLine, start, end int) format.UnwrappedLine {
	sub := *line
	sub.SetIndent(0)
	sub.SpanBackToIndex(start)
	sub.SpanUpToIndex(end)
	return sub
}

// buildPartitionTree converts a solved layout back to a partition tree. Choice and wrap layouts
// must have been resolved by the solver; a residual one is an implementation bug.
func buildPartitionTree(layout *LayoutTree, s style.Style) *format.Partition {
	switch layout.Value.Type {
	case LayoutText:
		return format.NewPartition(layout.Value.Line)

	case LayoutStack:
		if len(layout.Children) == 0 {
			return format.NewPartition(layout.Value.Line)
		}
		if len(layout.Children) == 1 {
			return buildPartitionTree(layout.Children[0], s)
		}

		var tree *format.Partition
		for _, child := range layout.Children {
			sub := buildPartitionTree(child, s)
			if tree == nil {
				root := sub.Line
				tree = format.NewPartition(root)
				tree.Line.SetPolicy(format.AlwaysExpand)
			}

			if sub.IsLeaf() {
				tree.Line.SpanUpToIndex(sub.Line.EndIndex())
				tree.AdoptSubtree(sub)
			} else {
				for _, grandchild := range sub.Children {
					assert.That(grandchild.IsLeaf(), "stack materialization: grandchild of %s is not a leaf", sub.Line.String())
					tree.Line.SpanUpToIndex(grandchild.Line.EndIndex())
					tree.AdoptSubtree(grandchild)
				}
			}
		}
		return tree

	case LayoutLine:
		assert.That(len(layout.Children) == 2, "horizontal layout with %d children", len(layout.Children))

		tree1 := buildPartitionTree(layout.Children[0], s)
		tree2 := buildPartitionTree(layout.Children[1], s)
		return mergeHorizontally(tree1, tree2, s)

	case LayoutChoice, LayoutWrap:
		assert.Unreachable("reshape: unresolved %s layout reached materialization", layout.Value.Type)
		return nil

	default:
		assert.Unreachable("reshape: unknown layout type %d", int(layout.Value.Type))
		return nil
	}
}

// mergeHorizontally fuses two materialized partitions that share a line. When both are leaves
// their token ranges merge into one line. When the right side is expanded, its first child is
// merged into the left and the remainder is adopted as siblings, re-indented by the merged first
// line's width.
func mergeHorizontally(tree1, tree2 *format.Partition, s style.Style) *format.Partition {
	switch {
	case tree1.IsLeaf() && tree2.IsLeaf():
		line := tree1.Line
		line.SpanUpToIndex(tree2.Line.EndIndex())
		line.SetPolicy(format.AlwaysExpand)
		return format.NewPartition(line)

	case tree1.IsLeaf() && len(tree2.Children) >= 2:
		indent := lineWidth(&tree1.Line)
		selfIndent := tree1.Line.Indent()

		// One extra space when the merged first line is wider than its parts, i.e. an
		// inter-token space appears at the seam.
		extraSpaces := 0
		{
			seam := tree1.Line
			seam.SpanUpToIndex(tree2.Children[0].Line.EndIndex())
			if lineWidth(&seam)-indent-lineWidth(&tree2.Children[0].Line) > 0 {
				extraSpaces = 1
			}
		}

		line := tree1.Line
		line.SpanUpToIndex(tree2.Line.EndIndex())
		line.SetPolicy(format.AlwaysExpand)
		tree := format.NewPartition(line)

		{
			first := tree1.Line
			first.SpanUpToIndex(tree2.Children[0].Line.EndIndex())
			first.SetPolicy(format.AlwaysExpand)
			tree.AdoptSubtree(format.NewPartition(first))

			tree2.Children = tree2.Children[1:]
			tree2.Line.SpanBackToIndex(tree2.Children[0].Line.StartIndex())
		}

		tree2.PreOrder(func(node *format.Partition) {
			node.Line.SetIndent(node.Line.Indent() + indent - selfIndent + extraSpaces)
		})
		tree.AdoptSubtreesFrom(tree2)
		return tree

	case len(tree1.Children) >= 2 && tree2.IsLeaf():
		tree1.Line.SpanUpToIndex(tree2.Line.EndIndex())
		last := tree1.Children[len(tree1.Children)-1]
		last.Line.SpanUpToIndex(tree2.Line.EndIndex())
		return tree1

	default:
		assert.Unreachable("reshape: unsupported horizontal merge of %d and %d children",
			len(tree1.Children), len(tree2.Children))
		return nil
	}
}

// Reshape solves the partition subtree's layout and replaces its children with the reshaped
// arrangement. The solver works on a zero-indent subtree; the caller's indentation is subtracted
// from the column limit before solving and restored afterwards.
func Reshape(p *format.Partition, s style.Style) {
	indent := p.Line.Indent()
	p.PreOrder(func(node *format.Partition) {
		node.Line.SetIndent(0)
	})

	layoutTree := buildLayoutTree(p, s)

	reduced := s
	reduced.ColumnLimit -= indent

	solution := solve(layoutTree, KnotSet{}, reduced)
	if len(solution) == 0 {
		p.Line.SetIndent(indent)
		return
	}

	reshaped := buildPartitionTree(solution[0].Layout, reduced)
	policy := reshaped.Line.Policy()
	p.Children = nil
	p.AdoptSubtreesFrom(reshaped)
	p.PreOrder(func(node *format.Partition) {
		node.Line.SetIndent(node.Line.Indent() + indent)
	})
	p.Line.SetPolicy(policy)
}
