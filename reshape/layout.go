package reshape

import (
	"fmt"

	"github.com/teleivo/svfmt/format"
)

// LayoutType tags the five layout variants a subtree can be rendered as.
type LayoutType int

const (
	// LayoutText renders one unwrapped line as-is. Text layouts are always leaves.
	LayoutText LayoutType = iota
	// LayoutLine composes children horizontally on a shared line.
	LayoutLine
	// LayoutStack composes children vertically, one below the other.
	LayoutStack
	// LayoutChoice selects the cheapest of its children.
	LayoutChoice
	// LayoutWrap packs children into as few lines as fit.
	LayoutWrap
)

// String returns the layout type in the spelling used by debug output.
func (t LayoutType) String() string {
	switch t {
	case LayoutText:
		return "text"
	case LayoutLine:
		return "<horizontal>"
	case LayoutStack:
		return "<vertical>"
	case LayoutChoice:
		return "<choice>"
	case LayoutWrap:
		return "<wrap>"
	default:
		panic(fmt.Sprintf("missing String() case for reshape.LayoutType: %d", int(t)))
	}
}

// Layout is one node value of the layout tree: a tagged variant plus, for text layouts, the
// unwrapped line it renders.
type Layout struct {
	Type LayoutType
	Line format.UnwrappedLine
}

// LayoutTree is the solver's intermediate block tree. Nodes may be referenced by multiple knots
// during choice solving; ownership becomes exclusive once a winner is materialized.
type LayoutTree struct {
	Value    Layout
	Children []*LayoutTree
}

func newTextTree(line format.UnwrappedLine) *LayoutTree {
	return &LayoutTree{Value: Layout{Type: LayoutText, Line: line}}
}

func newTree(t LayoutType, children ...*LayoutTree) *LayoutTree {
	return &LayoutTree{Value: Layout{Type: t}, Children: children}
}

// adoptSubtree appends child to the node's children.
func (t *LayoutTree) adoptSubtree(child *LayoutTree) {
	t.Children = append(t.Children, child)
}

// deepCopy clones the subtree. Lines are value types, so copies stay range-views over the shared
// token array.
func (t *LayoutTree) deepCopy() *LayoutTree {
	out := &LayoutTree{Value: t.Value}
	out.Children = make([]*LayoutTree, len(t.Children))
	for i, c := range t.Children {
		out.Children[i] = c.deepCopy()
	}
	return out
}

// applyPreOrder visits t and every descendant, parents before children.
func (t *LayoutTree) applyPreOrder(visit func(*LayoutTree)) {
	visit(t)
	for _, c := range t.Children {
		c.applyPreOrder(visit)
	}
}

// applyPostOrder visits every descendant and then t, children before parents.
func (t *LayoutTree) applyPostOrder(visit func(*LayoutTree)) {
	for _, c := range t.Children {
		c.applyPostOrder(visit)
	}
	visit(t)
}
