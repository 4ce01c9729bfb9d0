package format

import (
	"fmt"
	"strings"
)

// Partition is one node of the partition tree. A parent's token range is the concatenation of its
// children's ranges, in order, with no gaps and no overlap. Leaves span non-empty ranges; inner
// nodes' policies decide how children's outputs combine.
type Partition struct {
	Line     UnwrappedLine
	Children []*Partition
}

// NewPartition returns a leaf partition carrying line.
func NewPartition(line UnwrappedLine) *Partition {
	return &Partition{Line: line}
}

// IsLeaf reports whether the partition has no children.
func (p *Partition) IsLeaf() bool { return len(p.Children) == 0 }

// AdoptSubtree appends child to the partition's children. Subtrees move whole; the tree stays
// strictly tree-shaped.
func (p *Partition) AdoptSubtree(child *Partition) {
	p.Children = append(p.Children, child)
}

// AdoptSubtreesFrom moves all of other's children to the end of p's children.
func (p *Partition) AdoptSubtreesFrom(other *Partition) {
	p.Children = append(p.Children, other.Children...)
	other.Children = nil
}

// PreOrder visits p and then every descendant, parents before children.
func (p *Partition) PreOrder(visit func(*Partition)) {
	visit(p)
	for _, c := range p.Children {
		c.PreOrder(visit)
	}
}

// PostOrder visits every descendant and then p, children before parents.
func (p *Partition) PostOrder(visit func(*Partition)) {
	for _, c := range p.Children {
		c.PostOrder(visit)
	}
	visit(p)
}

// Leaves appends all leaf partitions under p, in order, to out and returns it.
func (p *Partition) Leaves(out []*Partition) []*Partition {
	if p.IsLeaf() {
		return append(out, p)
	}
	for _, c := range p.Children {
		out = c.Leaves(out)
	}
	return out
}

// String renders the subtree one node per line with two-space nesting, for debugging.
func (p *Partition) String() string {
	var sb strings.Builder
	p.write(&sb, 0)
	return sb.String()
}

func (p *Partition) write(sb *strings.Builder, depth int) {
	fmt.Fprintf(sb, "%s%s\n", strings.Repeat("  ", depth), p.Line.String())
	for _, c := range p.Children {
		c.write(sb, depth+1)
	}
}
