package svfmt_test

import (
	"fmt"

	"github.com/teleivo/svfmt"
	"github.com/teleivo/svfmt/format"
	"github.com/teleivo/svfmt/style"
)

// ExampleFormatter_Format formats a call whose arguments do not fit next to the callee: the
// layout solver stacks the argument list onto a continuation line indented by the wrap spaces.
func ExampleFormatter_Format() {
	src := "ffffffffff aaaaa bbbbb"
	tokens := newTokens(src)

	root := format.NewUnwrappedLine(0, tokens, 0)
	root.SpanUpToIndex(3)
	root.SetPolicy(format.ApplyOptimalLayout)
	p := format.NewPartition(root)

	head := format.NewUnwrappedLine(0, tokens, 0)
	head.SpanUpToIndex(2)
	p.AdoptSubtree(format.NewPartition(head))

	tail := format.NewUnwrappedLine(0, tokens, 2)
	tail.SpanUpToIndex(3)
	p.AdoptSubtree(format.NewPartition(tail))

	s := style.Default()
	s.ColumnLimit = 20

	result := svfmt.NewFormatter(s, []byte(src)).Format(p)
	fmt.Print(result.Text)
	// Output:
	// ffffffffff aaaaa
	//     bbbbb
}
