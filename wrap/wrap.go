// Package wrap chooses a spacing decision for every format token of one unwrapped line, minimizing
// the total penalty of line breaks and column-limit overruns.
//
// The search is Dijkstra-style: a min-heap of partial placements ordered by cumulative penalty is
// expanded best-first until the first complete placement is popped, which by construction has
// minimal penalty. Ties are broken first-found to keep output stable across runs. The search never
// fails hard; when the state bound is exceeded the best partial placement is finished greedily and
// the result is flagged as incomplete.
package wrap

import (
	"container/heap"

	"github.com/teleivo/svfmt/format"
	"github.com/teleivo/svfmt/style"
)

// stateNode is a partial placement: the prefix of tokens placed so far, the column after the last
// placed token, the cumulative penalty, and a back-pointer to the parent state with the decision
// taken. States are shared by pointer so a winning path can be reconstructed without copying.
type stateNode struct {
	parent  *stateNode
	action  format.SpacingDecision
	spaces  int // spaces bound before the placed token, after the newline for wraps
	depth   int // number of tokens placed
	column  int
	penalty int
}

// searchQueue is a min-heap over states keyed on (penalty, insertion sequence). The sequence
// number makes equal-penalty pops first-come-first-served.
type searchQueue struct {
	states []*stateNode
	seqs   []int
	seq    int
}

func (q *searchQueue) Len() int { return len(q.states) }

func (q *searchQueue) Less(i, j int) bool {
	if q.states[i].penalty != q.states[j].penalty {
		return q.states[i].penalty < q.states[j].penalty
	}
	return q.seqs[i] < q.seqs[j]
}

func (q *searchQueue) Swap(i, j int) {
	q.states[i], q.states[j] = q.states[j], q.states[i]
	q.seqs[i], q.seqs[j] = q.seqs[j], q.seqs[i]
}

func (q *searchQueue) Push(x any) {
	q.states = append(q.states, x.(*stateNode))
	q.seqs = append(q.seqs, q.seq)
	q.seq++
}

func (q *searchQueue) Pop() any {
	n := len(q.states) - 1
	s := q.states[n]
	q.states = q.states[:n]
	q.seqs = q.seqs[:n]
	return s
}

// seed places the first token at the indentation column.
func seed(line *format.UnwrappedLine, s style.Style) *stateNode {
	first := &line.Tokens()[0]
	column := line.Indent() + first.Width()
	var penalty int
	if over := column - s.ColumnLimit; over > 0 {
		penalty = over * s.OverColumnLimitPenalty
	}
	return &stateNode{action: format.Appended, depth: 1, column: column, penalty: penalty}
}

// appendToken returns the child state that places tok on the current line.
func appendToken(st *stateNode, tok *format.Token, s style.Style) *stateNode {
	spaces := tok.Before.Spaces
	column := st.column + spaces + tok.Width()
	penalty := st.penalty
	if over := column - s.ColumnLimit; over > 0 {
		penalty += over * s.OverColumnLimitPenalty
	}
	action := format.Appended
	if tok.Before.BreakDecision == format.AppendAligned {
		action = format.Aligned
	}
	return &stateNode{
		parent: st, action: action, spaces: spaces,
		depth: st.depth + 1, column: column, penalty: penalty,
	}
}

// wrapToken returns the child state that places tok on a fresh continuation line.
func wrapToken(st *stateNode, line *format.UnwrappedLine, tok *format.Token, s style.Style) *stateNode {
	spaces := line.Indent() + s.WrapSpaces
	column := spaces + tok.Width()
	penalty := st.penalty + tok.BreakPenalty
	if over := column - s.ColumnLimit; over > 0 {
		penalty += over * s.OverColumnLimitPenalty
	}
	return &stateNode{
		parent: st, action: format.Wrapped, spaces: spaces,
		depth: st.depth + 1, column: column, penalty: penalty,
	}
}

// preserveToken returns the child state that copies the original inter-token bytes. A preserved
// span containing a newline resets the column like a wrap without charging any penalty.
func preserveToken(st *stateNode, line *format.UnwrappedLine, tok *format.Token) *stateNode {
	var column int
	if tok.Before.Newlines > 0 {
		column = line.Indent() + tok.Width()
	} else {
		column = st.column + tok.LeadingSpaces() + tok.Width()
	}
	return &stateNode{
		parent: st, action: format.Preserved, spaces: tok.LeadingSpaces(),
		depth: st.depth + 1, column: column, penalty: st.penalty,
	}
}

// quickFinish greedily completes the placement: remaining tokens are appended where legal and
// wrapped where forced, without exploring alternatives.
func quickFinish(st *stateNode, line *format.UnwrappedLine, s style.Style) *stateNode {
	tokens := line.Tokens()
	for st.depth < len(tokens) {
		tok := &tokens[st.depth]
		switch tok.Before.BreakDecision {
		case format.MustWrap:
			st = wrapToken(st, line, tok, s)
		case format.Preserve:
			st = preserveToken(st, line, tok)
		default:
			st = appendToken(st, tok, s)
		}
	}
	return st
}

// reconstruct copies the winning path's decisions into the excerpt.
func reconstruct(winning *stateNode, e *format.Excerpt) {
	for st := winning; st != nil; st = st.parent {
		e.Decisions[st.depth-1] = format.BoundSpacing{Action: st.action, Spaces: st.spaces}
	}
}

// Search takes an unwrapped line with formatting annotations and a style, and returns an excerpt
// with every wrapping and spacing decision bound, minimizing the total penalty. The decisions are
// written into the shared token array only by [format.Excerpt.Commit]. When the
// number of evaluated states exceeds style.MaxSearchStates the search aborts into a greedy finish
// and the excerpt reports !CompletedFormatting.
func Search(line format.UnwrappedLine, s style.Style) format.Excerpt {
	if line.IsEmpty() {
		return format.NewExcerpt(line)
	}
	if line.Size() == 1 {
		// The single token sits at the indentation column; nothing to search.
		return format.NewExcerpt(line)
	}

	tokens := line.Tokens()
	worklist := &searchQueue{}
	heap.Push(worklist, seed(&line, s))

	var winning *stateNode
	aborted := false
	stateCount := 0
	for worklist.Len() > 0 {
		stateCount++
		st := heap.Pop(worklist).(*stateNode)

		// The first complete placement popped has minimal penalty.
		if st.depth == len(tokens) {
			winning = st
			break
		}

		if stateCount > s.MaxSearchStates {
			winning = quickFinish(st, &line, s)
			aborted = true
			break
		}

		tok := &tokens[st.depth]
		if tok.Before.BreakDecision == format.Preserve {
			heap.Push(worklist, preserveToken(st, &line, tok))
			continue
		}
		// Remaining options: Undecided, MustWrap, MustAppend, AppendAligned.
		if tok.Before.BreakDecision != format.MustWrap {
			heap.Push(worklist, appendToken(st, tok, s))
		}
		if tok.Before.BreakDecision == format.Undecided || tok.Before.BreakDecision == format.MustWrap {
			heap.Push(worklist, wrapToken(st, &line, tok, s))
		}
	}

	e := format.NewExcerpt(line)
	reconstruct(winning, &e)
	if aborted {
		e.MarkIncomplete()
	}
	return e
}

// FitsOnLine reports whether the line renders entirely within the column limit when every token
// is appended. It returns false as soon as a token requires a newline or the running column
// exceeds the limit; it does not enumerate states.
func FitsOnLine(line *format.UnwrappedLine, s style.Style) bool {
	if line.IsEmpty() {
		return true
	}

	st := seed(line, s)
	if st.column > s.ColumnLimit {
		return false
	}
	tokens := line.Tokens()
	for st.depth < len(tokens) {
		tok := &tokens[st.depth]
		if tok.Before.BreakDecision == format.MustWrap {
			return false
		}
		st = appendToken(st, tok, s)
		if st.column > s.ColumnLimit {
			return false
		}
	}
	return true
}
