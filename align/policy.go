// Package align binds the leading spaces of adjacent, structurally similar partitions so that
// semantically equivalent cells line up in columns.
//
// Each row supplies a sparse list of syntax-path–keyed column positions produced by a cell
// scanner specific to the language construct. The union of all paths defines the column set; a
// dense matrix of cells is built from it, column widths are aggregated, and per-row spacing is
// assigned. If the aligned result would overflow the column limit, alignment is abandoned and the
// spacing decisions stay untouched for downstream wrapping and layout.
package align

import (
	"fmt"
)

// Policy selects how a group of rows is aligned.
type Policy int

const (
	// Align pads cells so equivalent columns line up.
	Align Policy = iota
	// FlushLeft keeps the minimum required spacing.
	FlushLeft
	// Preserve keeps the user's original spacing, correcting only indentation.
	Preserve
	// Infer guesses the user's intent from the spacing already present in the input.
	Infer
)

var policies = map[string]Policy{
	"align":      Align,
	"flush-left": FlushLeft,
	"preserve":   Preserve,
	"infer":      Infer,
}

var validPolicies = [4]string{"align", "flush-left", "preserve", "infer"}

// NewPolicy converts a string to a [Policy] constant. Valid values are "align", "flush-left",
// "preserve", and "infer". Returns an error if the policy string is invalid.
func NewPolicy(policy string) (Policy, error) {
	if p, ok := policies[policy]; ok {
		return p, nil
	}
	return Align, fmt.Errorf("invalid alignment policy: %q, valid ones are: %q", policy, validPolicies)
}

// String returns the policy in its flag spelling.
func (p Policy) String() string {
	switch p {
	case Align:
		return "align"
	case FlushLeft:
		return "flush-left"
	case Preserve:
		return "preserve"
	case Infer:
		return "infer"
	default:
		panic(fmt.Sprintf("missing String() case for align.Policy: %d", int(p)))
	}
}
