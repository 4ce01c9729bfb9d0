// Package style holds the knobs that control line wrapping, layout optimization and column
// alignment. A Style is a flat record of integers and booleans; zero configuration means
// [Default].
package style

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// Style contains the parameters the formatting core honors. Fields map 1:1 to the snake_case keys
// accepted by [Load].
type Style struct {
	// ColumnLimit is the target line width in display cells.
	ColumnLimit int `toml:"column_limit"`

	// IndentationSpaces is the indent unit added per indentation depth.
	IndentationSpaces int `toml:"indentation_spaces"`

	// WrapSpaces is the additional indent when continuing a wrapped line.
	WrapSpaces int `toml:"wrap_spaces"`

	// OverColumnLimitPenalty is the cost per character past the column limit.
	OverColumnLimitPenalty int `toml:"over_column_limit_penalty"`

	// LineBreakPenalty is the base cost of a newline.
	LineBreakPenalty int `toml:"line_break_penalty"`

	// MaxSearchStates bounds the line-wrap search. When the number of explored states exceeds
	// this, the searcher finishes greedily and flags the result as incomplete.
	MaxSearchStates int `toml:"max_search_states"`

	// FormatModulePortDeclarations disables formatting of module port declaration regions when
	// false; those regions keep their original spacing except for indentation.
	FormatModulePortDeclarations bool `toml:"format_module_port_declarations"`

	// FormatModuleInstantiations disables formatting of module instantiation regions when false.
	FormatModuleInstantiations bool `toml:"format_module_instantiations"`

	// TryWrapLongLines gives up on lines that would need wrap optimization when false, emitting
	// them as-is instead.
	TryWrapLongLines bool `toml:"try_wrap_long_lines"`
}

// Default returns the style all parameters default to.
func Default() Style {
	return Style{
		ColumnLimit:                  100,
		IndentationSpaces:            2,
		WrapSpaces:                   4,
		OverColumnLimitPenalty:       100,
		LineBreakPenalty:             2,
		MaxSearchStates:              100000,
		FormatModulePortDeclarations: true,
		FormatModuleInstantiations:   true,
		TryWrapLongLines:             true,
	}
}

// Load reads a TOML style document from r and overlays it onto [Default]. Unknown keys are
// rejected so typos surface instead of silently keeping defaults.
func Load(r io.Reader) (Style, error) {
	s := Default()

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Default(), fmt.Errorf("invalid style: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Validate reports the first out-of-range parameter.
func (s Style) Validate() error {
	if s.ColumnLimit <= 0 {
		return fmt.Errorf("invalid style: column_limit must be positive, got %d", s.ColumnLimit)
	}
	if s.IndentationSpaces < 0 {
		return fmt.Errorf("invalid style: indentation_spaces must not be negative, got %d", s.IndentationSpaces)
	}
	if s.WrapSpaces < 0 {
		return fmt.Errorf("invalid style: wrap_spaces must not be negative, got %d", s.WrapSpaces)
	}
	if s.OverColumnLimitPenalty <= 0 {
		return fmt.Errorf("invalid style: over_column_limit_penalty must be positive, got %d", s.OverColumnLimitPenalty)
	}
	if s.LineBreakPenalty < 0 {
		return fmt.Errorf("invalid style: line_break_penalty must not be negative, got %d", s.LineBreakPenalty)
	}
	if s.MaxSearchStates <= 0 {
		return fmt.Errorf("invalid style: max_search_states must be positive, got %d", s.MaxSearchStates)
	}
	return nil
}
