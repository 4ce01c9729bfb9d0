package style_test

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
	"github.com/teleivo/svfmt/style"
)

func TestDefault(t *testing.T) {
	s := style.Default()

	assert.EqualValuesf(t, s.ColumnLimit, 100, "ColumnLimit")
	assert.EqualValuesf(t, s.IndentationSpaces, 2, "IndentationSpaces")
	assert.EqualValuesf(t, s.WrapSpaces, 4, "WrapSpaces")
	assert.EqualValuesf(t, s.OverColumnLimitPenalty, 100, "OverColumnLimitPenalty")
	assert.EqualValuesf(t, s.LineBreakPenalty, 2, "LineBreakPenalty")
	assert.Truef(t, s.FormatModulePortDeclarations, "FormatModulePortDeclarations")
	assert.Truef(t, s.FormatModuleInstantiations, "FormatModuleInstantiations")
	assert.Truef(t, s.TryWrapLongLines, "TryWrapLongLines")
	assert.NoErrorf(t, s.Validate(), "Default().Validate()")
}

func TestLoad(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tests := map[string]struct {
			in   string
			want func(style.Style) style.Style
		}{
			"Empty": {
				in:   "",
				want: func(s style.Style) style.Style { return s },
			},
			"OverridesSingleKey": {
				in: "column_limit = 40",
				want: func(s style.Style) style.Style {
					s.ColumnLimit = 40
					return s
				},
			},
			"OverridesSeveralKeys": {
				in: "column_limit = 80\nwrap_spaces = 2\ntry_wrap_long_lines = false",
				want: func(s style.Style) style.Style {
					s.ColumnLimit = 80
					s.WrapSpaces = 2
					s.TryWrapLongLines = false
					return s
				},
			},
			"BooleanConstructSwitches": {
				in: "format_module_port_declarations = false\nformat_module_instantiations = false",
				want: func(s style.Style) style.Style {
					s.FormatModulePortDeclarations = false
					s.FormatModuleInstantiations = false
					return s
				},
			},
		}

		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				got, err := style.Load(strings.NewReader(tt.in))

				require.NoErrorf(t, err, "Load(%q)", tt.in)
				assert.EqualValuesf(t, got, tt.want(style.Default()), "Load(%q)", tt.in)
			})
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tests := map[string]string{
			"UnknownKey":         "colum_limit = 40",
			"NegativeLimit":      "column_limit = -1",
			"ZeroPenalty":        "over_column_limit_penalty = 0",
			"NegativeIndent":     "indentation_spaces = -2",
			"NegativeWrapSpaces": "wrap_spaces = -1",
			"ZeroSearchStates":   "max_search_states = 0",
			"MalformedTOML":      "column_limit =",
		}

		for name, in := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := style.Load(strings.NewReader(in))

				assert.NotNilf(t, err, "Load(%q) should fail", in)
			})
		}
	})
}
