// Package token defines constants representing the lexical tokens of SystemVerilog that the
// formatting core distinguishes, together with operations like printing, detecting keywords and
// measuring display width.
package token

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Kind represents the types of lexical tokens the formatter operates on.
// Token kinds are powers of 2 and can be combined using bitwise OR
// to create token sets for efficient membership testing.
type Kind uint

const (
	ERROR Kind = 1 << iota
	// EOF is not part of the language and is used to indicate the end of the file or stream. No
	// language token should follow the EOF token.
	EOF

	Identifier // like clk foo_1 \escaped
	Number     // like 42 8'hFF 3.14
	String     // like "rtl/top.sv"
	Comment    // like // line and /* block */ comments

	LeftParen    // (
	RightParen   // )
	LeftBracket  // [
	RightBracket // ]
	LeftBrace    // {
	RightBrace   // }
	Comma        // ,
	Semicolon    // ;
	Colon        // :
	Dot          // .
	Equal        // =
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /

	// Keywords
	Assign    // assign
	Begin     // begin
	End       // end
	EndModule // endmodule
	Initial   // initial
	Input     // input
	Logic     // logic
	Module    // module
	Output    // output
	Parameter // parameter
	Wire      // wire
)

// terminalSet is the set of terminal symbols (punctuation and operators).
const terminalSet = LeftParen | RightParen | LeftBracket | RightBracket | LeftBrace | RightBrace |
	Comma | Semicolon | Colon | Dot | Equal | Plus | Minus | Star | Slash

// keywordSet is the set of keyword kinds.
const keywordSet = Assign | Begin | End | EndModule | Initial | Input | Logic | Module | Output |
	Parameter | Wire

// String returns the string representation of the token type.
func (k Kind) String() string {
	switch k {
	case ERROR:
		return "ERROR"
	case EOF:
		return "EOF"
	case Identifier:
		return "IDENTIFIER"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Comment:
		return "COMMENT"
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	case LeftBracket:
		return "["
	case RightBracket:
		return "]"
	case LeftBrace:
		return "{"
	case RightBrace:
		return "}"
	case Comma:
		return ","
	case Semicolon:
		return ";"
	case Colon:
		return ":"
	case Dot:
		return "."
	case Equal:
		return "="
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Assign:
		return "assign"
	case Begin:
		return "begin"
	case End:
		return "end"
	case EndModule:
		return "endmodule"
	case Initial:
		return "initial"
	case Input:
		return "input"
	case Logic:
		return "logic"
	case Module:
		return "module"
	case Output:
		return "output"
	case Parameter:
		return "parameter"
	case Wire:
		return "wire"
	default:
		panic(fmt.Sprintf("missing String() case for token.Kind: %d", k))
	}
}

// IsTerminal reports whether the token type is a terminal symbol (punctuation or operator).
func (k Kind) IsTerminal() bool {
	return k&terminalSet != 0
}

// IsKeyword reports whether the token type is a keyword.
func (k Kind) IsKeyword() bool {
	return k&keywordSet != 0
}

// Token represents a single lexical token. The formatting core never mutates token text, only the
// whitespace contract between tokens.
type Token struct {
	Type    Kind
	Literal string
	Error   string // Error message for ERROR tokens, empty otherwise
	Offset  int    // byte offset of the first literal byte in the source
	Start   Position
	End     Position
}

// String returns the string representation of the token. For identifiers, numbers, strings and
// comments it returns the literal value. For other token types, it returns the token type's string
// representation.
func (t Token) String() string {
	switch t.Type {
	case Identifier, Number, String, Comment:
		return t.Literal
	}

	return t.Type.String()
}

// Width returns the display width of the token text in terminal cells. This is what column and
// penalty computations count, not bytes.
func (t Token) Width() int {
	return uniseg.StringWidth(t.String())
}

// EndOffset returns the byte offset just past the last literal byte.
func (t Token) EndOffset() int {
	return t.Offset + len(t.String())
}

// maxKeywordLen is the length of the longest keyword which is "endmodule" or "parameter".
const maxKeywordLen = 9

// Lookup returns the token type associated with given identifier which is either a keyword or an
// identifier. SystemVerilog keywords are case-sensitive.
func Lookup(identifier string) Kind {
	if len(identifier) > maxKeywordLen {
		return Identifier
	}

	switch identifier {
	case "assign":
		return Assign
	case "begin":
		return Begin
	case "end":
		return End
	case "endmodule":
		return EndModule
	case "initial":
		return Initial
	case "input":
		return Input
	case "logic":
		return Logic
	case "module":
		return Module
	case "output":
		return Output
	case "parameter":
		return Parameter
	case "wire":
		return Wire
	default:
		return Identifier
	}
}

// Keywords returns the keyword literals in sorted order. Useful for tooling and tests.
func Keywords() []string {
	return strings.Fields("assign begin end endmodule initial input logic module output parameter wire")
}
