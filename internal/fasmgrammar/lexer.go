// Package fasmgrammar holds the lexical rules and raw syntax tree for a
// single FASM source line. Types here carry unvalidated token text; the
// semantic model (validated integers, checked widths) lives in pkg/fasm.
package fasmgrammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the lexical structure of one FASM line.
//
// FASM is line-oriented: callers feed one physical line at a time, so
// the lexer never needs a token for newlines. Order matters here because
// the simple lexer tries rules in sequence and keeps the first match:
// the Verilog-style literals must come before the bare Int rule, and
// comments must come before anything that could be confused with '#'.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},

	// Verilog-style sized literals: <width>'<radix><digits>. The radix
	// letter is lowercase per the grammar in spec §6; underscores inside
	// the digit run are stripped by the semantic pass, not here.
	{Name: "VerilogHex", Pattern: `[0-9]+'h[0-9A-Fa-f_]+`},
	{Name: "VerilogDec", Pattern: `[0-9]+'d[0-9_]+`},
	{Name: "VerilogBin", Pattern: `[0-9]+'b[01_]+`},
	{Name: "VerilogOct", Pattern: `[0-9]+'o[0-7_]+`},

	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},

	{Name: "Dot", Pattern: `\.`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
})
