package fasmgrammar

import "github.com/alecthomas/participle/v2/lexer"

// Line is the raw syntax tree for a single FASM source line:
//
//	<set-feature> <annotations-block>? <comment>?
//	| <annotations-block> <comment>?
//	| <comment>
//
// All three slots are optional at the grammar level. The parser driver
// does not check for a result with every slot nil: it only hands this
// grammar non-blank lines, and any such line that parses fills at least
// one slot.
type Line struct {
	Pos lexer.Position

	SetFeature  *SetFeatureNode  `@@?`
	Annotations *AnnotationsNode `@@?`
	Comment     *CommentNode     `@@?`
}

// SetFeatureNode is `<feature> <address>? ( '=' <value> )?`.
type SetFeatureNode struct {
	Pos lexer.Position

	FeatureAtoms []string      `@Ident (Dot @Ident)*`
	Address      *AddressNode  `@@?`
	Value        *ValueNode    `(Equals @@)?`
}

// AddressNode is `'[' <uint> ( ':' <uint> )? ']'`. First is the number
// immediately after '[' — it is the range end when Second is present
// (`[end:start]`), otherwise it is a bare bit index.
type AddressNode struct {
	First  string  `LBracket @Int`
	Second *string `(Colon @Int)? RBracket`
}

// ValueNode is a Verilog-style sized literal or a plain decimal integer.
// Exactly one field is non-nil. Width and digits are still packed
// together in the matched text (e.g. "8'hFF") — splitting them is a
// semantic-pass job, not a lexical one, since the same token carries
// both.
type ValueNode struct {
	VerilogHex *string `  @VerilogHex`
	VerilogDec *string `| @VerilogDec`
	VerilogBin *string `| @VerilogBin`
	VerilogOct *string `| @VerilogOct`
	Plain      *string `| @Int`
}

// AnnotationsNode is `'{' <annotation> ( ',' <annotation> )* '}'`.
type AnnotationsNode struct {
	Annotations []*AnnotationNode `LBrace @@ (Comma @@)* RBrace`
}

// AnnotationNode is `identifier ( '=' <string> )?`. A missing Value is
// distinct from an explicit empty string — Value stays nil rather than
// becoming a pointer to "".
type AnnotationNode struct {
	Name  string  `@Ident`
	Value *string `(Equals @String)?`
}

// CommentNode is `'#' <any chars until newline>`. Text retains the
// leading '#' as matched; the stored model comment strips it.
type CommentNode struct {
	Text string `@Comment`
}
