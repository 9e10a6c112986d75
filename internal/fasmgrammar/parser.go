package fasmgrammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// NewLineParser builds the participle parser for a single FASM line.
// Building is cheap but not free, so callers (pkg/fasm.Parser) build it
// once and reuse it across lines and files.
func NewLineParser() (*participle.Parser[Line], error) {
	p, err := participle.Build[Line](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("fasmgrammar: building grammar: %w", err)
	}
	return p, nil
}
