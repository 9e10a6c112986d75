package fasm

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/fasmtools/fasm-go/internal/fasmgrammar"
)

// Parser parses FASM source into a sequence of FasmLine values. Build
// one with NewParser and reuse it; building the underlying grammar is
// the only non-trivial cost in this package.
type Parser struct {
	line *participle.Parser[fasmgrammar.Line]
}

// NewParser builds a FASM parser.
func NewParser() (*Parser, error) {
	line, err := fasmgrammar.NewLineParser()
	if err != nil {
		return nil, fmt.Errorf("fasm: %w", err)
	}
	return &Parser{line: line}, nil
}

var (
	defaultParser     *Parser
	defaultParserOnce sync.Once
	defaultParserErr  error
)

func shared() (*Parser, error) {
	defaultParserOnce.Do(func() {
		defaultParser, defaultParserErr = NewParser()
	})
	return defaultParser, defaultParserErr
}

// ParseString parses FASM source text, returning a ParseError on any
// grammar or semantic violation. A failed parse returns no lines.
func ParseString(text string) ([]FasmLine, error) {
	p, err := shared()
	if err != nil {
		return nil, err
	}
	return p.ParseString(text)
}

// ParseFile reads and parses a FASM file.
func ParseFile(path string) ([]FasmLine, error) {
	p, err := shared()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

// ParseString parses FASM source text with this Parser.
func (p *Parser) ParseString(text string) ([]FasmLine, error) {
	rawLines := strings.Split(text, "\n")

	var out []FasmLine
	for i, raw := range rawLines {
		lineNo := i + 1
		if strings.TrimSpace(raw) == "" {
			continue
		}

		ast, err := p.line.ParseString("", raw)
		if err != nil {
			return nil, syntaxError(lineNo, err)
		}

		fl, err := convertLine(ast, lineNo)
		if err != nil {
			return nil, err
		}
		out = append(out, fl)
	}

	return out, nil
}

// ParseFile reads a UTF-8/ASCII FASM file from disk and parses it.
func (p *Parser) ParseFile(path string) ([]FasmLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Kind: IOError, Message: err.Error()}
	}
	return p.ParseString(string(data))
}

func syntaxError(lineNo int, err error) *ParseError {
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return newParseError(LexError, lineNo, lerr.Position().Column, "%s", lerr.Message())
	}
	var perr participle.Error
	if errors.As(err, &perr) {
		return newParseError(SyntaxError, lineNo, perr.Position().Column, "%s", perr.Message())
	}
	return newParseError(SyntaxError, lineNo, 1, "%s", err.Error())
}

func semanticError(lineNo, column int, format string, args ...any) *ParseError {
	return newParseError(SemanticError, lineNo, column, format, args...)
}

func convertLine(ast *fasmgrammar.Line, lineNo int) (FasmLine, error) {
	var out FasmLine

	if ast.SetFeature != nil {
		sf, err := convertSetFeature(ast.SetFeature, lineNo)
		if err != nil {
			return FasmLine{}, err
		}
		out.SetFeature = sf
	}

	if ast.Annotations != nil {
		for _, a := range ast.Annotations.Annotations {
			value := ""
			if a.Value != nil {
				value = unescapeString(*a.Value)
			}
			out.Annotations = append(out.Annotations, Annotation{Name: a.Name, Value: value})
		}
	}

	if ast.Comment != nil {
		text := ast.Comment.Text[1:] // drop leading '#'
		out.Comment = &text
	}

	return out, nil
}

func convertSetFeature(n *fasmgrammar.SetFeatureNode, lineNo int) (*SetFeature, error) {
	col := n.Pos.Column

	sf := &SetFeature{
		Feature:     strings.Join(n.FeatureAtoms, "."),
		Value:       bigOne(),
		ValueFormat: FormatNone,
	}

	if n.Address != nil {
		first, err := strconv.Atoi(n.Address.First)
		if err != nil {
			return nil, semanticError(lineNo, col, "invalid address index %q", n.Address.First)
		}

		if n.Address.Second != nil {
			start, err := strconv.Atoi(*n.Address.Second)
			if err != nil {
				return nil, semanticError(lineNo, col, "invalid address index %q", *n.Address.Second)
			}
			end := first
			if end < start {
				return nil, semanticError(lineNo, col, "address range [%d:%d] has end < start", end, start)
			}
			sf.Start = intPtr(start)
			sf.End = intPtr(end)
		} else {
			sf.Start = intPtr(first)
		}
	}

	explicitWidth := -1

	if n.Value != nil {
		width, value, format, err := convertValue(n.Value)
		if err != nil {
			return nil, semanticError(lineNo, col, "%s", err)
		}
		sf.Value = value
		sf.ValueFormat = format
		explicitWidth = width
	}

	addressWidth := 1
	switch {
	case sf.End != nil:
		addressWidth = *sf.End - *sf.Start + 1
	case sf.Start != nil:
		addressWidth = 1
	case explicitWidth >= 0:
		addressWidth = explicitWidth
	}

	if explicitWidth >= 0 && sf.Start != nil && explicitWidth > addressWidth {
		return nil, semanticError(lineNo, col, "explicit width %d exceeds address width %d", explicitWidth, addressWidth)
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(addressWidth))
	if sf.Value.Cmp(limit) >= 0 {
		return nil, semanticError(lineNo, col, "value %s does not fit in %d-bit address", sf.Value.String(), addressWidth)
	}

	return sf, nil
}

// convertValue splits a value token into (explicit width, value,
// format). width is -1 when the token carried no explicit width (plain
// decimal literals never do).
func convertValue(n *fasmgrammar.ValueNode) (int, *big.Int, ValueFormat, error) {
	switch {
	case n.Plain != nil:
		v, ok := new(big.Int).SetString(*n.Plain, 10)
		if !ok {
			return 0, nil, 0, fmt.Errorf("invalid decimal literal %q", *n.Plain)
		}
		return -1, v, FormatPlain, nil
	case n.VerilogHex != nil:
		return parseVerilogLiteral(*n.VerilogHex, 16, FormatVerilogHex)
	case n.VerilogDec != nil:
		return parseVerilogLiteral(*n.VerilogDec, 10, FormatVerilogDecimal)
	case n.VerilogBin != nil:
		return parseVerilogLiteral(*n.VerilogBin, 2, FormatVerilogBinary)
	case n.VerilogOct != nil:
		return parseVerilogLiteral(*n.VerilogOct, 8, FormatVerilogOctal)
	default:
		return 0, nil, 0, fmt.Errorf("value node with no literal")
	}
}

func parseVerilogLiteral(tok string, base int, format ValueFormat) (int, *big.Int, ValueFormat, error) {
	quote := strings.IndexByte(tok, '\'')
	widthStr := tok[:quote]
	digits := strings.ReplaceAll(tok[quote+2:], "_", "")

	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("invalid literal width %q", widthStr)
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, nil, 0, fmt.Errorf("invalid digits %q for base %d", digits, base)
	}

	wlimit := new(big.Int).Lsh(big.NewInt(1), uint(width))
	if v.Cmp(wlimit) >= 0 {
		return 0, nil, 0, fmt.Errorf("value %s does not fit in explicit width %d", v.String(), width)
	}

	return width, v, format, nil
}

func unescapeString(tok string) string {
	if len(tok) < 2 {
		return ""
	}
	inner := tok[1 : len(tok)-1]

	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) && inner[i+1] == '"' {
			b.WriteByte('"')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
