package fasm

import (
	"math/big"
	"testing"
)

func TestParseBlankFile(t *testing.T) {
	lines, err := ParseString("")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("Expected no lines, got %d", len(lines))
	}
}

func TestParseBlankLinesOnly(t *testing.T) {
	lines, err := ParseString("\n\n   \n\t\n")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("Expected no lines, got %d", len(lines))
	}
}

func TestParseCommentOnly(t *testing.T) {
	lines, err := ParseString("# a comment")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if !lines[0].IsOnlyComment() {
		t.Fatal("Expected a comment-only line")
	}
	if lines[0].Comment == nil || *lines[0].Comment != " a comment" {
		t.Fatalf("Unexpected comment text: %v", lines[0].Comment)
	}
}

func TestParseFeatureOnly(t *testing.T) {
	lines, err := ParseString("A.B.C")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	sf := lines[0].SetFeature
	if sf == nil {
		t.Fatal("Expected a set_feature")
	}
	if sf.Feature != "A.B.C" {
		t.Errorf("Expected feature 'A.B.C', got %q", sf.Feature)
	}
	if sf.Value.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("Expected default value 1, got %s", sf.Value.String())
	}
}

func TestParseFullLine(t *testing.T) {
	lines, err := ParseString(`FOO.BAR[7:0] = 8'hFF { key = "v" } # note`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	line := lines[0]
	sf := line.SetFeature
	if sf == nil {
		t.Fatal("Expected a set_feature")
	}
	if sf.Feature != "FOO.BAR" {
		t.Errorf("Expected feature 'FOO.BAR', got %q", sf.Feature)
	}
	if sf.Start == nil || *sf.Start != 0 {
		t.Errorf("Expected start 0, got %v", sf.Start)
	}
	if sf.End == nil || *sf.End != 7 {
		t.Errorf("Expected end 7, got %v", sf.End)
	}
	if sf.ValueFormat != FormatVerilogHex {
		t.Errorf("Expected hex format, got %v", sf.ValueFormat)
	}
	if sf.Value.Cmp(big.NewInt(0xFF)) != 0 {
		t.Errorf("Expected value 0xFF, got %s", sf.Value.String())
	}

	if len(line.Annotations) != 1 {
		t.Fatalf("Expected 1 annotation, got %d", len(line.Annotations))
	}
	if line.Annotations[0].Name != "key" || line.Annotations[0].Value != "v" {
		t.Errorf("Unexpected annotation: %+v", line.Annotations[0])
	}

	if line.Comment == nil || *line.Comment != " note" {
		t.Fatalf("Unexpected comment: %v", line.Comment)
	}
}

func TestParseScalarVerilogWidthSetsAddressWidth(t *testing.T) {
	lines, err := ParseString("A = 8'h00")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	sf := lines[0].SetFeature
	if sf == nil {
		t.Fatal("Expected a set_feature")
	}
	if sf.Value.Sign() != 0 {
		t.Errorf("Expected zero value, got %s", sf.Value.String())
	}
}

func TestParseValueTooLargeForAddress(t *testing.T) {
	_, err := ParseString("A[0] = 2")
	if err == nil {
		t.Fatal("Expected an error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Kind != SemanticError {
		t.Errorf("Expected SemanticError, got %v", perr.Kind)
	}
}

func TestParseAddressEndBeforeStart(t *testing.T) {
	_, err := ParseString("A[0:7] = 0")
	if err == nil {
		t.Fatal("Expected an error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Kind != SemanticError {
		t.Errorf("Expected SemanticError, got %v", perr.Kind)
	}
}

func TestParseExplicitWidthExceedsAddress(t *testing.T) {
	_, err := ParseString("A[3:0] = 8'h00")
	if err == nil {
		t.Fatal("Expected an error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Kind != SemanticError {
		t.Errorf("Expected SemanticError, got %v", perr.Kind)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseString("A[ = 1")
	if err == nil {
		t.Fatal("Expected an error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Kind != SyntaxError {
		t.Errorf("Expected SyntaxError, got %v", perr.Kind)
	}
	if perr.Line != 1 {
		t.Errorf("Expected line 1, got %d", perr.Line)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.fasm")
	if err == nil {
		t.Fatal("Expected an error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Kind != IOError {
		t.Errorf("Expected IOError, got %v", perr.Kind)
	}
}

func TestParseMultipleLines(t *testing.T) {
	input := "A.B.C\n# comment\nD.E = 2\n"
	lines, err := ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0].SetFeature.Feature != "A.B.C" {
		t.Errorf("Unexpected first feature: %q", lines[0].SetFeature.Feature)
	}
	if !lines[1].IsOnlyComment() {
		t.Errorf("Expected second line to be a comment")
	}
	if lines[2].SetFeature.Feature != "D.E" {
		t.Errorf("Unexpected third feature: %q", lines[2].SetFeature.Feature)
	}
}
