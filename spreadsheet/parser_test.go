package spreadsheet

import (
	"testing"
)

func parses(formula string) bool {
	_, err := ParseFormula(formula)
	return err == nil
}

func TestParserBasicFormulas(t *testing.T) {
	validFormulas := []string{
		"=1+2",
		"=A1",
		"=-A1",
		"=1++2",
		"=50%",
		"=2^3^2",
		"=SUM(A1:A10)",
		"=SUM(B2:A1)",
		"=SUM(A1:A1)",
		"=SUM(A1:Z1000)",
		"=IF(A1>10, \"big\", \"small\")",
		"=1 <= 2",
		"=\"a\" & \"b\"",
		"=PI()",
		"=ROUND(SQRT(A1)*PI(), 2)",
		"=(1+2)*3",
		`="Hello 世界"`,
		`="Test 😀 emoji"`,
		`="He said ""hi"""`,
		`=CONCATENATE("Hello ", "世界")`,
		"=TRUE",
		"=1.5e3+2.5E-2",
		"=.5*2",
	}

	for _, formula := range validFormulas {
		t.Run(formula, func(t *testing.T) {
			if !parses(formula) {
				t.Errorf("Failed to parse valid formula: %s", formula)
			}
		})
	}
}

func TestParserInvalidFormulas(t *testing.T) {
	invalidFormulas := []string{
		"=",
		"=SUM(",
		"=SUM(1,)",
		"=A1:",
		`="hello`,
		"=1+",
		"=1 2",
		"=()",
		"=foo",
		"1+2", // missing the formula marker
		"",
		"=1+@2",
	}

	for _, formula := range invalidFormulas {
		t.Run(formula, func(t *testing.T) {
			if parses(formula) {
				t.Errorf("Expected formula to fail but it succeeded: %s", formula)
			}
		})
	}
}

func TestParseErrorDetails(t *testing.T) {
	cases := []struct {
		formula  string
		wantPos  int
		expected string
	}{
		{"", 0, "'=' formula marker"},
		{"=1+", 3, "value"},
		{"=(1+2", 5, "')'"},
		{"=SUM(1 2", 7, "',' or ')'"},
		{"=1 2", 3, "end of formula"},
	}

	for _, tc := range cases {
		t.Run(tc.formula, func(t *testing.T) {
			_, err := ParseFormula(tc.formula)
			if err == nil {
				t.Fatalf("expected parse error for %q", tc.formula)
			}
			if err.Pos != tc.wantPos {
				t.Errorf("error position = %d, want %d", err.Pos, tc.wantPos)
			}
			if err.Expected != tc.expected {
				t.Errorf("expected token class = %q, want %q", err.Expected, tc.expected)
			}
		})
	}
}

func TestParserPrecedence(t *testing.T) {
	cases := []struct {
		formula string
		want    string // canonical rendering encodes the tree shape
	}{
		{"=1+2*3", "(1+(2*3))"},
		{"=1*2+3", "((1*2)+3)"},
		{"=(1+2)*3", "((1+2)*3)"},
		{"=2^3^2", "(2^(3^2))"}, // right-associative
		{"=-2^2", "(-2^2)"}, // unary minus binds tighter than ^
		{"=1+2&\"x\"", "((1+2)&\"x\")"},
		{"=1&2=3", "((1&2)=3)"},
		{"=1<2=TRUE", "((1<2)=TRUE)"},
		{"=50%%", "50%%"},
		{"=1-2-3", "((1-2)-3)"},
	}

	for _, tc := range cases {
		t.Run(tc.formula, func(t *testing.T) {
			expr, err := ParseFormula(tc.formula)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got := expr.String(); got != tc.want {
				t.Errorf("canonical form = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParserRoundTrip(t *testing.T) {
	formulas := []string{
		"=1+2*3-4/5",
		"=-A1+B2%",
		"=SUM(A1:B10, C1, 5)",
		"=IF(AND(A1>0, B1<10), \"yes\", \"no\")",
		"=\"quote:\"\"\" & A1",
		"=2^3^2",
		"=((A1))",
		"=MAX(A1:A3)>=MIN(B1:B3)",
	}

	for _, formula := range formulas {
		t.Run(formula, func(t *testing.T) {
			first, err := ParseFormula(formula)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			second, err := ParseFormula(FormulaText(first))
			if err != nil {
				t.Fatalf("reparse of %q failed: %v", FormulaText(first), err)
			}
			if !EqualExpr(first, second) {
				t.Errorf("round trip changed the tree: %q vs %q", first.String(), second.String())
			}
		})
	}
}

func TestRefsTraversal(t *testing.T) {
	expr, err := ParseFormula("=A1+SUM(B1:B3, A1)-C2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	refs := Refs(expr)
	want := []string{"A1", "B1:B3", "A1", "C2"}
	if len(refs) != len(want) {
		t.Fatalf("got %d refs, want %d", len(refs), len(want))
	}
	for i, ref := range refs {
		if ref.String() != want[i] {
			t.Errorf("ref %d = %s, want %s", i, ref.String(), want[i])
		}
	}

	// expanded and deduped, in first-occurrence order
	addrs := ReferencedAddresses(expr)
	wantAddrs := []string{"A1", "B1", "B2", "B3", "C2"}
	if len(addrs) != len(wantAddrs) {
		t.Fatalf("got %d addresses, want %d", len(addrs), len(wantAddrs))
	}
	for i, addr := range addrs {
		if addr.String() != wantAddrs[i] {
			t.Errorf("address %d = %s, want %s", i, addr, wantAddrs[i])
		}
	}
}

func TestRangeNormalization(t *testing.T) {
	expr, err := ParseFormula("=SUM(B2:A1)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	call, ok := expr.(*CallExpr)
	if !ok {
		t.Fatalf("expected call node, got %T", expr)
	}
	rng, ok := call.Args[0].(*RangeRef)
	if !ok {
		t.Fatalf("expected range node, got %T", call.Args[0])
	}
	if rng.Span.String() != "A1:B2" {
		t.Errorf("range normalized to %s, want A1:B2", rng.Span)
	}
}
