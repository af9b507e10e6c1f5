package spreadsheet

import (
	"fmt"
	"testing"
)

func benchAddr(b *testing.B, s string) Address {
	b.Helper()
	a, err := ParseAddress(s)
	if err != nil {
		b.Fatalf("bad address %q: %v", s, err)
	}
	return a
}

func BenchmarkLargeCellPopulation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		g := NewGrid(Config{})
		for row := 1; row <= 100; row++ {
			for col := 0; col < 26; col++ {
				g.SetCell(Address{Row: row - 1, Col: col}, fmt.Sprintf("%d", row*(col+1)))
			}
		}
	}
}

func BenchmarkBulkLoad(b *testing.B) {
	contents := make([]CellContent, 0, 100*26)
	for row := 0; row < 100; row++ {
		for col := 0; col < 26; col++ {
			contents = append(contents, CellContent{
				Addr: Address{Row: row, Col: col},
				Raw:  fmt.Sprintf("%d", (row+1)*(col+1)),
			})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := NewGrid(Config{})
		g.Load(contents)
	}
}

func BenchmarkFormulaDependencyChain(b *testing.B) {
	g := NewGrid(Config{})
	g.SetCell(benchAddr(b, "A1"), "1")
	for i := 2; i <= 100; i++ {
		g.SetCell(benchAddr(b, fmt.Sprintf("A%d", i)), fmt.Sprintf("=A%d+1", i-1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// each edit at the root recomputes the whole chain
		g.SetCell(benchAddr(b, "A1"), fmt.Sprintf("%d", i%100))
	}
}

func BenchmarkWideDependencyFanOut(b *testing.B) {
	g := NewGrid(Config{})
	g.SetCell(benchAddr(b, "A1"), "100")
	for i := 2; i <= 500; i++ {
		g.SetCell(benchAddr(b, fmt.Sprintf("B%d", i)), "=A1*2")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SetCell(benchAddr(b, "A1"), fmt.Sprintf("%d", i))
	}
}

func BenchmarkLargeRangeSUM(b *testing.B) {
	g := NewGrid(Config{})
	for i := 1; i <= 1000; i++ {
		g.SetCell(benchAddr(b, fmt.Sprintf("A%d", i)), fmt.Sprintf("%d", i))
	}
	g.SetCell(benchAddr(b, "B1"), "=SUM(A1:A1000)")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SetCell(benchAddr(b, "A500"), fmt.Sprintf("%d", i))
	}
}

func BenchmarkComplexNestedFormulas(b *testing.B) {
	g := NewGrid(Config{})
	for i := 1; i <= 20; i++ {
		g.SetCell(benchAddr(b, fmt.Sprintf("A%d", i)), fmt.Sprintf("%d", i))
		g.SetCell(benchAddr(b, fmt.Sprintf("B%d", i)), fmt.Sprintf("%d", i*2))
	}
	g.SetCell(benchAddr(b, "C1"), "=IF(AVERAGE(A1:A20)>10, SUM(B1:B20), MAX(A1:A20))")
	g.SetCell(benchAddr(b, "D1"), "=ROUND(SQRT(C1)*PI(), 2)")
	g.SetCell(benchAddr(b, "E1"), "=IF(D1>100, MEDIAN(A1:A20), MIN(B1:B20))")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SetCell(benchAddr(b, "A1"), fmt.Sprintf("%d", i%40))
	}
}

func BenchmarkCycleDetection(b *testing.B) {
	for i := 0; i < b.N; i++ {
		g := NewGrid(Config{})
		g.SetCell(benchAddr(b, "B1"), "=A1+1")
		g.SetCell(benchAddr(b, "C1"), "=B1+1")
		g.SetCell(benchAddr(b, "D1"), "=C1+1")
		g.SetCell(benchAddr(b, "E1"), "=D1+1")
		g.SetCell(benchAddr(b, "F1"), "=E1+1")
		g.SetCell(benchAddr(b, "G1"), "=F1+1")
		g.SetCell(benchAddr(b, "H1"), "=G1+1")
		// rejected: would close the loop back to B1
		g.SetCell(benchAddr(b, "A1"), "=H1")
	}
}

func BenchmarkCascadingUpdates(b *testing.B) {
	g := NewGrid(Config{})
	for row := 1; row <= 50; row++ {
		for col := 0; col < 10; col++ {
			addr := Address{Row: row - 1, Col: col}
			if col == 0 {
				g.SetCell(addr, fmt.Sprintf("%d", row))
			} else {
				prev := Address{Row: row - 1, Col: col - 1}
				g.SetCell(addr, fmt.Sprintf("=%s*2", prev))
			}
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SetCell(benchAddr(b, "A1"), fmt.Sprintf("%d", i%100))
	}
}

func BenchmarkManySmallFormulas(b *testing.B) {
	for i := 0; i < b.N; i++ {
		g := NewGrid(Config{})
		for row := 1; row <= 100; row++ {
			g.SetCell(benchAddr(b, fmt.Sprintf("A%d", row)), fmt.Sprintf("%d", row))
			g.SetCell(benchAddr(b, fmt.Sprintf("B%d", row)), fmt.Sprintf("=A%d*2", row))
			g.SetCell(benchAddr(b, fmt.Sprintf("C%d", row)), fmt.Sprintf("=B%d+A%d", row, row))
			g.SetCell(benchAddr(b, fmt.Sprintf("D%d", row)), fmt.Sprintf("=C%d/2", row))
		}
	}
}

func BenchmarkStringConcatenation(b *testing.B) {
	g := NewGrid(Config{})
	for i := 1; i <= 100; i++ {
		g.SetCell(benchAddr(b, fmt.Sprintf("A%d", i)), fmt.Sprintf("text%d", i))
		g.SetCell(benchAddr(b, fmt.Sprintf("B%d", i)), fmt.Sprintf(`=A%d&"-suffix"`, i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SetCell(benchAddr(b, "A50"), fmt.Sprintf("text%d", i))
	}
}

func BenchmarkDirtyPropagation(b *testing.B) {
	// a 20x20 grid where each cell depends on its left and top
	// neighbors, so an edit at the corner dirties everything
	g := NewGrid(Config{})
	const size = 20
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			addr := Address{Row: row, Col: col}
			switch {
			case row == 0 && col == 0:
				g.SetCell(addr, "1")
			case row == 0:
				g.SetCell(addr, fmt.Sprintf("=%s+1", Address{Row: row, Col: col - 1}))
			case col == 0:
				g.SetCell(addr, fmt.Sprintf("=%s+1", Address{Row: row - 1, Col: col}))
			default:
				g.SetCell(addr, fmt.Sprintf("=%s+%s", Address{Row: row, Col: col - 1}, Address{Row: row - 1, Col: col}))
			}
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SetCell(benchAddr(b, "A1"), fmt.Sprintf("%d", i%100))
	}
}

func BenchmarkParseFormula(b *testing.B) {
	formulas := []string{
		"=A1+B2*C3",
		"=SUM(A1:A100)",
		`=IF(AND(A1>0, B1<10), "yes", "no")`,
		"=ROUND(SQRT(A1)*PI(), 2)",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseFormula(formulas[i%len(formulas)])
	}
}
