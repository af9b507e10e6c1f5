package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Address identifies a single grid cell by zero-based row and column.
// Addresses are comparable (usable as map keys) and totally ordered,
// row-major, so iteration over cell sets is deterministic.
type Address struct {
	Row int
	Col int
}

// Less reports whether a orders before b (row first, then column).
func (a Address) Less(b Address) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// String renders the address in A1 notation.
func (a Address) String() string {
	return columnName(a.Col) + strconv.Itoa(a.Row+1)
}

// columnName converts a zero-based column index to spreadsheet letters
// (0 -> "A", 25 -> "Z", 26 -> "AA").
func columnName(col int) string {
	var b []byte
	for {
		b = append([]byte{byte('A' + col%26)}, b...)
		col = col/26 - 1
		if col < 0 {
			break
		}
	}
	return string(b)
}

// ParseAddress parses an A1-style cell address like "A1" or "BC12".
// Row numbers are 1-based in notation and converted to 0-based indices.
func ParseAddress(s string) (Address, error) {
	letterEnd := 0
	for i, ch := range s {
		if ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' {
			letterEnd = i + 1
		} else {
			break
		}
	}
	if letterEnd == 0 || letterEnd == len(s) {
		return Address{}, fmt.Errorf("invalid cell address: %q", s)
	}

	// column letters (A=0, B=1, ..., Z=25, AA=26, ...)
	col := 0
	for _, ch := range strings.ToUpper(s[:letterEnd]) {
		col = col*26 + int(ch-'A'+1)
	}
	col--

	row, err := strconv.Atoi(s[letterEnd:])
	if err != nil || row < 1 {
		return Address{}, fmt.Errorf("invalid row number in address: %q", s)
	}

	return Address{Row: row - 1, Col: col}, nil
}

// Range is a rectangular span of addresses, inclusive on both ends.
type Range struct {
	Start Address
	End   Address
}

// Normalize returns the range with Start at the top-left and End at the
// bottom-right regardless of how the endpoints were written.
func (r Range) Normalize() Range {
	n := r
	if n.End.Row < n.Start.Row {
		n.Start.Row, n.End.Row = n.End.Row, n.Start.Row
	}
	if n.End.Col < n.Start.Col {
		n.Start.Col, n.End.Col = n.End.Col, n.Start.Col
	}
	return n
}

// Contains reports whether the address lies inside the range.
func (r Range) Contains(a Address) bool {
	n := r.Normalize()
	return a.Row >= n.Start.Row && a.Row <= n.End.Row &&
		a.Col >= n.Start.Col && a.Col <= n.End.Col
}

// Size returns the number of addresses the range spans.
func (r Range) Size() int {
	n := r.Normalize()
	return (n.End.Row - n.Start.Row + 1) * (n.End.Col - n.Start.Col + 1)
}

// Addresses expands the range into its contained addresses in row-major
// order. Dependency tracking stays address-granular: one edge per
// contained address, never a single aggregate edge.
func (r Range) Addresses() []Address {
	n := r.Normalize()
	out := make([]Address, 0, r.Size())
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			out = append(out, Address{Row: row, Col: col})
		}
	}
	return out
}

// String renders the range in A1:B3 notation.
func (r Range) String() string {
	return r.Start.String() + ":" + r.End.String()
}

// ParseRange parses an A1:B3-style range reference.
func ParseRange(s string) (Range, error) {
	colon := strings.Index(s, ":")
	if colon == -1 {
		return Range{}, fmt.Errorf("invalid range: %q", s)
	}
	start, err := ParseAddress(s[:colon])
	if err != nil {
		return Range{}, fmt.Errorf("invalid start cell in range %q: %w", s, err)
	}
	end, err := ParseAddress(s[colon+1:])
	if err != nil {
		return Range{}, fmt.Errorf("invalid end cell in range %q: %w", s, err)
	}
	return Range{Start: start, End: end}, nil
}

// sortAddresses orders a slice of addresses ascending, in place.
func sortAddresses(addrs []Address) {
	// insertion sort would do, but keep it obvious
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j].Less(addrs[j-1]); j-- {
			addrs[j], addrs[j-1] = addrs[j-1], addrs[j]
		}
	}
}
