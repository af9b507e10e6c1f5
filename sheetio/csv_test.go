package sheetio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/spreadsheet"
)

func addr(t *testing.T, s string) spreadsheet.Address {
	t.Helper()
	a, err := spreadsheet.ParseAddress(s)
	require.NoError(t, err)
	return a
}

func TestReadCSV(t *testing.T) {
	input := "1,2,=A1+B1\nx,,\n"

	contents, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	want := []spreadsheet.CellContent{
		{Addr: addr(t, "A1"), Raw: "1"},
		{Addr: addr(t, "B1"), Raw: "2"},
		{Addr: addr(t, "C1"), Raw: "=A1+B1"},
		{Addr: addr(t, "A2"), Raw: "x"},
	}
	assert.Equal(t, want, contents)
}

func TestReadCSVCustomDelimiter(t *testing.T) {
	input := "1;2\n;3\n"

	contents, err := ReadCSV(strings.NewReader(input), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, spreadsheet.CellContent{Addr: addr(t, "B2"), Raw: "3"}, contents[2])
}

func TestWriteCSVRaw(t *testing.T) {
	g := spreadsheet.NewGrid(spreadsheet.Config{})
	require.NoError(t, g.SetCell(addr(t, "A1"), "1"))
	require.NoError(t, g.SetCell(addr(t, "B1"), "2"))
	require.NoError(t, g.SetCell(addr(t, "A2"), "=A1+B1"))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g, CSVOptions{}))
	assert.Equal(t, "1,2\n=A1+B1,\n", buf.String())
}

func TestWriteCSVComputed(t *testing.T) {
	g := spreadsheet.NewGrid(spreadsheet.Config{})
	require.NoError(t, g.SetCell(addr(t, "A1"), "1"))
	require.NoError(t, g.SetCell(addr(t, "B1"), "2"))
	require.NoError(t, g.SetCell(addr(t, "A2"), "=A1+B1"))
	require.NoError(t, g.SetCell(addr(t, "B2"), "=1/0"))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g, CSVOptions{Computed: true}))
	assert.Equal(t, "1,2\n3,#DIV/0!\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	g := spreadsheet.NewGrid(spreadsheet.Config{})
	require.NoError(t, g.SetCell(addr(t, "A1"), "10"))
	require.NoError(t, g.SetCell(addr(t, "A2"), "20"))
	require.NoError(t, g.SetCell(addr(t, "B1"), "=SUM(A1:A2)"))
	require.NoError(t, g.SetCell(addr(t, "B2"), "label"))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g, CSVOptions{}))

	contents, err := ReadCSV(&buf, CSVOptions{})
	require.NoError(t, err)

	reloaded := spreadsheet.NewGrid(spreadsheet.Config{})
	require.NoError(t, reloaded.Load(contents))

	got := reloaded.GetValue(addr(t, "B1"))
	assert.Equal(t, spreadsheet.KindNumber, got.Kind)
	assert.Equal(t, 30.0, got.Num)
	assert.Equal(t, "label", reloaded.GetValue(addr(t, "B2")).Str)
}
