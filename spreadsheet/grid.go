package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// DiagnosticKind classifies edit-time failures.
type DiagnosticKind uint8

const (
	DiagBadAddress DiagnosticKind = iota + 1
	DiagSyntax
	DiagCycle
)

// Diagnostic is returned from editing operations when an edit is
// rejected or stored in a degraded form. Evaluation errors are not
// diagnostics: they are stored in cells as error values.
type Diagnostic struct {
	Kind   DiagnosticKind
	Addr   Address
	Detail string
}

func (d *Diagnostic) Error() string {
	switch d.Kind {
	case DiagBadAddress:
		return fmt.Sprintf("%s: invalid address: %s", d.Addr, d.Detail)
	case DiagSyntax:
		return fmt.Sprintf("%s: %s", d.Addr, d.Detail)
	case DiagCycle:
		return fmt.Sprintf("%s: formula would create a reference cycle", d.Addr)
	}
	return fmt.Sprintf("%s: %s", d.Addr, d.Detail)
}

// CellContent is one raw cell as loaded into or dumped from a grid.
type CellContent struct {
	Addr Address
	Raw  string
}

// RecalcStats describes the last recalculation pass: which cells were
// evaluated and in what order. Incremental recalculation touches the
// edited cell and its transitive dependents, nothing else.
type RecalcStats struct {
	Order []Address
}

// Evaluated returns the number of cells the pass computed.
func (s RecalcStats) Evaluated() int { return len(s.Order) }

// Config carries optional grid settings. Zero values mean no row or
// column limit and no logging.
type Config struct {
	MaxRows int
	MaxCols int
	Logger  *slog.Logger
}

// Grid owns the cells and the dependency graph and keeps them
// consistent through edits. A grid is single-threaded by design;
// callers that share one across goroutines must serialize access.
type Grid struct {
	cells   map[Address]*Cell
	graph   *Graph
	funcs   *FuncTable
	maxRows int
	maxCols int
	log     *slog.Logger

	lastPass RecalcStats
}

// NewGrid creates an empty grid.
func NewGrid(cfg Config) *Grid {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Grid{
		cells:   make(map[Address]*Cell),
		graph:   NewGraph(),
		funcs:   DefaultFuncTable(),
		maxRows: cfg.MaxRows,
		maxCols: cfg.MaxCols,
		log:     logger,
	}
}

// SetCell stores raw content at addr and synchronously recalculates
// the cell and everything that transitively depends on it. Formula
// text starts with '='; anything else is a literal. Setting empty
// text clears the cell. A non-nil return is a *Diagnostic; syntax and
// cycle diagnostics still record the raw text with an error value so
// the sheet remains inspectable.
func (g *Grid) SetCell(addr Address, raw string) error {
	if diag := g.checkAddress(addr); diag != nil {
		return diag
	}

	if raw == "" {
		return g.ClearCell(addr)
	}

	if raw[0] != '=' {
		g.cells[addr] = &Cell{Raw: raw, Dirty: true}
		g.graph.SetEdges(addr, nil)
		g.recalcFrom(addr)
		return nil
	}

	expr, perr := ParseFormula(raw)
	if perr != nil {
		// the old formula is gone either way; keep the raw text and
		// surface the failure as the cell's value
		g.graph.SetEdges(addr, nil)
		g.cells[addr] = &Cell{Raw: raw, Value: ErrorValue(ErrorCodeSyntax, perr.Error())}
		g.recalcFrom(addr)
		g.log.Debug("rejected formula", "addr", addr.String(), "reason", perr.Error())
		return &Diagnostic{Kind: DiagSyntax, Addr: addr, Detail: perr.Error()}
	}

	refs := ReferencedAddresses(expr)
	if g.graph.WouldCycle(addr, refs) {
		// reject the edit: no new edges are committed, prior edge
		// state is untouched, and dependents keep their prior values.
		// the parsed tree is dropped so recalculation cannot
		// resurrect it
		g.cells[addr] = &Cell{Raw: raw, Value: ErrorValue(ErrorCodeCycle, "")}
		g.log.Debug("rejected formula", "addr", addr.String(), "reason", "cycle")
		return &Diagnostic{Kind: DiagCycle, Addr: addr}
	}

	g.graph.SetEdges(addr, refs)
	g.cells[addr] = &Cell{Raw: raw, Expr: expr, Dirty: true}
	g.recalcFrom(addr)
	return nil
}

// ClearCell removes the cell at addr. Formulas that read it observe
// the empty value on the recalculation this triggers.
func (g *Grid) ClearCell(addr Address) error {
	if diag := g.checkAddress(addr); diag != nil {
		return diag
	}

	_, existed := g.cells[addr]
	delete(g.cells, addr)
	g.graph.SetEdges(addr, nil)

	if !existed {
		return nil
	}

	dirty := g.graph.DependentsOf(addr)
	g.recalc(dirty)
	return nil
}

// GetValue returns the computed value at addr; Empty for cells that
// do not exist.
func (g *Grid) GetValue(addr Address) Value {
	cell, ok := g.cells[addr]
	if !ok {
		return EmptyValue()
	}
	return cell.Value
}

// GetRaw returns the raw content at addr as it was entered.
func (g *Grid) GetRaw(addr Address) (string, bool) {
	cell, ok := g.cells[addr]
	if !ok {
		return "", false
	}
	return cell.Raw, true
}

// GetDisplayText renders the cell the way a viewer shows it: literal
// cells show their text exactly as entered, formula cells show the
// computed value with errors as their #CODE! strings.
func (g *Grid) GetDisplayText(addr Address) string {
	cell, ok := g.cells[addr]
	if !ok {
		return ""
	}
	if !cell.IsFormula() {
		return cell.Raw
	}
	return cell.Value.Display()
}

// Load bulk-applies raw contents in ascending address order and runs
// exactly one recalculation pass at the end. Per-cell diagnostics are
// joined into the returned error; cells that failed still carry their
// error values, and all other cells load normally.
func (g *Grid) Load(contents []CellContent) error {
	sorted := make([]CellContent, len(contents))
	copy(sorted, contents)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Addr.Less(sorted[j-1].Addr); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var diags []error
	dirty := make(map[Address]struct{})

	for _, content := range sorted {
		if diag := g.applyQuiet(content.Addr, content.Raw); diag != nil {
			diags = append(diags, diag)
		}
		dirty[content.Addr] = struct{}{}
		for _, dep := range g.graph.DependentsOf(content.Addr) {
			dirty[dep] = struct{}{}
		}
	}

	subset := make([]Address, 0, len(dirty))
	for addr := range dirty {
		subset = append(subset, addr)
	}
	g.recalc(subset)

	g.log.Debug("loaded cells", "count", len(sorted), "diagnostics", len(diags))
	return errors.Join(diags...)
}

// applyQuiet stores raw content without recalculating. Shared by Load.
func (g *Grid) applyQuiet(addr Address, raw string) error {
	if diag := g.checkAddress(addr); diag != nil {
		return diag
	}

	if raw == "" {
		delete(g.cells, addr)
		g.graph.SetEdges(addr, nil)
		return nil
	}

	if raw[0] != '=' {
		g.cells[addr] = &Cell{Raw: raw, Dirty: true}
		g.graph.SetEdges(addr, nil)
		return nil
	}

	expr, perr := ParseFormula(raw)
	if perr != nil {
		g.graph.SetEdges(addr, nil)
		g.cells[addr] = &Cell{Raw: raw, Value: ErrorValue(ErrorCodeSyntax, perr.Error())}
		return &Diagnostic{Kind: DiagSyntax, Addr: addr, Detail: perr.Error()}
	}

	refs := ReferencedAddresses(expr)
	if g.graph.WouldCycle(addr, refs) {
		g.cells[addr] = &Cell{Raw: raw, Value: ErrorValue(ErrorCodeCycle, "")}
		return &Diagnostic{Kind: DiagCycle, Addr: addr}
	}

	g.graph.SetEdges(addr, refs)
	g.cells[addr] = &Cell{Raw: raw, Expr: expr, Dirty: true}
	return nil
}

// Dump returns every occupied cell's raw content, ascending by
// address, suitable for feeding back through Load.
func (g *Grid) Dump() []CellContent {
	addrs := make([]Address, 0, len(g.cells))
	for addr := range g.cells {
		addrs = append(addrs, addr)
	}
	sortAddresses(addrs)

	out := make([]CellContent, len(addrs))
	for i, addr := range addrs {
		out[i] = CellContent{Addr: addr, Raw: g.cells[addr].Raw}
	}
	return out
}

// Extent returns the number of rows and columns that bound the
// occupied cells: one past the largest occupied row and column.
func (g *Grid) Extent() (rows, cols int) {
	for addr := range g.cells {
		if addr.Row+1 > rows {
			rows = addr.Row + 1
		}
		if addr.Col+1 > cols {
			cols = addr.Col + 1
		}
	}
	return rows, cols
}

// CellCount returns the number of occupied cells.
func (g *Grid) CellCount() int { return len(g.cells) }

// LastRecalc reports the most recent recalculation pass.
func (g *Grid) LastRecalc() RecalcStats { return g.lastPass }

// checkAddress rejects negative addresses and addresses beyond the
// configured capacity.
func (g *Grid) checkAddress(addr Address) *Diagnostic {
	if addr.Row < 0 || addr.Col < 0 {
		return &Diagnostic{Kind: DiagBadAddress, Addr: addr, Detail: "negative row or column"}
	}
	if (g.maxRows > 0 && addr.Row >= g.maxRows) || (g.maxCols > 0 && addr.Col >= g.maxCols) {
		return &Diagnostic{Kind: DiagBadAddress, Addr: addr, Detail: "beyond grid capacity"}
	}
	return nil
}

// inCapacity reports whether a referenced address is inside the grid.
func (g *Grid) inCapacity(addr Address) bool {
	if addr.Row < 0 || addr.Col < 0 {
		return false
	}
	if g.maxRows > 0 && addr.Row >= g.maxRows {
		return false
	}
	if g.maxCols > 0 && addr.Col >= g.maxCols {
		return false
	}
	return true
}

// lookup is the capability handed to the evaluator.
func (g *Grid) lookup(addr Address) Value {
	if !g.inCapacity(addr) {
		return ErrorValue(ErrorCodeRefMissing, "reference beyond grid capacity")
	}
	cell, ok := g.cells[addr]
	if !ok {
		return EmptyValue()
	}
	return cell.Value
}

// recalcFrom recalculates addr and its transitive dependents.
func (g *Grid) recalcFrom(addr Address) {
	dirty := append(g.graph.DependentsOf(addr), addr)
	g.recalc(dirty)
}

// recalc evaluates the given cells in topological order, dependencies
// before dependents, ties broken by ascending address. Cells are
// never skipped because an input holds an error: the error simply
// propagates through evaluation.
func (g *Grid) recalc(dirty []Address) {
	order, err := g.graph.TopologicalOrder(dirty)
	if err != nil {
		// the committed graph is acyclic, so this cannot happen
		// through the public API
		g.log.Error("recalculation order failed", "err", err)
		order = append([]Address(nil), dirty...)
		sortAddresses(order)
	}

	evaluated := make([]Address, 0, len(order))
	for _, addr := range order {
		cell, ok := g.cells[addr]
		if !ok {
			// cleared cell still listed among dependents
			continue
		}
		cell.Value = g.computeCell(cell)
		cell.Dirty = false
		evaluated = append(evaluated, addr)
	}

	g.lastPass = RecalcStats{Order: evaluated}
	g.log.Debug("recalculated", "cells", len(evaluated))
}

// computeCell produces the value for one cell. Formula cells without
// a parsed tree keep their stored syntax or cycle error.
func (g *Grid) computeCell(cell *Cell) Value {
	if cell.Expr != nil {
		return Eval(cell.Expr, g.lookup, g.funcs)
	}
	if cell.IsFormula() {
		return cell.Value
	}
	return LiteralValue(cell.Raw)
}

// Functions exposes the builtin registry, e.g. for host tooling that
// lists what formulas may call.
func (g *Grid) Functions() []string {
	return g.funcs.Names()
}

// String renders a compact summary for debugging.
func (g *Grid) String() string {
	var b strings.Builder
	for _, content := range g.Dump() {
		fmt.Fprintf(&b, "%s=%s\n", content.Addr, content.Raw)
	}
	return b.String()
}
