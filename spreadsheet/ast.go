package spreadsheet

import "strings"

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	BinOpAdd BinaryOp = iota
	BinOpSubtract
	BinOpMultiply
	BinOpDivide
	BinOpPower
	BinOpConcat
	BinOpEqual
	BinOpNotEqual
	BinOpLess
	BinOpLessEqual
	BinOpGreater
	BinOpGreaterEqual
)

var binaryOpText = map[BinaryOp]string{
	BinOpAdd:          "+",
	BinOpSubtract:     "-",
	BinOpMultiply:     "*",
	BinOpDivide:       "/",
	BinOpPower:        "^",
	BinOpConcat:       "&",
	BinOpEqual:        "=",
	BinOpNotEqual:     "<>",
	BinOpLess:         "<",
	BinOpLessEqual:    "<=",
	BinOpGreater:      ">",
	BinOpGreaterEqual: ">=",
}

func (op BinaryOp) String() string { return binaryOpText[op] }

// UnaryOp represents unary operators in AST nodes
type UnaryOp int

const (
	UnaryOpPlus UnaryOp = iota
	UnaryOpMinus
	UnaryOpPercent // postfix: divides by 100
)

// Expr is a parsed formula expression. The node set is closed: every
// expression is exactly one of Literal, CellRef, RangeRef, UnaryExpr,
// BinaryExpr, or CallExpr, and consumers switch exhaustively over
// these six types rather than dispatching through node methods.
type Expr interface {
	// Pos returns the rune offset of the node in the formula source.
	Pos() int
	// String renders canonical formula text (without the '=' marker)
	// whose reparse is structurally equal to the node.
	String() string
	exprNode()
}

// Literal is a number, text, or boolean constant.
type Literal struct {
	Val      Value
	Position int
}

// CellRef references a single cell by address.
type CellRef struct {
	Addr     Address
	Position int
}

// RangeRef references a rectangular cell range.
type RangeRef struct {
	Span     Range
	Position int
}

// UnaryExpr applies a prefix sign or the postfix percent operator.
type UnaryExpr struct {
	Op       UnaryOp
	X        Expr
	Position int
}

// BinaryExpr applies an infix operator to two operands.
type BinaryExpr struct {
	Op       BinaryOp
	Left     Expr
	Right    Expr
	Position int
}

// CallExpr invokes a builtin function. Name is uppercase.
type CallExpr struct {
	Name     string
	Args     []Expr
	Position int
}

func (e *Literal) exprNode()    {}
func (e *CellRef) exprNode()    {}
func (e *RangeRef) exprNode()   {}
func (e *UnaryExpr) exprNode()  {}
func (e *BinaryExpr) exprNode() {}
func (e *CallExpr) exprNode()   {}

func (e *Literal) Pos() int    { return e.Position }
func (e *CellRef) Pos() int    { return e.Position }
func (e *RangeRef) Pos() int   { return e.Position }
func (e *UnaryExpr) Pos() int  { return e.Position }
func (e *BinaryExpr) Pos() int { return e.Position }
func (e *CallExpr) Pos() int   { return e.Position }

func (e *Literal) String() string {
	switch e.Val.Kind {
	case KindText:
		// re-escape embedded quotes by doubling them
		return `"` + strings.ReplaceAll(e.Val.Str, `"`, `""`) + `"`
	case KindBool:
		if e.Val.Flag {
			return "TRUE"
		}
		return "FALSE"
	default:
		return formatNumber(e.Val.Num)
	}
}

func (e *CellRef) String() string  { return e.Addr.String() }
func (e *RangeRef) String() string { return e.Span.String() }

func (e *UnaryExpr) String() string {
	switch e.Op {
	case UnaryOpMinus:
		return "-" + e.X.String()
	case UnaryOpPlus:
		return "+" + e.X.String()
	default:
		return e.X.String() + "%"
	}
}

// String parenthesizes both operands so the rendered text reparses to
// the same tree regardless of operator precedence.
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + e.Op.String() + e.Right.String() + ")"
}

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "(" + strings.Join(args, ",") + ")"
}

// FormulaText renders the full canonical formula including the '='
// marker, suitable for feeding back through ParseFormula.
func FormulaText(root Expr) string {
	return "=" + root.String()
}

// Refs walks the expression iteratively and returns every CellRef and
// RangeRef node, one entry per occurrence, in left-to-right source
// order. Duplicate references are preserved.
func Refs(root Expr) []Expr {
	var out []Expr
	stack := []Expr{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := node.(type) {
		case *Literal:
			// no references
		case *CellRef:
			out = append(out, n)
		case *RangeRef:
			out = append(out, n)
		case *UnaryExpr:
			stack = append(stack, n.X)
		case *BinaryExpr:
			// push right first so left pops first
			stack = append(stack, n.Right, n.Left)
		case *CallExpr:
			for i := len(n.Args) - 1; i >= 0; i-- {
				stack = append(stack, n.Args[i])
			}
		}
	}
	return out
}

// ReferencedAddresses expands every reference in the expression into
// individual addresses, ranges expanded per contained address, with
// duplicates removed. Order follows first occurrence.
func ReferencedAddresses(root Expr) []Address {
	var out []Address
	seen := map[Address]bool{}
	for _, ref := range Refs(root) {
		switch r := ref.(type) {
		case *CellRef:
			if !seen[r.Addr] {
				seen[r.Addr] = true
				out = append(out, r.Addr)
			}
		case *RangeRef:
			for _, addr := range r.Span.Addresses() {
				if !seen[addr] {
					seen[addr] = true
					out = append(out, addr)
				}
			}
		}
	}
	return out
}

// EqualExpr reports structural equality of two expression trees.
// Positions are ignored: a reparsed canonical rendering is equal to
// the tree it was rendered from.
func EqualExpr(a, b Expr) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Val.Equal(y.Val)
	case *CellRef:
		y, ok := b.(*CellRef)
		return ok && x.Addr == y.Addr
	case *RangeRef:
		y, ok := b.(*RangeRef)
		return ok && x.Span.Normalize() == y.Span.Normalize()
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && EqualExpr(x.X, y.X)
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && EqualExpr(x.Left, y.Left) && EqualExpr(x.Right, y.Right)
	case *CallExpr:
		y, ok := b.(*CallExpr)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !EqualExpr(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
