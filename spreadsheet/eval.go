package spreadsheet

import "math"

// Lookup resolves a cell address to its current value during
// evaluation. Reading an address with no cell yields Empty; the grid
// substitutes Error(RefMissing) for addresses beyond its capacity.
// Recalculation ordering guarantees every address a formula reads is
// already up to date when the formula runs.
type Lookup func(Address) Value

// Eval evaluates an expression against a lookup capability and the
// builtin function table. Evaluation is pure: same tree, same lookup
// results, same value. It never returns a Go error; every failure is
// an error Value. The first error encountered left-to-right,
// outer-to-inner wins and propagates unchanged.
func Eval(root Expr, lookup Lookup, funcs *FuncTable) Value {
	switch n := root.(type) {
	case *Literal:
		return n.Val

	case *CellRef:
		return lookup(n.Addr)

	case *RangeRef:
		// a bare range has no scalar meaning
		return ErrorValue(ErrorCodeInvalidRange, "range used as a scalar value")

	case *UnaryExpr:
		return evalUnary(n, lookup, funcs)

	case *BinaryExpr:
		return evalBinary(n, lookup, funcs)

	case *CallExpr:
		return evalCall(n, lookup, funcs)
	}

	// unreachable: the node set is closed
	return ErrorValue(ErrorCodeSyntax, "unknown expression node")
}

func evalUnary(n *UnaryExpr, lookup Lookup, funcs *FuncTable) Value {
	val := Eval(n.X, lookup, funcs)
	if val.IsError() {
		return val
	}

	num, ok := val.AsNumber()
	if !ok {
		return ErrorValue(ErrorCodeTypeMismatch, "operand is not numeric")
	}

	switch n.Op {
	case UnaryOpPlus:
		return NumberValue(num)
	case UnaryOpMinus:
		return NumberValue(-num)
	default: // UnaryOpPercent
		return NumberValue(num / 100)
	}
}

func evalBinary(n *BinaryExpr, lookup Lookup, funcs *FuncTable) Value {
	left := Eval(n.Left, lookup, funcs)
	if left.IsError() {
		return left
	}
	right := Eval(n.Right, lookup, funcs)
	if right.IsError() {
		return right
	}

	switch n.Op {
	case BinOpAdd, BinOpSubtract, BinOpMultiply, BinOpDivide, BinOpPower:
		leftNum, leftOk := left.AsNumber()
		rightNum, rightOk := right.AsNumber()
		if !leftOk || !rightOk {
			return ErrorValue(ErrorCodeTypeMismatch, "operand is not numeric")
		}
		switch n.Op {
		case BinOpAdd:
			return NumberValue(leftNum + rightNum)
		case BinOpSubtract:
			return NumberValue(leftNum - rightNum)
		case BinOpMultiply:
			return NumberValue(leftNum * rightNum)
		case BinOpDivide:
			if rightNum == 0 {
				return ErrorValue(ErrorCodeDivideByZero, "division by zero")
			}
			return NumberValue(leftNum / rightNum)
		default:
			return NumberValue(math.Pow(leftNum, rightNum))
		}

	case BinOpConcat:
		return TextValue(left.AsText() + right.AsText())

	case BinOpEqual:
		cmp, ok := compareValues(left, right)
		return BoolValue(ok && cmp == 0)

	case BinOpNotEqual:
		cmp, ok := compareValues(left, right)
		return BoolValue(!ok || cmp != 0)

	default:
		cmp, ok := compareValues(left, right)
		if !ok {
			return ErrorValue(ErrorCodeTypeMismatch, "operands cannot be ordered")
		}
		switch n.Op {
		case BinOpLess:
			return BoolValue(cmp < 0)
		case BinOpLessEqual:
			return BoolValue(cmp <= 0)
		case BinOpGreater:
			return BoolValue(cmp > 0)
		default: // BinOpGreaterEqual
			return BoolValue(cmp >= 0)
		}
	}
}

func evalCall(n *CallExpr, lookup Lookup, funcs *FuncTable) Value {
	args := make([]operand, len(n.Args))
	for i, argNode := range n.Args {
		// a range argument is expanded to its contained values in
		// row-major order rather than evaluated as a scalar
		if rangeNode, ok := argNode.(*RangeRef); ok {
			addrs := rangeNode.Span.Addresses()
			cells := make([]Value, len(addrs))
			for j, addr := range addrs {
				cells[j] = lookup(addr)
			}
			args[i] = rangeOperand(cells)
			continue
		}

		val := Eval(argNode, lookup, funcs)
		if val.IsError() {
			return val
		}
		args[i] = scalarOperand(val)
	}

	return funcs.Call(n.Name, args)
}
