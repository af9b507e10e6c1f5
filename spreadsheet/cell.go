package spreadsheet

import (
	"strconv"
)

// ErrorCode classifies cell-level evaluation errors. The set is closed:
// every error a formula can produce carries exactly one of these codes.
type ErrorCode uint8

const (
	ErrorCodeSyntax          ErrorCode = 1 // formula text failed to parse
	ErrorCodeCycle           ErrorCode = 2 // edit rejected for introducing a reference cycle
	ErrorCodeTypeMismatch    ErrorCode = 3 // wrong type of argument or operand
	ErrorCodeDivideByZero    ErrorCode = 4 // division or modulo by zero
	ErrorCodeInvalidRange    ErrorCode = 5 // range used where a scalar is required
	ErrorCodeUnknownFunction ErrorCode = 6 // unrecognized function name
	ErrorCodeRefMissing      ErrorCode = 7 // reference outside the grid's capacity
)

// ErrorMapper maps error codes to their Excel-style display strings.
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeSyntax:          "#SYNTAX!",
	ErrorCodeCycle:           "#CYCLE!",
	ErrorCodeTypeMismatch:    "#VALUE!",
	ErrorCodeDivideByZero:    "#DIV/0!",
	ErrorCodeInvalidRange:    "#RANGE!",
	ErrorCodeUnknownFunction: "#NAME?",
	ErrorCodeRefMissing:      "#REF!",
}

// CellError preserves the error code for display in cells.
type CellError struct {
	Code    ErrorCode
	Message string
}

func (e *CellError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrorMapper[e.Code]
}

func NewCellError(code ErrorCode, message string) *CellError {
	if message == "" {
		message = ErrorMapper[code]
	}
	return &CellError{
		Code:    code,
		Message: message,
	}
}

// ValueKind enumerates the variants of Value.
type ValueKind uint8

const (
	KindEmpty  ValueKind = 0
	KindNumber ValueKind = 1
	KindText   ValueKind = 2
	KindBool   ValueKind = 3
	KindError  ValueKind = 4
)

// Value is the result of evaluating a cell: a closed tagged union of
// Empty, Number, Text, Bool, and Error. The zero Value is Empty.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Flag bool
	Err  *CellError
}

func EmptyValue() Value           { return Value{Kind: KindEmpty} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func TextValue(s string) Value    { return Value{Kind: KindText, Str: s} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Flag: b} }

func ErrorValue(code ErrorCode, message string) Value {
	return Value{Kind: KindError, Err: NewCellError(code, message)}
}

// IsError reports whether the value is an error variant.
func (v Value) IsError() bool { return v.Kind == KindError }

// ErrorCode returns the error code, or zero for non-error values.
func (v Value) ErrorCode() ErrorCode {
	if v.Err == nil {
		return 0
	}
	return v.Err.Code
}

// AsNumber coerces the value to a number for arithmetic contexts.
// Empty coerces to 0, booleans to 0/1, and text that parses as a
// number coerces to that number. Anything else does not coerce.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindEmpty:
		return 0, true
	case KindNumber:
		return v.Num, true
	case KindBool:
		if v.Flag {
			return 1, true
		}
		return 0, true
	case KindText:
		if n, err := strconv.ParseFloat(v.Str, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// AsText coerces the value to text for concatenation contexts.
// Empty coerces to "".
func (v Value) AsText() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindNumber:
		return formatNumber(v.Num)
	case KindText:
		return v.Str
	case KindBool:
		if v.Flag {
			return "TRUE"
		}
		return "FALSE"
	case KindError:
		return ErrorMapper[v.Err.Code]
	}
	return ""
}

// IsTruthy reports the boolean interpretation used by IF/AND/OR:
// false, 0, "", and empty are falsy, everything else is truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindEmpty:
		return false
	case KindNumber:
		return v.Num != 0
	case KindText:
		return v.Str != ""
	case KindBool:
		return v.Flag
	}
	return false
}

// Display renders the value the way a grid cell shows it.
func (v Value) Display() string {
	if v.Kind == KindError {
		return ErrorMapper[v.Err.Code]
	}
	return v.AsText()
}

// Equal reports structural equality of two values. Error values are
// equal when their codes match.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindText:
		return v.Str == o.Str
	case KindBool:
		return v.Flag == o.Flag
	case KindError:
		return v.Err.Code == o.Err.Code
	}
	return true
}

// formatNumber renders a float the way spreadsheets do: integers
// without a decimal point, everything else in shortest form.
func formatNumber(n float64) string {
	if n == float64(int64(n)) && n < 1e15 && n > -1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// compareValues orders two values for the comparison operators.
// Returns -1, 0, or 1, or incomparable=false when the operands cannot
// be ordered (mixed non-coercible types).
func compareValues(a, b Value) (int, bool) {
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	if aok && bok {
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		}
		return 0, true
	}
	if a.Kind == KindText && b.Kind == KindText {
		switch {
		case a.Str < b.Str:
			return -1, true
		case a.Str > b.Str:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Cell holds one grid cell: the raw text as entered, the parsed
// formula (nil for literal cells), the last computed value, and the
// dirty flag consumed by recalculation.
type Cell struct {
	Raw   string
	Expr  Expr
	Value Value
	Dirty bool
}

// IsFormula reports whether the cell was entered as a formula.
func (c *Cell) IsFormula() bool {
	return len(c.Raw) > 0 && c.Raw[0] == '='
}

// LiteralValue interprets raw cell text that is not a formula.
// Numbers and TRUE/FALSE are recognized, everything else is text.
func LiteralValue(raw string) Value {
	if raw == "" {
		return EmptyValue()
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return NumberValue(n)
	}
	switch raw {
	case "TRUE", "true", "True":
		return BoolValue(true)
	case "FALSE", "false", "False":
		return BoolValue(false)
	}
	return TextValue(raw)
}

var _ error = (*CellError)(nil)
