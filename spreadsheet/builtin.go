package spreadsheet

import (
	"math"
	"sort"
	"strings"
)

// operand is one evaluated function argument: either a scalar value
// or an expanded range with its contained cell values in row-major
// order.
type operand struct {
	val     Value
	cells   []Value
	isRange bool
}

func scalarOperand(v Value) operand      { return operand{val: v} }
func rangeOperand(cells []Value) operand { return operand{cells: cells, isRange: true} }

type builtinFunc func(args []operand) Value

// funcSpec describes one builtin: its arity bounds and whether it can
// take range arguments. MaxArgs of -1 means variadic.
type funcSpec struct {
	Name         string
	MinArgs      int
	MaxArgs      int
	AcceptsRange bool
	fn           builtinFunc
}

// FuncTable is the closed registry of builtin functions. The default
// table is the full set; callers never extend it at runtime, so a
// formula's meaning cannot change between edits.
type FuncTable struct {
	specs map[string]funcSpec
}

// DefaultFuncTable builds the standard function registry.
func DefaultFuncTable() *FuncTable {
	t := &FuncTable{specs: make(map[string]funcSpec)}

	t.register("SUM", 1, -1, true, fnSUM)
	t.register("AVERAGE", 1, -1, true, fnAVERAGE)
	t.register("COUNT", 1, -1, true, fnCOUNT)
	t.register("COUNTA", 1, -1, true, fnCOUNTA)
	t.register("MIN", 1, -1, true, fnMIN)
	t.register("MAX", 1, -1, true, fnMAX)
	t.register("MEDIAN", 1, -1, true, fnMEDIAN)

	t.register("IF", 2, 3, false, fnIF)
	t.register("AND", 1, -1, false, fnAND)
	t.register("OR", 1, -1, false, fnOR)
	t.register("NOT", 1, 1, false, fnNOT)

	t.register("CONCATENATE", 1, -1, false, fnCONCATENATE)
	t.register("LEN", 1, 1, false, fnLEN)
	t.register("UPPER", 1, 1, false, fnUPPER)
	t.register("LOWER", 1, 1, false, fnLOWER)
	t.register("TRIM", 1, 1, false, fnTRIM)

	t.register("ABS", 1, 1, false, fnABS)
	t.register("ROUND", 1, 2, false, fnROUND)
	t.register("FLOOR", 1, 1, false, fnFLOOR)
	t.register("CEILING", 1, 1, false, fnCEILING)
	t.register("SQRT", 1, 1, false, fnSQRT)
	t.register("POWER", 2, 2, false, fnPOWER)
	t.register("MOD", 2, 2, false, fnMOD)
	t.register("PI", 0, 0, false, fnPI)

	return t
}

func (t *FuncTable) register(name string, minArgs, maxArgs int, acceptsRange bool, fn builtinFunc) {
	t.specs[name] = funcSpec{
		Name:         name,
		MinArgs:      minArgs,
		MaxArgs:      maxArgs,
		AcceptsRange: acceptsRange,
		fn:           fn,
	}
}

// Has reports whether the table knows the (uppercase) function name.
func (t *FuncTable) Has(name string) bool {
	_, ok := t.specs[name]
	return ok
}

// Names returns the registered function names, sorted.
func (t *FuncTable) Names() []string {
	names := make([]string, 0, len(t.specs))
	for name := range t.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes a builtin by uppercase name. Unknown names, arity
// violations, and ranges passed to scalar-only functions all come
// back as error values, never Go errors.
func (t *FuncTable) Call(name string, args []operand) Value {
	spec, ok := t.specs[name]
	if !ok {
		return ErrorValue(ErrorCodeUnknownFunction, "unknown function: "+name)
	}
	if len(args) < spec.MinArgs || (spec.MaxArgs >= 0 && len(args) > spec.MaxArgs) {
		return ErrorValue(ErrorCodeTypeMismatch, name+": wrong number of arguments")
	}
	if !spec.AcceptsRange {
		for _, arg := range args {
			if arg.isRange {
				return ErrorValue(ErrorCodeInvalidRange, name+" does not accept range arguments")
			}
		}
	}
	return spec.fn(args)
}

// collectNumbers flattens arguments into the numeric values the
// aggregates operate on. Scalar arguments coerce (text that parses as
// a number counts); range cells contribute only genuine numbers, and
// empty cells are skipped. An error value anywhere propagates.
func collectNumbers(args []operand) ([]float64, *CellError) {
	var nums []float64
	for _, arg := range args {
		if arg.isRange {
			for _, cell := range arg.cells {
				if cell.IsError() {
					return nil, cell.Err
				}
				if cell.Kind == KindNumber {
					nums = append(nums, cell.Num)
				}
			}
			continue
		}
		if arg.val.IsError() {
			return nil, arg.val.Err
		}
		if num, ok := arg.val.AsNumber(); ok {
			nums = append(nums, num)
		}
	}
	return nums, nil
}

// scalarNumber coerces a scalar argument or fails with TypeMismatch.
func scalarNumber(arg operand, context string) (float64, *CellError) {
	if arg.val.IsError() {
		return 0, arg.val.Err
	}
	num, ok := arg.val.AsNumber()
	if !ok {
		return 0, NewCellError(ErrorCodeTypeMismatch, context+" requires a numeric argument")
	}
	return num, nil
}

func fnSUM(args []operand) Value {
	nums, err := collectNumbers(args)
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return NumberValue(sum)
}

func fnAVERAGE(args []operand) Value {
	nums, err := collectNumbers(args)
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	if len(nums) == 0 {
		return ErrorValue(ErrorCodeDivideByZero, "AVERAGE of no numeric values")
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return NumberValue(sum / float64(len(nums)))
}

func fnCOUNT(args []operand) Value {
	count := 0
	for _, arg := range args {
		if arg.isRange {
			// errors in range cells are skipped, not propagated
			for _, cell := range arg.cells {
				if cell.Kind == KindNumber {
					count++
				}
			}
			continue
		}
		if arg.val.IsError() {
			return arg.val
		}
		if arg.val.Kind == KindNumber {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnCOUNTA(args []operand) Value {
	count := 0
	for _, arg := range args {
		if arg.isRange {
			// COUNTA counts error cells as non-empty
			for _, cell := range arg.cells {
				if cell.Kind != KindEmpty {
					count++
				}
			}
			continue
		}
		if arg.val.IsError() {
			return arg.val
		}
		if arg.val.Kind != KindEmpty {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnMIN(args []operand) Value {
	nums, err := collectNumbers(args)
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	if len(nums) == 0 {
		return NumberValue(0)
	}
	least := math.Inf(1)
	for _, num := range nums {
		if num < least {
			least = num
		}
	}
	return NumberValue(least)
}

func fnMAX(args []operand) Value {
	nums, err := collectNumbers(args)
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	if len(nums) == 0 {
		return NumberValue(0)
	}
	most := math.Inf(-1)
	for _, num := range nums {
		if num > most {
			most = num
		}
	}
	return NumberValue(most)
}

func fnMEDIAN(args []operand) Value {
	nums, err := collectNumbers(args)
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	if len(nums) == 0 {
		return ErrorValue(ErrorCodeTypeMismatch, "MEDIAN of no numeric values")
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 0 {
		// even count: average of the two middle values
		return NumberValue((nums[mid-1] + nums[mid]) / 2)
	}
	return NumberValue(nums[mid])
}

func fnIF(args []operand) Value {
	if args[0].val.IsError() {
		return args[0].val
	}
	if args[0].val.IsTruthy() {
		return args[1].val
	}
	if len(args) == 3 {
		return args[2].val
	}
	return BoolValue(false)
}

func fnAND(args []operand) Value {
	for _, arg := range args {
		if arg.val.IsError() {
			return arg.val
		}
		if !arg.val.IsTruthy() {
			return BoolValue(false)
		}
	}
	return BoolValue(true)
}

func fnOR(args []operand) Value {
	for _, arg := range args {
		if arg.val.IsError() {
			return arg.val
		}
		if arg.val.IsTruthy() {
			return BoolValue(true)
		}
	}
	return BoolValue(false)
}

func fnNOT(args []operand) Value {
	if args[0].val.IsError() {
		return args[0].val
	}
	return BoolValue(!args[0].val.IsTruthy())
}

func fnCONCATENATE(args []operand) Value {
	var result strings.Builder
	for _, arg := range args {
		if arg.val.IsError() {
			return arg.val
		}
		result.WriteString(arg.val.AsText())
	}
	return TextValue(result.String())
}

func fnLEN(args []operand) Value {
	if args[0].val.IsError() {
		return args[0].val
	}
	return NumberValue(float64(len([]rune(args[0].val.AsText()))))
}

func fnUPPER(args []operand) Value {
	if args[0].val.IsError() {
		return args[0].val
	}
	return TextValue(strings.ToUpper(args[0].val.AsText()))
}

func fnLOWER(args []operand) Value {
	if args[0].val.IsError() {
		return args[0].val
	}
	return TextValue(strings.ToLower(args[0].val.AsText()))
}

func fnTRIM(args []operand) Value {
	if args[0].val.IsError() {
		return args[0].val
	}
	return TextValue(strings.TrimSpace(args[0].val.AsText()))
}

func fnABS(args []operand) Value {
	num, err := scalarNumber(args[0], "ABS")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	return NumberValue(math.Abs(num))
}

func fnROUND(args []operand) Value {
	num, err := scalarNumber(args[0], "ROUND")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	places := 0.0
	if len(args) == 2 {
		places, err = scalarNumber(args[1], "ROUND")
		if err != nil {
			return Value{Kind: KindError, Err: err}
		}
	}
	multiplier := math.Pow(10, places)
	return NumberValue(math.Round(num*multiplier) / multiplier)
}

func fnFLOOR(args []operand) Value {
	num, err := scalarNumber(args[0], "FLOOR")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	return NumberValue(math.Floor(num))
}

func fnCEILING(args []operand) Value {
	num, err := scalarNumber(args[0], "CEILING")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	return NumberValue(math.Ceil(num))
}

func fnSQRT(args []operand) Value {
	num, err := scalarNumber(args[0], "SQRT")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	if num < 0 {
		return ErrorValue(ErrorCodeTypeMismatch, "SQRT of a negative number")
	}
	return NumberValue(math.Sqrt(num))
}

func fnPOWER(args []operand) Value {
	base, err := scalarNumber(args[0], "POWER")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	exp, err := scalarNumber(args[1], "POWER")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	return NumberValue(math.Pow(base, exp))
}

func fnMOD(args []operand) Value {
	dividend, err := scalarNumber(args[0], "MOD")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	divisor, err := scalarNumber(args[1], "MOD")
	if err != nil {
		return Value{Kind: KindError, Err: err}
	}
	if divisor == 0 {
		return ErrorValue(ErrorCodeDivideByZero, "MOD by zero")
	}
	return NumberValue(math.Mod(dividend, divisor))
}

func fnPI(args []operand) Value {
	return NumberValue(math.Pi)
}
