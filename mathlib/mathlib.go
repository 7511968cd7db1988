// Package mathlib configures a symexpr.Environment[*big.Float] with a
// full set of arithmetic operators, constants, and functions, the way
// original_source/include/eval.hpp's simple::setup_allmath configures
// its C++ evaluator. It is the "trivial collaborator atop the core"
// symexpr itself deliberately stays ignorant of.
package mathlib

import (
	"math"
	"math/big"
	"unicode"

	"github.com/arborix/symexpr"
	"github.com/zephyrtronium/bigfloat"
)

// DefaultPrec is the mantissa precision, in bits, given to every
// constant and to every result computed through a float64 round-trip.
// Operations on *big.Float values that already carry their own
// precision (ordinary arithmetic) keep that precision instead.
const DefaultPrec = 200

// DomainError reports a callable invoked with arguments outside the
// domain it can compute over, such as a division or modulo by zero, or
// the logarithm of a non-positive value.
type DomainError struct {
	Op  string
	Why string
}

func (err *DomainError) Error() string {
	return "mathlib: " + err.Op + ": " + err.Why
}

// Install configures env with brackets, a comma separator, whitespace
// skipping, a numeric-literal recognizer, and the full arithmetic,
// constant, and function set InstallArithmetic, InstallConstants, and
// InstallFunctions provide. It mirrors setup_allmath's one-call
// convenience over its setup_whitespace / setup_brackets / setup_cut /
// setup_constant_parser / setup_* sequence.
func Install(env *symexpr.Environment[*big.Float]) error {
	env.EnableBrackets('(', ')')
	env.EnableSeparator(',')
	env.IsSpace = unicode.IsSpace
	env.ConstantParser = ParseConstant
	if err := InstallArithmetic(env); err != nil {
		return err
	}
	if err := InstallConstants(env); err != nil {
		return err
	}
	if err := InstallFunctions(env); err != nil {
		return err
	}
	return nil
}

func prec(args ...*big.Float) uint {
	best := uint(0)
	for _, a := range args {
		if a != nil && a.Prec() > best {
			best = a.Prec()
		}
	}
	if best == 0 {
		return DefaultPrec
	}
	return best
}

func val(h symexpr.Handle[*big.Float]) *big.Float { return h.Value() }

// InstallArithmetic registers +, -, *, /, ^, %, unary +, unary -, and
// the = assignment operator, grounded on eval.hpp's setup_arithmetic and
// setup_assignment and on the teacher's arithmetic node-evaluation
// cases, including its division and power domain guards.
func InstallArithmetic(env *symexpr.Environment[*big.Float]) error {
	var firstErr error
	reg2 := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	reg2(env.RegisterInfix("+", 10, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		return new(big.Float).SetPrec(prec(a, b)).Add(a, b), nil
	}))
	reg2(env.RegisterInfix("-", 10, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		return new(big.Float).SetPrec(prec(a, b)).Sub(a, b), nil
	}))
	reg2(env.RegisterInfix("*", 20, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		return new(big.Float).SetPrec(prec(a, b)).Mul(a, b), nil
	}))
	reg2(env.RegisterInfix("/", 20, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		if b.Sign() == 0 {
			return nil, &DomainError{Op: "/", Why: "division by zero"}
		}
		return new(big.Float).SetPrec(prec(a, b)).Quo(a, b), nil
	}))
	reg2(env.RegisterInfix("%", 20, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		if b.Sign() == 0 {
			return nil, &DomainError{Op: "%", Why: "modulo by zero"}
		}
		p := prec(a, b)
		q := new(big.Float).SetPrec(p).Quo(a, b)
		qi, _ := q.Int(nil)
		r := new(big.Float).SetPrec(p).SetInt(qi)
		r.Mul(r, b)
		return new(big.Float).SetPrec(p).Sub(a, r), nil
	}))
	reg2(env.RegisterInfix("^", 30, true, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		if a.Sign() == 0 && b.Sign() < 0 {
			return nil, &DomainError{Op: "^", Why: "zero raised to a negative power"}
		}
		return bigfloat.Pow(new(big.Float).SetPrec(prec(a, b)), a, b), nil
	}))
	reg2(env.RegisterInfix("=", 0, true, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		if !args[0].Mutable() {
			return nil, &symexpr.ConstAssignmentError{}
		}
		v := val(args[1])
		if err := args[0].Set(v); err != nil {
			return nil, err
		}
		return v, nil
	}))

	reg2(env.RegisterPrefix("+", 1, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		return new(big.Float).SetPrec(prec(val(args[0]))).Set(val(args[0])), nil
	}))
	reg2(env.RegisterPrefix("-", 1, false, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		return new(big.Float).SetPrec(prec(val(args[0]))).Neg(val(args[0])), nil
	}))

	return firstErr
}

// InstallConstants registers pi, e, and inf, grounded on eval.hpp's
// setup_constants and the teacher's niladic globalfuncs entries.
//
// nan is deliberately not registered: math/big's Float has no
// representation for an indeterminate value at all, and operations that
// would produce one (such as 0/0) panic with big.ErrNaN rather than
// yielding a usable value, so there is no *big.Float this constant could
// hold.
func InstallConstants(env *symexpr.Environment[*big.Float]) error {
	pi := bigfloat.Pi(new(big.Float).SetPrec(DefaultPrec))
	if _, err := env.RegisterConstant("pi", pi); err != nil {
		return err
	}
	e := bigfloat.Exp(new(big.Float).SetPrec(DefaultPrec), big.NewFloat(1))
	if _, err := env.RegisterConstant("e", e); err != nil {
		return err
	}
	inf := new(big.Float).SetInf(false)
	if _, err := env.RegisterConstant("inf", inf); err != nil {
		return err
	}
	return nil
}

func toF64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}

func fromF64(f float64) *big.Float {
	return new(big.Float).SetPrec(DefaultPrec).SetFloat64(f)
}

// unary1 wraps a plain float64 math function as a symexpr.Callable over
// *big.Float, the round-trip the teacher's own comments call out as the
// precision trade-off for functions bigfloat and math/big have no
// native arbitrary-precision implementation of.
func unary1(f func(float64) float64) symexpr.Callable[*big.Float] {
	return func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		return fromF64(f(toF64(val(args[0])))), nil
	}
}

// InstallFunctions registers exp, exp2, ln, log, lg, log2, sqrt, cbrt, abs,
// ceil, floor, round, trunc, erf, erfc, tgamma, lgamma, hypot, root,
// min, and max, the function list present in
// original_source/eval_init.hpp beyond the three spec.md itself names
// (exp, ln/log, sqrt). Trigonometric functions are not registered; see
// DESIGN.md for why.
func InstallFunctions(env *symexpr.Environment[*big.Float]) error {
	reg := func(name string, arity int, fn symexpr.Callable[*big.Float]) error {
		return env.RegisterFunction(name, arity, fn)
	}

	fns := map[string]symexpr.Callable[*big.Float]{
		"exp": func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
			x := val(args[0])
			return bigfloat.Exp(new(big.Float).SetPrec(prec(x)), x), nil
		},
		"exp2": func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
			x := val(args[0])
			two := new(big.Float).SetPrec(prec(x)).SetInt64(2)
			return bigfloat.Pow(new(big.Float).SetPrec(prec(x)), two, x), nil
		},
		"ln": func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
			x := val(args[0])
			if x.Sign() <= 0 {
				return nil, &DomainError{Op: "ln", Why: "logarithm of a non-positive value"}
			}
			return bigfloat.Log(new(big.Float).SetPrec(prec(x)), x), nil
		},
		"sqrt": func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
			x := val(args[0])
			if x.Sign() < 0 {
				return nil, &DomainError{Op: "sqrt", Why: "square root of a negative value"}
			}
			return new(big.Float).SetPrec(prec(x)).Sqrt(x), nil
		},
		"abs": func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
			x := val(args[0])
			return new(big.Float).SetPrec(prec(x)).Abs(x), nil
		},
		"cbrt":   unary1(math.Cbrt),
		"log2":   unary1(math.Log2),
		"lg":     unary1(math.Log10),
		"ceil":   unary1(math.Ceil),
		"floor":  unary1(math.Floor),
		"round":  unary1(math.Round),
		"trunc":  unary1(math.Trunc),
		"erf":  unary1(math.Erf),
		"erfc": unary1(math.Erfc),
		"lgamma": unary1(func(x float64) float64 {
			l, _ := math.Lgamma(x)
			return l
		}),
		"tgamma": unary1(math.Gamma),
	}
	fns["log"] = fns["ln"]

	for _, name := range sortedFnNames(fns) {
		if err := reg(name, 1, fns[name]); err != nil {
			return err
		}
	}

	if err := reg("hypot", 2, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		x, y := toF64(val(args[0])), toF64(val(args[1]))
		return fromF64(math.Hypot(x, y)), nil
	}); err != nil {
		return err
	}
	if err := reg("root", 2, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		x, n := val(args[0]), val(args[1])
		if n.Sign() == 0 {
			return nil, &DomainError{Op: "root", Why: "zeroth root"}
		}
		inv := new(big.Float).SetPrec(prec(x, n)).Quo(big.NewFloat(1), n)
		return bigfloat.Pow(new(big.Float).SetPrec(prec(x, n)), x, inv), nil
	}); err != nil {
		return err
	}
	if err := reg("min", 2, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		if a.Cmp(b) <= 0 {
			return a, nil
		}
		return b, nil
	}); err != nil {
		return err
	}
	if err := reg("max", 2, func(args []symexpr.Handle[*big.Float]) (*big.Float, error) {
		a, b := val(args[0]), val(args[1])
		if a.Cmp(b) >= 0 {
			return a, nil
		}
		return b, nil
	}); err != nil {
		return err
	}
	return nil
}

func sortedFnNames(m map[string]symexpr.Callable[*big.Float]) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

// ParseConstant recognizes a decimal or hexadecimal floating-point
// literal starting at rune index pos in s, delegating the actual digit
// grammar to big.Float.Parse once it has found the literal's extent.
// It is grounded on the teacher's lexer.scanNum and
// original_source/include/eval.hpp::simple::parse_constant.
func ParseConstant(s []rune, pos int) (*big.Float, int, bool) {
	n := len(s)
	if pos >= n {
		return nil, pos, false
	}
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }
	isHex := func(r rune) bool {
		return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}

	i := pos
	if i+1 < n && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
		digits := i
		for i < n && isHex(s[i]) {
			i++
		}
		if i < n && s[i] == '.' {
			i++
			for i < n && isHex(s[i]) {
				i++
			}
		}
		if i == digits || (i == digits+1 && s[digits] == '.') {
			return nil, pos, false
		}
		if i < n && (s[i] == 'p' || s[i] == 'P') {
			j := i + 1
			if j < n && (s[j] == '+' || s[j] == '-') {
				j++
			}
			k := j
			for k < n && isDigit(s[k]) {
				k++
			}
			if k > j {
				i = k
			}
		}
	} else {
		start := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i < n && s[i] == '.' {
			j := i + 1
			for j < n && isDigit(s[j]) {
				j++
			}
			if j > i+1 || i > start {
				i = j
			}
		}
		if i == start {
			return nil, pos, false
		}
		if i < n && (s[i] == 'e' || s[i] == 'E') {
			j := i + 1
			if j < n && (s[j] == '+' || s[j] == '-') {
				j++
			}
			k := j
			for k < n && isDigit(s[k]) {
				k++
			}
			if k > j {
				i = k
			}
		}
	}

	lit := string(s[pos:i])
	z := new(big.Float).SetPrec(DefaultPrec)
	f, _, err := z.Parse(lit, 0)
	if err != nil {
		return nil, pos, false
	}
	return f, i, true
}
