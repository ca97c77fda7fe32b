package number

import (
	"github.com/holiman/uint256"
)

// Error arithmetic error code
type Error int

const (
	// ErrDivisionByZero division by zero
	ErrDivisionByZero Error = iota + 1
	// ErrOverflow result exceeds 2^256-1
	ErrOverflow
	// ErrUnderflow result is below zero
	ErrUnderflow
)

func (e Error) Error() string {
	switch e {
	case ErrDivisionByZero:
		return "division by zero"
	case ErrOverflow:
		return "integer overflow"
	case ErrUnderflow:
		return "integer underflow"
	default:
		return "unknown arithmetic error"
	}
}

// MaxUint 2^256-1
var MaxUint = func() uint256.Int {
	var v uint256.Int
	v.SetAllOne()
	return v
}()

// Uint builds an unsigned integer from uint64
func Uint(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

// ParseUint parses a base 10 unsigned integer
func ParseUint(s string) (uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.Int{}, err
	}

	return *v, nil
}

// Add a+b, fails with ErrOverflow
func Add(a, b uint256.Int) (uint256.Int, error) {
	var c uint256.Int
	if _, overflow := c.AddOverflow(&a, &b); overflow {
		return uint256.Int{}, ErrOverflow
	}

	return c, nil
}

// Sub a-b, fails with ErrUnderflow iff b > a
func Sub(a, b uint256.Int) (uint256.Int, error) {
	if b.Gt(&a) {
		return uint256.Int{}, ErrUnderflow
	}

	var c uint256.Int
	c.Sub(&a, &b)
	return c, nil
}

// Mul a*b, fails with ErrOverflow
func Mul(a, b uint256.Int) (uint256.Int, error) {
	if a.IsZero() {
		return uint256.Int{}, nil
	}

	var c uint256.Int
	if _, overflow := c.MulOverflow(&a, &b); overflow {
		return uint256.Int{}, ErrOverflow
	}

	return c, nil
}

// Div a/b truncated, fails with ErrDivisionByZero
func Div(a, b uint256.Int) (uint256.Int, error) {
	if b.IsZero() {
		return uint256.Int{}, ErrDivisionByZero
	}

	var c uint256.Int
	c.Div(&a, &b)
	return c, nil
}

// AddThenSub (a+b)-c, checked at every step
func AddThenSub(a, b, c uint256.Int) (uint256.Int, error) {
	sum, err := Add(a, b)
	if err != nil {
		return uint256.Int{}, err
	}

	return Sub(sum, c)
}

// Min smaller one of a and b
func Min(a, b uint256.Int) uint256.Int {
	if a.Lt(&b) {
		return a
	}

	return b
}
