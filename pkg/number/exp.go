package number

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ExpDecimals number of decimals of an Exp mantissa
const ExpDecimals = 18

var (
	// ExpScale 1e18
	ExpScale = Uint(1e18)
	// HalfExpScale 5e17
	HalfExpScale = Uint(5e17)
	// One 1.0
	One = Exp{Mantissa: ExpScale}
)

// Exp fixed point decimal, the value is Mantissa / 1e18
type Exp struct {
	Mantissa uint256.Int
}

// InvariantError an arithmetic result that earlier checks proved impossible
type InvariantError struct {
	What string
	Err  error
}

func (e *InvariantError) Error() string {
	if e.Err == nil {
		return "invariant violated: " + e.What
	}

	return fmt.Sprintf("invariant violated: %s: %v", e.What, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// NewExp exp from a raw mantissa
func NewExp(mantissa uint64) Exp {
	return Exp{Mantissa: Uint(mantissa)}
}

// FromRatio num/denom as Exp, (num*1e18)/denom
func FromRatio(num, denom uint256.Int) (Exp, error) {
	scaledNumerator, err := Mul(num, ExpScale)
	if err != nil {
		return Exp{}, err
	}

	rational, err := Div(scaledNumerator, denom)
	if err != nil {
		return Exp{}, err
	}

	return Exp{Mantissa: rational}, nil
}

// AddExp a+b
func AddExp(a, b Exp) (Exp, error) {
	m, err := Add(a.Mantissa, b.Mantissa)
	return Exp{Mantissa: m}, err
}

// SubExp a-b
func SubExp(a, b Exp) (Exp, error) {
	m, err := Sub(a.Mantissa, b.Mantissa)
	return Exp{Mantissa: m}, err
}

// MulScalar a*scalar, still scaled
func MulScalar(a Exp, scalar uint256.Int) (Exp, error) {
	m, err := Mul(a.Mantissa, scalar)
	if err != nil {
		return Exp{}, err
	}

	return Exp{Mantissa: m}, nil
}

// DivScalar a/scalar
func DivScalar(a Exp, scalar uint256.Int) (Exp, error) {
	m, err := Div(a.Mantissa, scalar)
	if err != nil {
		return Exp{}, err
	}

	return Exp{Mantissa: m}, nil
}

// MulExp a*b rounded half up to 18 decimals
func MulExp(a, b Exp) (Exp, error) {
	doubleScaledProduct, err := Mul(a.Mantissa, b.Mantissa)
	if err != nil {
		return Exp{}, err
	}

	doubleScaledProductWithHalfScale, err := Add(HalfExpScale, doubleScaledProduct)
	if err != nil {
		return Exp{}, err
	}

	product, err := Div(doubleScaledProductWithHalfScale, ExpScale)
	if err != nil {
		panic(&InvariantError{What: "mulExp: division by the exp scale", Err: err})
	}

	return Exp{Mantissa: product}, nil
}

// DivExp a/b
func DivExp(a, b Exp) (Exp, error) {
	return FromRatio(a.Mantissa, b.Mantissa)
}

// Truncate floor(e), drops all decimals
func Truncate(e Exp) uint256.Int {
	var v uint256.Int
	v.Div(&e.Mantissa, &ExpScale)
	return v
}

// IsZero e == 0
func (e Exp) IsZero() bool {
	return e.Mantissa.IsZero()
}

// LessThan e < o
func (e Exp) LessThan(o Exp) bool {
	return e.Mantissa.Lt(&o.Mantissa)
}

// LessThanOrEqual e <= o
func (e Exp) LessThanOrEqual(o Exp) bool {
	return !o.Mantissa.Lt(&e.Mantissa)
}

// Equal e == o
func (e Exp) Equal(o Exp) bool {
	return e.Mantissa.Eq(&o.Mantissa)
}

// Decimal exp as a shopspring decimal
func (e Exp) Decimal() decimal.Decimal {
	return FromMantissa(e.Mantissa, ExpDecimals)
}

func (e Exp) String() string {
	return e.Decimal().String()
}

// ParseExp parses a decimal string like "1.05" into an Exp,
// digits beyond 18 decimals are truncated
func ParseExp(s string) (Exp, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Exp{}, err
	}

	m, err := ToUint(d, ExpDecimals)
	if err != nil {
		return Exp{}, err
	}

	return Exp{Mantissa: m}, nil
}

// MustParseExp like ParseExp but panics on error
func MustParseExp(s string) Exp {
	e, err := ParseExp(s)
	if err != nil {
		panic(err)
	}

	return e
}

// MarshalJSON mantissa as a quoted decimal string
func (e Exp) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Mantissa.Dec())
}

// UnmarshalJSON accepts a quoted or bare decimal mantissa
func (e *Exp) UnmarshalJSON(b []byte) error {
	return e.Mantissa.UnmarshalJSON(b)
}

// Scan implements sql.Scanner
func (e *Exp) Scan(src interface{}) error {
	return e.Mantissa.Scan(src)
}

// Value implements driver.Valuer
func (e Exp) Value() (driver.Value, error) {
	return e.Mantissa.Dec(), nil
}
