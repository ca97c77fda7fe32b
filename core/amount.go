package core

import (
	"encoding/json"
	"strings"

	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// Amount either an exact amount or everything available
type Amount struct {
	all   bool
	value uint256.Int
}

// Exact amount of v
func Exact(v uint256.Int) Amount {
	return Amount{value: v}
}

// All everything the operation allows
func All() Amount {
	return Amount{all: true}
}

// IsAll all requested
func (a Amount) IsAll() bool {
	return a.all
}

// Value exact value, zero when all
func (a Amount) Value() uint256.Int {
	return a.value
}

func (a Amount) String() string {
	if a.all {
		return "all"
	}

	return a.value.Dec()
}

// ParseAmount "all" or a base 10 integer
func ParseAmount(s string) (Amount, error) {
	if strings.EqualFold(s, "all") {
		return All(), nil
	}

	v, err := number.ParseUint(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}

	return Exact(v), nil
}

// MarshalJSON as string
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts "all" or a quoted integer
func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}

	v, err := ParseAmount(s)
	if err != nil {
		return err
	}

	*a = v
	return nil
}
