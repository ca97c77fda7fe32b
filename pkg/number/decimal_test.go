package number

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestFromMantissa(t *testing.T) {
	data := map[string]uint64{
		"1":        1e8,
		"0.5":      5e7,
		"0.000001": 100,
		"0":        0,
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			d := FromMantissa(Uint(v), 8)
			assert.Equal(t, k, d.String(), "should shift by decimals")
		})
	}
}

func TestToUint(t *testing.T) {
	v, err := ToUint(Decimal("1.23456789"), 8)
	assert.Equal(t, nil, err)
	assert.Equal(t, Uint(123456789), v)

	v, err = ToUint(Decimal("0.123456789"), 8)
	assert.Equal(t, nil, err)
	assert.Equal(t, Uint(12345678), v, "should truncate")

	_, err = ToUint(Decimal("-1"), 8)
	assert.NotEqual(t, nil, err)
}
