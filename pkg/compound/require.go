package compound

import (
	"moneymarket/pkg/number"
)

// Require aborts the operation when a step that earlier checks proved safe fails.
// The panic value is a *number.InvariantError
func Require(err error, what string) {
	if err != nil {
		panic(&number.InvariantError{What: what, Err: err})
	}
}
