package compound

import (
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// CalculateInterestIndex simple interest applied once per accrual
// new_index = (1 + rate * (block_end - block_start)) * start_index
func CalculateInterestIndex(startIndex, ratePerBlock number.Exp, blockStart, blockEnd int64) (number.Exp, error) {
	if blockEnd < blockStart {
		return number.Exp{}, number.ErrUnderflow
	}

	blockDelta := number.Uint(uint64(blockEnd - blockStart))

	blocksTimesRate, err := number.MulScalar(ratePerBlock, blockDelta)
	if err != nil {
		return number.Exp{}, err
	}

	onePlusBlocksTimesRate, err := number.AddExp(blocksTimesRate, number.One)
	if err != nil {
		return number.Exp{}, err
	}

	newIndex, err := number.MulScalar(onePlusBlocksTimesRate, startIndex.Mantissa)
	if err != nil {
		return number.Exp{}, err
	}

	return number.Exp{Mantissa: number.Truncate(newIndex)}, nil
}

// CalculateBalance balance accrued from the checkpoint index to the current one
// balance = principal * index_current / index_start
func CalculateBalance(principal uint256.Int, indexStart, indexCurrent number.Exp) (uint256.Int, error) {
	if principal.IsZero() {
		return uint256.Int{}, nil
	}

	balanceTimesIndex, err := number.Mul(principal, indexCurrent.Mantissa)
	if err != nil {
		return uint256.Int{}, err
	}

	return number.Div(balanceTimesIndex, indexStart.Mantissa)
}
