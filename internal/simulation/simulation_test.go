package simulation

import (
	"context"
	"testing"

	"moneymarket/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	steps, err := Run(context.Background(), Options{CollateralPrice: "0.9"})
	require.NoError(t, err)
	require.Len(t, steps, 6)

	assert.Equal(t, core.ActionBorrow, steps[2].Event.Action)

	before := steps[3].Liquidity
	require.NotNil(t, before)
	assert.Equal(t, "100", before.Shortfall.String())

	liquidation := steps[4].Event
	require.NotNil(t, liquidation)
	assert.Equal(t, core.ActionLiquidateBorrow, liquidation.Action)
	assert.Equal(t, "100", liquidation.Amount.String())

	after := steps[5].Liquidity
	require.NotNil(t, after)
	assert.True(t, after.Shortfall.IsZero())
	assert.Equal(t, "0.1", after.Liquidity.String())
}

func TestRunInvalidPrice(t *testing.T) {
	_, err := Run(context.Background(), Options{CollateralPrice: "cheap"})
	assert.Error(t, err)
}
