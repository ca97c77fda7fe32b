package ledger

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/compound"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// discountedRepayToEvenAmount amount of the borrowed asset that brings the target back
// to zero shortfall
// shortfall / (price_borrow * (collateral_ratio - liquidation_discount - 1))
func discountedRepayToEvenAmount(p *core.RiskParameters, shortfall, priceBorrow number.Exp) (uint256.Int, error) {
	collateralRatioMinusLiquidationDiscount, err := number.SubExp(p.CollateralRatio, p.LiquidationDiscount)
	if err != nil {
		return uint256.Int{}, err
	}

	discountedCollateralRatioMinusOne, err := number.SubExp(collateralRatioMinusLiquidationDiscount, number.One)
	if err != nil {
		return uint256.Int{}, err
	}

	discountedPriceBorrow, err := number.MulExp(priceBorrow, discountedCollateralRatioMinusOne)
	if err != nil {
		return uint256.Int{}, err
	}

	rawResult, err := number.DivExp(shortfall, discountedPriceBorrow)
	if err != nil {
		return uint256.Int{}, err
	}

	return number.Truncate(rawResult), nil
}

// discountedBorrowDenominatedCollateral target's collateral in units of the borrowed asset
// (price_collateral * supply_current) / ((1 + liquidation_discount) * price_borrow)
func discountedBorrowDenominatedCollateral(p *core.RiskParameters, priceCollateral, priceBorrow number.Exp, supplyCurrent uint256.Int) (uint256.Int, error) {
	onePlusLiquidationDiscount, err := number.AddExp(number.One, p.LiquidationDiscount)
	if err != nil {
		return uint256.Int{}, err
	}

	supplyCurrentTimesOracleCollateral, err := number.MulScalar(priceCollateral, supplyCurrent)
	if err != nil {
		return uint256.Int{}, err
	}

	onePlusLiquidationDiscountTimesOracleBorrow, err := number.MulExp(onePlusLiquidationDiscount, priceBorrow)
	if err != nil {
		return uint256.Int{}, err
	}

	rawResult, err := number.DivExp(supplyCurrentTimesOracleCollateral, onePlusLiquidationDiscountTimesOracleBorrow)
	if err != nil {
		return uint256.Int{}, err
	}

	return number.Truncate(rawResult), nil
}

// amountSeize close * price_borrow * (1 + liquidation_discount) / price_collateral
func amountSeize(p *core.RiskParameters, priceBorrow, priceCollateral number.Exp, closeAmount uint256.Int) (uint256.Int, error) {
	liquidationMultiplier, err := number.AddExp(number.One, p.LiquidationDiscount)
	if err != nil {
		return uint256.Int{}, err
	}

	priceBorrowWithDiscount, err := number.MulExp(priceBorrow, liquidationMultiplier)
	if err != nil {
		return uint256.Int{}, err
	}

	valueRepaid, err := number.MulScalar(priceBorrowWithDiscount, closeAmount)
	if err != nil {
		return uint256.Int{}, err
	}

	rawResult, err := number.DivExp(valueRepaid, priceCollateral)
	if err != nil {
		return uint256.Int{}, err
	}

	return number.Truncate(rawResult), nil
}

// LiquidateBorrow liquidator repays part of target's borrow of assetBorrow and
// receives target's assetCollateral supply at a discount
func (s *service) LiquidateBorrow(ctx context.Context, liquidator, target, assetBorrow, assetCollateral string, closeAmount core.Amount) (*core.Event, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()

	log := logger.FromContext(ctx).WithField("action", core.ActionLiquidateBorrow).WithField("target", target)

	p, err := s.requireActive(ctx)
	if err != nil {
		return nil, err
	}

	if liquidator == target {
		return nil, core.ErrInvalidAccountPair
	}

	borrowMarket, err := s.findMarket(ctx, assetBorrow)
	if err != nil {
		return nil, err
	}

	collateralMarket := borrowMarket
	if assetCollateral != assetBorrow {
		if collateralMarket, err = s.findMarket(ctx, assetCollateral); err != nil {
			return nil, err
		}
	}

	targetBorrow, err := s.findBalance(ctx, target, assetBorrow, core.SideBorrow)
	if err != nil {
		return nil, err
	}

	targetCollateral, err := s.findBalance(ctx, target, assetCollateral, core.SideSupply)
	if err != nil {
		return nil, err
	}

	liquidatorCollateral, err := s.findBalance(ctx, liquidator, assetCollateral, core.SideSupply)
	if err != nil {
		return nil, err
	}

	priceCollateral, err := s.priceOf(ctx, p, assetCollateral)
	if err != nil {
		return nil, err
	}

	priceBorrow, err := s.priceOf(ctx, p, assetBorrow)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	nextBorrowMarket, err := accrue(borrowMarket, block)
	if err != nil {
		return nil, err
	}

	nextCollateralMarket := nextBorrowMarket
	if collateralMarket != borrowMarket {
		if nextCollateralMarket, err = accrue(collateralMarket, block); err != nil {
			return nil, err
		}
	}

	currentBorrowTarget, err := current(targetBorrow, nextBorrowMarket)
	if err != nil {
		return nil, err
	}

	currentCollateralTarget, err := current(targetCollateral, nextCollateralMarket)
	if err != nil {
		return nil, err
	}

	currentCollateralLiquidator, err := current(liquidatorCollateral, nextCollateralMarket)
	if err != nil {
		return nil, err
	}

	// collateral total supply absorbs the accrued interest of both parties
	newTotalSupplyCollateral, err := number.AddThenSub(collateralMarket.TotalSupply, currentCollateralTarget, targetCollateral.Principal)
	if err != nil {
		return nil, err
	}

	if newTotalSupplyCollateral, err = number.AddThenSub(newTotalSupplyCollateral, currentCollateralLiquidator, liquidatorCollateral.Principal); err != nil {
		return nil, err
	}

	discountedCollateral, err := discountedBorrowDenominatedCollateral(p, priceCollateral, priceBorrow, currentCollateralTarget)
	if err != nil {
		return nil, err
	}

	maxCloseable := number.Min(discountedCollateral, currentBorrowTarget)
	if borrowMarket.IsSupported {
		liquidity, err := s.accountLiquidity(ctx, p, target, block)
		if err != nil {
			return nil, err
		}

		repayToEven, err := discountedRepayToEvenAmount(p, liquidity.Shortfall, priceBorrow)
		if err != nil {
			return nil, err
		}

		maxCloseable = number.Min(maxCloseable, repayToEven)
	}

	closeBorrowAmount := closeAmount.Value()
	if closeAmount.IsAll() {
		closeBorrowAmount = maxCloseable
	}

	if closeBorrowAmount.Gt(&maxCloseable) {
		log.Infoln("skip: close amount above", maxCloseable.Dec())
		return nil, core.ErrInvalidCloseAmountRequested
	}

	seizeAmount, err := amountSeize(p, priceBorrow, priceCollateral, closeBorrowAmount)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CheckTransferIn(ctx, assetBorrow, liquidator, closeBorrowAmount); err != nil {
		return nil, err
	}

	// close amount is bounded by the current borrow
	updatedBorrowTarget, err := number.Sub(currentBorrowTarget, closeBorrowAmount)
	compound.Require(err, "liquidate: target borrow minus close amount")

	if nextBorrowMarket.TotalBorrows, err = number.AddThenSub(borrowMarket.TotalBorrows, updatedBorrowTarget, targetBorrow.Principal); err != nil {
		return nil, err
	}

	cash, err := s.cash(ctx, assetBorrow)
	if err != nil {
		return nil, err
	}

	updatedCash, err := number.Add(cash, closeBorrowAmount)
	if err != nil {
		return nil, err
	}

	// same pointer as nextBorrowMarket when both assets match
	nextCollateralMarket.TotalSupply = newTotalSupplyCollateral

	// only the borrow market's rates change, the collateral market's cash and borrows do not
	if err := s.updateRates(ctx, nextBorrowMarket, updatedCash); err != nil {
		return nil, err
	}

	// seize amount is bounded by the discounted collateral
	updatedCollateralTarget, err := number.Sub(currentCollateralTarget, seizeAmount)
	compound.Require(err, "liquidate: target collateral minus seize amount")

	updatedCollateralLiquidator, err := number.Add(currentCollateralLiquidator, seizeAmount)
	compound.Require(err, "liquidate: liquidator collateral plus seize amount")

	before := &core.Checkpoint{
		Markets:  []*core.Market{borrowMarket},
		Balances: []*core.Balance{targetBorrow, targetCollateral, liquidatorCollateral},
	}
	after := &core.Checkpoint{
		Markets: []*core.Market{nextBorrowMarket},
		Balances: []*core.Balance{
			checkpoint(targetBorrow, updatedBorrowTarget, nextBorrowMarket),
			checkpoint(targetCollateral, updatedCollateralTarget, nextCollateralMarket),
			checkpoint(liquidatorCollateral, updatedCollateralLiquidator, nextCollateralMarket),
		},
	}
	if collateralMarket != borrowMarket {
		before.Markets = append(before.Markets, collateralMarket)
		after.Markets = append(after.Markets, nextCollateralMarket)
	}

	if err := s.apply(ctx, before, after, func() error {
		return s.tokens.TransferIn(ctx, assetBorrow, liquidator, closeBorrowAmount)
	}); err != nil {
		return nil, err
	}

	event := newEvent(core.ActionLiquidateBorrow, liquidator, assetBorrow, block)
	event.Amount = closeBorrowAmount
	event.StartingBalance = targetBorrow.Principal
	event.NewBalance = updatedBorrowTarget
	event.SetExtraData(&core.Liquidation{
		Target:                       target,
		AssetCollateral:              assetCollateral,
		BorrowBalanceBefore:          targetBorrow.Principal,
		BorrowBalanceAccumulated:     currentBorrowTarget,
		AmountRepaid:                 closeBorrowAmount,
		BorrowBalanceAfter:           updatedBorrowTarget,
		CollateralBalanceBefore:      targetCollateral.Principal,
		CollateralBalanceAccumulated: currentCollateralTarget,
		AmountSeized:                 seizeAmount,
		CollateralBalanceAfter:       updatedCollateralTarget,
		LiquidatorCollateralBefore:   liquidatorCollateral.Principal,
		LiquidatorCollateralAfter:    updatedCollateralLiquidator,
	})
	s.emit(ctx, event)
	return event, nil
}
