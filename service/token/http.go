package token

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

// Transfer custody transfer request
type Transfer struct {
	TraceID string `json:"trace_id"`
	Asset   string `json:"asset"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

type amountResponse struct {
	Amount string `json:"amount"`
}

type custody struct {
	endpoint string
	holder   string
}

// NewCustody token adapter backed by a custody http api
func NewCustody(endpoint, holder string) core.TokenAdapter {
	return &custody{
		endpoint: endpoint,
		holder:   holder,
	}
}

func (c *custody) getAmount(ctx context.Context, url string) (uint256.Int, error) {
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return uint256.Int{}, err
	}

	var body amountResponse
	if err := resthttp.ParseResponse(resp, &body); err != nil {
		if resthttp.IsNotFound(err) {
			return uint256.Int{}, nil
		}

		return uint256.Int{}, err
	}

	return number.ParseUint(body.Amount)
}

func (c *custody) allowance(ctx context.Context, asset, owner string) (uint256.Int, error) {
	return c.getAmount(ctx, fmt.Sprintf("%s/api/allowances/%s/%s", c.endpoint, asset, owner))
}

func (c *custody) BalanceOf(ctx context.Context, asset, account string) (uint256.Int, error) {
	return c.getAmount(ctx, fmt.Sprintf("%s/api/balances/%s/%s", c.endpoint, asset, account))
}

func (c *custody) BalanceHeld(ctx context.Context, asset string) (uint256.Int, error) {
	return c.BalanceOf(ctx, asset, c.holder)
}

func (c *custody) CheckTransferIn(ctx context.Context, asset, from string, amount uint256.Int) error {
	balance, err := c.BalanceOf(ctx, asset, from)
	if err != nil {
		return err
	}

	if balance.Lt(&amount) {
		return core.ErrTokenInsufficientBalance
	}

	allowance, err := c.allowance(ctx, asset, from)
	if err != nil {
		return err
	}

	if allowance.Lt(&amount) {
		return core.ErrTokenInsufficientAllowance
	}

	return nil
}

func (c *custody) TransferIn(ctx context.Context, asset, from string, amount uint256.Int) error {
	return c.transfer(ctx, asset, from, c.holder, amount)
}

func (c *custody) TransferOut(ctx context.Context, asset, to string, amount uint256.Int) error {
	return c.transfer(ctx, asset, c.holder, to, amount)
}

func (c *custody) transfer(ctx context.Context, asset, from, to string, amount uint256.Int) error {
	transfer := &Transfer{
		TraceID: uuid.Must(uuid.NewV4()).String(),
		Asset:   asset,
		From:    from,
		To:      to,
		Amount:  amount.Dec(),
	}

	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	resp, err := resthttp.WithRequestID(ctx, transfer.TraceID).
		SetBody(transfer).
		Post(c.endpoint + "/api/transfers")
	if err != nil {
		log.WithError(err).Errorln("custody.Transfer")
		return err
	}

	if err := resthttp.ParseResponse(resp, nil); err != nil {
		log.WithError(err).Errorln("custody.Transfer")
		return core.ErrTokenTransferFailed
	}

	return nil
}
