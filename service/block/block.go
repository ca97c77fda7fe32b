package block

import (
	"context"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/compound"
)

type service struct{}

// New block service counting blocks since genesis, see compound.SetupGenesis
func New() core.BlockService {
	return &service{}
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return s.GetBlock(ctx, time.Now())
}

// GetBlock get block by time
func (s *service) GetBlock(_ context.Context, t time.Time) (int64, error) {
	return compound.BlockByTime(t)
}
