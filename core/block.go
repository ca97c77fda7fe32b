package core

import (
	"context"
	"time"
)

// BlockService block service interface
type BlockService interface {
	GetBlock(ctx context.Context, t time.Time) (int64, error)
	CurrentBlock(ctx context.Context) (int64, error)
}
