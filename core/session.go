package core

import (
	"context"
)

// Session resolves api access tokens
type Session interface {
	// Login account of the token
	Login(ctx context.Context, accessToken string) (string, error)
}
