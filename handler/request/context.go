package request

import (
	"context"
)

type key int

const (
	accountKey key = iota
)

type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithAccount context with the authenticated account
func (c ContextX) WithAccount(account string) context.Context {
	return context.WithValue(c, accountKey, account)
}

// GetAccount authenticated account
func (c ContextX) GetAccount() (string, bool) {
	account, ok := c.Value(accountKey).(string)
	return account, ok && account != ""
}
