package codes

import (
	"context"
	"errors"
	"net/http"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/worker/executor"
)

const (
	// InvalidArguments invalid arguments
	InvalidArguments = 10001
	// Unauthenticated missing or invalid access token
	Unauthenticated = 10002
	// NotFound not found
	NotFound = 10003
	// Arithmetic checked arithmetic failed
	Arithmetic = 10004
	// Internal internal error
	Internal = 10005
)

var (
	// ErrUnauthenticated missing or invalid access token
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound not found
	ErrNotFound = errors.New("not found")
)

type argumentError struct {
	err error
}

func (e *argumentError) Error() string {
	return e.err.Error()
}

func (e *argumentError) Unwrap() error {
	return e.err
}

// InvalidArgument marks err as caused by the request arguments
func InvalidArgument(err error) error {
	if err == nil {
		return nil
	}

	return &argumentError{err: err}
}

// Get http status and error code of err
func Get(err error) (status int, code int) {
	var (
		errCode   core.ErrorCode
		numErr    number.Error
		argErr    *argumentError
		rateErr   *core.RateModelError
		invariant *number.InvariantError
	)

	switch {
	case errors.As(err, &errCode):
		return statusOf(errCode), int(errCode)
	case errors.As(err, &invariant):
		return http.StatusInternalServerError, Internal
	case errors.As(err, &numErr):
		return http.StatusUnprocessableEntity, Arithmetic
	case errors.As(err, &argErr):
		return http.StatusBadRequest, InvalidArguments
	case errors.As(err, &rateErr):
		return http.StatusInternalServerError, Internal
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, Unauthenticated
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, NotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, Internal
	case errors.Is(err, executor.ErrAborted):
		return http.StatusInternalServerError, Internal
	default:
		return http.StatusInternalServerError, Internal
	}
}

func statusOf(code core.ErrorCode) int {
	switch code {
	case core.ErrUnauthorized:
		return http.StatusForbidden
	case core.ErrReentered:
		return http.StatusConflict
	case core.ErrContractPaused:
		return http.StatusServiceUnavailable
	case core.ErrUnknown, core.ErrTokenTransferFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
