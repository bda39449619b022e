package api

import (
	"context"

	sserrors "github.com/mycelian/shapeshift/client/internal/errors"
	"github.com/mycelian/shapeshift/client/internal/types"
)

// None of these calls are idempotent: each may open or cancel a real
// exchange, so they are sent exactly once.

// Shift opens a normal exchange: POST shift.
func Shift(ctx context.Context, httpClient HTTPClient, baseURL string, req types.ShiftRequest) (*types.Response, error) {
	if err := req.Pair.Validate(); err != nil {
		return nil, sserrors.NewInvalidParameter("shift", "%w", err)
	}
	return Do(ctx, httpClient, baseURL, Post("shift", req))
}

// RequestEmailReceipt asks for a receipt email: POST mail.
func RequestEmailReceipt(ctx context.Context, httpClient HTTPClient, baseURL string, req types.EmailReceiptRequest) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Post("mail", req))
}

// SendAmount opens a fixed-amount exchange, or quotes one when
// req.Withdrawal is empty: POST sendamount.
func SendAmount(ctx context.Context, httpClient HTTPClient, baseURL string, req types.SendAmountRequest) (*types.Response, error) {
	if err := req.Pair.Validate(); err != nil {
		return nil, sserrors.NewInvalidParameter("sendamount", "%w", err)
	}
	return Do(ctx, httpClient, baseURL, Post("sendamount", req))
}

// CancelPending cancels the pending exchange for a deposit address: POST cancelpending.
func CancelPending(ctx context.Context, httpClient HTTPClient, baseURL string, req types.CancelPendingRequest) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Post("cancelpending", req))
}
