package api

import (
	"context"
	"strconv"

	sserrors "github.com/mycelian/shapeshift/client/internal/errors"
	"github.com/mycelian/shapeshift/client/internal/types"
)

// Rate fetches the current rate for pair: GET rate/{pair}.
func Rate(ctx context.Context, httpClient HTTPClient, baseURL string, pair types.Pair) (*types.Response, error) {
	return pairRequest(ctx, httpClient, baseURL, "rate", pair)
}

// DepositLimit fetches the maximum deposit for pair: GET limit/{pair}.
func DepositLimit(ctx context.Context, httpClient HTTPClient, baseURL string, pair types.Pair) (*types.Response, error) {
	return pairRequest(ctx, httpClient, baseURL, "limit", pair)
}

// MarketInfo fetches rate, limits and miner fee for pair: GET marketinfo/{pair}.
// A zero pair asks for every market.
func MarketInfo(ctx context.Context, httpClient HTTPClient, baseURL string, pair types.Pair) (*types.Response, error) {
	if pair.IsZero() {
		return Do(ctx, httpClient, baseURL, Get("marketinfo"))
	}
	return pairRequest(ctx, httpClient, baseURL, "marketinfo", pair)
}

// RecentTransactions lists recent exchanges: GET recenttx or recenttx/{count}.
// A nil count leaves the number to the service.
func RecentTransactions(ctx context.Context, httpClient HTTPClient, baseURL string, count *int) (*types.Response, error) {
	if count == nil {
		return Do(ctx, httpClient, baseURL, Get("recenttx"))
	}
	if err := types.ValidateRecentTxCount(*count); err != nil {
		return nil, err
	}
	return Do(ctx, httpClient, baseURL, Get("recenttx", strconv.Itoa(*count)))
}

// Coins lists supported currencies: GET getcoins.
func Coins(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Get("getcoins"))
}

func pairRequest(ctx context.Context, httpClient HTTPClient, baseURL, endpoint string, pair types.Pair) (*types.Response, error) {
	if err := pair.Validate(); err != nil {
		return nil, sserrors.NewInvalidParameter(endpoint, "%w", err)
	}
	return Do(ctx, httpClient, baseURL, Get(endpoint, pair.String()))
}
