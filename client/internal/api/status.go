package api

import (
	"context"

	"github.com/mycelian/shapeshift/client/internal/types"
)

// DepositStatus reports the state of deposits to address: GET txStat/{address}.
func DepositStatus(ctx context.Context, httpClient HTTPClient, baseURL, address string) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Get("txStat", address))
}

// TimeRemaining reports how long a fixed-amount deposit address stays open:
// GET timeremaining/{address}.
func TimeRemaining(ctx context.Context, httpClient HTTPClient, baseURL, address string) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Get("timeremaining", address))
}

// TransactionsByAPIKey lists affiliate transactions: GET txbyapikey/{key}.
// privateKey is the affiliate's PRIVATE key.
func TransactionsByAPIKey(ctx context.Context, httpClient HTTPClient, baseURL, privateKey string) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Get("txbyapikey", privateKey))
}

// TransactionsByAddress lists affiliate transactions that paid out to address:
// GET txbyaddress/{address}/{key}.
func TransactionsByAddress(ctx context.Context, httpClient HTTPClient, baseURL, address, privateKey string) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Get("txbyaddress", address, privateKey))
}

// ValidateAddress asks whether address is valid for coin symbol:
// GET validateAddress/{address}/{symbol}.
func ValidateAddress(ctx context.Context, httpClient HTTPClient, baseURL, address, symbol string) (*types.Response, error) {
	return Do(ctx, httpClient, baseURL, Get("validateAddress", address, symbol))
}
