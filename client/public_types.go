package client

import "github.com/mycelian/shapeshift/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	Pair     = types.Pair
	Response = types.Response

	// Requests
	ShiftRequest         = types.ShiftRequest
	EmailReceiptRequest  = types.EmailReceiptRequest
	SendAmountRequest    = types.SendAmountRequest
	CancelPendingRequest = types.CancelPendingRequest

	// Typed views for Response.Decode
	RateInfo            = types.RateInfo
	DepositLimit        = types.DepositLimit
	MarketInfo          = types.MarketInfo
	RecentTx            = types.RecentTx
	DepositStatus       = types.DepositStatus
	TimeRemaining       = types.TimeRemaining
	Coin                = types.Coin
	CoinList            = types.CoinList
	Transaction         = types.Transaction
	AddressValidation   = types.AddressValidation
	ShiftResult         = types.ShiftResult
	EmailReceiptResult  = types.EmailReceiptResult
	SendAmountQuote     = types.SendAmountQuote
	SendAmountResult    = types.SendAmountResult
	CancelPendingResult = types.CancelPendingResult
)

// Bounds for RecentTransactionsN.
const (
	MinRecentTx     = types.MinRecentTx
	MaxRecentTx     = types.MaxRecentTx
	DefaultRecentTx = types.DefaultRecentTx
)

// NewPair builds a Pair; both symbols must be non-empty.
func NewPair(input, output string) (Pair, error) { return types.NewPair(input, output) }

// ParsePair parses the wire form "btc_ltc".
func ParsePair(s string) (Pair, error) { return types.ParsePair(s) }

// ParseRecentTxCount parses a textual count for RecentTransactionsN,
// rejecting non-numeric and out-of-range input.
func ParseRecentTxCount(s string) (int, error) { return types.ParseRecentTxCount(s) }
