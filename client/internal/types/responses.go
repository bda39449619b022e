package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// ------------------------------
// Response
// ------------------------------

// Response is a JSON document returned verbatim by the service. Raw holds the
// body bytes; Value the decoded form (map[string]any, []any, string,
// json.Number, bool or nil). Numbers are kept as json.Number so nothing is
// rounded on the way through.
type Response struct {
	Raw   json.RawMessage
	Value any
}

// ParseResponse decodes exactly one JSON value from body.
func ParseResponse(body []byte) (*Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return &Response{Raw: json.RawMessage(bytes.TrimSpace(body)), Value: v}, nil
}

// Decode unmarshals the raw body into v, typically one of the typed views below.
func (r *Response) Decode(v any) error { return json.Unmarshal(r.Raw, v) }

// RemoteError returns the service-reported error, if the body is an object
// with an "error" member. The client never acts on it.
func (r *Response) RemoteError() (string, bool) {
	obj, ok := r.Value.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := obj["error"]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	b, _ := json.Marshal(v)
	return string(b), true
}

// MarshalJSON re-emits the body as received.
func (r Response) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// ------------------------------
// Typed views
// ------------------------------

// RateInfo is the rate/{pair} body.
type RateInfo struct {
	Pair Pair            `json:"pair"`
	Rate decimal.Decimal `json:"rate"`
}

// DepositLimit is the limit/{pair} body.
type DepositLimit struct {
	Pair  Pair            `json:"pair"`
	Limit decimal.Decimal `json:"limit"`
	Min   decimal.Decimal `json:"min"`
}

// MarketInfo is one element of the marketinfo body.
type MarketInfo struct {
	Pair     Pair            `json:"pair"`
	Rate     decimal.Decimal `json:"rate"`
	Limit    decimal.Decimal `json:"limit"`
	Min      decimal.Decimal `json:"min"`
	MinerFee decimal.Decimal `json:"minerFee"`
}

// RecentTx is one element of the recenttx body.
type RecentTx struct {
	CurIn     string          `json:"curIn"`
	CurOut    string          `json:"curOut"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp float64         `json:"timestamp"` // unix seconds
}

// DepositStatus is the txStat/{address} body.
type DepositStatus struct {
	Status       string          `json:"status"` // no_deposits, received, complete, failed
	Address      string          `json:"address"`
	Withdraw     string          `json:"withdraw,omitempty"`
	IncomingCoin decimal.Decimal `json:"incomingCoin"`
	IncomingType string          `json:"incomingType,omitempty"`
	OutgoingCoin decimal.Decimal `json:"outgoingCoin"`
	OutgoingType string          `json:"outgoingType,omitempty"`
	Transaction  string          `json:"transaction,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// TimeRemaining is the timeremaining/{address} body.
type TimeRemaining struct {
	Status           string          `json:"status"`
	SecondsRemaining decimal.Decimal `json:"seconds_remaining"`
}

// Coin describes one supported currency.
type Coin struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  string `json:"image"`
	Status string `json:"status"` // available or unavailable
}

// CoinList is the getcoins body, keyed by symbol.
type CoinList map[string]Coin

// Transaction is one element of the txbyapikey and txbyaddress bodies.
type Transaction struct {
	InputTXID      string          `json:"inputTXID"`
	InputAddress   string          `json:"inputAddress"`
	InputCurrency  string          `json:"inputCurrency"`
	InputAmount    decimal.Decimal `json:"inputAmount"`
	OutputTXID     string          `json:"outputTXID"`
	OutputAddress  string          `json:"outputAddress"`
	OutputCurrency string          `json:"outputCurrency"`
	OutputAmount   decimal.Decimal `json:"outputAmount"`
	ShiftRate      decimal.Decimal `json:"shiftRate"`
	Status         string          `json:"status"`
}

// AddressValidation is the validateAddress body.
type AddressValidation struct {
	IsValid bool   `json:"isvalid"`
	Error   string `json:"error,omitempty"`
}

// ShiftResult is the shift body.
type ShiftResult struct {
	Deposit        string `json:"deposit"`
	DepositType    string `json:"depositType"`
	Withdrawal     string `json:"withdrawal"`
	WithdrawalType string `json:"withdrawalType"`
	XRPDestTag     string `json:"xrpDestTag,omitempty"`
	APIPubKey      string `json:"apiPubKey,omitempty"`
	Error          string `json:"error,omitempty"`
}

// EmailReceiptResult is the mail body.
type EmailReceiptResult struct {
	Email struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"email"`
	Error string `json:"error,omitempty"`
}

// SendAmountQuote is the "success" member of the sendamount body.
type SendAmountQuote struct {
	Pair             Pair            `json:"pair"`
	Withdrawal       string          `json:"withdrawal,omitempty"`
	WithdrawalAmount decimal.Decimal `json:"withdrawalAmount"`
	Deposit          string          `json:"deposit,omitempty"`
	DepositAmount    decimal.Decimal `json:"depositAmount"`
	Expiration       int64           `json:"expiration"` // unix millis
	QuotedRate       decimal.Decimal `json:"quotedRate"`
	MaxLimit         decimal.Decimal `json:"maxLimit"`
	ReturnAddress    string          `json:"returnAddress,omitempty"`
	APIPubKey        string          `json:"apiPubKey,omitempty"`
	MinerFee         decimal.Decimal `json:"minerFee"`
}

// SendAmountResult is the sendamount body.
type SendAmountResult struct {
	Success *SendAmountQuote `json:"success,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// CancelPendingResult is the cancelpending body.
type CancelPendingResult struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}
