package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ------------------------------
// POST bodies
// ------------------------------

// ShiftRequest opens a new exchange. The service answers with a deposit
// address for the input coin.
type ShiftRequest struct {
	Withdrawal    string `json:"withdrawal"`
	Pair          Pair   `json:"pair"`
	ReturnAddress string `json:"returnAddress,omitempty"`
	DestTag       string `json:"destTag,omitempty"`   // Ripple destination tag
	RSAddress     string `json:"rsAddress,omitempty"` // NXT public RS address for new accounts
	APIKey        string `json:"apiKey,omitempty"`    // affiliate PUBLIC key
}

// EmailReceiptRequest asks for a receipt of a completed withdrawal.
type EmailReceiptRequest struct {
	Email string `json:"email"`
	TxID  string `json:"txid"` // txid of the withdrawal, not the deposit
}

// SendAmountRequest opens a fixed-amount exchange. Leaving Withdrawal empty
// turns it into a quote that does not generate a deposit address.
type SendAmountRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Withdrawal    string          `json:"withdrawal,omitempty"`
	Pair          Pair            `json:"pair"`
	ReturnAddress string          `json:"returnAddress,omitempty"`
	DestTag       string          `json:"destTag,omitempty"`
	RSAddress     string          `json:"rsAddress,omitempty"`
	APIKey        string          `json:"apiKey,omitempty"`
}

// MarshalJSON sends Amount as a bare JSON number, {"amount":123,...}, without
// going through float64.
func (r SendAmountRequest) MarshalJSON() ([]byte, error) {
	type body SendAmountRequest
	return json.Marshal(struct {
		Amount json.Number `json:"amount"`
		body
	}{Amount: json.Number(r.Amount.String()), body: body(r)})
}

// CancelPendingRequest cancels the pending exchange bound to a deposit address.
type CancelPendingRequest struct {
	Address string `json:"address"`
}
