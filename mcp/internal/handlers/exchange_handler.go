package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/shapeshift/client"
)

// ExchangeHandler exposes the tools that create, cancel or document
// exchanges. These calls are never retried.
type ExchangeHandler struct {
	client *client.Client
}

// NewExchangeHandler returns a new handler.
func NewExchangeHandler(c *client.Client) *ExchangeHandler { return &ExchangeHandler{client: c} }

// RegisterTools registers exchange tools.
func (eh *ExchangeHandler) RegisterTools(s *server.MCPServer) error {
	shift := mcp.NewTool("shift",
		mcp.WithDescription("Open an exchange; returns the deposit address to send the input coin to"),
		mcp.WithString("withdrawal", mcp.Required(), mcp.Description("Address that receives the output coin")),
		mcp.WithString("pair", mcp.Required(), mcp.Description("Ordered pair input_output, e.g. btc_ltc")),
		mcp.WithString("return_address", mcp.Description("Refund address for the input coin")),
		mcp.WithString("dest_tag", mcp.Description("Ripple destination tag")),
		mcp.WithString("rs_address", mcp.Description("NXT RS address for new accounts")),
		mcp.WithString("api_key", mcp.Description("Affiliate PUBLIC key")),
	)
	mail := mcp.NewTool("request_email_receipt",
		mcp.WithDescription("Email a receipt for a completed withdrawal"),
		mcp.WithString("email", mcp.Required(), mcp.Description("Recipient address")),
		mcp.WithString("txid", mcp.Required(), mcp.Description("Withdrawal transaction id")),
	)
	sendAmount := mcp.NewTool("send_amount",
		mcp.WithDescription("Open a fixed-amount exchange, or only quote one when withdrawal is omitted"),
		mcp.WithString("amount", mcp.Required(), mcp.Description("Amount of the output coin to receive, as a decimal string")),
		mcp.WithString("pair", mcp.Required(), mcp.Description("Ordered pair input_output, e.g. ltc_btc")),
		mcp.WithString("withdrawal", mcp.Description("Address that receives the output coin")),
		mcp.WithString("return_address", mcp.Description("Refund address for the input coin")),
		mcp.WithString("dest_tag", mcp.Description("Ripple destination tag")),
		mcp.WithString("rs_address", mcp.Description("NXT RS address for new accounts")),
		mcp.WithString("api_key", mcp.Description("Affiliate PUBLIC key")),
	)
	cancel := mcp.NewTool("cancel_pending",
		mcp.WithDescription("Cancel the pending exchange bound to a deposit address"),
		mcp.WithString("address", mcp.Required(), mcp.Description("Deposit address")),
	)

	s.AddTool(shift, eh.handleShift)
	s.AddTool(mail, eh.handleEmailReceipt)
	s.AddTool(sendAmount, eh.handleSendAmount)
	s.AddTool(cancel, eh.handleCancelPending)
	return nil
}

func (eh *ExchangeHandler) handleShift(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	withdrawal, err := req.RequireString("withdrawal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pair, err := pairArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("withdrawal", withdrawal).Stringer("pair", pair).Msg("shift invoked")

	start := time.Now()
	res, err := eh.client.Shift(ctx, client.ShiftRequest{
		Withdrawal:    withdrawal,
		Pair:          pair,
		ReturnAddress: optString(req, "return_address"),
		DestTag:       optString(req, "dest_tag"),
		RSAddress:     optString(req, "rs_address"),
		APIKey:        optString(req, "api_key"),
	})
	return toolResult("shift", start, res, err)
}

func (eh *ExchangeHandler) handleEmailReceipt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	txid, err := req.RequireString("txid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("txid", txid).Msg("request_email_receipt invoked")

	start := time.Now()
	res, err := eh.client.RequestEmailReceipt(ctx, client.EmailReceiptRequest{Email: email, TxID: txid})
	return toolResult("request_email_receipt", start, res, err)
}

func (eh *ExchangeHandler) handleSendAmount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	amount, err := amountArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pair, err := pairArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	withdrawal := optString(req, "withdrawal")

	log.Debug().Str("amount", amount.String()).Stringer("pair", pair).Bool("quote_only", withdrawal == "").Msg("send_amount invoked")

	start := time.Now()
	res, err := eh.client.SendAmount(ctx, client.SendAmountRequest{
		Amount:        amount,
		Withdrawal:    withdrawal,
		Pair:          pair,
		ReturnAddress: optString(req, "return_address"),
		DestTag:       optString(req, "dest_tag"),
		RSAddress:     optString(req, "rs_address"),
		APIKey:        optString(req, "api_key"),
	})
	return toolResult("send_amount", start, res, err)
}

func (eh *ExchangeHandler) handleCancelPending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	addr, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("address", addr).Msg("cancel_pending invoked")

	start := time.Now()
	res, err := eh.client.CancelPending(ctx, addr)
	return toolResult("cancel_pending", start, res, err)
}
