package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/shapeshift/client"
)

// StatusHandler exposes deposit status, transaction history and address
// validation tools.
type StatusHandler struct {
	client *client.Client
}

// NewStatusHandler returns a new handler.
func NewStatusHandler(c *client.Client) *StatusHandler { return &StatusHandler{client: c} }

// RegisterTools registers status tools.
func (sh *StatusHandler) RegisterTools(s *server.MCPServer) error {
	depositStatus := mcp.NewTool("get_deposit_status",
		mcp.WithDescription("Status of deposits made to a deposit address (no_deposits, received, complete, failed)"),
		mcp.WithString("address", mcp.Required(), mcp.Description("Deposit address returned by shift or send_amount")),
	)
	timeRemaining := mcp.NewTool("get_time_remaining",
		mcp.WithDescription("Seconds left before a fixed-amount deposit address expires"),
		mcp.WithString("address", mcp.Required(), mcp.Description("Deposit address returned by send_amount")),
	)
	// Private keys travel in the URL path; never log them.
	byKey := mcp.NewTool("get_transactions_by_api_key",
		mcp.WithDescription("Transactions made under an affiliate PRIVATE key"),
		mcp.WithString("private_key", mcp.Required(), mcp.Description("Affiliate private API key")),
	)
	byAddress := mcp.NewTool("get_transaction_by_address",
		mcp.WithDescription("Transactions that paid out to a withdrawal address"),
		mcp.WithString("address", mcp.Required(), mcp.Description("Withdrawal address")),
		mcp.WithString("private_key", mcp.Required(), mcp.Description("Affiliate private API key")),
	)
	validate := mcp.NewTool("validate_address",
		mcp.WithDescription("Ask the service whether an address is valid for a coin; returns isvalid"),
		mcp.WithString("address", mcp.Required(), mcp.Description("Address to check")),
		mcp.WithString("coin", mcp.Required(), mcp.Description("Coin symbol, e.g. btc")),
	)

	s.AddTool(depositStatus, sh.handleDepositStatus)
	s.AddTool(timeRemaining, sh.handleTimeRemaining)
	s.AddTool(byKey, sh.handleTransactionsByAPIKey)
	s.AddTool(byAddress, sh.handleTransactionsByAddress)
	s.AddTool(validate, sh.handleValidateAddress)
	return nil
}

func (sh *StatusHandler) handleDepositStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	addr, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("address", addr).Msg("get_deposit_status invoked")

	start := time.Now()
	res, err := sh.client.DepositStatus(ctx, addr)
	return toolResult("get_deposit_status", start, res, err)
}

func (sh *StatusHandler) handleTimeRemaining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	addr, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("address", addr).Msg("get_time_remaining invoked")

	start := time.Now()
	res, err := sh.client.TimeRemaining(ctx, addr)
	return toolResult("get_time_remaining", start, res, err)
}

func (sh *StatusHandler) handleTransactionsByAPIKey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("private_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Msg("get_transactions_by_api_key invoked")

	start := time.Now()
	res, err := sh.client.TransactionsByAPIKey(ctx, key)
	return toolResult("get_transactions_by_api_key", start, res, err)
}

func (sh *StatusHandler) handleTransactionsByAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	addr, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("private_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("address", addr).Msg("get_transaction_by_address invoked")

	start := time.Now()
	res, err := sh.client.TransactionsByAddress(ctx, addr, key)
	return toolResult("get_transaction_by_address", start, res, err)
}

func (sh *StatusHandler) handleValidateAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	addr, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	coin, err := req.RequireString("coin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("address", addr).Str("coin", coin).Msg("validate_address invoked")

	start := time.Now()
	res, err := sh.client.ValidateAddress(ctx, addr, coin)
	return toolResult("validate_address", start, res, err)
}
