package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/shapeshift/client"
)

// MarketHandler exposes rate, limit, market info, recent transaction and coin
// listing tools.
type MarketHandler struct {
	client *client.Client
}

// NewMarketHandler returns a new handler.
func NewMarketHandler(c *client.Client) *MarketHandler { return &MarketHandler{client: c} }

// RegisterTools registers market tools.
func (mh *MarketHandler) RegisterTools(s *server.MCPServer) error {
	pairDesc := mcp.Description("Ordered pair input_output, e.g. btc_ltc")

	getRate := mcp.NewTool("get_rate",
		mcp.WithDescription("Current exchange rate for a pair"),
		mcp.WithString("pair", mcp.Required(), pairDesc),
	)
	getLimit := mcp.NewTool("get_deposit_limit",
		mcp.WithDescription("Maximum deposit accepted for a pair"),
		mcp.WithString("pair", mcp.Required(), pairDesc),
	)
	getMarketInfo := mcp.NewTool("get_market_info",
		mcp.WithDescription("Rate, limits and miner fee for a pair; all pairs when pair is omitted"),
		mcp.WithString("pair", pairDesc),
	)
	getRecent := mcp.NewTool("get_recent_transactions",
		mcp.WithDescription("Most recent exchanges on the service"),
		mcp.WithNumber("count", mcp.Description(fmt.Sprintf("How many (%d-%d); service default %d", client.MinRecentTx, client.MaxRecentTx, client.DefaultRecentTx))),
	)
	listCoins := mcp.NewTool("list_coins",
		mcp.WithDescription("Supported coins and whether each is available"),
	)

	s.AddTool(getRate, mh.handleRate)
	s.AddTool(getLimit, mh.handleDepositLimit)
	s.AddTool(getMarketInfo, mh.handleMarketInfo)
	s.AddTool(getRecent, mh.handleRecentTransactions)
	s.AddTool(listCoins, mh.handleListCoins)
	return nil
}

func (mh *MarketHandler) handleRate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pair, err := pairArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Stringer("pair", pair).Msg("get_rate invoked")

	start := time.Now()
	res, err := mh.client.Rate(ctx, pair)
	return toolResult("get_rate", start, res, err)
}

func (mh *MarketHandler) handleDepositLimit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pair, err := pairArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Stringer("pair", pair).Msg("get_deposit_limit invoked")

	start := time.Now()
	res, err := mh.client.DepositLimit(ctx, pair)
	return toolResult("get_deposit_limit", start, res, err)
}

func (mh *MarketHandler) handleMarketInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pair client.Pair
	if raw := optString(req, "pair"); raw != "" {
		p, err := client.ParsePair(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pair = p
	}
	log.Debug().Stringer("pair", pair).Bool("all", pair.IsZero()).Msg("get_market_info invoked")

	start := time.Now()
	res, err := mh.client.MarketInfo(ctx, pair)
	return toolResult("get_market_info", start, res, err)
}

func (mh *MarketHandler) handleRecentTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, ok, err := countArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Int("count", n).Bool("explicit", ok).Msg("get_recent_transactions invoked")

	start := time.Now()
	var res *client.Response
	if ok {
		res, err = mh.client.RecentTransactionsN(ctx, n)
	} else {
		res, err = mh.client.RecentTransactions(ctx)
	}
	return toolResult("get_recent_transactions", start, res, err)
}

func (mh *MarketHandler) handleListCoins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	res, err := mh.client.Coins(ctx)
	return toolResult("list_coins", start, res, err)
}
