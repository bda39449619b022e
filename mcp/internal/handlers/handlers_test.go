package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycelian/shapeshift/client"
	"github.com/mycelian/shapeshift/client/shapeshifttest"
)

func newSDK(t *testing.T) (*client.Client, *shapeshifttest.Server) {
	t.Helper()
	srv := shapeshifttest.NewServer()
	t.Cleanup(srv.Close)
	sdk, err := client.New(client.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return sdk, srv
}

func callReq(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", res.Content[0])
	return tc.Text
}

func jsonOf(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, res.IsError, "unexpected tool error: %s", textOf(t, res))
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &m))
	return m
}

func TestRegisterTools(t *testing.T) {
	sdk, _ := newSDK(t)
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))

	require.NoError(t, NewMarketHandler(sdk).RegisterTools(s))
	require.NoError(t, NewStatusHandler(sdk).RegisterTools(s))
	require.NoError(t, NewExchangeHandler(sdk).RegisterTools(s))

	names := []string{
		"get_rate", "get_deposit_limit", "get_market_info", "get_recent_transactions", "list_coins",
		"get_deposit_status", "get_time_remaining", "get_transactions_by_api_key", "get_transaction_by_address", "validate_address",
		"shift", "request_email_receipt", "send_amount", "cancel_pending",
	}

	tr := transport.NewInProcessTransport(s)
	require.NoError(t, tr.Start(context.Background()))
	defer tr.Close()
	c := mcpclient.NewClient(tr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{
		ProtocolVersion: "2024-11-05",
		ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
	}})
	require.NoError(t, err)

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	got := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		got = append(got, tool.Name)
	}
	assert.ElementsMatch(t, names, got)
}

func TestMarketTools(t *testing.T) {
	sdk, srv := newSDK(t)
	mh := NewMarketHandler(sdk)
	ctx := context.Background()

	res, err := mh.handleRate(ctx, callReq(map[string]any{"pair": "btc_ltc"}))
	require.NoError(t, err)
	assert.Equal(t, shapeshifttest.Rate, jsonOf(t, res)["rate"])

	res, err = mh.handleDepositLimit(ctx, callReq(map[string]any{"pair": "ltc_btc"}))
	require.NoError(t, err)
	assert.Equal(t, "ltc_btc", jsonOf(t, res)["pair"])

	res, err = mh.handleMarketInfo(ctx, callReq(map[string]any{}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "/marketinfo", srv.LastRequest().Path)

	_, err = mh.handleMarketInfo(ctx, callReq(map[string]any{"pair": "eth_btc"}))
	require.NoError(t, err)
	assert.Equal(t, "/marketinfo/eth_btc", srv.LastRequest().Path)

	res, err = mh.handleListCoins(ctx, callReq(nil))
	require.NoError(t, err)
	assert.Contains(t, jsonOf(t, res), "LTC")
}

func TestRecentTransactionsTool(t *testing.T) {
	sdk, srv := newSDK(t)
	mh := NewMarketHandler(sdk)
	ctx := context.Background()

	_, err := mh.handleRecentTransactions(ctx, callReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "/recenttx", srv.LastRequest().Path)

	_, err = mh.handleRecentTransactions(ctx, callReq(map[string]any{"count": float64(7)}))
	require.NoError(t, err)
	assert.Equal(t, "/recenttx/7", srv.LastRequest().Path)

	_, err = mh.handleRecentTransactions(ctx, callReq(map[string]any{"count": "3"}))
	require.NoError(t, err)
	assert.Equal(t, "/recenttx/3", srv.LastRequest().Path)

	before := len(srv.Requests())
	for _, bad := range []any{float64(0), float64(51), 2.5, "lots", true} {
		res, err := mh.handleRecentTransactions(ctx, callReq(map[string]any{"count": bad}))
		require.NoError(t, err)
		assert.True(t, res.IsError, "count %v", bad)
	}
	assert.Len(t, srv.Requests(), before)
}

func TestInvalidPairIsToolError(t *testing.T) {
	sdk, srv := newSDK(t)
	mh := NewMarketHandler(sdk)

	for _, args := range []map[string]any{{}, {"pair": "btcltc"}, {"pair": "_ltc"}} {
		res, err := mh.handleRate(context.Background(), callReq(args))
		require.NoError(t, err)
		assert.True(t, res.IsError, "args %v", args)
	}
	assert.Empty(t, srv.Requests())
}

func TestStatusTools(t *testing.T) {
	sdk, srv := newSDK(t)
	sh := NewStatusHandler(sdk)
	ctx := context.Background()

	res, err := sh.handleDepositStatus(ctx, callReq(map[string]any{"address": shapeshifttest.CompleteAddress}))
	require.NoError(t, err)
	assert.Equal(t, "complete", jsonOf(t, res)["status"])

	res, err = sh.handleTimeRemaining(ctx, callReq(map[string]any{"address": shapeshifttest.PendingAddress}))
	require.NoError(t, err)
	assert.Equal(t, "pending", jsonOf(t, res)["status"])

	res, err = sh.handleTransactionsByAPIKey(ctx, callReq(map[string]any{"private_key": shapeshifttest.PrivateKey}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "/txbyapikey/"+shapeshifttest.PrivateKey, srv.LastRequest().Path)

	res, err = sh.handleTransactionsByAddress(ctx, callReq(map[string]any{"address": "LOut"}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "private_key is required")

	_, err = sh.handleTransactionsByAddress(ctx, callReq(map[string]any{"address": "LOut", "private_key": shapeshifttest.PrivateKey}))
	require.NoError(t, err)
	assert.Equal(t, "/txbyaddress/LOut/"+shapeshifttest.PrivateKey, srv.LastRequest().Path)

	res, err = sh.handleValidateAddress(ctx, callReq(map[string]any{"address": "1A2b3C", "coin": "btc"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"isvalid": true}, jsonOf(t, res))
}

func TestRemoteErrorIsReturnedAsText(t *testing.T) {
	sdk, _ := newSDK(t)
	sh := NewStatusHandler(sdk)

	res, err := sh.handleTransactionsByAPIKey(context.Background(), callReq(map[string]any{"private_key": "nope"}))
	require.NoError(t, err)
	assert.Equal(t, "Unknown API key", jsonOf(t, res)["error"])
}

func TestExchangeTools(t *testing.T) {
	sdk, srv := newSDK(t)
	eh := NewExchangeHandler(sdk)
	ctx := context.Background()

	res, err := eh.handleShift(ctx, callReq(map[string]any{"withdrawal": "LOut", "pair": "btc_ltc", "return_address": "1Ret"}))
	require.NoError(t, err)
	assert.Equal(t, shapeshifttest.PendingAddress, jsonOf(t, res)["deposit"])
	assert.Equal(t, map[string]any{"withdrawal": "LOut", "pair": "btc_ltc", "returnAddress": "1Ret"}, srv.LastRequest().Body)

	res, err = eh.handleEmailReceipt(ctx, callReq(map[string]any{"email": "a@example.com", "txid": "tx1"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = eh.handleSendAmount(ctx, callReq(map[string]any{"amount": "0.00000001", "pair": "ltc_btc"}))
	require.NoError(t, err)
	quote := jsonOf(t, res)["success"].(map[string]any)
	assert.NotContains(t, quote, "deposit")
	assert.Equal(t, 0.00000001, srv.LastRequest().Body["amount"])

	res, err = eh.handleSendAmount(ctx, callReq(map[string]any{"amount": float64(2), "pair": "ltc_btc", "withdrawal": "1Out"}))
	require.NoError(t, err)
	quote = jsonOf(t, res)["success"].(map[string]any)
	assert.Equal(t, shapeshifttest.PendingAddress, quote["deposit"])

	res, err = eh.handleSendAmount(ctx, callReq(map[string]any{"amount": "abc", "pair": "ltc_btc"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = eh.handleCancelPending(ctx, callReq(map[string]any{"address": shapeshifttest.PendingAddress}))
	require.NoError(t, err)
	assert.Contains(t, jsonOf(t, res), "success")
}

func TestTransportErrorIsToolError(t *testing.T) {
	srv := shapeshifttest.NewServer()
	url := srv.URL
	srv.Close()
	sdk, err := client.New(client.WithBaseURL(url))
	require.NoError(t, err)

	res, err := NewMarketHandler(sdk).handleListCoins(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "list_coins failed")
}
