package handlers

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mycelian/shapeshift/client"
)

// toolResult turns a client call into a tool result. The service's JSON is
// returned verbatim, including bodies that carry an "error" member; only
// local failures become tool errors.
func toolResult(tool string, start time.Time, res *client.Response, err error) (*mcp.CallToolResult, error) {
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Dur("elapsed", elapsed).Msg("tool call failed")
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err)), nil
	}
	if msg, ok := res.RemoteError(); ok {
		log.Warn().Str("tool", tool).Str("remote_error", msg).Dur("elapsed", elapsed).Msg("service reported an error")
	} else {
		log.Debug().Str("tool", tool).Dur("elapsed", elapsed).Msg("tool call completed")
	}
	return mcp.NewToolResultText(string(res.Raw)), nil
}

func pairArg(req mcp.CallToolRequest) (client.Pair, error) {
	raw, err := req.RequireString("pair")
	if err != nil {
		return client.Pair{}, err
	}
	return client.ParsePair(raw)
}

func optString(req mcp.CallToolRequest, name string) string {
	v, _ := req.GetArguments()[name].(string)
	return v
}

// countArg reads the optional recent-transaction count. JSON numbers arrive
// as float64; strings are accepted for hosts that quote everything.
func countArg(req mcp.CallToolRequest) (n int, ok bool, err error) {
	switch v := req.GetArguments()["count"].(type) {
	case nil:
		return 0, false, nil
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("count must be a whole number, got %v", v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := client.ParseRecentTxCount(v)
		return n, err == nil, err
	default:
		return 0, false, fmt.Errorf("count must be a number, got %T", v)
	}
}

// amountArg reads "amount" as a decimal. Strings keep full precision.
func amountArg(req mcp.CallToolRequest) (decimal.Decimal, error) {
	switch v := req.GetArguments()["amount"].(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case nil:
		return decimal.Decimal{}, fmt.Errorf("required argument \"amount\" not found")
	default:
		return decimal.Decimal{}, fmt.Errorf("amount must be a string or number, got %T", v)
	}
}
