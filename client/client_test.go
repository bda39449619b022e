package client

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycelian/shapeshift/client/shapeshifttest"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *shapeshifttest.Server) {
	t.Helper()
	srv := shapeshifttest.NewServer()
	t.Cleanup(srv.Close)
	c, err := New(append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	require.NoError(t, err)
	return c, srv
}

func mustPair(t *testing.T, in, out string) Pair {
	t.Helper()
	p, err := NewPair(in, out)
	require.NoError(t, err)
	return p
}

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, defaultHTTPTimeout, c.http.Timeout)
	_, ok := c.http.Transport.(*metricsTransport)
	assert.True(t, ok, "metrics transport installed")
}

func TestRate_PathAndIdentity(t *testing.T) {
	c, srv := newTestClient(t)
	res, err := c.Rate(context.Background(), mustPair(t, "btc", "ltc"))
	require.NoError(t, err)
	assert.Equal(t, "/rate/btc_ltc", srv.LastRequest().Path)
	assert.Equal(t, map[string]any{"pair": "btc_ltc", "rate": shapeshifttest.Rate}, res.Value)

	var ri RateInfo
	require.NoError(t, res.Decode(&ri))
	assert.Equal(t, mustPair(t, "btc", "ltc"), ri.Pair)
	assert.True(t, ri.Rate.Equal(decimal.RequireFromString(shapeshifttest.Rate)))
}

func TestPairOrderPreserved(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	_, err := c.DepositLimit(ctx, mustPair(t, "ltc", "btc"))
	require.NoError(t, err)
	assert.Equal(t, "/limit/ltc_btc", srv.LastRequest().Path)

	_, err = c.MarketInfo(ctx, mustPair(t, "eth", "btc"))
	require.NoError(t, err)
	assert.Equal(t, "/marketinfo/eth_btc", srv.LastRequest().Path)
}

func TestMarketInfo_All(t *testing.T) {
	c, srv := newTestClient(t)
	res, err := c.AllMarketInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/marketinfo", srv.LastRequest().Path)

	var infos []MarketInfo
	require.NoError(t, res.Decode(&infos))
	assert.Len(t, infos, 6)

	_, err = c.MarketInfo(context.Background(), Pair{})
	require.NoError(t, err)
	assert.Equal(t, "/marketinfo", srv.LastRequest().Path)
}

func TestRecentTransactions(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	res, err := c.RecentTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/recenttx", srv.LastRequest().Path)
	var txs []RecentTx
	require.NoError(t, res.Decode(&txs))
	assert.Len(t, txs, DefaultRecentTx)

	for _, n := range []int{MinRecentTx, MaxRecentTx} {
		res, err := c.RecentTransactionsN(ctx, n)
		require.NoError(t, err)
		require.NoError(t, res.Decode(&txs))
		assert.Len(t, txs, n)
	}
	assert.Equal(t, "/recenttx/50", srv.LastRequest().Path)

	before := len(srv.Requests())
	for _, n := range []int{0, 51} {
		_, err := c.RecentTransactionsN(ctx, n)
		assert.True(t, IsInvalidParameter(err), "count %d: %v", n, err)
	}
	_, err = ParseRecentTxCount("five")
	assert.True(t, IsInvalidParameter(err))
	assert.Len(t, srv.Requests(), before, "invalid counts must not reach the service")
}

func TestValidateAddress_EndToEnd(t *testing.T) {
	c, srv := newTestClient(t)
	res, err := c.ValidateAddress(context.Background(), "1A2b3C", "btc")
	require.NoError(t, err)

	last := srv.LastRequest()
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/validateAddress/1A2b3C/btc", last.Path)
	assert.Equal(t, map[string]any{"isvalid": true}, res.Value)
}

func TestStatusOperations(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	res, err := c.DepositStatus(ctx, shapeshifttest.CompleteAddress)
	require.NoError(t, err)
	var st DepositStatus
	require.NoError(t, res.Decode(&st))
	assert.Equal(t, "complete", st.Status)
	assert.True(t, st.OutgoingCoin.Equal(decimal.RequireFromString("35.06172839")))

	res, err = c.TimeRemaining(ctx, shapeshifttest.PendingAddress)
	require.NoError(t, err)
	var tr TimeRemaining
	require.NoError(t, res.Decode(&tr))
	assert.Equal(t, int64(600), tr.SecondsRemaining.IntPart())

	res, err = c.TransactionsByAPIKey(ctx, shapeshifttest.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, "/txbyapikey/"+shapeshifttest.PrivateKey, srv.LastRequest().Path)
	var txs []Transaction
	require.NoError(t, res.Decode(&txs))
	require.Len(t, txs, 1)

	_, err = c.TransactionsByAddress(ctx, "L/weird address", shapeshifttest.PrivateKey)
	require.NoError(t, err)
	last := srv.LastRequest()
	assert.Equal(t, "/txbyaddress/L%2Fweird%20address/"+shapeshifttest.PrivateKey, last.Path)
	assert.Equal(t, "L/weird address", last.Vars["address"])

	res, err = c.Coins(ctx)
	require.NoError(t, err)
	var coins CoinList
	require.NoError(t, res.Decode(&coins))
	assert.Equal(t, "Bitcoin", coins["BTC"].Name)
}

func TestRemoteErrorPassedThrough(t *testing.T) {
	c, _ := newTestClient(t)
	res, err := c.TransactionsByAPIKey(context.Background(), "wrong")
	require.NoError(t, err, "service-level errors are data, not Go errors")
	msg, ok := res.RemoteError()
	assert.True(t, ok)
	assert.Equal(t, "Unknown API key", msg)
}

func TestShift_AffiliateKeyDefault(t *testing.T) {
	c, srv := newTestClient(t, WithAffiliateKey("pub-key"))
	ctx := context.Background()

	res, err := c.Shift(ctx, ShiftRequest{Withdrawal: "LOut", Pair: mustPair(t, "btc", "ltc"), DestTag: "42"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"withdrawal": "LOut", "pair": "btc_ltc", "destTag": "42", "apiKey": "pub-key"}, srv.LastRequest().Body)
	var sr ShiftResult
	require.NoError(t, res.Decode(&sr))
	assert.Equal(t, shapeshifttest.PendingAddress, sr.Deposit)
	assert.Equal(t, "pub-key", sr.APIPubKey)

	_, err = c.Shift(ctx, ShiftRequest{Withdrawal: "LOut", Pair: mustPair(t, "btc", "ltc"), APIKey: "own"})
	require.NoError(t, err)
	assert.Equal(t, "own", srv.LastRequest().Body["apiKey"])
}

func TestPostBodiesDoNotLeakBetweenCalls(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	_, err := c.Shift(ctx, ShiftRequest{Withdrawal: "LOut", Pair: mustPair(t, "btc", "ltc"), ReturnAddress: "1Ret"})
	require.NoError(t, err)
	_, err = c.Shift(ctx, ShiftRequest{Withdrawal: "LOut2", Pair: mustPair(t, "btc", "ltc")})
	require.NoError(t, err)
	assert.NotContains(t, srv.LastRequest().Body, "returnAddress")
}

func TestSendAmount_AndQuote(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	res, err := c.SendAmount(ctx, SendAmountRequest{Amount: decimal.RequireFromString("123"), Pair: mustPair(t, "ltc", "btc")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"amount": float64(123), "pair": "ltc_btc"}, srv.LastRequest().Body)
	var quote SendAmountResult
	require.NoError(t, res.Decode(&quote))
	require.NotNil(t, quote.Success)
	assert.Empty(t, quote.Success.Deposit, "quotes do not create a deposit address")

	res, err = c.SendAmount(ctx, SendAmountRequest{Amount: decimal.RequireFromString("123"), Withdrawal: "1Out", Pair: mustPair(t, "ltc", "btc")})
	require.NoError(t, err)
	require.NoError(t, res.Decode(&quote))
	assert.Equal(t, shapeshifttest.PendingAddress, quote.Success.Deposit)
}

func TestMailAndCancel(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	res, err := c.RequestEmailReceipt(ctx, EmailReceiptRequest{Email: "mail@example.com", TxID: "123ABC"})
	require.NoError(t, err)
	assert.Equal(t, "/mail", srv.LastRequest().Path)
	var er EmailReceiptResult
	require.NoError(t, res.Decode(&er))
	assert.Equal(t, "success", er.Email.Status)

	res, err = c.CancelPending(ctx, shapeshifttest.PendingAddress)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, srv.LastRequest().Method)
	assert.Equal(t, map[string]any{"address": shapeshifttest.PendingAddress}, srv.LastRequest().Body)
	var cr CancelPendingResult
	require.NoError(t, res.Decode(&cr))
	assert.NotEmpty(t, cr.Success)
}

func TestInvalidPairRejectedLocally(t *testing.T) {
	c, srv := newTestClient(t)
	_, err := c.Rate(context.Background(), Pair{Input: "btc"})
	assert.True(t, IsInvalidParameter(err))
	_, err = c.Shift(context.Background(), ShiftRequest{Withdrawal: "x"})
	assert.True(t, IsInvalidParameter(err))
	assert.Empty(t, srv.Requests())
}

func TestNonJSONBodyIsDecodeError(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Handle(http.MethodGet, "/getcoins", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html><body>502 Bad Gateway</body></html>"))
	}))
	res, err := c.Coins(context.Background())
	assert.Nil(t, res)
	assert.True(t, IsDecode(err), "got %v", err)
}

func TestTimeoutIsTransportError(t *testing.T) {
	c, srv := newTestClient(t, WithHTTPTimeout(50*time.Millisecond))
	release := make(chan struct{})
	defer close(release)
	srv.Handle(http.MethodGet, "/getcoins", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	_, err := c.Coins(context.Background())
	assert.True(t, IsTransport(err), "got %v", err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestConnectionRefusedIsTransportError(t *testing.T) {
	srv := shapeshifttest.NewServer()
	url := srv.URL
	srv.Close()

	c, err := New(WithBaseURL(url))
	require.NoError(t, err)
	_, err = c.Coins(context.Background())
	assert.True(t, IsTransport(err))
	assert.False(t, IsTimeout(err))
}

func TestConcurrentUse(t *testing.T) {
	c, srv := newTestClient(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Rate(context.Background(), Pair{Input: "btc", Output: "ltc"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, srv.Requests(), 16)
}
