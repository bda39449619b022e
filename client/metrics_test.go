package client

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycelian/shapeshift/client/shapeshifttest"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestEndpointLabel(t *testing.T) {
	cases := []struct{ base, path, want string }{
		{"", "/rate/btc_ltc", "rate"},
		{"", "/txbyaddress/1A%2Fb/key", "txbyaddress"},
		{"", "/getcoins", "getcoins"},
		{"/api", "/api/marketinfo", "marketinfo"},
		{"/api/", "/api/recenttx/5", "recenttx"},
		{"", "/", "root"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, endpointLabel(tc.base, tc.path), "%s %s", tc.base, tc.path)
	}
}

func TestMetrics_CountRequests(t *testing.T) {
	c, _ := newTestClient(t)
	ok := requestsTotal.WithLabelValues("validateAddress", "GET", "2xx")
	before := counterValue(t, ok)

	_, err := c.ValidateAddress(context.Background(), "1A2b3C", "btc")
	require.NoError(t, err)
	_, err = c.ValidateAddress(context.Background(), "1A2b3C", "ltc")
	require.NoError(t, err)
	assert.Equal(t, before+2, counterValue(t, ok))
}

func TestMetrics_TransportError(t *testing.T) {
	srv := shapeshifttest.NewServer()
	url := srv.URL
	srv.Close()

	c, err := New(WithBaseURL(url))
	require.NoError(t, err)
	failed := requestsTotal.WithLabelValues("cancelpending", "POST", "transport_error")
	before := counterValue(t, failed)

	_, err = c.CancelPending(context.Background(), "1Addr")
	require.Error(t, err)
	assert.Equal(t, before+1, counterValue(t, failed))
}
