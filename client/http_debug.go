package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// debugTransport logs each request and response at debug level.
//
// Enable it with WithDebugLogging(true), or without code changes by setting
// SHAPESHIFT_DEBUG=true or DEBUG=true. Request and response lines share a
// request_id so interleaved concurrent calls can be told apart.
//
// Dumps contain full paths and bodies, private affiliate keys included.
// Keep it out of production.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := uuid.NewString()
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("request_id", id).Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("request_id", id).Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether SHAPESHIFT_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("SHAPESHIFT_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
