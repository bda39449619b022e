package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	sserrors "github.com/mycelian/shapeshift/client/internal/errors"
	"github.com/mycelian/shapeshift/client/internal/types"
)

// maxResponseBytes caps how much of a response body is read. The largest
// real bodies (marketinfo for every pair) are well under 1 MiB.
const maxResponseBytes = 10 << 20

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one call: a literal endpoint name, already-escaped path
// and an optional JSON body. A fresh Request is built for every call.
type Request struct {
	Op     string
	Method string
	Path   string
	Body   any
}

// Get builds a GET request for endpoint with each param escaped as its own
// path segment.
func Get(endpoint string, params ...string) Request {
	return Request{Op: endpoint, Method: http.MethodGet, Path: buildPath(endpoint, params...)}
}

// Post builds a POST request carrying body as JSON.
func Post(endpoint string, body any) Request {
	return Request{Op: endpoint, Method: http.MethodPost, Path: endpoint, Body: body}
}

func buildPath(endpoint string, params ...string) string {
	segs := make([]string, 0, len(params)+1)
	segs = append(segs, endpoint)
	for _, p := range params {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

// Do sends r to baseURL and decodes the body. Any well-formed JSON body is
// returned as-is regardless of HTTP status; the service reports its own
// failures inside the document.
func Do(ctx context.Context, httpClient HTTPClient, baseURL string, r Request) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, sserrors.NewTransportError(r.Op, err)
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, sserrors.NewInvalidParameter(r.Op, "encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	u := strings.TrimRight(baseURL, "/") + "/" + r.Path
	httpReq, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, sserrors.NewInvalidParameter(r.Op, "build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, sserrors.NewTransportError(r.Op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, sserrors.NewTransportError(r.Op, err)
	}
	if len(raw) > maxResponseBytes {
		return nil, sserrors.NewBodyTooLargeError(r.Op, resp.StatusCode, maxResponseBytes)
	}
	out, err := types.ParseResponse(raw)
	if err != nil {
		return nil, sserrors.NewDecodeError(r.Op, resp.StatusCode, err)
	}
	return out, nil
}
