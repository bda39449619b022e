// Package shapeshifttest provides an in-process fake of the ShapeShift API
// for tests. It serves every endpoint the client knows with canned,
// service-shaped JSON and records what it was sent.
package shapeshifttest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Request is one call received by the fake.
type Request struct {
	Method string
	Path   string            // escaped request path, e.g. /txStat/1A%2F2
	Vars   map[string]string // unescaped route variables
	Body   map[string]any    // decoded JSON body of POST requests
}

// Server is a running fake. URL is suitable for client.WithBaseURL.
type Server struct {
	*httptest.Server

	mux *mux.Router

	mu        sync.Mutex
	requests  []Request
	overrides map[string]http.Handler
}

// NewServer starts a fake; the caller must Close it.
func NewServer() *Server {
	s := &Server{overrides: make(map[string]http.Handler)}
	s.mux = newRouter()
	s.Server = httptest.NewServer(s.record(s.mux))
	return s
}

// Handle replaces the response for method and escaped path, e.g.
// Handle("GET", "/getcoins", h). Use it to inject error bodies, HTML pages
// or slow responses.
func (s *Server) Handle(method, path string, h http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = h
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero Request.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func newRouter() *mux.Router {
	r := mux.NewRouter().UseEncodedPath()

	r.HandleFunc("/rate/{pair}", handleRate).Methods(http.MethodGet)
	r.HandleFunc("/limit/{pair}", handleLimit).Methods(http.MethodGet)
	r.HandleFunc("/marketinfo", handleMarketInfo).Methods(http.MethodGet)
	r.HandleFunc("/marketinfo/{pair}", handleMarketInfo).Methods(http.MethodGet)
	r.HandleFunc("/recenttx", handleRecentTx).Methods(http.MethodGet)
	r.HandleFunc("/recenttx/{max}", handleRecentTx).Methods(http.MethodGet)
	r.HandleFunc("/txStat/{address}", handleTxStat).Methods(http.MethodGet)
	r.HandleFunc("/timeremaining/{address}", handleTimeRemaining).Methods(http.MethodGet)
	r.HandleFunc("/getcoins", handleGetCoins).Methods(http.MethodGet)
	r.HandleFunc("/txbyapikey/{apiKey}", handleTxByAPIKey).Methods(http.MethodGet)
	r.HandleFunc("/txbyaddress/{address}/{apiKey}", handleTxByAddress).Methods(http.MethodGet)
	r.HandleFunc("/validateAddress/{address}/{coin}", handleValidateAddress).Methods(http.MethodGet)

	r.HandleFunc("/shift", handleShift).Methods(http.MethodPost)
	r.HandleFunc("/mail", handleMail).Methods(http.MethodPost)
	r.HandleFunc("/sendamount", handleSendAmount).Methods(http.MethodPost)
	r.HandleFunc("/cancelpending", handleCancelPending).Methods(http.MethodPost)
	return r
}

// record captures the request, then dispatches to an override or the router.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{Method: r.Method, Path: r.URL.EscapedPath()}
		var m mux.RouteMatch
		if s.mux.Match(r, &m) && m.Route != nil {
			rec.Vars = unescapeVars(m.Vars)
		}
		if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			if len(b) > 0 {
				_ = json.Unmarshal(b, &rec.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(b))
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		override := s.overrides[r.Method+" "+rec.Path]
		s.mu.Unlock()

		if override != nil {
			override.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unescapeVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		if u, err := url.PathUnescape(v); err == nil {
			v = u
		}
		out[k] = v
	}
	return out
}

// vars returns the unescaped route variables of r.
func vars(r *http.Request) map[string]string { return unescapeVars(mux.Vars(r)) }

func jsonDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("shapeshifttest: failed to encode JSON response")
	}
}

// writeError mimics the service, which reports failures as {"error": "..."}.
func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"error": msg})
}
