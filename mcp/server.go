package mcp

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/shapeshift/client"
	"github.com/mycelian/shapeshift/mcp/internal/handlers"
)

// config holds the MCP server settings. Variables use the MCP_ prefix and
// fall back to the bare name, so both MCP_LOG_LEVEL and LOG_LEVEL work.
// The ShapeShift client itself reads SHAPESHIFT_* (see client.LoadConfig).
type config struct {
	ServerName      string        `envconfig:"SERVER_NAME"       default:"shapeshift-mcp-server"`
	ServerVersion   string        `envconfig:"SERVER_VERSION"    default:"0.1.0"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR"         default:":11547"`
	Stdio           bool          `envconfig:"STDIO"`
	HTTP            bool          `envconfig:"HTTP"`
	LogLevel        string        `envconfig:"LOG_LEVEL"         default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT"  default:"10s"`
	HTTPReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
}

// loadConfig loads configuration from environment variables, then flags.
func loadConfig(args []string) (*config, error) {
	cfg := &config{}
	if err := envconfig.Process("MCP", cfg); err != nil {
		return nil, err
	}

	// Command line flags (will override env vars)
	fs := flag.NewFlagSet("shapeshift-mcp", flag.ContinueOnError)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "Listen address for the streamable HTTP transport")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger writes to stderr; stdout belongs to the stdio transport.
func (c *config) initLogger() {
	zerolog.SetGlobalLevel(parseLogLevel(c.LogLevel))
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}).
		With().Timestamp().Caller().Logger()
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// newMCPServer registers every tool group against sdk.
func newMCPServer(cfg *config, sdk *client.Client) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		server.WithToolCapabilities(true),
	)

	groups := []struct {
		name string
		h    toolRegisterer
	}{
		{"market", handlers.NewMarketHandler(sdk)},
		{"status", handlers.NewStatusHandler(sdk)},
		{"exchange", handlers.NewExchangeHandler(sdk)},
	}
	for _, g := range groups {
		if err := g.h.RegisterTools(s); err != nil {
			log.Error().Err(err).Msgf("Failed to register %s tools", g.name)
			return nil, err
		}
	}
	return s, nil
}

// newHTTPHandler serves MCP on /mcp and the client metrics on /metrics.
func newHTTPHandler(streamSrv http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", streamSrv)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// RunServer starts the MCP server, configured from the environment and
// os.Args.
func RunServer() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	cfg.initLogger()

	sdk, err := client.NewFromEnv()
	if err != nil {
		log.Error().Err(err).Msg("Failed to create ShapeShift client")
		return err
	}
	log.Info().Str("base_url", sdk.BaseURL()).Msg("ShapeShift client created")

	s, err := newMCPServer(cfg, sdk)
	if err != nil {
		return err
	}

	if shouldUseStdio(cfg) {
		log.Info().Msg("Starting ShapeShift MCP server (stdio transport)")
		return server.ServeStdio(s)
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting ShapeShift MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      newHTTPHandler(streamSrv),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: 0, // SSE streams have no deadline
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("HTTP server error")
		return err
	}

	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio picks the transport: MCP_STDIO and MCP_HTTP force one,
// otherwise stdio is used when stdin is not a terminal.
func shouldUseStdio(cfg *config) bool {
	if cfg.Stdio {
		return true
	}
	if cfg.HTTP {
		return false
	}
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
