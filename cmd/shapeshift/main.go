package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mycelian/shapeshift/client"
)

var (
	baseURL      string
	affiliateKey string
	timeout      time.Duration
	debug        bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "shapeshift",
		Short:        "Query the ShapeShift exchange API",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := getEnv("SHAPESHIFT_BASE_URL", client.DefaultBaseURL)
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", defaultURL, "Base URL of the ShapeShift API")
	rootCmd.PersistentFlags().StringVar(&affiliateKey, "affiliate-key", "", "Affiliate PUBLIC key sent with shift and send-amount")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout per request (0 keeps SHAPESHIFT_HTTP_TIMEOUT or 30s)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Log every HTTP request and response")

	// Market data
	rootCmd.AddCommand(newRateCmd())
	rootCmd.AddCommand(newLimitCmd())
	rootCmd.AddCommand(newMarketInfoCmd())
	rootCmd.AddCommand(newRecentTxCmd())
	rootCmd.AddCommand(newCoinsCmd())

	// Status
	rootCmd.AddCommand(newTxStatusCmd())
	rootCmd.AddCommand(newTimeRemainingCmd())
	rootCmd.AddCommand(newTxByKeyCmd())
	rootCmd.AddCommand(newTxByAddressCmd())
	rootCmd.AddCommand(newValidateAddressCmd())

	// Exchanges
	rootCmd.AddCommand(newShiftCmd())
	rootCmd.AddCommand(newMailCmd())
	rootCmd.AddCommand(newSendAmountCmd())
	rootCmd.AddCommand(newCancelPendingCmd())

	return rootCmd
}

// newClient layers the command-line flags over the SHAPESHIFT_* environment.
func newClient() (*client.Client, error) {
	opts := []client.Option{client.WithBaseURL(baseURL)}
	if timeout > 0 {
		opts = append(opts, client.WithHTTPTimeout(timeout))
	}
	if affiliateKey != "" {
		opts = append(opts, client.WithAffiliateKey(affiliateKey))
	}
	if debug {
		opts = append(opts, client.WithDebugLogging(true))
	}
	return client.NewFromEnv(opts...)
}

type call func(ctx context.Context, c *client.Client) (*client.Response, error)

// run executes one API call and prints the service's JSON, indented.
// A service-reported error is still printed and only logged as a warning.
func run(cmd *cobra.Command, op string, fn call) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	log.Debug().Str("op", op).Str("base_url", c.BaseURL()).Msg("calling ShapeShift")

	start := time.Now()
	res, err := fn(cmd.Context(), c)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("request failed")
		return err
	}
	if msg, ok := res.RemoteError(); ok {
		log.Warn().Str("op", op).Str("remote_error", msg).Msg("service reported an error")
	}
	log.Debug().Str("op", op).Dur("elapsed", elapsed).Int("bytes", len(res.Raw)).Msg("request completed")

	return printJSON(cmd.OutOrStdout(), res.Raw)
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}

// ------------------ Market Commands -------------------

func newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <pair>",
		Short: "Show the current rate for a pair such as btc_ltc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := client.ParsePair(args[0])
			if err != nil {
				return err
			}
			return run(cmd, "rate", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.Rate(ctx, pair)
			})
		},
	}
}

func newLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limit <pair>",
		Short: "Show the maximum deposit for a pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := client.ParsePair(args[0])
			if err != nil {
				return err
			}
			return run(cmd, "limit", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DepositLimit(ctx, pair)
			})
		},
	}
}

func newMarketInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "market-info [pair]",
		Short: "Show rate, limits and miner fee for one pair, or for all pairs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return run(cmd, "marketinfo", func(ctx context.Context, c *client.Client) (*client.Response, error) {
					return c.AllMarketInfo(ctx)
				})
			}
			pair, err := client.ParsePair(args[0])
			if err != nil {
				return err
			}
			return run(cmd, "marketinfo", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.MarketInfo(ctx, pair)
			})
		},
	}
}

func newRecentTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent-tx [count]",
		Short: fmt.Sprintf("List recent exchanges (count %d-%d, service default %d)", client.MinRecentTx, client.MaxRecentTx, client.DefaultRecentTx),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return run(cmd, "recenttx", func(ctx context.Context, c *client.Client) (*client.Response, error) {
					return c.RecentTransactions(ctx)
				})
			}
			n, err := client.ParseRecentTxCount(args[0])
			if err != nil {
				return err
			}
			return run(cmd, "recenttx", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RecentTransactionsN(ctx, n)
			})
		},
	}
}

func newCoinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coins",
		Short: "List supported coins and their availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "getcoins", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.Coins(ctx)
			})
		},
	}
}

// ------------------ Status Commands -------------------

func newTxStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx-status <deposit-address>",
		Short: "Show the status of deposits made to an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "txStat", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DepositStatus(ctx, args[0])
			})
		},
	}
}

func newTimeRemainingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "time-remaining <deposit-address>",
		Short: "Show seconds left on a fixed-amount deposit address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "timeremaining", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.TimeRemaining(ctx, args[0])
			})
		},
	}
}

func newTxByKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx-by-key <private-key>",
		Short: "List transactions made under an affiliate private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "txbyapikey", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.TransactionsByAPIKey(ctx, args[0])
			})
		},
	}
}

func newTxByAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx-by-address <withdrawal-address> <private-key>",
		Short: "List transactions that paid out to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "txbyaddress", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.TransactionsByAddress(ctx, args[0], args[1])
			})
		},
	}
}

func newValidateAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-address <address> <coin>",
		Short: "Check whether an address is valid for a coin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "validateAddress", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ValidateAddress(ctx, args[0], args[1])
			})
		},
	}
}

// ------------------ Exchange Commands -------------------

func newShiftCmd() *cobra.Command {
	var pair string
	var req client.ShiftRequest

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Open an exchange and print the deposit address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := client.ParsePair(pair)
			if err != nil {
				return err
			}
			req.Pair = p
			return run(cmd, "shift", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.Shift(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Withdrawal, "withdrawal", "", "Address that receives the output coin (required)")
	cmd.Flags().StringVar(&pair, "pair", "", "Pair such as btc_ltc (required)")
	cmd.Flags().StringVar(&req.ReturnAddress, "return-address", "", "Refund address for the input coin")
	cmd.Flags().StringVar(&req.DestTag, "dest-tag", "", "Ripple destination tag")
	cmd.Flags().StringVar(&req.RSAddress, "rs-address", "", "NXT RS address for new accounts")
	cmd.Flags().StringVar(&req.APIKey, "api-key", "", "Affiliate PUBLIC key (overrides --affiliate-key)")

	_ = cmd.MarkFlagRequired("withdrawal")
	_ = cmd.MarkFlagRequired("pair")
	return cmd
}

func newMailCmd() *cobra.Command {
	var req client.EmailReceiptRequest

	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Request an email receipt for a withdrawal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "mail", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RequestEmailReceipt(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Recipient address (required)")
	cmd.Flags().StringVar(&req.TxID, "txid", "", "Withdrawal transaction id (required)")

	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("txid")
	return cmd
}

func newSendAmountCmd() *cobra.Command {
	var pair, amount string
	var req client.SendAmountRequest

	cmd := &cobra.Command{
		Use:   "send-amount",
		Short: "Open a fixed-amount exchange, or quote one when --withdrawal is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := client.ParsePair(pair)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			req.Pair, req.Amount = p, amt
			return run(cmd, "sendamount", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.SendAmount(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount of the output coin to receive (required)")
	cmd.Flags().StringVar(&pair, "pair", "", "Pair such as ltc_btc (required)")
	cmd.Flags().StringVar(&req.Withdrawal, "withdrawal", "", "Address that receives the output coin; omit for a quote")
	cmd.Flags().StringVar(&req.ReturnAddress, "return-address", "", "Refund address for the input coin")
	cmd.Flags().StringVar(&req.DestTag, "dest-tag", "", "Ripple destination tag")
	cmd.Flags().StringVar(&req.RSAddress, "rs-address", "", "NXT RS address for new accounts")
	cmd.Flags().StringVar(&req.APIKey, "api-key", "", "Affiliate PUBLIC key (overrides --affiliate-key)")

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("pair")
	return cmd
}

func newCancelPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-pending <deposit-address>",
		Short: "Cancel the pending exchange bound to a deposit address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "cancelpending", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CancelPending(ctx, args[0])
			})
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
