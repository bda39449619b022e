package types

import (
	"strconv"
	"strings"

	sserrors "github.com/mycelian/shapeshift/client/internal/errors"
)

// Bounds of the recenttx count. The service returns DefaultRecentTx
// transactions when no count is sent.
const (
	MinRecentTx     = 1
	MaxRecentTx     = 50
	DefaultRecentTx = 5
)

// ValidateRecentTxCount rejects counts outside [MinRecentTx, MaxRecentTx].
func ValidateRecentTxCount(n int) error {
	if n < MinRecentTx || n > MaxRecentTx {
		return sserrors.NewInvalidParameter("recenttx", "count %d must be between %d and %d", n, MinRecentTx, MaxRecentTx)
	}
	return nil
}

// ParseRecentTxCount parses textual input such as a CLI flag.
func ParseRecentTxCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, sserrors.NewInvalidParameter("recenttx", "count %q is not a number", s)
	}
	if err := ValidateRecentTxCount(n); err != nil {
		return 0, err
	}
	return n, nil
}
