package types

import (
	"encoding/json"
	"fmt"
	"strings"

	sserrors "github.com/mycelian/shapeshift/client/internal/errors"
)

// pairSeparator joins the input and output symbols of a Pair.
const pairSeparator = "_"

// Pair is an ordered exchange direction: Input is deposited, Output is
// withdrawn. Symbols are sent as given; btc_ltc and ltc_btc are distinct.
type Pair struct {
	Input  string
	Output string
}

// NewPair builds a Pair, rejecting empty symbols.
func NewPair(input, output string) (Pair, error) {
	p := Pair{Input: input, Output: output}
	if err := p.Validate(); err != nil {
		return Pair{}, sserrors.NewInvalidParameter("pair", "%w", err)
	}
	return p, nil
}

// ParsePair splits "btc_ltc" at the first underscore.
func ParsePair(s string) (Pair, error) {
	in, out, ok := strings.Cut(s, pairSeparator)
	if !ok {
		return Pair{}, sserrors.NewInvalidParameter("pair", "pair %q has no %q separator", s, pairSeparator)
	}
	return NewPair(in, out)
}

// String returns the wire form "{input}_{output}".
func (p Pair) String() string { return p.Input + pairSeparator + p.Output }

// IsZero reports whether neither symbol is set.
func (p Pair) IsZero() bool { return p.Input == "" && p.Output == "" }

// Validate checks that both symbols are present and free of the separator,
// so that String and ParsePair round-trip.
func (p Pair) Validate() error {
	switch {
	case p.Input == "" && p.Output == "":
		return fmt.Errorf("pair is empty")
	case p.Input == "":
		return fmt.Errorf("pair %q has no input symbol", p.String())
	case p.Output == "":
		return fmt.Errorf("pair %q has no output symbol", p.String())
	case strings.Contains(p.Input, pairSeparator), strings.Contains(p.Output, pairSeparator):
		return fmt.Errorf("pair symbols %q and %q must not contain %q", p.Input, p.Output, pairSeparator)
	}
	return nil
}

// MarshalJSON encodes the pair as its wire string.
func (p Pair) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// UnmarshalJSON accepts the wire string. A value without a separator is kept
// whole in Input so that unexpected service output still decodes.
func (p *Pair) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	in, out, _ := strings.Cut(s, pairSeparator)
	*p = Pair{Input: in, Output: out}
	return nil
}
