package convert

import (
	"fmt"
	"math/big"
)

const displayScale = 2

// Converter converts amounts denominated in any known source currency into the
// display currency. It is a pure function of (amount, rate table): calls with
// the same inputs within one refresh cycle return equal results.
type Converter struct {
	table RateTable
}

func NewConverter(table RateTable) *Converter {
	return &Converter{table: table}
}

// Display returns the display currency code.
func (c *Converter) Display() string {
	return c.table.Display
}

// ToGlobal converts a value in the given source currency into the display
// currency. A missing rate fails closed: ok is false and no parity is assumed.
func (c *Converter) ToGlobal(value *big.Rat, currency string) (*big.Rat, bool) {
	if value == nil {
		return nil, false
	}
	rate, ok := c.table.Rate(currency)
	if !ok {
		return nil, false
	}
	return rate.Mul(rate, value), true
}

// ToGlobalFormatted renders the converted value with the display currency code,
// or "n/a" when the rate is unavailable.
func (c *Converter) ToGlobalFormatted(value *big.Rat, currency string) string {
	converted, ok := c.ToGlobal(value, currency)
	if !ok {
		return fmt.Sprintf("n/a %s", c.table.Display)
	}
	return fmt.Sprintf("%s %s", converted.FloatString(displayScale), c.table.Display)
}

// Rate returns the cross rate from one source currency to another.
func (c *Converter) Rate(from, to string) (*big.Rat, bool) {
	fromRate, ok := c.table.Rate(from)
	if !ok {
		return nil, false
	}
	toRate, ok := c.table.Rate(to)
	if !ok || toRate.Sign() == 0 {
		return nil, false
	}
	return fromRate.Quo(fromRate, toRate), true
}
