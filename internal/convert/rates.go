package convert

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
)

// RateTable is an immutable-per-computation snapshot of conversion rates. Each
// rate expresses how many display-currency units one source-currency unit is
// worth. The table is refreshed by an external collaborator; the engine only
// reads it.
type RateTable struct {
	Display string
	rates   map[string]*big.Rat
}

// NewRateTable builds a snapshot from a rate map.
func NewRateTable(display string, rates map[string]*big.Rat) RateTable {
	copied := make(map[string]*big.Rat, len(rates))
	for currency, rate := range rates {
		if rate == nil {
			continue
		}
		copied[currency] = new(big.Rat).Set(rate)
	}
	return RateTable{Display: display, rates: copied}
}

// Rate returns the conversion rate for a source currency, if known.
func (t RateTable) Rate(currency string) (*big.Rat, bool) {
	rate, ok := t.rates[currency]
	if !ok {
		return nil, false
	}
	return new(big.Rat).Set(rate), true
}

type rateFile struct {
	Display string            `json:"display"`
	Rates   map[string]string `json:"rates"`
}

// LoadRateFile reads a rate snapshot from a JSON file of decimal strings.
func LoadRateFile(path string) (RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RateTable{}, fmt.Errorf("read rates: %w", err)
	}

	var file rateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return RateTable{}, fmt.Errorf("parse rates: %w", err)
	}
	if file.Display == "" {
		return RateTable{}, fmt.Errorf("rates file missing display currency")
	}

	rates := make(map[string]*big.Rat, len(file.Rates))
	for currency, text := range file.Rates {
		rate, ok := new(big.Rat).SetString(text)
		if !ok {
			return RateTable{}, fmt.Errorf("invalid rate for %s: %q", currency, text)
		}
		if rate.Sign() < 0 {
			return RateTable{}, fmt.Errorf("negative rate for %s: %q", currency, text)
		}
		rates[currency] = rate
	}

	return NewRateTable(file.Display, rates), nil
}
