package portfolio

import (
	"math/big"
	"testing"

	"positionScope/internal/convert"
	"positionScope/internal/model"
)

func parityConverter() *convert.Converter {
	return convert.NewConverter(convert.NewRateTable("USD", map[string]*big.Rat{
		"A": big.NewRat(1, 1),
		"B": big.NewRat(1, 1),
	}))
}

func balance(symbol string, value int64) model.TokenBalance {
	return model.TokenBalance{
		Token:    model.Token{Symbol: symbol, Decimals: 18},
		Value:    big.NewRat(value, 1),
		Currency: symbol,
	}
}

func TestCombineLoadingPrecedence(t *testing.T) {
	sources := []Source{
		{Network: "mainnet", Loading: false, Balances: []model.TokenBalance{balance("A", 50)}},
		{Network: "polygon", Loading: true},
	}

	view := Combine(sources, parityConverter())

	if !view.Loading {
		t.Fatalf("aggregate must be loading while any source loads")
	}
	if view.Empty {
		t.Fatalf("loading view must not report empty")
	}
	if view.TotalValue.Sign() != 0 {
		t.Fatalf("loading view must have zero total, got %s", view.TotalValue.RatString())
	}
	if len(view.Tokens) != 0 {
		t.Fatalf("loading view must not expose tokens")
	}
}

func TestCombineFourNetworks(t *testing.T) {
	perNetwork := []model.TokenBalance{balance("A", 50), balance("B", 150)}
	sources := []Source{
		{Network: "mainnet", Balances: perNetwork},
		{Network: "polygon", Balances: perNetwork},
		{Network: "optimism", Balances: perNetwork},
		{Network: "arbitrum", Balances: perNetwork},
	}

	view := Combine(sources, parityConverter())

	if view.Loading || view.Empty {
		t.Fatalf("unexpected view state: loading=%v empty=%v", view.Loading, view.Empty)
	}
	if view.TotalValue.Cmp(big.NewRat(800, 1)) != 0 {
		t.Fatalf("unexpected total: %s", view.TotalValue.RatString())
	}

	wantSymbols := []string{"B", "B", "B", "B", "A", "A", "A", "A"}
	wantNetworks := []string{"mainnet", "polygon", "optimism", "arbitrum", "mainnet", "polygon", "optimism", "arbitrum"}
	if len(view.Tokens) != len(wantSymbols) {
		t.Fatalf("unexpected token count: %d", len(view.Tokens))
	}
	for i, valued := range view.Tokens {
		if valued.Token.Symbol != wantSymbols[i] {
			t.Fatalf("position %d: symbol %s, want %s", i, valued.Token.Symbol, wantSymbols[i])
		}
		if valued.Network != wantNetworks[i] {
			t.Fatalf("position %d: network %s, want %s (stable sort broken)", i, valued.Network, wantNetworks[i])
		}
	}
}

func TestCombineSortedDescending(t *testing.T) {
	sources := []Source{
		{Network: "mainnet", Balances: []model.TokenBalance{
			balance("A", 10), balance("B", 300), balance("A", 300),
		}},
	}

	view := Combine(sources, parityConverter())

	for i := 1; i < len(view.Tokens); i++ {
		if view.Tokens[i-1].GlobalValue.Cmp(view.Tokens[i].GlobalValue) < 0 {
			t.Fatalf("sequence not non-increasing at %d", i)
		}
	}
	// Equal values keep source order.
	if view.Tokens[0].Token.Symbol != "B" || view.Tokens[1].Token.Symbol != "A" {
		t.Fatalf("stable tie-break broken: %s, %s", view.Tokens[0].Token.Symbol, view.Tokens[1].Token.Symbol)
	}
}

func TestCombineTotalPermutationInvariant(t *testing.T) {
	first := Combine([]Source{
		{Network: "a", Balances: []model.TokenBalance{balance("A", 5), balance("B", 7)}},
		{Network: "b", Balances: []model.TokenBalance{balance("A", 11)}},
	}, parityConverter())

	second := Combine([]Source{
		{Network: "b", Balances: []model.TokenBalance{balance("A", 11)}},
		{Network: "a", Balances: []model.TokenBalance{balance("B", 7), balance("A", 5)}},
	}, parityConverter())

	if first.TotalValue.Cmp(second.TotalValue) != 0 {
		t.Fatalf("totals differ: %s != %s", first.TotalValue.RatString(), second.TotalValue.RatString())
	}
}

func TestCombineEmpty(t *testing.T) {
	view := Combine([]Source{{Network: "mainnet"}, {Network: "polygon"}}, parityConverter())

	if view.Loading {
		t.Fatalf("no source is loading")
	}
	if !view.Empty {
		t.Fatalf("expected empty view")
	}
	if view.TotalValue.Sign() != 0 {
		t.Fatalf("empty view must have zero total")
	}
}

func TestCombineUnconvertibleListedButExcluded(t *testing.T) {
	sources := []Source{
		{Network: "mainnet", Balances: []model.TokenBalance{
			balance("A", 100),
			balance("X", 9999), // no rate
		}},
	}

	view := Combine(sources, parityConverter())

	if len(view.Tokens) != 2 {
		t.Fatalf("unconvertible balance must stay listed, got %d tokens", len(view.Tokens))
	}
	if view.TotalValue.Cmp(big.NewRat(100, 1)) != 0 {
		t.Fatalf("unconvertible balance must not count toward total: %s", view.TotalValue.RatString())
	}
	last := view.Tokens[len(view.Tokens)-1]
	if last.Converted || last.Token.Symbol != "X" {
		t.Fatalf("unconvertible balance should sort as zero: %+v", last)
	}
}
