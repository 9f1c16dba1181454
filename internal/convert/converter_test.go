package convert

import (
	"math/big"
	"testing"
)

func testConverter() *Converter {
	return NewConverter(NewRateTable("USD", map[string]*big.Rat{
		"ETH":  big.NewRat(3000, 1),
		"USDC": big.NewRat(1, 1),
		"WBTC": big.NewRat(60000, 1),
	}))
}

func TestToGlobal(t *testing.T) {
	conv := testConverter()

	got, ok := conv.ToGlobal(big.NewRat(2, 1), "ETH")
	if !ok {
		t.Fatalf("expected conversion to succeed")
	}
	if got.Cmp(big.NewRat(6000, 1)) != 0 {
		t.Fatalf("unexpected value: %s", got.RatString())
	}
}

func TestToGlobalMissingRateFailsClosed(t *testing.T) {
	conv := testConverter()

	if _, ok := conv.ToGlobal(big.NewRat(1, 1), "UNKNOWN"); ok {
		t.Fatalf("missing rate must not convert")
	}
	if _, ok := conv.ToGlobal(nil, "ETH"); ok {
		t.Fatalf("nil value must not convert")
	}
}

func TestToGlobalIdempotent(t *testing.T) {
	conv := testConverter()
	value := big.NewRat(7, 3)

	first, ok := conv.ToGlobal(value, "WBTC")
	if !ok {
		t.Fatalf("expected conversion to succeed")
	}
	second, ok := conv.ToGlobal(value, "WBTC")
	if !ok {
		t.Fatalf("expected conversion to succeed")
	}
	if first.Cmp(second) != 0 {
		t.Fatalf("conversion not idempotent: %s != %s", first.RatString(), second.RatString())
	}
	if value.Cmp(big.NewRat(7, 3)) != 0 {
		t.Fatalf("input mutated: %s", value.RatString())
	}
}

func TestToGlobalFormatted(t *testing.T) {
	conv := testConverter()

	got := conv.ToGlobalFormatted(big.NewRat(1, 2), "ETH")
	if got != "1500.00 USD" {
		t.Fatalf("unexpected formatted value: %q", got)
	}

	got = conv.ToGlobalFormatted(big.NewRat(1, 1), "UNKNOWN")
	if got != "n/a USD" {
		t.Fatalf("unexpected formatted fallback: %q", got)
	}
}

func TestCrossRate(t *testing.T) {
	conv := testConverter()

	rate, ok := conv.Rate("WBTC", "ETH")
	if !ok {
		t.Fatalf("expected cross rate")
	}
	if rate.Cmp(big.NewRat(20, 1)) != 0 {
		t.Fatalf("unexpected cross rate: %s", rate.RatString())
	}

	if _, ok := conv.Rate("ETH", "UNKNOWN"); ok {
		t.Fatalf("unknown target must not produce a rate")
	}
}

func TestLoadRateFileInvalid(t *testing.T) {
	if _, err := LoadRateFile("testdata/does-not-exist.json"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
