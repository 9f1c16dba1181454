package analytics

import (
	"math/big"
	"testing"

	"positionScope/internal/model"
)

func statusPool(tick int32) *model.Pool {
	return &model.Pool{
		Address:      "0x00000000000000000000000000000000000000aa",
		Token0:       model.Token{Symbol: "WETH", Decimals: 18, Address: "0x01"},
		Token1:       model.Token{Symbol: "USDC", Decimals: 6, Address: "0x02"},
		TickCurrent:  tick,
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 96),
	}
}

func statusPosition(liquidity int64) *model.Position {
	return &model.Position{
		ID:        "1",
		TickLower: -600,
		TickUpper: 600,
		Liquidity: big.NewInt(liquidity),
	}
}

func TestClassifyInRange(t *testing.T) {
	if got := Classify(statusPool(0), statusPosition(100)); got != StatusInRange {
		t.Fatalf("expected in range, got %s", got)
	}
	// Lower bound is inclusive.
	if got := Classify(statusPool(-600), statusPosition(100)); got != StatusInRange {
		t.Fatalf("expected in range at lower bound, got %s", got)
	}
}

func TestClassifyOutRange(t *testing.T) {
	// Upper bound is exclusive.
	if got := Classify(statusPool(600), statusPosition(100)); got != StatusOutRange {
		t.Fatalf("expected out of range at upper bound, got %s", got)
	}
	if got := Classify(statusPool(-601), statusPosition(100)); got != StatusOutRange {
		t.Fatalf("expected out of range below band, got %s", got)
	}
}

func TestClassifyInactive(t *testing.T) {
	if got := Classify(nil, statusPosition(100)); got != StatusInactive {
		t.Fatalf("missing pool must classify inactive, got %s", got)
	}
	if got := Classify(statusPool(0), nil); got != StatusInactive {
		t.Fatalf("missing position must classify inactive, got %s", got)
	}
	if got := Classify(statusPool(0), statusPosition(0)); got != StatusInactive {
		t.Fatalf("zero liquidity must classify inactive, got %s", got)
	}
}

func TestStatusLabels(t *testing.T) {
	cases := map[Status]string{
		StatusInactive: "Closed",
		StatusInRange:  "In Range",
		StatusOutRange: "Out of Range",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Fatalf("label for %s: %q, want %q", status, got, want)
		}
	}
}
