package model

import (
	"math/big"
	"testing"
)

func q96Int() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 96)
}

func testPool(dec0, dec1 uint8) *Pool {
	return &Pool{
		ChainID:      1,
		Address:      "0x00000000000000000000000000000000000000aa",
		Token0:       Token{ChainID: 1, Address: "0x0000000000000000000000000000000000000001", Symbol: "A", Decimals: dec0},
		Token1:       Token{ChainID: 1, Address: "0x0000000000000000000000000000000000000002", Symbol: "B", Decimals: dec1},
		SqrtPriceX96: q96Int(),
	}
}

func TestPriceOfParity(t *testing.T) {
	pool := testPool(18, 18)

	for _, token := range []Token{pool.Token0, pool.Token1} {
		price, err := pool.PriceOf(token)
		if err != nil {
			t.Fatalf("price of %s: %v", token.Symbol, err)
		}
		if price.Cmp(big.NewRat(1, 1)) != 0 {
			t.Fatalf("expected parity for %s, got %s", token.Symbol, price.RatString())
		}
	}
}

func TestPriceOfDecimalAdjustment(t *testing.T) {
	// At raw parity an 18-decimal token0 is worth 10^12 human units of a
	// 6-decimal token1.
	pool := testPool(18, 6)

	price0, err := pool.PriceOf(pool.Token0)
	if err != nil {
		t.Fatalf("price of token0: %v", err)
	}
	want := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(12), nil))
	if price0.Cmp(want) != 0 {
		t.Fatalf("unexpected token0 price: %s", price0.RatString())
	}

	price1, err := pool.PriceOf(pool.Token1)
	if err != nil {
		t.Fatalf("price of token1: %v", err)
	}
	if price1.Cmp(new(big.Rat).Inv(want)) != 0 {
		t.Fatalf("unexpected token1 price: %s", price1.RatString())
	}
}

func TestPriceOfReciprocal(t *testing.T) {
	pool := testPool(18, 18)
	// sqrtPrice = 2 * 2^96 => token1/token0 price of 4.
	pool.SqrtPriceX96 = new(big.Int).Lsh(big.NewInt(2), 96)

	price0, err := pool.PriceOf(pool.Token0)
	if err != nil {
		t.Fatalf("price of token0: %v", err)
	}
	if price0.Cmp(big.NewRat(4, 1)) != 0 {
		t.Fatalf("unexpected token0 price: %s", price0.RatString())
	}

	price1, err := pool.PriceOf(pool.Token1)
	if err != nil {
		t.Fatalf("price of token1: %v", err)
	}
	if price1.Cmp(big.NewRat(1, 4)) != 0 {
		t.Fatalf("unexpected token1 price: %s", price1.RatString())
	}
}

func TestPriceOfErrors(t *testing.T) {
	pool := testPool(18, 18)

	outsider := Token{ChainID: 1, Address: "0x00000000000000000000000000000000000000ff", Symbol: "C", Decimals: 18}
	if _, err := pool.PriceOf(outsider); err == nil {
		t.Fatalf("expected error for token outside the pool")
	}

	pool.SqrtPriceX96 = nil
	if _, err := pool.PriceOf(pool.Token0); err == nil {
		t.Fatalf("expected error for missing price")
	}
}

func TestQuoteZeroAmount(t *testing.T) {
	pool := testPool(18, 18)
	pool.SqrtPriceX96 = nil // a zero quote must not need the price

	value, err := pool.Quote(pool.Token1, nil)
	if err != nil {
		t.Fatalf("quote nil amount: %v", err)
	}
	if value.Sign() != 0 {
		t.Fatalf("expected zero quote, got %s", value.RatString())
	}
}

func TestQuoteCounterLeg(t *testing.T) {
	pool := testPool(18, 18)
	pool.SqrtPriceX96 = new(big.Int).Lsh(big.NewInt(2), 96)

	raw := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil) // 1 token0
	value, err := pool.Quote(pool.Token0, raw)
	if err != nil {
		t.Fatalf("quote token0: %v", err)
	}
	if value.Cmp(big.NewRat(4, 1)) != 0 {
		t.Fatalf("unexpected quote: %s", value.RatString())
	}
}

func TestCounter(t *testing.T) {
	pool := testPool(18, 18)

	counter, err := pool.Counter(pool.Token0)
	if err != nil {
		t.Fatalf("counter of token0: %v", err)
	}
	if !counter.Equal(pool.Token1) {
		t.Fatalf("expected token1, got %s", counter.Symbol)
	}

	outsider := Token{ChainID: 1, Address: "0x00000000000000000000000000000000000000ff"}
	if _, err := pool.Counter(outsider); err == nil {
		t.Fatalf("expected error for token outside the pool")
	}
}

func TestSqrtPriceFromTickZero(t *testing.T) {
	if got := SqrtPriceFromTick(0); got.Cmp(q96Int()) != 0 {
		t.Fatalf("tick 0 must map to 2^96, got %s", got)
	}
}

func TestSqrtPriceFromTickMonotonic(t *testing.T) {
	prev := SqrtPriceFromTick(-600)
	for _, tick := range []int32{-60, 0, 60, 600} {
		next := SqrtPriceFromTick(tick)
		if next.Cmp(prev) <= 0 {
			t.Fatalf("sqrt price not increasing at tick %d", tick)
		}
		prev = next
	}
}

func TestAmountsForLiquidityBands(t *testing.T) {
	liquidity := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	lower := SqrtPriceFromTick(-600)
	upper := SqrtPriceFromTick(600)

	// Below the range only token0 is held.
	a0, a1 := AmountsForLiquidity(liquidity, SqrtPriceFromTick(-1200), lower, upper)
	if a0.Sign() <= 0 || a1.Sign() != 0 {
		t.Fatalf("below range: got %s / %s", a0, a1)
	}

	// Above the range only token1 is held.
	a0, a1 = AmountsForLiquidity(liquidity, SqrtPriceFromTick(1200), lower, upper)
	if a0.Sign() != 0 || a1.Sign() <= 0 {
		t.Fatalf("above range: got %s / %s", a0, a1)
	}

	// At the midpoint of a symmetric band both legs are held and nearly equal.
	a0, a1 = AmountsForLiquidity(liquidity, SqrtPriceFromTick(0), lower, upper)
	if a0.Sign() <= 0 || a1.Sign() <= 0 {
		t.Fatalf("in range: got %s / %s", a0, a1)
	}
}

func TestAmountsForLiquidityZero(t *testing.T) {
	lower := SqrtPriceFromTick(-600)
	upper := SqrtPriceFromTick(600)

	a0, a1 := AmountsForLiquidity(big.NewInt(0), q96Int(), lower, upper)
	if a0.Sign() != 0 || a1.Sign() != 0 {
		t.Fatalf("zero liquidity: got %s / %s", a0, a1)
	}

	a0, a1 = AmountsForLiquidity(nil, q96Int(), lower, upper)
	if a0.Sign() != 0 || a1.Sign() != 0 {
		t.Fatalf("nil liquidity: got %s / %s", a0, a1)
	}
}
