package model

import (
	"math"
	"math/big"
)

var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// SqrtPriceFromTick approximates sqrt(1.0001^tick) in Q96 fixed point.
func SqrtPriceFromTick(tick int32) *big.Int {
	price := math.Pow(1.0001, math.Abs(float64(tick)))
	if tick < 0 {
		price = 1 / price
	}
	sqrt := new(big.Float).SetFloat64(math.Sqrt(price))
	sqrt.Mul(sqrt, new(big.Float).SetInt(q96))

	out := new(big.Int)
	sqrt.Int(out)
	return out
}

// AmountsForLiquidity splits a liquidity magnitude into the raw token amounts
// it represents at the given price. Below the range only token0 is held, above
// it only token1, inside it both.
func AmountsForLiquidity(liquidity, sqrtPrice, sqrtLower, sqrtUpper *big.Int) (*big.Int, *big.Int) {
	amount0 := big.NewInt(0)
	amount1 := big.NewInt(0)
	if liquidity == nil || liquidity.Sign() == 0 || sqrtPrice == nil || sqrtPrice.Sign() == 0 {
		return amount0, amount1
	}

	switch {
	case sqrtPrice.Cmp(sqrtLower) <= 0:
		num := new(big.Int).Sub(sqrtUpper, sqrtLower)
		num.Mul(num, liquidity)
		num.Mul(num, q96)
		den := new(big.Int).Mul(sqrtLower, sqrtUpper)
		amount0.Div(num, den)
	case sqrtPrice.Cmp(sqrtUpper) >= 0:
		num := new(big.Int).Sub(sqrtUpper, sqrtLower)
		num.Mul(num, liquidity)
		amount1.Div(num, q96)
	default:
		num0 := new(big.Int).Sub(sqrtUpper, sqrtPrice)
		num0.Mul(num0, liquidity)
		num0.Mul(num0, q96)
		den0 := new(big.Int).Mul(sqrtPrice, sqrtUpper)
		amount0.Div(num0, den0)

		num1 := new(big.Int).Sub(sqrtPrice, sqrtLower)
		num1.Mul(num1, liquidity)
		amount1.Div(num1, q96)
	}

	return amount0, amount1
}

// PriceAtTick returns the price of one unit of t in the other constituent at a
// specific tick, independent of the pool's current price.
func (p *Pool) PriceAtTick(t Token, tick int32) (*big.Rat, error) {
	snapshot := *p
	snapshot.SqrtPriceX96 = SqrtPriceFromTick(tick)
	snapshot.TickCurrent = tick
	return snapshot.PriceOf(t)
}
