package model

import (
	"fmt"
	"math/big"
)

// Pool is a read-only snapshot of a V3 pool. Token0 sorts before Token1 by the
// protocol's canonical address ordering.
type Pool struct {
	ChainID      uint64
	Address      string
	Token0       Token
	Token1       Token
	Fee          uint32
	TickSpacing  int32
	TickCurrent  int32
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
}

// Involves reports whether the token is one of the pool's constituents.
func (p *Pool) Involves(t Token) bool {
	return p.Token0.Equal(t) || p.Token1.Equal(t)
}

// Counter returns the other constituent for a given pool token.
func (p *Pool) Counter(t Token) (Token, error) {
	switch {
	case p.Token0.Equal(t):
		return p.Token1, nil
	case p.Token1.Equal(t):
		return p.Token0, nil
	default:
		return Token{}, fmt.Errorf("token %s not in pool %s", t.Symbol, p.Address)
	}
}

// PriceOf returns the current price of one unit of t denominated in the other
// constituent, derived from the snapshot's sqrtPriceX96.
func (p *Pool) PriceOf(t Token) (*big.Rat, error) {
	if !p.Involves(t) {
		return nil, fmt.Errorf("token %s not in pool %s", t.Symbol, p.Address)
	}
	if p.SqrtPriceX96 == nil || p.SqrtPriceX96.Sign() == 0 {
		return nil, fmt.Errorf("pool %s has no price", p.Address)
	}

	// token1 per token0 = (sqrtPriceX96 / 2^96)^2, adjusted to human units.
	num := new(big.Int).Mul(p.SqrtPriceX96, p.SqrtPriceX96)
	num.Mul(num, pow10(p.Token0.Decimals))
	den := new(big.Int).Lsh(big.NewInt(1), 192)
	den.Mul(den, pow10(p.Token1.Decimals))

	price := new(big.Rat).SetFrac(num, den)
	if p.Token0.Equal(t) {
		return price, nil
	}
	if price.Sign() == 0 {
		return nil, fmt.Errorf("pool %s price underflow", p.Address)
	}
	return price.Inv(price), nil
}

// Quote converts a raw amount of t into a value denominated in the other
// constituent. A nil or zero amount quotes to zero without needing a price.
func (p *Pool) Quote(t Token, raw *big.Int) (*big.Rat, error) {
	if raw == nil || raw.Sign() == 0 {
		return new(big.Rat), nil
	}
	price, err := p.PriceOf(t)
	if err != nil {
		return nil, err
	}
	return price.Mul(price, t.HumanAmount(raw)), nil
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
