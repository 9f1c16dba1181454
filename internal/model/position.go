package model

import "math/big"

// Position is a snapshot of one concentrated-liquidity position. Liquidity may
// be zero for a fully withdrawn position that still carries ledger history.
type Position struct {
	ID          string
	Owner       string
	PoolAddress string
	TickLower   int32
	TickUpper   int32
	Liquidity   *big.Int
}

// Closed reports whether all liquidity has been withdrawn.
func (p *Position) Closed() bool {
	return p.Liquidity == nil || p.Liquidity.Sign() == 0
}

// UncollectedFees is live derived state: fees accrued but not yet claimed as of
// the snapshot time. Not part of the ledger.
type UncollectedFees struct {
	Amount0 *big.Int
	Amount1 *big.Int
}
