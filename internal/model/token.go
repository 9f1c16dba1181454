package model

import (
	"math/big"
	"strings"
)

// Token identifies an asset on a specific network.
type Token struct {
	ChainID  uint64 `json:"chain_id"`
	Address  string `json:"address,omitempty"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name,omitempty"`
}

// Native reports whether the token is the network-native asset.
func (t Token) Native() bool {
	return t.Address == ""
}

// Equal compares tokens by network and address.
func (t Token) Equal(other Token) bool {
	if t.ChainID != other.ChainID {
		return false
	}
	if t.Native() || other.Native() {
		return t.Native() == other.Native()
	}
	return strings.EqualFold(t.Address, other.Address)
}

// HumanAmount converts a raw integer amount into token units.
func (t Token) HumanAmount(raw *big.Int) *big.Rat {
	if raw == nil || raw.Sign() == 0 {
		return new(big.Rat)
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Decimals)), nil)
	return new(big.Rat).SetFrac(new(big.Int).Set(raw), denom)
}

// TokenBalance is a point-in-time balance of one token on one network.
type TokenBalance struct {
	Token    Token
	Amount   *big.Int
	Value    *big.Rat
	Currency string
}
