package model

import (
	"encoding/json"
	"fmt"
)

// TransactionKind is the closed set of ledger event kinds.
type TransactionKind string

const (
	KindMint    TransactionKind = "mint"
	KindBurn    TransactionKind = "burn"
	KindCollect TransactionKind = "collect"
)

// Valid reports whether the kind is a known ledger event kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindMint, KindBurn, KindCollect:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects kinds outside the closed set.
func (k *TransactionKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind := TransactionKind(raw)
	if !kind.Valid() {
		return fmt.Errorf("unknown transaction kind: %q", raw)
	}
	*k = kind
	return nil
}

// Transaction is one append-only ledger entry for a position. Amounts are raw
// integer units as decimal strings; gas cost is in the network-native asset.
type Transaction struct {
	ID         string          `json:"id"`
	PositionID string          `json:"position_id"`
	Kind       TransactionKind `json:"kind"`
	Amount0    string          `json:"amount0"`
	Amount1    string          `json:"amount1"`
	GasCost    string          `json:"gas_cost"`
	LogIndex   uint64          `json:"log_index"`
	Timestamp  uint64          `json:"timestamp"`
}
