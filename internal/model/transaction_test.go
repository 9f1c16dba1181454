package model

import (
	"encoding/json"
	"testing"
)

func TestTransactionKindClosedSet(t *testing.T) {
	var tx Transaction
	line := `{"id":"1","position_id":"7","kind":"swap","amount0":"0","amount1":"0","timestamp":100}`
	if err := json.Unmarshal([]byte(line), &tx); err == nil {
		t.Fatalf("expected rejection of unknown kind")
	}
}

func TestTransactionUnmarshal(t *testing.T) {
	var tx Transaction
	line := `{"id":"1","position_id":"7","kind":"collect","amount0":"1000","amount1":"2000","gas_cost":"30","log_index":4,"timestamp":100}`
	if err := json.Unmarshal([]byte(line), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if tx.Kind != KindCollect {
		t.Fatalf("unexpected kind: %s", tx.Kind)
	}
	if tx.Amount0 != "1000" || tx.Amount1 != "2000" || tx.GasCost != "30" {
		t.Fatalf("unexpected amounts: %s / %s / %s", tx.Amount0, tx.Amount1, tx.GasCost)
	}
	if tx.LogIndex != 4 || tx.Timestamp != 100 {
		t.Fatalf("unexpected ordering fields: %d / %d", tx.LogIndex, tx.Timestamp)
	}
}

func TestTokenEqual(t *testing.T) {
	a := Token{ChainID: 1, Address: "0xAbC0000000000000000000000000000000000001"}
	b := Token{ChainID: 1, Address: "0xabc0000000000000000000000000000000000001"}
	if !a.Equal(b) {
		t.Fatalf("address comparison must be case-insensitive")
	}

	other := Token{ChainID: 10, Address: a.Address}
	if a.Equal(other) {
		t.Fatalf("tokens on different networks must not compare equal")
	}

	native := Token{ChainID: 1, Symbol: "ETH"}
	if native.Equal(a) || !native.Equal(Token{ChainID: 1, Symbol: "WETH"}) {
		t.Fatalf("native tokens match only other natives on the same network")
	}
}
