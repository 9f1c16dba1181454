package model

import "time"

// PositionReport is the flat read-only metrics record exposed per position.
// Value fields are decimal strings denominated in the base token.
type PositionReport struct {
	PositionID           string    `json:"position_id"`
	PoolAddress          string    `json:"pool_address"`
	ChainID              uint64    `json:"chain_id"`
	BaseSymbol           string    `json:"base_symbol"`
	Status               string    `json:"status"`
	PriceRange           string    `json:"price_range"`
	Percent0             string    `json:"percent0"`
	Percent1             string    `json:"percent1"`
	LiquidityValue       string    `json:"liquidity_value"`
	UncollectedFeesValue string    `json:"uncollected_fees_value"`
	TotalCurrentValue    string    `json:"total_current_value"`
	TotalMintValue       string    `json:"total_mint_value"`
	TotalBurnValue       string    `json:"total_burn_value"`
	TotalCollectValue    string    `json:"total_collect_value"`
	TotalTransactionCost string    `json:"total_transaction_cost"`
	ReturnValue          string    `json:"return_value"`
	ReturnPercent        float64   `json:"return_percent"`
	APR                  float64   `json:"apr"`
	FeeAPY               float64   `json:"fee_apy"`
	GeneratedAt          time.Time `json:"generated_at"`
}
