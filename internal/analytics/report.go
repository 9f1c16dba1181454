package analytics

import (
	"time"

	"positionScope/internal/model"
)

const valueScale = 18

// Report flattens a computed result into the storable record for a position.
func (r Result) Report(position *model.Position, pool *model.Pool, base model.Token, now time.Time) model.PositionReport {
	report := model.PositionReport{
		BaseSymbol:           base.Symbol,
		Status:               r.Status.String(),
		PriceRange:           r.PriceRange,
		Percent0:             r.Percent0,
		Percent1:             r.Percent1,
		LiquidityValue:       r.LiquidityValue.FloatString(valueScale),
		UncollectedFeesValue: r.UncollectedFeesValue.FloatString(valueScale),
		TotalCurrentValue:    r.TotalCurrentValue.FloatString(valueScale),
		TotalMintValue:       r.TotalMintValue.FloatString(valueScale),
		TotalBurnValue:       r.TotalBurnValue.FloatString(valueScale),
		TotalCollectValue:    r.TotalCollectValue.FloatString(valueScale),
		TotalTransactionCost: r.TotalTransactionCost.FloatString(valueScale),
		ReturnValue:          r.ReturnValue.FloatString(valueScale),
		ReturnPercent:        r.ReturnPercent,
		APR:                  r.APR,
		FeeAPY:               r.FeeAPY,
		GeneratedAt:          now.UTC(),
	}
	if position != nil {
		report.PositionID = position.ID
	}
	if pool != nil {
		report.PoolAddress = pool.Address
		report.ChainID = pool.ChainID
	}
	return report
}
