package analytics

import (
	"math/big"
	"time"

	"positionScope/internal/convert"
	"positionScope/internal/model"
)

const daysPerYear = 365.25

// Policy holds optional valuation choices. The zero value is the default
// behavior.
type Policy struct {
	// CountTerminalFees includes a closed position's uncollected fees in its
	// total current value. By default a closed position reports zero, even
	// when claimable fees remain.
	CountTerminalFees bool
}

// Inputs is one position snapshot plus its ledger. All fields are read-only;
// Compute never mutates them.
type Inputs struct {
	Pool      *model.Pool
	Position  *model.Position
	BaseToken model.Token

	// Current two-asset composition in raw units. When both are nil the
	// composition is derived from the position's liquidity and tick range.
	Amount0 *big.Int
	Amount1 *big.Int

	Fees         model.UncollectedFees
	GasToken     model.Token
	Transactions []model.Transaction
	Converter    *convert.Converter
	Now          time.Time
	Policy       Policy
}

// TransactionValue is one ledger entry valued at the current pool price.
type TransactionValue struct {
	Transaction model.Transaction
	Value       *big.Rat
	GasValue    *big.Rat
}

// Result is the computed metrics record for one position. All values are
// denominated in the base token. Every field is defined for every input: a
// closed or partially-loaded position yields zeros, never an error or NaN.
type Result struct {
	Status               Status
	Percent0             string
	Percent1             string
	Amount0              *big.Int
	Amount1              *big.Int
	LiquidityValue       *big.Rat
	UncollectedFeesValue *big.Rat
	TotalCurrentValue    *big.Rat
	TotalMintValue       *big.Rat
	TotalBurnValue       *big.Rat
	TotalCollectValue    *big.Rat
	TotalTransactionCost *big.Rat
	ReturnValue          *big.Rat
	ReturnPercent        float64
	APR                  float64
	FeeAPY               float64
	PriceRange           string
	Transactions         []TransactionValue
}

// Compute derives all position metrics from a single snapshot. It is a total
// function over its input domain and performs no I/O.
func Compute(in Inputs) Result {
	res := Result{
		Status:               Classify(in.Pool, in.Position),
		Percent0:             "0",
		Percent1:             "0",
		Amount0:              big.NewInt(0),
		Amount1:              big.NewInt(0),
		LiquidityValue:       new(big.Rat),
		UncollectedFeesValue: new(big.Rat),
		TotalCurrentValue:    new(big.Rat),
		TotalMintValue:       new(big.Rat),
		TotalBurnValue:       new(big.Rat),
		TotalCollectValue:    new(big.Rat),
		TotalTransactionCost: new(big.Rat),
		ReturnValue:          new(big.Rat),
	}

	open := in.Position != nil && !in.Position.Closed()
	havePool := in.Pool != nil && in.Pool.Involves(in.BaseToken)

	amount0, amount1 := in.Amount0, in.Amount1
	if amount0 == nil && amount1 == nil && open && in.Pool != nil {
		amount0, amount1 = model.AmountsForLiquidity(
			in.Position.Liquidity,
			in.Pool.SqrtPriceX96,
			model.SqrtPriceFromTick(in.Position.TickLower),
			model.SqrtPriceFromTick(in.Position.TickUpper),
		)
	}
	if amount0 != nil {
		res.Amount0 = new(big.Int).Set(amount0)
	}
	if amount1 != nil {
		res.Amount1 = new(big.Int).Set(amount1)
	}

	if havePool {
		res.UncollectedFeesValue.Add(
			legValue(in.Pool, in.BaseToken, in.Pool.Token0, in.Fees.Amount0),
			legValue(in.Pool, in.BaseToken, in.Pool.Token1, in.Fees.Amount1),
		)
		if in.Position != nil {
			res.PriceRange = priceRange(in.Pool, in.BaseToken, in.Position)
		}
	}

	if havePool && open {
		value0 := legValue(in.Pool, in.BaseToken, in.Pool.Token0, res.Amount0)
		value1 := legValue(in.Pool, in.BaseToken, in.Pool.Token1, res.Amount1)
		res.LiquidityValue.Add(value0, value1)
		if res.LiquidityValue.Sign() != 0 {
			res.Percent0 = percentOf(value0, res.LiquidityValue)
			res.Percent1 = percentOf(value1, res.LiquidityValue)
		}
	}

	// A fully withdrawn position reports a zero current value; historical
	// extraction is carried only in the ledger totals below.
	if open {
		res.TotalCurrentValue.Add(res.LiquidityValue, res.UncollectedFeesValue)
	} else if in.Policy.CountTerminalFees {
		res.TotalCurrentValue.Set(res.UncollectedFeesValue)
	}

	// Ledger amounts are valued at the current pool price. A live snapshot
	// carries no historical price oracle, so event-time valuation is not
	// attempted here.
	res.Transactions = make([]TransactionValue, 0, len(in.Transactions))
	for _, tx := range in.Transactions {
		value := new(big.Rat)
		if havePool {
			value.Add(
				legValue(in.Pool, in.BaseToken, in.Pool.Token0, parseRaw(tx.Amount0)),
				legValue(in.Pool, in.BaseToken, in.Pool.Token1, parseRaw(tx.Amount1)),
			)
		}
		gasValue := gasInBase(in, parseRaw(tx.GasCost))

		switch tx.Kind {
		case model.KindMint:
			res.TotalMintValue.Add(res.TotalMintValue, value)
		case model.KindBurn:
			res.TotalBurnValue.Add(res.TotalBurnValue, value)
		case model.KindCollect:
			res.TotalCollectValue.Add(res.TotalCollectValue, value)
		}
		res.TotalTransactionCost.Add(res.TotalTransactionCost, gasValue)

		res.Transactions = append(res.Transactions, TransactionValue{
			Transaction: tx,
			Value:       value,
			GasValue:    gasValue,
		})
	}

	res.ReturnValue.Add(res.TotalCurrentValue, res.TotalBurnValue)
	res.ReturnValue.Add(res.ReturnValue, res.TotalCollectValue)
	res.ReturnValue.Sub(res.ReturnValue, res.TotalMintValue)
	res.ReturnValue.Sub(res.ReturnValue, res.TotalTransactionCost)

	if res.TotalMintValue.Sign() != 0 {
		ratio := new(big.Rat).Quo(res.ReturnValue, res.TotalMintValue)
		ratio.Mul(ratio, big.NewRat(100, 1))
		res.ReturnPercent, _ = ratio.Float64()
	}

	res.APR = annualizedReturn(in, res.ReturnPercent, open)
	res.FeeAPY = feeAPY(in, res.UncollectedFeesValue, res.LiquidityValue, open)

	return res
}

// annualizedReturn scales the net return over the position's elapsed lifetime
// to a full year. A closed position's lifetime ends at its last ledger event.
func annualizedReturn(in Inputs, returnPercent float64, open bool) float64 {
	if len(in.Transactions) == 0 {
		return 0
	}
	first := in.Transactions[0].Timestamp
	end := uint64(in.Now.Unix())
	if !open {
		end = in.Transactions[len(in.Transactions)-1].Timestamp
	}
	elapsedDays := daysBetween(first, end)
	if elapsedDays <= 0 {
		return 0
	}
	return returnPercent * daysPerYear / elapsedDays
}

// feeAPY extrapolates the uncollected-fee accrual rate to a yearly yield on the
// position's current capital, independent of the net-return calculation. The
// accrual period starts at the last fee collection, or at the first ledger
// event when none has happened yet.
func feeAPY(in Inputs, feesValue, liquidityValue *big.Rat, open bool) float64 {
	if !open || liquidityValue.Sign() == 0 || len(in.Transactions) == 0 {
		return 0
	}

	reference := in.Transactions[0].Timestamp
	for _, tx := range in.Transactions {
		if tx.Kind == model.KindCollect && tx.Timestamp > reference {
			reference = tx.Timestamp
		}
	}
	periodDays := daysBetween(reference, uint64(in.Now.Unix()))
	if periodDays <= 0 {
		return 0
	}

	yield := new(big.Rat).Quo(feesValue, liquidityValue)
	yield.Mul(yield, big.NewRat(100, 1))
	yieldPercent, _ := yield.Float64()
	return yieldPercent * daysPerYear / periodDays
}

// legValue values a raw amount of one pool constituent in base-token units.
// The base leg is taken as-is; the other leg is quoted at the current pool
// price. An unavailable price contributes zero rather than failing.
func legValue(pool *model.Pool, base, leg model.Token, raw *big.Int) *big.Rat {
	if raw == nil || raw.Sign() == 0 {
		return new(big.Rat)
	}
	if leg.Equal(base) {
		return base.HumanAmount(raw)
	}
	value, err := pool.Quote(leg, raw)
	if err != nil {
		return new(big.Rat)
	}
	return value
}

// gasInBase values a raw gas cost in base-token units: directly when the gas
// token is the base, via the pool when it is the counter token, otherwise via
// the rate table. Unconvertible costs contribute zero.
func gasInBase(in Inputs, raw *big.Int) *big.Rat {
	if raw == nil || raw.Sign() == 0 {
		return new(big.Rat)
	}
	if in.GasToken.Equal(in.BaseToken) {
		return in.GasToken.HumanAmount(raw)
	}
	if in.Pool != nil && in.Pool.Involves(in.GasToken) && in.Pool.Involves(in.BaseToken) {
		if value, err := in.Pool.Quote(in.GasToken, raw); err == nil {
			return value
		}
	}
	if in.Converter != nil {
		if rate, ok := in.Converter.Rate(in.GasToken.Symbol, in.BaseToken.Symbol); ok {
			return rate.Mul(rate, in.GasToken.HumanAmount(raw))
		}
	}
	return new(big.Rat)
}

func priceRange(pool *model.Pool, base model.Token, position *model.Position) string {
	quoteToken, err := pool.Counter(base)
	if err != nil {
		return ""
	}
	lower, errLower := pool.PriceAtTick(quoteToken, position.TickLower)
	upper, errUpper := pool.PriceAtTick(quoteToken, position.TickUpper)
	if errLower != nil || errUpper != nil {
		return ""
	}
	if lower.Cmp(upper) > 0 {
		lower, upper = upper, lower
	}

	digits := int(base.Decimals)
	if digits > 8 {
		digits = 8
	}
	return lower.FloatString(digits) + " - " + upper.FloatString(digits)
}

func percentOf(value, total *big.Rat) string {
	percent := new(big.Rat).Quo(value, total)
	percent.Mul(percent, big.NewRat(100, 1))
	return percent.FloatString(2)
}

func parseRaw(text string) *big.Int {
	if text == "" {
		return big.NewInt(0)
	}
	value, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return big.NewInt(0)
	}
	return value
}

func daysBetween(from, to uint64) float64 {
	if to <= from {
		return 0
	}
	return float64(to-from) / 86400
}
