package portfolio

import (
	"math/big"
	"sort"

	"positionScope/internal/convert"
	"positionScope/internal/model"
)

// Source is one labeled per-network balance list with its load state.
type Source struct {
	Network  string
	Loading  bool
	Balances []model.TokenBalance
}

// ValuedBalance augments a balance with its value in the display currency.
// Converted is false when no rate was available; such entries stay listed but
// contribute nothing to the total.
type ValuedBalance struct {
	model.TokenBalance
	Network     string
	GlobalValue *big.Rat
	Converted   bool
}

// View is the combined portfolio across all sources.
type View struct {
	Loading    bool
	Empty      bool
	TotalValue *big.Rat
	Tokens     []ValuedBalance
}

// Combine merges per-network balance lists into one sorted, totaled view. The
// view is derived solely from the current inputs; a recomputation fully
// supersedes any prior result.
func Combine(sources []Source, conv *convert.Converter) View {
	view := View{TotalValue: new(big.Rat)}

	for _, source := range sources {
		if source.Loading {
			view.Loading = true
		}
	}
	// Aggregate readiness is conservative: while any source is still loading
	// the view reports loading, never empty, and a zero total.
	if view.Loading {
		return view
	}

	for _, source := range sources {
		for _, balance := range source.Balances {
			valued := ValuedBalance{TokenBalance: balance, Network: source.Network}
			if global, ok := conv.ToGlobal(balance.Value, balance.Currency); ok {
				valued.GlobalValue = global
				valued.Converted = true
			}
			view.Tokens = append(view.Tokens, valued)
		}
	}

	// Stable sort keeps source order for equal values.
	sort.SliceStable(view.Tokens, func(i, j int) bool {
		return sortValue(view.Tokens[i]).Cmp(sortValue(view.Tokens[j])) > 0
	})

	for _, valued := range view.Tokens {
		if valued.Converted {
			view.TotalValue.Add(view.TotalValue, valued.GlobalValue)
		}
	}

	view.Empty = len(view.Tokens) == 0
	return view
}

var zeroRat = new(big.Rat)

func sortValue(valued ValuedBalance) *big.Rat {
	if !valued.Converted {
		return zeroRat
	}
	return valued.GlobalValue
}
