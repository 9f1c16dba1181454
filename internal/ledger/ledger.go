package ledger

import (
	"context"

	"positionScope/internal/model"
)

// Provider returns the append-only event ledger for a position, ordered by
// timestamp ascending. The ledger is the sole source of historical cash-flow
// truth; consumers only read it.
type Provider interface {
	Transactions(ctx context.Context, positionID string) ([]model.Transaction, error)
}
