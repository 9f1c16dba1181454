package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"positionScope/internal/model"
)

// Store provides Postgres persistence for reports and the position ledger.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPositionReports inserts or updates computed position metrics. The
// newest snapshot fully supersedes the previous one per position and base.
func (s *Store) UpsertPositionReports(ctx context.Context, reports []model.PositionReport) error {
	if len(reports) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range reports {
		batch.Queue(`
			INSERT INTO position_reports (
				chain_id, position_id, pool_address, base_symbol, status, price_range,
				percent0, percent1, liquidity_value, uncollected_fees_value, total_current_value,
				total_mint_value, total_burn_value, total_collect_value, total_transaction_cost,
				return_value, return_percent, apr, fee_apy, generated_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,now(),now())
			ON CONFLICT (chain_id, position_id, base_symbol)
			DO UPDATE SET
				pool_address = EXCLUDED.pool_address,
				status = EXCLUDED.status,
				price_range = EXCLUDED.price_range,
				percent0 = EXCLUDED.percent0,
				percent1 = EXCLUDED.percent1,
				liquidity_value = EXCLUDED.liquidity_value,
				uncollected_fees_value = EXCLUDED.uncollected_fees_value,
				total_current_value = EXCLUDED.total_current_value,
				total_mint_value = EXCLUDED.total_mint_value,
				total_burn_value = EXCLUDED.total_burn_value,
				total_collect_value = EXCLUDED.total_collect_value,
				total_transaction_cost = EXCLUDED.total_transaction_cost,
				return_value = EXCLUDED.return_value,
				return_percent = EXCLUDED.return_percent,
				apr = EXCLUDED.apr,
				fee_apy = EXCLUDED.fee_apy,
				generated_at = EXCLUDED.generated_at,
				updated_at = now()
		`,
			int64(r.ChainID),
			r.PositionID,
			r.PoolAddress,
			r.BaseSymbol,
			r.Status,
			r.PriceRange,
			r.Percent0,
			r.Percent1,
			r.LiquidityValue,
			r.UncollectedFeesValue,
			r.TotalCurrentValue,
			r.TotalMintValue,
			r.TotalBurnValue,
			r.TotalCollectValue,
			r.TotalTransactionCost,
			r.ReturnValue,
			r.ReturnPercent,
			r.APR,
			r.FeeAPY,
			r.GeneratedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range reports {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertPortfolioSnapshot records one aggregated portfolio valuation.
func (s *Store) InsertPortfolioSnapshot(ctx context.Context, wallet, displayCurrency, totalValue string, tokenCount int, takenAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO portfolio_snapshots (wallet, display_currency, total_value, token_count, taken_at, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, wallet, displayCurrency, totalValue, tokenCount, takenAt)
	return err
}

// Transactions returns the ordered event ledger for a position id.
func (s *Store) Transactions(ctx context.Context, positionID string) ([]model.Transaction, error) {
	if positionID == "" {
		return nil, fmt.Errorf("position id required")
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, position_id, kind, amount0, amount1, gas_cost, log_index, ts
		FROM position_events
		WHERE position_id = $1
		ORDER BY ts ASC, log_index ASC
	`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		var tx model.Transaction
		var kind string
		var logIndex int64
		var ts int64
		if err := rows.Scan(&tx.ID, &tx.PositionID, &kind, &tx.Amount0, &tx.Amount1, &tx.GasCost, &logIndex, &ts); err != nil {
			return nil, err
		}
		tx.Kind = model.TransactionKind(kind)
		if !tx.Kind.Valid() {
			return nil, fmt.Errorf("unknown transaction kind in ledger: %q", kind)
		}
		tx.LogIndex = uint64(logIndex)
		tx.Timestamp = uint64(ts)
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
