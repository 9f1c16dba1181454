package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"positionScope/internal/analytics"
	"positionScope/internal/chain"
	"positionScope/internal/config"
	"positionScope/internal/convert"
	"positionScope/internal/ledger"
	"positionScope/internal/model"
	"positionScope/internal/snapshot"
	"positionScope/internal/storage"
	"positionScope/internal/storage/postgres"
)

func runPosition(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPosition(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.PoolAddress == "" {
		return fmt.Errorf("pool address is required")
	}
	if cfg.PositionManager == "" {
		return fmt.Errorf("position manager address is required")
	}
	if len(cfg.PositionIDs) == 0 {
		return fmt.Errorf("at least one position id is required")
	}
	if cfg.LedgerPath == "" && cfg.PGDSN == "" {
		return fmt.Errorf("a ledger path or pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	provider, err := snapshot.NewProvider(ctx, chainClient, snapshot.Config{
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)
	if err != nil {
		return err
	}

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	var ledgerProvider ledger.Provider
	if cfg.LedgerPath != "" {
		ledgerProvider = ledger.NewJsonlLedger(cfg.LedgerPath)
	} else {
		ledgerProvider = store
	}

	var converter *convert.Converter
	if cfg.RatesFile != "" {
		table, err := convert.LoadRateFile(cfg.RatesFile)
		if err != nil {
			return err
		}
		converter = convert.NewConverter(table)
	}

	pool, err := provider.FetchPool(ctx, cfg.PoolAddress)
	if err != nil {
		return fmt.Errorf("fetch pool: %w", err)
	}

	baseToken, err := resolveBaseToken(pool, cfg.Base)
	if err != nil {
		return err
	}
	gasToken := model.Token{
		ChainID:  provider.ChainID(),
		Symbol:   cfg.GasSymbol,
		Decimals: cfg.GasDecimals,
	}

	now, err := snapshotTime(ctx, chainClient)
	if err != nil {
		logger.Warn("snapshot time from chain failed, using wall clock", zap.Error(err))
		now = time.Now().UTC()
	}

	logger.Info("position analytics start",
		zap.String("pool", pool.Address),
		zap.String("base", baseToken.Symbol),
		zap.Int("positions", len(cfg.PositionIDs)),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("out", cfg.Out),
	)

	reports := make([]model.PositionReport, 0, len(cfg.PositionIDs))
	for _, idText := range cfg.PositionIDs {
		tokenID, ok := new(big.Int).SetString(idText, 10)
		if !ok {
			return fmt.Errorf("invalid position id: %s", idText)
		}

		position, fees, err := provider.FetchPosition(ctx, cfg.PositionManager, tokenID)
		if err != nil {
			return fmt.Errorf("fetch position %s: %w", idText, err)
		}
		position.PoolAddress = pool.Address

		transactions, err := ledgerProvider.Transactions(ctx, position.ID)
		if err != nil {
			return fmt.Errorf("load ledger %s: %w", position.ID, err)
		}

		result := analytics.Compute(analytics.Inputs{
			Pool:         pool,
			Position:     position,
			BaseToken:    baseToken,
			Fees:         fees,
			GasToken:     gasToken,
			Transactions: transactions,
			Converter:    converter,
			Now:          now,
			Policy:       analytics.Policy{CountTerminalFees: cfg.CountTerminalFees},
		})

		logger.Info("position computed",
			zap.String("position_id", position.ID),
			zap.String("status", result.Status.Label()),
			zap.String("total_current_value", result.TotalCurrentValue.FloatString(6)),
			zap.String("return_value", result.ReturnValue.FloatString(6)),
			zap.Float64("return_percent", result.ReturnPercent),
			zap.Float64("apr", result.APR),
			zap.Float64("fee_apy", result.FeeAPY),
		)

		reports = append(reports, result.Report(position, pool, baseToken, now))
	}

	if cfg.Out != "" {
		sink := storage.NewJsonlStorage(cfg.Out)
		if err := sink.PutReportBatch(reports); err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
	}
	if store != nil {
		if err := store.UpsertPositionReports(ctx, reports); err != nil {
			return fmt.Errorf("store reports: %w", err)
		}
	}

	logger.Info("position analytics complete", zap.Int("reports", len(reports)))
	return nil
}

func resolveBaseToken(pool *model.Pool, base string) (model.Token, error) {
	switch {
	case strings.EqualFold(base, "token0"):
		return pool.Token0, nil
	case strings.EqualFold(base, "token1"):
		return pool.Token1, nil
	case strings.EqualFold(base, pool.Token0.Symbol):
		return pool.Token0, nil
	case strings.EqualFold(base, pool.Token1.Symbol):
		return pool.Token1, nil
	default:
		return model.Token{}, fmt.Errorf("base %q does not match pool tokens %s/%s", base, pool.Token0.Symbol, pool.Token1.Symbol)
	}
}

// snapshotTime pins "now" to the latest block so every metric in one run is
// computed against the same chain snapshot.
func snapshotTime(ctx context.Context, chainClient *chain.Client) (time.Time, error) {
	latest, err := chainClient.LatestBlockNumber(ctx)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := chainClient.BlockTimestamp(ctx, latest)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(ts), 0).UTC(), nil
}
