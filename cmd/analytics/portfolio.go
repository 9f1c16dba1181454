package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"positionScope/internal/chain"
	"positionScope/internal/config"
	"positionScope/internal/convert"
	"positionScope/internal/portfolio"
	"positionScope/internal/snapshot"
	"positionScope/internal/storage/postgres"
)

func runPortfolio(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPortfolio(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Wallet == "" {
		return fmt.Errorf("wallet address is required")
	}
	if cfg.RatesFile == "" {
		return fmt.Errorf("rates file is required")
	}
	if len(cfg.Networks) == 0 {
		return fmt.Errorf("at least one network is required")
	}

	table, err := convert.LoadRateFile(cfg.RatesFile)
	if err != nil {
		return err
	}
	converter := convert.NewConverter(table)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("portfolio start",
		zap.String("wallet", cfg.Wallet),
		zap.Int("networks", len(cfg.Networks)),
		zap.String("display", converter.Display()),
	)

	// Each network loads independently; the aggregate stays conservative
	// until every source has resolved.
	sources := make([]portfolio.Source, len(cfg.Networks))
	var wg sync.WaitGroup
	for i, network := range cfg.Networks {
		wg.Add(1)
		go func(i int, network config.NetworkConfig) {
			defer wg.Done()
			sources[i] = loadNetwork(ctx, network, cfg.Wallet, logger)
		}(i, network)
	}
	wg.Wait()

	view := portfolio.Combine(sources, converter)

	if view.Loading {
		logger.Warn("portfolio incomplete: one or more networks failed to load")
		return fmt.Errorf("portfolio incomplete")
	}

	for _, token := range view.Tokens {
		logger.Info("token balance",
			zap.String("network", token.Network),
			zap.String("symbol", token.Token.Symbol),
			zap.String("global_value", converter.ToGlobalFormatted(token.Value, token.Currency)),
			zap.Bool("converted", token.Converted),
		)
	}
	logger.Info("portfolio complete",
		zap.Int("tokens", len(view.Tokens)),
		zap.Bool("empty", view.Empty),
		zap.String("total_value", view.TotalValue.FloatString(2)),
		zap.String("display", converter.Display()),
	)

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		err = store.InsertPortfolioSnapshot(ctx, cfg.Wallet, converter.Display(),
			view.TotalValue.FloatString(18), len(view.Tokens), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
	}

	return nil
}

func loadNetwork(ctx context.Context, network config.NetworkConfig, wallet string, logger *zap.Logger) portfolio.Source {
	if network.RPC == "" {
		logger.Warn("network missing rpc url", zap.String("network", network.Name))
		return portfolio.Source{Network: network.Name, Loading: true}
	}

	chainClient, err := chain.NewClient(ctx, network.RPC)
	if err != nil {
		logger.Warn("connect rpc failed", zap.String("network", network.Name), zap.Error(err))
		return portfolio.Source{Network: network.Name, Loading: true}
	}
	defer chainClient.Close()

	provider, err := snapshot.NewProvider(ctx, chainClient, snapshot.Config{}, logger)
	if err != nil {
		logger.Warn("provider init failed", zap.String("network", network.Name), zap.Error(err))
		return portfolio.Source{Network: network.Name, Loading: true}
	}

	return provider.FetchBalances(ctx, network.Name, wallet, network.Tokens)
}
