package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "analytics",
		Short:        "Liquidity position analytics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Compute financial metrics for liquidity positions",
		RunE:  runPosition,
	}

	positionCmd.Flags().String("rpc", "", "RPC URL")
	positionCmd.Flags().String("pool", "", "pool contract address")
	positionCmd.Flags().String("position-manager", "", "position manager contract address")
	positionCmd.Flags().StringSlice("position-id", nil, "position token ids (comma-separated)")
	positionCmd.Flags().String("base", "token0", "base token (token0, token1, or symbol)")
	positionCmd.Flags().String("gas-symbol", "ETH", "network-native asset symbol for gas costs")
	positionCmd.Flags().Uint("gas-decimals", 18, "network-native asset decimals")
	positionCmd.Flags().String("rates", "", "conversion rates JSON path")
	positionCmd.Flags().String("ledger", "", "transaction ledger JSONL path")
	positionCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	positionCmd.Flags().String("out", "./data/reports.jsonl", "output reports JSONL path")
	positionCmd.Flags().Bool("count-terminal-fees", false, "include uncollected fees in a closed position's current value")
	positionCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	positionCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	positionCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(positionCmd)

	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Aggregate token balances across networks",
		RunE:  runPortfolio,
	}

	portfolioCmd.Flags().String("wallet", "", "wallet address")
	portfolioCmd.Flags().String("rates", "", "conversion rates JSON path")
	portfolioCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	portfolioCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(portfolioCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
