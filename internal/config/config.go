package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PositionConfig holds configuration for the position report command.
type PositionConfig struct {
	RPCURL            string
	PoolAddress       string
	PositionManager   string
	PositionIDs       []string
	Base              string
	GasSymbol         string
	GasDecimals       uint8
	RatesFile         string
	LedgerPath        string
	PGDSN             string
	Out               string
	CountTerminalFees bool
	MaxRetries        int
	RetryBackoff      time.Duration
	LogLevel          string
}

// LoadPosition merges config file, environment variables, and flags.
func LoadPosition(cfgFile string, flags *pflag.FlagSet) (PositionConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"base":          "token0",
		"gas-symbol":    "ETH",
		"gas-decimals":  18,
		"out":           "./data/reports.jsonl",
		"max-retries":   5,
		"retry-backoff": 500 * time.Millisecond,
		"log-level":     "info",
	})
	if err != nil {
		return PositionConfig{}, err
	}

	cfg := PositionConfig{
		RPCURL:            v.GetString("rpc"),
		PoolAddress:       v.GetString("pool"),
		PositionManager:   v.GetString("position-manager"),
		PositionIDs:       getStringSlice(v, "position-id"),
		Base:              v.GetString("base"),
		GasSymbol:         v.GetString("gas-symbol"),
		GasDecimals:       uint8(v.GetUint("gas-decimals")),
		RatesFile:         v.GetString("rates"),
		LedgerPath:        v.GetString("ledger"),
		PGDSN:             v.GetString("pg-dsn"),
		Out:               v.GetString("out"),
		CountTerminalFees: v.GetBool("count-terminal-fees"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

// NetworkConfig describes one balance source network.
type NetworkConfig struct {
	Name   string   `mapstructure:"name"`
	RPC    string   `mapstructure:"rpc"`
	Tokens []string `mapstructure:"tokens"`
}

// PortfolioConfig holds configuration for the portfolio command.
type PortfolioConfig struct {
	Wallet    string
	RatesFile string
	Networks  []NetworkConfig
	PGDSN     string
	LogLevel  string
}

// LoadPortfolio merges config file, environment variables, and flags. Network
// definitions come from the config file only.
func LoadPortfolio(cfgFile string, flags *pflag.FlagSet) (PortfolioConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return PortfolioConfig{}, err
	}

	cfg := PortfolioConfig{
		Wallet:    v.GetString("wallet"),
		RatesFile: v.GetString("rates"),
		PGDSN:     v.GetString("pg-dsn"),
		LogLevel:  v.GetString("log-level"),
	}
	if err := v.UnmarshalKey("networks", &cfg.Networks); err != nil {
		return PortfolioConfig{}, fmt.Errorf("parse networks: %w", err)
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
