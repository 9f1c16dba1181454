package snapshot

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"positionScope/internal/model"
	"positionScope/internal/portfolio"
)

// FetchBalances loads the wallet's balances for the given tokens on this
// provider's network and returns them as one labeled portfolio source. A
// collaborator failure is reported as a still-loading source rather than an
// error: the aggregate view stays conservative until the network resolves.
func (p *Provider) FetchBalances(ctx context.Context, network, wallet string, tokenAddrs []string) portfolio.Source {
	source := portfolio.Source{Network: network}

	if !common.IsHexAddress(wallet) {
		p.logger.Warn("invalid wallet address", zap.String("network", network), zap.String("wallet", wallet))
		source.Loading = true
		return source
	}
	owner := common.HexToAddress(wallet)

	balances := make([]model.TokenBalance, 0, len(tokenAddrs))
	for _, tokenAddr := range tokenAddrs {
		if !common.IsHexAddress(tokenAddr) {
			p.logger.Warn("invalid token address", zap.String("network", network), zap.String("token", tokenAddr))
			source.Loading = true
			return source
		}
		address := common.HexToAddress(tokenAddr)

		token, err := p.FetchToken(ctx, address)
		if err != nil {
			p.logger.Warn("token metadata fetch failed", zap.String("network", network), zap.String("token", address.Hex()), zap.Error(err))
			source.Loading = true
			return source
		}

		amount, err := p.balanceOf(ctx, address, owner)
		if err != nil {
			p.logger.Warn("balance fetch failed", zap.String("network", network), zap.String("token", address.Hex()), zap.Error(err))
			source.Loading = true
			return source
		}
		if amount.Sign() == 0 {
			continue
		}

		balances = append(balances, model.TokenBalance{
			Token:    token,
			Amount:   amount,
			Value:    token.HumanAmount(amount),
			Currency: token.Symbol,
		})
	}

	source.Balances = balances
	return source
}

func (p *Provider) balanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	values, err := p.call(ctx, token, stringABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("balanceOf return size %d", len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf unexpected type %T", values[0])
	}
	return balance, nil
}
