package snapshot

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"positionScope/internal/chain"
	"positionScope/internal/model"
)

// Provider reads live pool and position state over RPC and turns it into
// fixed snapshots for the analytics engine.
type Provider struct {
	client       *chain.Client
	chainID      uint64
	tokens       *TokenCache
	logger       *zap.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// Config holds runtime settings for the snapshot provider.
type Config struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

func NewProvider(ctx context.Context, client *chain.Client, cfg Config, logger *zap.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return nil, fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}

	return &Provider{
		client:       client,
		chainID:      chainID.Uint64(),
		tokens:       NewTokenCache(),
		logger:       logger,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
	}, nil
}

// ChainID returns the connected network's chain ID.
func (p *Provider) ChainID() uint64 {
	return p.chainID
}

// FetchPool loads a full pool snapshot: constituents with ERC20 metadata,
// fee, tick spacing, and the current slot0 price state.
func (p *Provider) FetchPool(ctx context.Context, poolAddr string) (*model.Pool, error) {
	if !common.IsHexAddress(poolAddr) {
		return nil, fmt.Errorf("invalid pool address: %s", poolAddr)
	}
	pool := common.HexToAddress(poolAddr)

	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := p.call(ctx, pool, poolABI, "token0")
	if err != nil {
		return nil, err
	}
	token0Addr, err := asAddress(values[0])
	if err != nil {
		return nil, fmt.Errorf("token0: %w", err)
	}

	values, err = p.call(ctx, pool, poolABI, "token1")
	if err != nil {
		return nil, err
	}
	token1Addr, err := asAddress(values[0])
	if err != nil {
		return nil, fmt.Errorf("token1: %w", err)
	}

	values, err = p.call(ctx, pool, poolABI, "fee")
	if err != nil {
		return nil, err
	}
	feeInt, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}

	values, err = p.call(ctx, pool, poolABI, "tickSpacing")
	if err != nil {
		return nil, err
	}
	tickSpacingInt, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("tick spacing: %w", err)
	}
	tickSpacing, err := int24FromBig(tickSpacingInt)
	if err != nil {
		return nil, fmt.Errorf("tick spacing: %w", err)
	}

	values, err = p.call(ctx, pool, poolABI, "slot0")
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("slot0 returned %d values", len(values))
	}
	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return nil, fmt.Errorf("tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return nil, fmt.Errorf("tick: %w", err)
	}

	var liquidity *big.Int
	if values, err := p.call(ctx, pool, poolABI, "liquidity"); err == nil {
		if liq, err := asBigInt(values[0]); err == nil {
			liquidity = liq
		}
	} else {
		p.logger.Debug("liquidity call failed", zap.String("pool", pool.Hex()), zap.Error(err))
	}

	token0, err := p.FetchToken(ctx, token0Addr)
	if err != nil {
		return nil, fmt.Errorf("token0 metadata: %w", err)
	}
	token1, err := p.FetchToken(ctx, token1Addr)
	if err != nil {
		return nil, fmt.Errorf("token1 metadata: %w", err)
	}

	return &model.Pool{
		ChainID:      p.chainID,
		Address:      pool.Hex(),
		Token0:       token0,
		Token1:       token1,
		Fee:          uint32(feeInt.Uint64()),
		TickSpacing:  tickSpacing,
		TickCurrent:  tick,
		SqrtPriceX96: sqrtPrice,
		Liquidity:    liquidity,
	}, nil
}

// FetchPosition loads a position snapshot from the NonfungiblePositionManager:
// tick range, liquidity, and the currently uncollected fees (tokensOwed).
func (p *Provider) FetchPosition(ctx context.Context, manager string, tokenID *big.Int) (*model.Position, model.UncollectedFees, error) {
	fees := model.UncollectedFees{Amount0: big.NewInt(0), Amount1: big.NewInt(0)}
	if !common.IsHexAddress(manager) {
		return nil, fees, fmt.Errorf("invalid position manager address: %s", manager)
	}
	if tokenID == nil {
		return nil, fees, fmt.Errorf("token id is nil")
	}
	managerAddr := common.HexToAddress(manager)

	managerABI, err := PositionManagerABI()
	if err != nil {
		return nil, fees, fmt.Errorf("parse position manager abi: %w", err)
	}

	values, err := p.call(ctx, managerAddr, managerABI, "positions", tokenID)
	if err != nil {
		return nil, fees, err
	}
	if len(values) < 12 {
		return nil, fees, fmt.Errorf("positions returned %d values", len(values))
	}

	tickLowerInt, err := asBigInt(values[5])
	if err != nil {
		return nil, fees, fmt.Errorf("tick lower: %w", err)
	}
	tickLower, err := int24FromBig(tickLowerInt)
	if err != nil {
		return nil, fees, fmt.Errorf("tick lower: %w", err)
	}
	tickUpperInt, err := asBigInt(values[6])
	if err != nil {
		return nil, fees, fmt.Errorf("tick upper: %w", err)
	}
	tickUpper, err := int24FromBig(tickUpperInt)
	if err != nil {
		return nil, fees, fmt.Errorf("tick upper: %w", err)
	}
	liquidity, err := asBigInt(values[7])
	if err != nil {
		return nil, fees, fmt.Errorf("liquidity: %w", err)
	}
	owed0, err := asBigInt(values[10])
	if err != nil {
		return nil, fees, fmt.Errorf("tokens owed0: %w", err)
	}
	owed1, err := asBigInt(values[11])
	if err != nil {
		return nil, fees, fmt.Errorf("tokens owed1: %w", err)
	}
	fees.Amount0 = owed0
	fees.Amount1 = owed1

	var owner string
	if values, err := p.call(ctx, managerAddr, managerABI, "ownerOf", tokenID); err == nil {
		if addr, err := asAddress(values[0]); err == nil {
			owner = addr.Hex()
		}
	} else {
		p.logger.Debug("ownerOf call failed", zap.String("token_id", tokenID.String()), zap.Error(err))
	}

	return &model.Position{
		ID:        tokenID.String(),
		Owner:     owner,
		TickLower: tickLower,
		TickUpper: tickUpper,
		Liquidity: liquidity,
	}, fees, nil
}

// FetchToken loads ERC20 identity via chain calls, preferring the string ABI
// and falling back to the bytes32 variant used by some older tokens.
func (p *Provider) FetchToken(ctx context.Context, address common.Address) (model.Token, error) {
	if token, ok := p.tokens.Get(address); ok {
		return token, nil
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return model.Token{}, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return model.Token{}, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	token := model.Token{ChainID: p.chainID, Address: address.Hex()}

	values, err := p.call(ctx, address, stringABI, "decimals")
	if err != nil {
		return model.Token{}, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return model.Token{}, err
	}
	token.Decimals = decimals

	if values, err := p.call(ctx, address, stringABI, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			token.Symbol = symbol
		}
	} else if values, err := p.call(ctx, address, bytes32ABI, "symbol"); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			token.Symbol = symbol
		}
	} else {
		p.logger.Debug("symbol call failed", zap.String("token", address.Hex()), zap.Error(err))
	}

	if values, err := p.call(ctx, address, stringABI, "name"); err == nil {
		if name, ok := values[0].(string); ok {
			token.Name = name
		}
	} else if values, err := p.call(ctx, address, bytes32ABI, "name"); err == nil {
		if name, ok := bytes32ToString(values[0]); ok {
			token.Name = name
		}
	} else {
		p.logger.Debug("name call failed", zap.String("token", address.Hex()), zap.Error(err))
	}

	p.tokens.Set(address, token)
	return token, nil
}

func (p *Provider) call(ctx context.Context, target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	var resp []byte
	err = withRetry(ctx, p.maxRetries, p.retryBackoff, func(ctx context.Context) error {
		var callErr error
		msg := ethereum.CallMsg{To: &target, Data: data}
		resp, callErr = p.client.CallContract(ctx, msg, nil)
		if callErr != nil {
			p.logger.Warn("contract call failed", zap.String("method", method), zap.String("target", target.Hex()), zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}
