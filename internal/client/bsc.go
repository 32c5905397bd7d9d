package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const defaultPollInterval = 2 * time.Second

// ErrReverted is returned when a mined transaction has a failed receipt status
var ErrReverted = errors.New("transaction reverted")

// Backend is the read side of a chain connection. *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// BSCClient reads the token and game contracts through a Backend
type BSCClient struct {
	backend      Backend
	tokenAddress common.Address
	gameAddress  common.Address
	pollInterval time.Duration
	logger       *zap.Logger
}

// Option configures a BSCClient
type Option func(*BSCClient)

// WithPollInterval sets how often WaitMined asks for the receipt
func WithPollInterval(d time.Duration) Option {
	return func(c *BSCClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *BSCClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewBSCClient creates a client for the given token and game contracts.
func NewBSCClient(backend Backend, tokenAddress, gameAddress common.Address, opts ...Option) *BSCClient {
	c := &BSCClient{
		backend:      backend,
		tokenAddress: tokenAddress,
		gameAddress:  gameAddress,
		pollInterval: defaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenAddress returns the token contract address
func (c *BSCClient) TokenAddress() common.Address {
	return c.tokenAddress
}

// GameAddress returns the game contract address
func (c *BSCClient) GameAddress() common.Address {
	return c.gameAddress
}

// call packs a view call, executes it at the latest block and unpacks the outputs
func (c *BSCClient) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(result) == 0 {
		return nil, nil
	}

	out, err := parsed.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return out, nil
}

// TokenDecimals reads decimals() from the token contract
func (c *BSCClient) TokenDecimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, c.tokenAddress, TokenABI, "decimals")
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("empty result from decimals: is %s a token contract?", c.tokenAddress.Hex())
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", out[0])
	}
	return decimals, nil
}

// TokenBalance reads balanceOf(owner) from the token contract in raw units
func (c *BSCClient) TokenBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, c.tokenAddress, TokenABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}

	// Empty result: address never interacted with the token
	if len(out) == 0 {
		c.logger.Debug("empty result from balanceOf", zap.String("owner", owner.Hex()))
		return big.NewInt(0), nil
	}

	balance, ok := out[0].(*big.Int)
	if !ok || balance == nil {
		return big.NewInt(0), nil
	}

	c.logger.Debug("token balance retrieved",
		zap.String("owner", owner.Hex()),
		zap.String("balance", balance.String()))

	return balance, nil
}

// ApproveData packs approve(spender, amount) for the token contract
func (c *BSCClient) ApproveData(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := TokenABI.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve: %w", err)
	}
	return data, nil
}

// PlayCardData packs playCard(betAmount) for the game contract
func (c *BSCClient) PlayCardData(betAmount *big.Int) ([]byte, error) {
	data, err := GameABI.Pack("playCard", betAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack playCard: %w", err)
	}
	return data, nil
}

// MinBet reads minBet() from the game contract in raw token units
func (c *BSCClient) MinBet(ctx context.Context) (*big.Int, error) {
	return c.gameUint(ctx, "minBet")
}

// MaxBet reads maxBet() from the game contract in raw token units
func (c *BSCClient) MaxBet(ctx context.Context) (*big.Int, error) {
	return c.gameUint(ctx, "maxBet")
}

// Owner reads owner() from the game contract
func (c *BSCClient) Owner(ctx context.Context) (common.Address, error) {
	out, err := c.call(ctx, c.gameAddress, GameABI, "owner")
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, errors.New("empty result from owner")
	}

	owner, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected owner type %T", out[0])
	}
	return owner, nil
}

func (c *BSCClient) gameUint(ctx context.Context, method string) (*big.Int, error) {
	out, err := c.call(ctx, c.gameAddress, GameABI, method)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty result from %s", method)
	}

	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s type %T", method, out[0])
	}
	return v, nil
}

// LatestBlock returns the current block number
func (c *BSCClient) LatestBlock(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}

// WaitMined polls for the receipt of txHash until it is mined or ctx is done.
// A receipt with failed status is returned together with ErrReverted.
func (c *BSCClient) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("%w: %s", ErrReverted, txHash.Hex())
			}
			c.logger.Debug("transaction mined",
				zap.String("tx_hash", txHash.Hex()),
				zap.Uint64("gas_used", receipt.GasUsed))
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
