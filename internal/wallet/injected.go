package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// InjectedConnector talks to an EIP-1193 style provider exposed as a JSON-RPC endpoint
// (a browser extension bridge, Frame, an unlocked dev node). The provider owns the keys.
type InjectedConnector struct {
	url     string
	chainID int64
	logger  *zap.Logger
}

// NewInjectedConnector creates the connector; an empty url means no provider is installed.
func NewInjectedConnector(url string, chainID int64, logger *zap.Logger) *InjectedConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InjectedConnector{url: url, chainID: chainID, logger: logger}
}

func (c *InjectedConnector) Name() string  { return ConnectorInjected }
func (c *InjectedConnector) Label() string { return "Browser wallet" }

// Connect requests account access from the provider.
// User rejection and provider errors are returned with the provider's message untouched.
func (c *InjectedConnector) Connect(ctx context.Context, _ PromptFunc) (*Session, error) {
	if c.url == "" {
		return nil, ErrProviderNotFound
	}

	rpcClient, err := rpc.DialContext(ctx, c.url)
	if err != nil {
		c.logger.Warn("injected provider unreachable", zap.String("url", c.url), zap.Error(err))
		return nil, ErrProviderNotFound
	}

	var accounts []common.Address
	if err := rpcClient.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		rpcClient.Close()
		return nil, err
	}
	if len(accounts) == 0 {
		rpcClient.Close()
		return nil, ErrNoAccounts
	}

	// The provider may sit on any network; a mismatch is only reported
	chainID := c.chainID
	var remoteChain hexutil.Big
	if err := rpcClient.CallContext(ctx, &remoteChain, "eth_chainId"); err != nil {
		c.logger.Warn("provider did not report chain id", zap.Error(err))
	} else if id := remoteChain.ToInt().Int64(); id != c.chainID {
		c.logger.Warn("provider is on a different chain",
			zap.Int64("expected", c.chainID),
			zap.Int64("actual", id))
		chainID = id
	}

	address := accounts[0]
	c.logger.Info("injected wallet connected", zap.String("address", address.Hex()))

	return &Session{
		Connector: ConnectorInjected,
		Provider:  ethclient.NewClient(rpcClient),
		Signer:    &injectedSigner{rpc: rpcClient, from: address},
		Address:   address,
		ChainID:   chainID,
	}, nil
}

// sendTxArgs is the eth_sendTransaction parameter object; gas and nonce are left to the wallet
type sendTxArgs struct {
	From common.Address `json:"from"`
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

type injectedSigner struct {
	rpc  *rpc.Client
	from common.Address
}

func (s *injectedSigner) SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	var hash common.Hash
	err := s.rpc.CallContext(ctx, &hash, "eth_sendTransaction", sendTxArgs{From: s.from, To: to, Data: data})
	if err != nil {
		return common.Hash{}, err
	}
	if hash == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("provider returned an empty transaction hash")
	}
	return hash, nil
}

func (s *injectedSigner) Close() error {
	s.rpc.Close()
	return nil
}
