package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/client"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrSize             = 256
	defaultPairTimeout = 5 * time.Minute
	caipNamespace      = "eip155"
)

// PairingConfig configures the remote wallet pairing connector
type PairingConfig struct {
	ProjectID string
	ChainID   int64
	// RPCMap maps chain id to the RPC endpoint used for reads once paired
	RPCMap   map[int64]string
	RelayURL string
	Timeout  time.Duration
}

// PairingConnector pairs a remote (mobile) wallet through a wc: URI rendered as a QR code.
// Reads go to the RPC for the configured chain; transactions are relayed to the wallet.
type PairingConnector struct {
	cfg    PairingConfig
	relay  *Relay
	dial   func(ctx context.Context, url string) (client.Backend, error)
	logger *zap.Logger
}

// NewPairingConnector creates the connector on top of relay
func NewPairingConnector(cfg PairingConfig, relay *Relay, logger *zap.Logger) *PairingConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPairTimeout
	}
	cfg.RelayURL = strings.TrimRight(cfg.RelayURL, "/")

	return &PairingConnector{
		cfg:   cfg,
		relay: relay,
		dial: func(ctx context.Context, url string) (client.Backend, error) {
			return ethclient.DialContext(ctx, url)
		},
		logger: logger,
	}
}

func (c *PairingConnector) Name() string  { return ConnectorWalletConnect }
func (c *PairingConnector) Label() string { return "WalletConnect" }

// pairingURI builds the wc: URI a wallet scans to join the topic
func (c *PairingConnector) pairingURI(p *pairing) string {
	params := url.Values{}
	params.Set("relay-protocol", "bob-relay")
	params.Set("relay-url", c.cfg.RelayURL+"/"+p.topic)
	params.Set("symKey", p.keyHex())
	params.Set("projectId", c.cfg.ProjectID)
	params.Set("chainId", caipNamespace+":"+strconv.FormatInt(c.cfg.ChainID, 10))
	return "wc:" + p.topic + "@2?" + params.Encode()
}

// Connect shows the pairing prompt and waits for the wallet to approve the session
func (c *PairingConnector) Connect(ctx context.Context, prompt PromptFunc) (*Session, error) {
	if c.cfg.ProjectID == "" {
		return nil, errors.New("project id is not configured")
	}
	rpcURL, ok := c.cfg.RPCMap[c.cfg.ChainID]
	if !ok || rpcURL == "" {
		return nil, fmt.Errorf("no RPC endpoint for chain %d", c.cfg.ChainID)
	}

	p, err := c.relay.open()
	if err != nil {
		return nil, err
	}

	uri := c.pairingURI(p)
	qr, err := qrcode.Encode(uri, qrcode.Medium, qrSize)
	if err != nil {
		c.relay.remove(p)
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	if prompt != nil {
		prompt(uri, qr)
	}

	c.logger.Info("waiting for wallet pairing", zap.String("topic", p.topic))

	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	a, err := p.waitApproval(waitCtx)
	if err != nil {
		c.relay.remove(p)
		return nil, err
	}

	address, err := c.sessionAccount(a)
	if err != nil {
		c.relay.remove(p)
		return nil, err
	}

	backend, err := c.dial(ctx, rpcURL)
	if err != nil {
		c.relay.remove(p)
		return nil, fmt.Errorf("failed to connect to BSC: %w", err)
	}

	c.logger.Info("remote wallet paired",
		zap.String("topic", p.topic),
		zap.String("address", address.Hex()))

	return &Session{
		Connector: ConnectorWalletConnect,
		Provider:  backend,
		Signer:    &remoteSigner{relay: c.relay, p: p, from: address, chainID: c.cfg.ChainID},
		Address:   address,
		ChainID:   c.cfg.ChainID,
	}, nil
}

// sessionAccount picks the first account approved for the configured chain
func (c *PairingConnector) sessionAccount(a approval) (common.Address, error) {
	if a.chainID != 0 && a.chainID != c.cfg.ChainID {
		return common.Address{}, fmt.Errorf("wallet approved chain %d, expected %d", a.chainID, c.cfg.ChainID)
	}
	if len(a.accounts) == 0 {
		return common.Address{}, ErrNoAccounts
	}

	for _, account := range a.accounts {
		chainID, address, err := parseAccount(account)
		if err != nil {
			return common.Address{}, err
		}
		if chainID != 0 && chainID != c.cfg.ChainID {
			continue
		}
		return address, nil
	}
	return common.Address{}, fmt.Errorf("wallet approved no account on chain %d", c.cfg.ChainID)
}

// parseAccount accepts CAIP-10 ("eip155:56:0xabc...") or a bare hex address.
// A bare address reports chain 0.
func parseAccount(account string) (int64, common.Address, error) {
	parts := strings.Split(account, ":")
	switch len(parts) {
	case 1:
		if !common.IsHexAddress(parts[0]) {
			return 0, common.Address{}, fmt.Errorf("invalid account %q", account)
		}
		return 0, common.HexToAddress(parts[0]), nil
	case 3:
		if parts[0] != caipNamespace {
			return 0, common.Address{}, fmt.Errorf("unsupported account namespace %q", parts[0])
		}
		chainID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, common.Address{}, fmt.Errorf("invalid chain in account %q", account)
		}
		if !common.IsHexAddress(parts[2]) {
			return 0, common.Address{}, fmt.Errorf("invalid account %q", account)
		}
		return chainID, common.HexToAddress(parts[2]), nil
	}
	return 0, common.Address{}, fmt.Errorf("invalid account %q", account)
}

type remoteTxArgs struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Data    hexutil.Bytes  `json:"data"`
	ChainID hexutil.Uint64 `json:"chainId"`
}

// remoteSigner relays eth_sendTransaction to the paired wallet
type remoteSigner struct {
	relay   *Relay
	p       *pairing
	from    common.Address
	chainID int64
}

func (s *remoteSigner) SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	args := []remoteTxArgs{{From: s.from, To: to, Data: data, ChainID: hexutil.Uint64(s.chainID)}}

	raw, err := s.p.request(ctx, "eth_sendTransaction", args)
	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash
	if err := json.Unmarshal(raw, &hash); err != nil {
		return common.Hash{}, fmt.Errorf("wallet returned an invalid transaction hash: %w", err)
	}
	if hash == (common.Hash{}) {
		return common.Hash{}, errors.New("wallet returned an empty transaction hash")
	}
	return hash, nil
}

func (s *remoteSigner) Close() error {
	s.relay.remove(s.p)
	return nil
}
