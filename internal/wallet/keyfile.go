package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/bob-poker/internal/client"
	"github.com/AlexZinkM/bob-poker/internal/crypto"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// gas estimate headroom in percent
const gasHeadroom = 120

// TxBackend is what a locally signing wallet needs from the node. *ethclient.Client satisfies it.
type TxBackend interface {
	client.Backend
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// PasswordFunc returns a copy of the key file password; the caller zeroes it
type PasswordFunc func() ([]byte, error)

// KeyFileConnector unlocks the encrypted .cwt key file and signs transactions in process
type KeyFileConnector struct {
	filePath string
	password PasswordFunc
	rpcURL   string
	chainID  int64
	dial     func(ctx context.Context, url string) (TxBackend, error)
	logger   *zap.Logger
}

// NewKeyFileConnector creates the connector for the key file at filePath
func NewKeyFileConnector(filePath string, password PasswordFunc, rpcURL string, chainID int64, logger *zap.Logger) *KeyFileConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyFileConnector{
		filePath: filePath,
		password: password,
		rpcURL:   rpcURL,
		chainID:  chainID,
		dial: func(ctx context.Context, url string) (TxBackend, error) {
			return ethclient.DialContext(ctx, url)
		},
		logger: logger,
	}
}

func (c *KeyFileConnector) Name() string  { return ConnectorKeyFile }
func (c *KeyFileConnector) Label() string { return "Local wallet" }

// Connect decrypts the key file and dials the RPC node
func (c *KeyFileConnector) Connect(ctx context.Context, _ PromptFunc) (*Session, error) {
	address, err := crypto.ReadWalletAddress(c.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address in wallet file: %s", address)
	}

	password, err := c.password()
	if err != nil {
		return nil, err
	}
	defer clear(password) // Always clear password from memory

	_, walletData, err := crypto.DecryptWallet(c.filePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	defer clear(walletData.PrivateKey)

	key, err := ethcrypto.ToECDSA(walletData.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	from := ethcrypto.PubkeyToAddress(key.PublicKey)
	if from != common.HexToAddress(address) {
		return nil, errors.New("private key does not match address")
	}

	backend, err := c.dial(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to BSC: %w", err)
	}

	c.logger.Info("key file wallet unlocked", zap.String("address", from.Hex()))

	return &Session{
		Connector: ConnectorKeyFile,
		Provider:  backend,
		Signer:    NewKeySigner(key, backend, big.NewInt(c.chainID)),
		Address:   from,
		ChainID:   c.chainID,
	}, nil
}

// KeySigner signs legacy EIP-155 transactions with an in-memory key
type KeySigner struct {
	key     *ecdsa.PrivateKey
	from    common.Address
	backend TxBackend
	chainID *big.Int
}

// NewKeySigner creates a signer for key sending through backend
func NewKeySigner(key *ecdsa.PrivateKey, backend TxBackend, chainID *big.Int) *KeySigner {
	return &KeySigner{
		key:     key,
		from:    ethcrypto.PubkeyToAddress(key.PublicKey),
		backend: backend,
		chainID: chainID,
	}
}

func (s *KeySigner) SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	if s.key == nil {
		return common.Hash{}, errors.New("signer is closed")
	}

	nonce, err := s.backend.PendingNonceAt(ctx, s.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: s.from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gas = gas * gasHeadroom / 100

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(s.chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash(), nil
}

// Close drops the key from memory
func (s *KeySigner) Close() error {
	if s.key != nil {
		s.key.D.SetInt64(0)
		s.key = nil
	}
	return nil
}
