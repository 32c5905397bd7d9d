// Package wallet connects a user-controlled wallet and exposes it as a Session:
// a read provider, a transaction signer and the account address.
package wallet

import (
	"context"
	"errors"

	"github.com/AlexZinkM/bob-poker/internal/client"

	"github.com/ethereum/go-ethereum/common"
)

// Connector names
const (
	ConnectorInjected      = "injected"
	ConnectorWalletConnect = "walletconnect"
	ConnectorKeyFile       = "keyfile"
)

var (
	// ErrProviderNotFound is returned when no injected provider is available
	ErrProviderNotFound = errors.New("wallet provider not found")
	// ErrNoAccounts is returned when the wallet approved the request but exposed no account
	ErrNoAccounts = errors.New("wallet returned no accounts")
)

// Signer submits transactions on behalf of the connected account
type Signer interface {
	// SendTransaction asks the wallet to sign and broadcast a call to `to` with calldata `data`
	SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error)
	Close() error
}

// Session is an authenticated wallet connection
type Session struct {
	Connector string
	Provider  client.Backend
	Signer    Signer
	Address   common.Address
	ChainID   int64
}

// Close releases the signer
func (s *Session) Close() error {
	if s == nil || s.Signer == nil {
		return nil
	}
	return s.Signer.Close()
}

// PromptFunc displays a pairing prompt (URI and PNG QR code) to the user
type PromptFunc func(uri string, qrPNG []byte)

// Connector establishes a Session with one kind of wallet
type Connector interface {
	Name() string
	// Label is the human name used in status messages
	Label() string
	Connect(ctx context.Context, prompt PromptFunc) (*Session, error)
}
