// Package poker drives the wallet connection, balance and wager flow against the
// on-chain poker game. All state lives in memory for the life of the process.
package poker

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/client"
	"github.com/AlexZinkM/bob-poker/internal/common"
	"github.com/AlexZinkM/bob-poker/internal/model"
	"github.com/AlexZinkM/bob-poker/internal/wallet"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNotConnected is returned when an operation needs a wallet session
	ErrNotConnected = errors.New("wallet not connected")
	// ErrInsufficientBalance is returned when the balance is below the wager
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrPlayInProgress is returned while a wager is being submitted
	ErrPlayInProgress = errors.New("a game is already in progress")
	// ErrConnectInProgress is returned while a connect attempt is pending
	ErrConnectInProgress = errors.New("wallet connection in progress")
	// ErrUnknownConnector is returned for a connector name that is not configured
	ErrUnknownConnector = errors.New("unknown wallet connector")
	// ErrCooldown is returned when a wager is attempted before the cooldown ends
	ErrCooldown = errors.New("cooldown active")
	// ErrWrongChain is returned when the wallet is connected to another network
	ErrWrongChain = errors.New("wrong network")
)

// Config is the game setup taken from the service configuration
type Config struct {
	TokenAddress        ethcommon.Address
	GameAddress         ethcommon.Address
	Symbol              string
	Wager               string
	ChainID             int64
	PlayCooldown        time.Duration
	ReceiptPollInterval time.Duration
	ExplorerURL         string
	HistoryBlockRange   uint64
}

// PriceSource values the token in USD
type PriceSource interface {
	GetTokenUSDPrice(ctx context.Context, contract string) (decimal.Decimal, error)
}

// Option configures a Game
type Option func(*Game)

// WithLogger sets the game logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPriceSource enables USD valuation of the balance
func WithPriceSource(p PriceSource) Option {
	return func(g *Game) {
		g.price = p
	}
}

// WithReadBackend sets the RPC used for contract reads when no wallet is connected
func WithReadBackend(b client.Backend) Option {
	return func(g *Game) {
		g.reader = b
	}
}

// Game holds the single user's session, balance and last outcome
type Game struct {
	cfg        Config
	connectors map[string]wallet.Connector
	names      []string
	price      PriceSource
	reader     client.Backend
	logger     *zap.Logger

	mu         sync.Mutex
	state      model.ConnectionState
	session    *wallet.Session
	chain      *client.BSCClient
	balance    *big.Int
	decimals   uint8
	balanceUSD string
	status     string
	lastResult string
	outcome    *model.Outcome
	pairing    *model.PairingPrompt
	connecting bool
	playing    bool
	lastPlay   time.Time
}

// NewGame creates a disconnected game with the given wallet connectors
func NewGame(cfg Config, connectors []wallet.Connector, opts ...Option) *Game {
	g := &Game{
		cfg:        cfg,
		connectors: make(map[string]wallet.Connector, len(connectors)),
		logger:     zap.NewNop(),
		state:      model.StateDisconnected,
		balance:    big.NewInt(0),
		decimals:   common.DefaultTokenDecimals,
	}
	for _, c := range connectors {
		g.connectors[c.Name()] = c
		g.names = append(g.names, c.Name())
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) newChainClient(backend client.Backend) *client.BSCClient {
	return client.NewBSCClient(backend, g.cfg.TokenAddress, g.cfg.GameAddress,
		client.WithPollInterval(g.cfg.ReceiptPollInterval),
		client.WithLogger(g.logger))
}

// State returns a snapshot for rendering
func (g *Game) State() model.StateResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) stateLocked() model.StateResponse {
	resp := model.StateResponse{
		State:       g.state,
		Symbol:      g.cfg.Symbol,
		Balance:     common.FormatUnits(g.balance, g.decimals).String(),
		Decimals:    g.decimals,
		BalanceUSD:  g.balanceUSD,
		Wager:       g.cfg.Wager,
		Status:      g.status,
		LastResult:  g.lastResult,
		InProgress:  g.playing,
		Connectors:  append([]string(nil), g.names...),
		ExplorerURL: g.cfg.ExplorerURL,
	}
	if g.session != nil {
		resp.Connector = g.session.Connector
		resp.Address = g.session.Address.Hex()
	}
	if g.outcome != nil {
		o := *g.outcome
		resp.Outcome = &o
	}
	if g.pairing != nil {
		p := *g.pairing
		resp.Pairing = &p
	}
	return resp
}

// Close drops the wallet session
func (g *Game) Close() error {
	g.mu.Lock()
	session := g.session
	g.session = nil
	g.chain = nil
	g.state = model.StateDisconnected
	g.mu.Unlock()

	return session.Close()
}

// Connect runs a connect attempt with the named connector and waits for it
func (g *Game) Connect(ctx context.Context, name string) error {
	c, err := g.beginConnect(name)
	if err != nil {
		return err
	}
	return g.runConnect(ctx, c)
}

// ConnectAsync starts a connect attempt in the background. Precondition failures are returned
// immediately; the attempt's own outcome is reported through State.
func (g *Game) ConnectAsync(ctx context.Context, name string) error {
	c, err := g.beginConnect(name)
	if err != nil {
		return err
	}
	go g.runConnect(ctx, c)
	return nil
}

func (g *Game) beginConnect(name string) (wallet.Connector, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.connectors[name]
	if !ok {
		return nil, ErrUnknownConnector
	}
	if g.connecting {
		return nil, ErrConnectInProgress
	}
	if g.playing {
		return nil, ErrPlayInProgress
	}

	g.connecting = true
	g.state = model.StateConnecting
	g.pairing = nil
	g.status = ""
	return c, nil
}

func (g *Game) showPairing(uri string, qr []byte) {
	g.mu.Lock()
	g.pairing = &model.PairingPrompt{URI: uri, QR: base64.StdEncoding.EncodeToString(qr)}
	g.mu.Unlock()
}

func (g *Game) runConnect(ctx context.Context, c wallet.Connector) error {
	session, err := c.Connect(ctx, g.showPairing)
	if err == nil {
		err = g.checkChain(session)
	}
	if err != nil {
		g.logger.Warn("wallet connect failed", zap.String("connector", c.Name()), zap.Error(err))

		g.mu.Lock()
		g.status = connectErrorStatus(c, err)
		g.pairing = nil
		g.connecting = false
		if g.session != nil {
			g.state = model.StateConnected
		} else {
			g.state = model.StateFailed
		}
		g.mu.Unlock()
		return err
	}

	g.mu.Lock()
	previous := g.session
	g.session = session
	g.chain = g.newChainClient(session.Provider)
	g.state = model.StateConnected
	g.status = c.Label() + " connected!"
	g.pairing = nil
	g.balance = big.NewInt(0)
	g.balanceUSD = ""
	g.mu.Unlock()

	if previous != nil {
		if err := previous.Close(); err != nil {
			g.logger.Warn("failed to close previous session", zap.Error(err))
		}
	}

	g.logger.Info("wallet connected",
		zap.String("connector", c.Name()),
		zap.String("address", session.Address.Hex()))

	// A failed read is already reported in the status
	g.RefreshBalance(ctx)

	g.mu.Lock()
	g.connecting = false
	g.mu.Unlock()
	return nil
}

// checkChain closes a session opened on a chain other than the configured one
func (g *Game) checkChain(session *wallet.Session) error {
	if g.cfg.ChainID == 0 || session.ChainID == g.cfg.ChainID {
		return nil
	}
	if err := session.Close(); err != nil {
		g.logger.Warn("failed to close session", zap.Error(err))
	}
	return fmt.Errorf("%w: wallet is on chain %d, switch to chain %d", ErrWrongChain, session.ChainID, g.cfg.ChainID)
}

func connectErrorStatus(c wallet.Connector, err error) string {
	switch {
	case errors.Is(err, wallet.ErrProviderNotFound):
		return "Wallet provider not found. Try WalletConnect."
	case c.Name() == wallet.ConnectorInjected:
		return "Connection error: " + err.Error()
	default:
		return c.Label() + " error: " + err.Error()
	}
}
