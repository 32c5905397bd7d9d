package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the key file password is prompted at runtime and stored in memory - use GetWalletPasswordBytes()
type Config struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	RPCURL       string `envconfig:"BSC_RPC_URL" default:"https://bsc-dataseed.binance.org/"`
	ChainID      int64  `envconfig:"CHAIN_ID" default:"56"`
	TokenAddress string `envconfig:"TOKEN_ADDRESS" default:"0xfa4C07636B53D868E514777B9d4005F1e9c6c40B"`
	GameAddress  string `envconfig:"GAME_ADDRESS" default:"0x6CB90Df0fCB1D29EdEDC988d94E969395d49f321"`
	TokenSymbol  string `envconfig:"TOKEN_SYMBOL" default:"Bob4.0"`
	WagerAmount  string `envconfig:"WAGER_AMOUNT" default:"100"`

	InjectedProviderURL string        `envconfig:"INJECTED_PROVIDER_URL"`
	ProjectID           string        `envconfig:"WALLETCONNECT_PROJECT_ID"`
	PairingRelayURL     string        `envconfig:"PAIRING_RELAY_URL"`
	PairingTimeout      time.Duration `envconfig:"PAIRING_TIMEOUT" default:"5m"`
	WalletFilePath      string        `envconfig:"WALLET_FILE_PATH"`

	ReceiptPollInterval time.Duration `envconfig:"RECEIPT_POLL_INTERVAL" default:"2s"`
	PlayCooldown        int           `envconfig:"PLAY_COOLDOWN_SECONDS" default:"0"`
	ExplorerURL         string        `envconfig:"EXPLORER_URL" default:"https://bscscan.com"`
	HistoryBlockRange   uint64        `envconfig:"HISTORY_BLOCK_RANGE" default:"5000"`

	// Origins besides the page itself that may call the API from a browser
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	PriceEnabled bool   `envconfig:"PRICE_ENABLED" default:"true"`
	CoinGeckoURL string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from the optional .env file and environment variables.
func Init() error {
	// .env is optional, real environment always wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if c.PairingRelayURL == "" {
		c.PairingRelayURL = fmt.Sprintf("ws://localhost:%s/ws/pair", c.Port)
	}
	c.PairingRelayURL = strings.TrimRight(c.PairingRelayURL, "/")
	cfg = c
	return nil
}

// Set replaces the global configuration. Used by tests and tools that build Config by hand.
func Set(c *Config) {
	cfg = c
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetListenAddr returns host:port the server binds to
func GetListenAddr() string {
	return net.JoinHostPort(Get().Host, Get().Port)
}

// GetLogLevel returns the zap level name
func GetLogLevel() string {
	return Get().LogLevel
}

// GetRPCURL returns the fallback BSC RPC URL
func GetRPCURL() string {
	return Get().RPCURL
}

// GetChainID returns the target chain id
func GetChainID() int64 {
	return Get().ChainID
}

// GetWalletFilePath returns path to .cwt file, empty when the key-file connector is disabled
func GetWalletFilePath() string {
	return Get().WalletFilePath
}

// GetPlayCooldown returns cooldown between wagers in seconds
func GetPlayCooldown() int {
	return Get().PlayCooldown
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
