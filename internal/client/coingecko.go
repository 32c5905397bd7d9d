package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	coingeckoAPI      = "https://api.coingecko.com/api/v3"
	coingeckoPlatform = "binance-smart-chain"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client; empty baseURL means the public API
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// tokenPriceResponse maps lowercase contract address to currency prices
type tokenPriceResponse map[string]map[string]json.Number

// GetTokenUSDPrice gets the USD price of a BSC token by contract address
func (c *CoinGeckoClient) GetTokenUSDPrice(ctx context.Context, contract string) (decimal.Decimal, error) {
	contract = strings.ToLower(contract)
	endpoint := fmt.Sprintf("%s/simple/token_price/%s?contract_addresses=%s&vs_currencies=usd",
		c.baseURL, coingeckoPlatform, url.QueryEscape(contract))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("failed to get price: status %d", resp.StatusCode)
	}

	var priceResp tokenPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price: %w", err)
	}

	usd, ok := priceResp[contract]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("no USD price listed for %s", contract)
	}

	price, err := decimal.NewFromString(usd.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse price %q: %w", usd, err)
	}
	return price, nil
}
