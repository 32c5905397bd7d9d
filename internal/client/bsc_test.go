package client

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToken  = common.HexToAddress("0xfa4C07636B53D868E514777B9d4005F1e9c6c40B")
	testGame   = common.HexToAddress("0x6CB90Df0fCB1D29EdEDC988d94E969395d49f321")
	testPlayer = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

type fakeBackend struct {
	decimals uint8
	balance  *big.Int
	minBet   *big.Int
	maxBet   *big.Int
	owner    common.Address

	receipts     map[common.Hash]*types.Receipt
	notFoundLeft int
	receiptErr   error

	logs  []types.Log
	block uint64
	query ethereum.FilterQuery
}

func (f *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	switch {
	case bytes.HasPrefix(call.Data, TokenABI.Methods["decimals"].ID):
		return TokenABI.Methods["decimals"].Outputs.Pack(f.decimals)
	case bytes.HasPrefix(call.Data, TokenABI.Methods["balanceOf"].ID):
		if f.balance == nil {
			return nil, nil
		}
		return TokenABI.Methods["balanceOf"].Outputs.Pack(f.balance)
	case bytes.HasPrefix(call.Data, GameABI.Methods["minBet"].ID):
		return GameABI.Methods["minBet"].Outputs.Pack(f.minBet)
	case bytes.HasPrefix(call.Data, GameABI.Methods["maxBet"].ID):
		return GameABI.Methods["maxBet"].Outputs.Pack(f.maxBet)
	case bytes.HasPrefix(call.Data, GameABI.Methods["owner"].ID):
		return GameABI.Methods["owner"].Outputs.Pack(f.owner)
	}
	return nil, errors.New("execution reverted")
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	if f.notFoundLeft > 0 {
		f.notFoundLeft--
		return nil, ethereum.NotFound
	}
	r, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeBackend) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.query = q
	return f.logs, nil
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	return f.block, nil
}

func gamePlayedLog(t *testing.T, emitter common.Address, player common.Address, bet, playerCard, houseCard int64, won bool) *types.Log {
	t.Helper()
	event := GameABI.Events[gamePlayedEvent]
	data, err := event.Inputs.NonIndexed().Pack(player, big.NewInt(bet), big.NewInt(playerCard), big.NewInt(houseCard), won)
	require.NoError(t, err)
	return &types.Log{
		Address:     emitter,
		Topics:      []common.Hash{event.ID},
		Data:        data,
		TxHash:      common.HexToHash("0x01"),
		BlockNumber: 42,
		Index:       3,
	}
}

func TestTokenReads(t *testing.T) {
	backend := &fakeBackend{decimals: 18, balance: big.NewInt(12345)}
	c := NewBSCClient(backend, testToken, testGame)

	decimals, err := c.TokenDecimals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals)

	balance, err := c.TokenBalance(context.Background(), testPlayer)
	require.NoError(t, err)
	assert.Equal(t, "12345", balance.String())

	// empty return data means the address never held the token
	backend.balance = nil
	balance, err = c.TokenBalance(context.Background(), testPlayer)
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())
}

func TestGameReads(t *testing.T) {
	owner := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	backend := &fakeBackend{minBet: big.NewInt(10), maxBet: big.NewInt(2000), owner: owner}
	c := NewBSCClient(backend, testToken, testGame)

	minBet, err := c.MinBet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), minBet.Int64())

	maxBet, err := c.MaxBet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2000), maxBet.Int64())

	got, err := c.Owner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestPackedCalldata(t *testing.T) {
	c := NewBSCClient(&fakeBackend{}, testToken, testGame)

	data, err := c.ApproveData(testGame, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, TokenABI.Methods["approve"].ID, data[:4])

	args, err := TokenABI.Methods["approve"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, testGame, args[0])
	assert.Equal(t, int64(100), args[1].(*big.Int).Int64())

	data, err = c.PlayCardData(big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, GameABI.Methods["playCard"].ID, data[:4])
}

func TestDecodeGamePlayed(t *testing.T) {
	c := NewBSCClient(&fakeBackend{}, testToken, testGame)

	transfer := &types.Log{
		Address: testToken,
		Topics:  []common.Hash{common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")},
		Data:    common.LeftPadBytes(big.NewInt(100).Bytes(), 32),
	}
	spoofed := gamePlayedLog(t, testToken, testPlayer, 100, 9, 1, true)
	truncated := gamePlayedLog(t, testGame, testPlayer, 100, 9, 1, true)
	truncated.Data = truncated.Data[:40]
	played := gamePlayedLog(t, testGame, testPlayer, 100, 7, 12, false)

	receipt := &types.Receipt{Logs: []*types.Log{transfer, nil, spoofed, truncated, played}}

	got, ok := c.DecodeGamePlayed(receipt)
	require.True(t, ok)
	assert.Equal(t, testPlayer, got.Player)
	assert.Equal(t, int64(100), got.BetAmount.Int64())
	assert.Equal(t, int64(7), got.PlayerCardID.Int64())
	assert.Equal(t, int64(12), got.HouseCardID.Int64())
	assert.False(t, got.Won)
	assert.Equal(t, uint64(42), got.BlockNumber)

	_, ok = c.DecodeGamePlayed(&types.Receipt{Logs: []*types.Log{transfer}})
	assert.False(t, ok)

	_, ok = c.DecodeGamePlayed(nil)
	assert.False(t, ok)
}

func TestFilterGamePlayed(t *testing.T) {
	removed := *gamePlayedLog(t, testGame, testPlayer, 100, 1, 2, true)
	removed.Removed = true
	backend := &fakeBackend{logs: []types.Log{
		*gamePlayedLog(t, testGame, testPlayer, 100, 5, 3, true),
		removed,
		{Address: testGame, Topics: []common.Hash{GameABI.Events[gamePlayedEvent].ID}, Data: []byte{1}},
	}}
	c := NewBSCClient(backend, testToken, testGame)

	events, err := c.FilterGamePlayed(context.Background(), 100, 200)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Won)

	assert.Equal(t, []common.Address{testGame}, backend.query.Addresses)
	assert.Equal(t, int64(100), backend.query.FromBlock.Int64())
	assert.Equal(t, int64(200), backend.query.ToBlock.Int64())
}

func TestWaitMined(t *testing.T) {
	hash := common.HexToHash("0xbeef")
	backend := &fakeBackend{
		notFoundLeft: 2,
		receipts:     map[common.Hash]*types.Receipt{hash: {Status: types.ReceiptStatusSuccessful}},
	}
	c := NewBSCClient(backend, testToken, testGame, WithPollInterval(time.Millisecond))

	receipt, err := c.WaitMined(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Zero(t, backend.notFoundLeft)
}

func TestWaitMinedReverted(t *testing.T) {
	hash := common.HexToHash("0xdead")
	backend := &fakeBackend{receipts: map[common.Hash]*types.Receipt{hash: {Status: types.ReceiptStatusFailed}}}
	c := NewBSCClient(backend, testToken, testGame, WithPollInterval(time.Millisecond))

	_, err := c.WaitMined(context.Background(), hash)
	assert.ErrorIs(t, err, ErrReverted)
}

func TestWaitMinedStopsOnContext(t *testing.T) {
	c := NewBSCClient(&fakeBackend{}, testToken, testGame, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.WaitMined(ctx, common.HexToHash("0x01"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitMinedRPCError(t *testing.T) {
	c := NewBSCClient(&fakeBackend{receiptErr: errors.New("connection refused")}, testToken, testGame)

	_, err := c.WaitMined(context.Background(), common.HexToHash("0x01"))
	assert.ErrorContains(t, err, "connection refused")
}

func TestCoinGeckoTokenPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/token_price/binance-smart-chain", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"0xfa4c07636b53d868e514777b9d4005f1e9c6c40b":{"usd":1.5e-05}}`))
	}))
	defer srv.Close()

	price, err := NewCoinGeckoClient(srv.URL).GetTokenUSDPrice(context.Background(), testToken.Hex())
	require.NoError(t, err)
	assert.Equal(t, "0.000015", price.String())

	_, err = NewCoinGeckoClient(srv.URL).GetTokenUSDPrice(context.Background(), testGame.Hex())
	assert.ErrorContains(t, err, "no USD price listed")
}
