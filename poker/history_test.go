package poker

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/bob-poker/internal/crypto"
	"github.com/AlexZinkM/bob-poker/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyLog(t *testing.T, player ethcommon.Address, bet int64, won bool, block uint64, index uint) types.Log {
	t.Helper()
	lg := gamePlayedLog(t, gameAddr, player, tokens(bet), 1, 2, won)
	lg.BlockNumber = block
	lg.Index = index
	lg.TxHash = ethcommon.BigToHash(new(big.Int).SetUint64(block*10 + uint64(index)))
	return *lg
}

func TestHistory(t *testing.T) {
	g, c, _ := connectedGame(t, tokens(100), testConfig())
	c.head = 10_000
	c.logs = []types.Log{
		historyLog(t, playerAddr, 100, true, 9_100, 0),
		historyLog(t, otherAddr, 100, true, 9_200, 0),
		historyLog(t, playerAddr, 100, false, 9_300, 1),
		historyLog(t, playerAddr, 500, false, 9_300, 4),
	}

	resp, err := g.History(context.Background(), model.HistoryRequest{})
	require.NoError(t, err)

	assert.Equal(t, playerAddr.Hex(), resp.Address)
	assert.Equal(t, uint64(5_000), resp.FromBlock)
	assert.Equal(t, uint64(10_000), resp.ToBlock)
	assert.Equal(t, 3, resp.Games)
	assert.Equal(t, 1, resp.Wins)
	assert.Equal(t, 2, resp.Losses)
	assert.Equal(t, "700", resp.TotalBet)

	// newest first
	require.Len(t, resp.Records, 3)
	assert.Equal(t, uint(4), resp.Records[0].LogIndex)
	assert.Equal(t, uint(1), resp.Records[1].LogIndex)
	assert.Equal(t, uint64(9_100), resp.Records[2].BlockNumber)
	assert.Equal(t, model.GameResultWon, resp.Records[2].Result)
}

func TestHistoryFilters(t *testing.T) {
	g, c, _ := connectedGame(t, tokens(100), testConfig())
	c.head = 100
	c.logs = []types.Log{
		historyLog(t, playerAddr, 100, true, 10, 0),
		historyLog(t, playerAddr, 100, false, 20, 0),
		historyLog(t, playerAddr, 500, false, 30, 0),
	}

	lost := model.GameResultLost
	resp, err := g.History(context.Background(), model.HistoryRequest{Result: &lost})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Games)
	assert.Zero(t, resp.FromBlock)

	maxAmount := "200"
	resp, err = g.History(context.Background(), model.HistoryRequest{Result: &lost, MaxAmount: &maxAmount})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Games)
	assert.Equal(t, uint64(20), resp.Records[0].BlockNumber)

	txHash := resp.Records[0].TxHash
	resp, err = g.History(context.Background(), model.HistoryRequest{TxHash: &txHash})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Games)

	from := uint64(500)
	_, err = g.History(context.Background(), model.HistoryRequest{FromBlock: &from})
	assert.ErrorContains(t, err, "ahead of the chain head")

	bad := model.GameResult("DRAW")
	_, err = g.History(context.Background(), model.HistoryRequest{Result: &bad})
	assert.Error(t, err)
}

func TestHistoryNotConnected(t *testing.T) {
	_, err := NewGame(testConfig(), nil).History(context.Background(), model.HistoryRequest{})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestContractInfo(t *testing.T) {
	_, err := NewGame(testConfig(), nil).ContractInfo(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	g := NewGame(testConfig(), nil, WithReadBackend(newChain(tokens(0))))
	info, err := g.ContractInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, gameAddr.Hex(), info.GameAddress)
	assert.Equal(t, tokenAddr.Hex(), info.TokenAddress)
	assert.Equal(t, otherAddr.Hex(), info.Owner)
	assert.Equal(t, "10", info.MinBet)
	assert.Equal(t, "1000", info.MaxBet)
	assert.Equal(t, "Bob4.0", info.Symbol)
}

func TestGenerateWallet(t *testing.T) {
	_, err := GenerateWallet(filepath.Join(t.TempDir(), "wallet.txt"), []byte("pw"))
	assert.ErrorContains(t, err, ".cwt extension")

	if testing.Short() {
		t.Skip("full-strength scrypt")
	}

	path := filepath.Join(t.TempDir(), "wallet.cwt")
	address, err := GenerateWallet(path, []byte("pw"))
	require.NoError(t, err)
	assert.True(t, ethcommon.IsHexAddress(address))

	stored, err := crypto.ReadWalletAddress(path)
	require.NoError(t, err)
	assert.Equal(t, address, stored)

	_, err = GenerateWallet(path, []byte("pw"))
	assert.True(t, IsFileExistsError(err))
}
