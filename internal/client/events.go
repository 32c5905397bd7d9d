package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// GamePlayed is a decoded GamePlayed log with its position on chain
type GamePlayed struct {
	Player       common.Address
	BetAmount    *big.Int
	PlayerCardID *big.Int
	HouseCardID  *big.Int
	Won          bool

	TxHash      common.Hash
	BlockNumber uint64
	LogIndex    uint
}

// gamePlayedData mirrors the non-indexed event arguments
type gamePlayedData struct {
	Player       common.Address `abi:"player"`
	BetAmount    *big.Int       `abi:"betAmount"`
	PlayerCardID *big.Int       `abi:"playerCardId"`
	HouseCardID  *big.Int       `abi:"houseCardId"`
	Won          bool           `abi:"won"`
}

// UnpackGamePlayed decodes a single log emitted by the game contract.
func (c *BSCClient) UnpackGamePlayed(lg types.Log) (*GamePlayed, error) {
	event := GameABI.Events[gamePlayedEvent]

	if lg.Address != c.gameAddress {
		return nil, fmt.Errorf("log emitted by %s, not the game contract", lg.Address.Hex())
	}
	if len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
		return nil, errors.New("log is not a GamePlayed event")
	}

	var data gamePlayedData
	if err := GameABI.UnpackIntoInterface(&data, gamePlayedEvent, lg.Data); err != nil {
		return nil, fmt.Errorf("failed to unpack GamePlayed: %w", err)
	}

	return &GamePlayed{
		Player:       data.Player,
		BetAmount:    data.BetAmount,
		PlayerCardID: data.PlayerCardID,
		HouseCardID:  data.HouseCardID,
		Won:          data.Won,
		TxHash:       lg.TxHash,
		BlockNumber:  lg.BlockNumber,
		LogIndex:     lg.Index,
	}, nil
}

// DecodeGamePlayed scans the receipt logs and returns the first GamePlayed event.
// Logs from other contracts or events are expected and skipped silently.
func (c *BSCClient) DecodeGamePlayed(receipt *types.Receipt) (*GamePlayed, bool) {
	if receipt == nil {
		return nil, false
	}

	for _, lg := range receipt.Logs {
		if lg == nil {
			continue
		}
		played, err := c.UnpackGamePlayed(*lg)
		if err != nil {
			continue
		}
		return played, true
	}
	return nil, false
}

// FilterGamePlayed returns every GamePlayed event of the game contract in [fromBlock, toBlock].
func (c *BSCClient) FilterGamePlayed(ctx context.Context, fromBlock, toBlock uint64) ([]GamePlayed, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.gameAddress},
		Topics:    [][]common.Hash{{GameABI.Events[gamePlayedEvent].ID}},
	}

	logs, err := c.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to filter logs: %w", err)
	}

	events := make([]GamePlayed, 0, len(logs))
	for _, lg := range logs {
		if lg.Removed {
			continue
		}
		played, err := c.UnpackGamePlayed(lg)
		if err != nil {
			c.logger.Warn("skipping undecodable GamePlayed log",
				zap.String("tx_hash", lg.TxHash.Hex()),
				zap.Uint("log_index", lg.Index),
				zap.Error(err))
			continue
		}
		events = append(events, *played)
	}

	return events, nil
}
