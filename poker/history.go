package poker

import (
	"cmp"
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/AlexZinkM/bob-poker/internal/client"
	"github.com/AlexZinkM/bob-poker/internal/common"
	"github.com/AlexZinkM/bob-poker/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// History lists the connected player's games found in recent GamePlayed logs.
// Records are newest first.
func (g *Game) History(ctx context.Context, req model.HistoryRequest) (*model.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	chain := g.chain
	session := g.session
	decimals := g.decimals
	g.mu.Unlock()

	if session == nil || chain == nil {
		return nil, ErrNotConnected
	}

	toBlock, err := chain.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	var fromBlock uint64
	if toBlock > g.cfg.HistoryBlockRange {
		fromBlock = toBlock - g.cfg.HistoryBlockRange
	}
	if req.FromBlock != nil {
		if *req.FromBlock > toBlock {
			return nil, fmt.Errorf("fromBlock %d is ahead of the chain head %d", *req.FromBlock, toBlock)
		}
		fromBlock = *req.FromBlock
	}

	events, err := chain.FilterGamePlayed(ctx, fromBlock, toBlock)
	if err != nil {
		return nil, err
	}

	var minAmount, maxAmount *decimal.Decimal
	if req.MinAmount != nil {
		d := decimal.RequireFromString(strings.TrimSpace(*req.MinAmount))
		minAmount = &d
	}
	if req.MaxAmount != nil {
		d := decimal.RequireFromString(strings.TrimSpace(*req.MaxAmount))
		maxAmount = &d
	}

	resp := &model.HistoryResponse{
		Address:   session.Address.Hex(),
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Records:   []model.GameRecord{},
	}
	total := new(big.Int)

	for _, e := range events {
		if e.Player != session.Address {
			continue
		}
		record := recordFromEvent(e, decimals)

		if req.Result != nil && record.Result != *req.Result {
			continue
		}
		if req.TxHash != nil && !strings.EqualFold(record.TxHash, *req.TxHash) {
			continue
		}
		bet := common.FormatUnits(e.BetAmount, decimals)
		if minAmount != nil && bet.LessThan(*minAmount) {
			continue
		}
		if maxAmount != nil && bet.GreaterThan(*maxAmount) {
			continue
		}

		resp.Records = append(resp.Records, record)
		if e.Won {
			resp.Wins++
		} else {
			resp.Losses++
		}
		total.Add(total, e.BetAmount)
	}

	slices.SortFunc(resp.Records, func(a, b model.GameRecord) int {
		if c := cmp.Compare(b.BlockNumber, a.BlockNumber); c != 0 {
			return c
		}
		return cmp.Compare(b.LogIndex, a.LogIndex)
	})

	resp.Games = len(resp.Records)
	resp.TotalBet = common.FormatUnits(total, decimals).String()

	g.logger.Debug("history loaded",
		zap.String("address", resp.Address),
		zap.Uint64("from_block", fromBlock),
		zap.Uint64("to_block", toBlock),
		zap.Int("games", resp.Games))

	return resp, nil
}

func recordFromEvent(e client.GamePlayed, decimals uint8) model.GameRecord {
	result := model.GameResultLost
	if e.Won {
		result = model.GameResultWon
	}
	return model.GameRecord{
		Result:       result,
		TxHash:       e.TxHash.Hex(),
		BetAmount:    common.FormatUnits(e.BetAmount, decimals).String(),
		PlayerCardID: e.PlayerCardID.String(),
		HouseCardID:  e.HouseCardID.String(),
		BlockNumber:  e.BlockNumber,
		LogIndex:     e.LogIndex,
	}
}
