package model

import (
	"fmt"

	"github.com/AlexZinkM/bob-poker/internal/common"
)

// GameResult game result filter
type GameResult string

const (
	GameResultWon  GameResult = "WON"
	GameResultLost GameResult = "LOST"
)

// GameRecord represents one GamePlayed event of the connected player
type GameRecord struct {
	Result       GameResult `json:"result"`
	TxHash       string     `json:"txHash"`
	BetAmount    string     `json:"betAmount"`
	PlayerCardID string     `json:"playerCardId"`
	HouseCardID  string     `json:"houseCardId"`
	BlockNumber  uint64     `json:"blockNumber"`
	LogIndex     uint       `json:"logIndex"`
}

// HistoryResponse represents response for GET /api/history
type HistoryResponse struct {
	Address   string       `json:"address"`
	FromBlock uint64       `json:"fromBlock"`
	ToBlock   uint64       `json:"toBlock"`
	Games     int          `json:"games"`
	Wins      int          `json:"wins"`
	Losses    int          `json:"losses"`
	TotalBet  string       `json:"totalBet"`
	Records   []GameRecord `json:"records"`
}

// HistoryRequest represents request parameters for GET /api/history
type HistoryRequest struct {
	Result    *GameResult `form:"result"`
	TxHash    *string     `form:"txHash"`
	FromBlock *uint64     `form:"fromBlock"`
	MinAmount *string     `form:"minAmount"`
	MaxAmount *string     `form:"maxAmount"`
}

// Validate validates HistoryRequest filter parameters.
func (r *HistoryRequest) Validate() error {
	if r.Result != nil && *r.Result != GameResultWon && *r.Result != GameResultLost {
		return fmt.Errorf("result must be WON or LOST")
	}
	if r.MinAmount != nil {
		if _, err := common.CompareAmounts(*r.MinAmount, "0"); err != nil {
			return fmt.Errorf("invalid minAmount: %w", err)
		}
	}
	if r.MaxAmount != nil {
		if _, err := common.CompareAmounts(*r.MaxAmount, "0"); err != nil {
			return fmt.Errorf("invalid maxAmount: %w", err)
		}
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareAmounts(*r.MinAmount, *r.MaxAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}
