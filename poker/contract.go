package poker

import (
	"context"

	"github.com/AlexZinkM/bob-poker/internal/common"
	"github.com/AlexZinkM/bob-poker/internal/model"
)

// ContractInfo reads the game contract limits and owner.
// It uses the wallet's provider when connected and the read backend otherwise.
func (g *Game) ContractInfo(ctx context.Context) (*model.ContractInfoResponse, error) {
	g.mu.Lock()
	chain := g.chain
	decimals := g.decimals
	g.mu.Unlock()

	if chain == nil {
		if g.reader == nil {
			return nil, ErrNotConnected
		}
		chain = g.newChainClient(g.reader)
		if d, err := chain.TokenDecimals(ctx); err == nil {
			decimals = d
		}
	}

	minBet, err := chain.MinBet(ctx)
	if err != nil {
		return nil, err
	}
	maxBet, err := chain.MaxBet(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := chain.Owner(ctx)
	if err != nil {
		return nil, err
	}

	return &model.ContractInfoResponse{
		GameAddress:  chain.GameAddress().Hex(),
		TokenAddress: chain.TokenAddress().Hex(),
		Owner:        owner.Hex(),
		MinBet:       common.FormatUnits(minBet, decimals).String(),
		MaxBet:       common.FormatUnits(maxBet, decimals).String(),
		Symbol:       g.cfg.Symbol,
	}, nil
}
