package poker

import (
	"context"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/bob-poker/internal/common"

	"go.uber.org/zap"
)

// RefreshBalance reads the token precision and the connected account's balance.
// On failure the previous balance is kept and the error is shown in the status.
func (g *Game) RefreshBalance(ctx context.Context) error {
	g.mu.Lock()
	chain := g.chain
	session := g.session
	g.mu.Unlock()

	if session == nil || chain == nil {
		return ErrNotConnected
	}

	decimals, err := chain.TokenDecimals(ctx)
	if err == nil {
		g.mu.Lock()
		g.decimals = decimals
		g.mu.Unlock()
	}

	var raw *big.Int
	if err == nil {
		raw, err = chain.TokenBalance(ctx, session.Address)
	}
	if err != nil {
		g.logger.Warn("failed to read balance",
			zap.String("address", session.Address.Hex()),
			zap.Error(err))

		g.mu.Lock()
		g.status = "Error reading balance: " + err.Error()
		g.mu.Unlock()
		return err
	}

	human := common.FormatUnits(raw, decimals)

	usd := ""
	if g.price != nil {
		price, err := g.price.GetTokenUSDPrice(ctx, chain.TokenAddress().Hex())
		if err != nil {
			g.logger.Debug("token price unavailable", zap.Error(err))
		} else {
			usd = human.Mul(price).StringFixed(2)
		}
	}

	g.mu.Lock()
	// a reconnect may have replaced the session while the read was in flight
	if g.session == session {
		g.balance = raw
		g.balanceUSD = usd
	}
	g.mu.Unlock()

	g.logger.Info("balance updated",
		zap.String("address", session.Address.Hex()),
		zap.String("balance", fmt.Sprintf("%s %s", human.String(), g.cfg.Symbol)))
	return nil
}
