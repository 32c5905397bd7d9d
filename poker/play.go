package poker

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/client"
	"github.com/AlexZinkM/bob-poker/internal/common"
	"github.com/AlexZinkM/bob-poker/internal/model"
	"github.com/AlexZinkM/bob-poker/internal/wallet"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	statusConnectWallet = "Connect your wallet!"
	statusInsufficient  = "Insufficient %s balance!"
	statusInProgress    = "Transaction in progress..."
	statusGamePlayed    = "Game played! Check your wallet and history."
	statusErrorPrefix   = "Error: "
	resultOnExplorer    = "Result available in events on BscScan."
	resultWon           = "🎉 You won! Player card: %s - House card: %s"
	resultLost          = "😢 You lost. Player card: %s - House card: %s"
)

// wager is everything a submission needs, captured when it is accepted
type wager struct {
	session *wallet.Session
	chain   *client.BSCClient
	amount  *big.Int
}

// Play submits the fixed wager and waits for the outcome
func (g *Game) Play(ctx context.Context) error {
	w, err := g.beginPlay()
	if err != nil {
		return err
	}
	return g.runPlay(ctx, w)
}

// PlayAsync accepts the wager and submits it in the background. Precondition failures
// are returned immediately and no transaction is sent.
func (g *Game) PlayAsync(ctx context.Context) error {
	w, err := g.beginPlay()
	if err != nil {
		return err
	}
	go g.runPlay(ctx, w)
	return nil
}

func (g *Game) beginPlay() (*wager, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.playing {
		return nil, ErrPlayInProgress
	}
	if g.connecting {
		return nil, ErrConnectInProgress
	}
	if g.session == nil || g.chain == nil {
		g.status = statusConnectWallet
		return nil, ErrNotConnected
	}

	if g.cfg.PlayCooldown > 0 && !g.lastPlay.IsZero() {
		if elapsed := time.Since(g.lastPlay); elapsed < g.cfg.PlayCooldown {
			remaining := g.cfg.PlayCooldown - elapsed
			err := fmt.Errorf("%w, please wait %v", ErrCooldown, remaining.Round(time.Second))
			g.status = statusErrorPrefix + err.Error()
			return nil, err
		}
	}

	amount, err := common.ParseUnits(g.cfg.Wager, g.decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid wager amount: %w", err)
	}
	if g.balance.Cmp(amount) < 0 {
		g.status = fmt.Sprintf(statusInsufficient, g.cfg.Symbol)
		return nil, ErrInsufficientBalance
	}

	g.playing = true
	g.status = statusInProgress
	g.lastResult = ""
	g.outcome = nil

	return &wager{session: g.session, chain: g.chain, amount: amount}, nil
}

func (g *Game) runPlay(ctx context.Context, w *wager) error {
	defer func() {
		g.mu.Lock()
		g.playing = false
		g.mu.Unlock()
	}()

	logger := g.logger.With(
		zap.String("address", w.session.Address.Hex()),
		zap.String("amount", w.amount.String()))

	played, err := g.submit(ctx, w, logger)
	if err != nil {
		logger.Error("wager failed", zap.Error(err))
		g.mu.Lock()
		g.status = statusErrorPrefix + err.Error()
		g.mu.Unlock()
		return err
	}

	result := resultOnExplorer
	var outcome *model.Outcome
	if played != nil {
		outcome = outcomeFromEvent(played, g.decimalsSnapshot())
		if played.Won {
			result = fmt.Sprintf(resultWon, played.PlayerCardID, played.HouseCardID)
		} else {
			result = fmt.Sprintf(resultLost, played.PlayerCardID, played.HouseCardID)
		}
	}

	g.mu.Lock()
	g.status = statusGamePlayed
	g.lastResult = result
	g.outcome = outcome
	g.lastPlay = time.Now()
	g.mu.Unlock()

	logger.Info("game played", zap.String("result", result))

	// A failed read is already reported in the status
	g.RefreshBalance(ctx)
	return nil
}

// submit approves the game contract for the wager, plays it and decodes the outcome
func (g *Game) submit(ctx context.Context, w *wager, logger *zap.Logger) (*client.GamePlayed, error) {
	approveData, err := w.chain.ApproveData(w.chain.GameAddress(), w.amount)
	if err != nil {
		return nil, err
	}
	if _, err := g.sendAndWait(ctx, w, w.chain.TokenAddress(), approveData, "approve", logger); err != nil {
		return nil, err
	}

	playData, err := w.chain.PlayCardData(w.amount)
	if err != nil {
		return nil, err
	}
	receipt, err := g.sendAndWait(ctx, w, w.chain.GameAddress(), playData, "playCard", logger)
	if err != nil {
		return nil, err
	}

	played, ok := w.chain.DecodeGamePlayed(receipt)
	if !ok {
		logger.Warn("no GamePlayed event in receipt", zap.String("tx_hash", receipt.TxHash.Hex()))
		return nil, nil
	}
	return played, nil
}

func (g *Game) sendAndWait(ctx context.Context, w *wager, to ethcommon.Address, data []byte, method string, logger *zap.Logger) (*types.Receipt, error) {
	hash, err := w.session.Signer.SendTransaction(ctx, to, data)
	if err != nil {
		return nil, err
	}
	logger.Info("transaction sent", zap.String("method", method), zap.String("tx_hash", hash.Hex()))

	r, err := w.chain.WaitMined(ctx, hash)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (g *Game) decimalsSnapshot() uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decimals
}

func outcomeFromEvent(e *client.GamePlayed, decimals uint8) *model.Outcome {
	return &model.Outcome{
		Player:       e.Player.Hex(),
		BetAmount:    common.FormatUnits(e.BetAmount, decimals).String(),
		PlayerCardID: e.PlayerCardID.String(),
		HouseCardID:  e.HouseCardID.String(),
		Won:          e.Won,
		TxHash:       e.TxHash.Hex(),
		BlockNumber:  e.BlockNumber,
	}
}
