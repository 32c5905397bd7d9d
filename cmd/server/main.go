package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/api"
	"github.com/AlexZinkM/bob-poker/internal/client"
	"github.com/AlexZinkM/bob-poker/internal/config"
	"github.com/AlexZinkM/bob-poker/internal/handler"
	"github.com/AlexZinkM/bob-poker/internal/logger"
	"github.com/AlexZinkM/bob-poker/internal/view"
	"github.com/AlexZinkM/bob-poker/internal/wallet"
	"github.com/AlexZinkM/bob-poker/poker"

	"github.com/carlmjohnson/versioninfo"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	version = "0.0.1-src"
	commit  = versioninfo.Short()
)

// @title           Bob Poker API
// @version         1.0
// @description     Wallet connection and fixed-wager play against the BSC poker contract.
// @BasePath        /
func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.Get()

	zl, err := logger.New(config.GetLogLevel())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// Prompt for the key file password before handling requests
	if config.GetWalletFilePath() != "" {
		if err := config.PromptForPassword(); err != nil {
			zl.Fatal("failed to read wallet password", zap.Error(err))
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Error("server exit", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	if !common.IsHexAddress(cfg.TokenAddress) || !common.IsHexAddress(cfg.GameAddress) {
		return errors.New("TOKEN_ADDRESS and GAME_ADDRESS must be hex addresses")
	}

	reader, err := ethclient.DialContext(ctx, config.GetRPCURL())
	if err != nil {
		return fmt.Errorf("failed to connect to BSC: %w", err)
	}
	defer reader.Close()

	relay := wallet.NewRelay(zl.Named("relay"))

	connectors := []wallet.Connector{
		wallet.NewInjectedConnector(cfg.InjectedProviderURL, cfg.ChainID, zl.Named("injected")),
		wallet.NewPairingConnector(wallet.PairingConfig{
			ProjectID: cfg.ProjectID,
			ChainID:   cfg.ChainID,
			RPCMap:    map[int64]string{cfg.ChainID: cfg.RPCURL},
			RelayURL:  cfg.PairingRelayURL,
			Timeout:   cfg.PairingTimeout,
		}, relay, zl.Named("pairing")),
	}
	if path := config.GetWalletFilePath(); path != "" {
		connectors = append(connectors, wallet.NewKeyFileConnector(path, config.GetWalletPasswordBytes,
			cfg.RPCURL, cfg.ChainID, zl.Named("keyfile")))
	}

	opts := []poker.Option{
		poker.WithLogger(zl.Named("poker")),
		poker.WithReadBackend(reader),
	}
	if cfg.PriceEnabled {
		opts = append(opts, poker.WithPriceSource(client.NewCoinGeckoClient(cfg.CoinGeckoURL)))
	}

	game := poker.NewGame(poker.Config{
		TokenAddress:        common.HexToAddress(cfg.TokenAddress),
		GameAddress:         common.HexToAddress(cfg.GameAddress),
		Symbol:              cfg.TokenSymbol,
		Wager:               cfg.WagerAmount,
		ChainID:             config.GetChainID(),
		PlayCooldown:        time.Duration(config.GetPlayCooldown()) * time.Second,
		ReceiptPollInterval: cfg.ReceiptPollInterval,
		ExplorerURL:         cfg.ExplorerURL,
		HistoryBlockRange:   cfg.HistoryBlockRange,
	}, connectors, opts...)
	defer game.Close()

	page := view.Page{
		Symbol:       cfg.TokenSymbol,
		TokenAddress: cfg.TokenAddress,
		GameAddress:  cfg.GameAddress,
		ExplorerURL:  cfg.ExplorerURL,
		Connectors:   view.ButtonsFor(connectors),
	}
	if info, err := game.ContractInfo(ctx); err != nil {
		zl.Warn("failed to read game contract", zap.Error(err))
	} else {
		page.MaxBet = info.MaxBet
	}

	srv := &http.Server{
		Addr: config.GetListenAddr(),
		Handler: api.SetupRouter(api.Handlers{
			Poker:          handler.NewPokerHandler(ctx, game, zl.Named("http")),
			Pairing:        handler.NewPairingHandler(relay),
			Page:           view.Handler(page, game, zl.Named("view")),
			Version:        version,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	zl.Info("bob poker server launched",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("addr", srv.Addr),
		zap.Int64("chain_id", cfg.ChainID))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
