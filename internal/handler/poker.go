package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/bob-poker/internal/config"
	"github.com/AlexZinkM/bob-poker/internal/model"
	"github.com/AlexZinkM/bob-poker/poker"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PokerHandler serves the game JSON API
type PokerHandler struct {
	game *poker.Game
	// ctx outlives requests; background connects and wagers run under it
	ctx      context.Context
	filePath string
	password func() ([]byte, error)
	logger   *zap.Logger
}

// NewPokerHandler creates a new PokerHandler
func NewPokerHandler(ctx context.Context, game *poker.Game, logger *zap.Logger) *PokerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PokerHandler{
		game:     game,
		ctx:      ctx,
		filePath: config.GetWalletFilePath(),
		password: config.GetWalletPasswordBytes,
		logger:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

// writeGameError maps game precondition errors to HTTP statuses
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, poker.ErrUnknownConnector):
		writeError(w, http.StatusNotFound, "unknown_connector", err)
	case errors.Is(err, poker.ErrNotConnected):
		writeError(w, http.StatusPreconditionFailed, "not_connected", err)
	case errors.Is(err, poker.ErrInsufficientBalance):
		writeError(w, http.StatusPreconditionFailed, "insufficient_balance", err)
	case errors.Is(err, poker.ErrPlayInProgress):
		writeError(w, http.StatusConflict, "play_in_progress", err)
	case errors.Is(err, poker.ErrConnectInProgress):
		writeError(w, http.StatusConflict, "connect_in_progress", err)
	case errors.Is(err, poker.ErrCooldown):
		writeError(w, http.StatusTooManyRequests, "cooldown", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

// GetState handles GET /api/state
// @Summary      Get game state
// @Description  Connection state, address, balance, status message and last result
// @Tags         poker
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Router       /api/state [get]
func (h *PokerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.game.State())
}

// Connect handles POST /api/connect/{connector}
// @Summary      Connect wallet
// @Description  Starts a wallet connection. Poll /api/state for the outcome and the pairing QR code.
// @Tags         poker
// @Produce      json
// @Param        connector  path      string  true  "injected, walletconnect or keyfile"
// @Success      202        {object}  model.StateResponse
// @Failure      404        {object}  model.ErrorResponse
// @Failure      409        {object}  model.ErrorResponse
// @Router       /api/connect/{connector} [post]
func (h *PokerHandler) Connect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "connector")

	if err := h.game.ConnectAsync(h.ctx, name); err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, h.game.State())
}

// RefreshBalance handles POST /api/balance
// @Summary      Refresh balance
// @Description  Re-reads token decimals and the connected account balance
// @Tags         poker
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Failure      412  {object}  model.ErrorResponse
// @Router       /api/balance [post]
func (h *PokerHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	if err := h.game.RefreshBalance(r.Context()); err != nil {
		if errors.Is(err, poker.ErrNotConnected) {
			writeGameError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "balance_read_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, h.game.State())
}

// Play handles POST /api/play
// @Summary      Play a hand
// @Description  Approves and wagers the fixed amount. Poll /api/state for the result.
// @Tags         poker
// @Produce      json
// @Success      202  {object}  model.PlayResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      412  {object}  model.ErrorResponse
// @Failure      429  {object}  model.ErrorResponse
// @Router       /api/play [post]
func (h *PokerHandler) Play(w http.ResponseWriter, r *http.Request) {
	if err := h.game.PlayAsync(h.ctx); err != nil {
		h.logger.Info("wager refused", zap.Error(err))
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, model.PlayResponse{Accepted: true, State: h.game.State()})
}

// History handles GET /api/history
// @Summary      Game history
// @Description  GamePlayed events of the connected player in recent blocks, newest first
// @Tags         poker
// @Produce      json
// @Param        result     query     string   false  "WON or LOST"
// @Param        txHash     query     string   false  "Transaction hash"
// @Param        fromBlock  query     integer  false  "First block to scan"
// @Param        minAmount  query     string   false  "Minimum bet"
// @Param        maxAmount  query     string   false  "Maximum bet"
// @Success      200  {object}  model.HistoryResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /api/history [get]
func (h *PokerHandler) History(w http.ResponseWriter, r *http.Request) {
	var req model.HistoryRequest
	q := r.URL.Query()

	if result := q.Get("result"); result != "" {
		res := model.GameResult(result)
		req.Result = &res
	}
	if txHash := q.Get("txHash"); txHash != "" {
		req.TxHash = &txHash
	}
	if fromStr := q.Get("fromBlock"); fromStr != "" {
		from, err := strconv.ParseUint(fromStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", errors.New("invalid fromBlock: must be a block number"))
			return
		}
		req.FromBlock = &from
	}
	if minAmount := q.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := q.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}

	resp, err := h.game.History(r.Context(), req)
	if err != nil {
		if errors.Is(err, poker.ErrNotConnected) {
			writeGameError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "history_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ContractInfo handles GET /api/contract
// @Summary      Game contract info
// @Description  Addresses, bet limits and owner of the game contract
// @Tags         poker
// @Produce      json
// @Success      200  {object}  model.ContractInfoResponse
// @Router       /api/contract [get]
func (h *PokerHandler) ContractInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.game.ContractInfo(r.Context())
	if err != nil {
		if errors.Is(err, poker.ErrNotConnected) {
			writeGameError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "contract_read_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// GenerateWallet handles POST /api/wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a new BSC key and saves it to the configured .cwt file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /api/wallet/generate [post]
func (h *PokerHandler) GenerateWallet(w http.ResponseWriter, r *http.Request) {
	if h.filePath == "" {
		writeError(w, http.StatusBadRequest, "not_configured", errors.New("WALLET_FILE_PATH not set"))
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := h.password()
	if err != nil {
		writeError(w, http.StatusBadRequest, "password_missing", err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	address, err := poker.GenerateWallet(h.filePath, passwordBytes)
	if err != nil {
		if poker.IsFileExistsError(err) {
			writeError(w, http.StatusConflict, "file_exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	h.logger.Info("wallet generated", zap.String("address", address))

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully",
		Address: address,
	})
}
