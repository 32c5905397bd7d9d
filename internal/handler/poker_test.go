package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/bob-poker/internal/model"
	"github.com/AlexZinkM/bob-poker/poker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateWalletFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":"0xabc"}`), 0o600))

	h := &PokerHandler{
		game:     poker.NewGame(poker.Config{Symbol: "Bob4.0", Wager: "100"}, nil),
		ctx:      context.Background(),
		filePath: path,
		password: func() ([]byte, error) { return []byte("pw"), nil },
		logger:   zap.NewNop(),
	}

	rec := httptest.NewRecorder()
	h.GenerateWallet(rec, httptest.NewRequest(http.MethodPost, "/api/wallet/generate", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var errResp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "file_exists", errResp.Code)
}
