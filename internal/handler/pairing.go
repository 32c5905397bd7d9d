package handler

import (
	"net/http"

	"github.com/AlexZinkM/bob-poker/internal/wallet"

	"github.com/go-chi/chi/v5"
)

// PairingHandler lets remote wallets join a pairing topic
type PairingHandler struct {
	relay *wallet.Relay
}

// NewPairingHandler creates a new PairingHandler
func NewPairingHandler(relay *wallet.Relay) *PairingHandler {
	return &PairingHandler{relay: relay}
}

// Join handles GET /ws/pair/{topic}
func (h *PairingHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.relay.ServeWS(w, r, chi.URLParam(r, "topic"))
}
