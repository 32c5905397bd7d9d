package model

// ConnectionState is the wallet connection lifecycle state
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateFailed       ConnectionState = "failed"
)

// PairingPrompt is the scannable pairing code shown while a remote wallet session is pending
type PairingPrompt struct {
	URI string `json:"uri"`
	QR  string `json:"qr"` // PNG, base64
}

// StateResponse represents response for GET /api/state
type StateResponse struct {
	State       ConnectionState `json:"state"`
	Connector   string          `json:"connector,omitempty"`
	Address     string          `json:"address,omitempty"`
	Symbol      string          `json:"symbol"`
	Balance     string          `json:"balance"`
	Decimals    uint8           `json:"decimals"`
	BalanceUSD  string          `json:"balanceUsd,omitempty"`
	Wager       string          `json:"wager"`
	Status      string          `json:"status,omitempty"`
	LastResult  string          `json:"lastResult,omitempty"`
	Outcome     *Outcome        `json:"outcome,omitempty"`
	InProgress  bool            `json:"inProgress"`
	Pairing     *PairingPrompt  `json:"pairing,omitempty"`
	Connectors  []string        `json:"connectors"`
	ExplorerURL string          `json:"explorerUrl"`
}
