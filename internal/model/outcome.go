package model

// Outcome is the decoded GamePlayed event of a finished wager
type Outcome struct {
	Player       string `json:"player"`
	BetAmount    string `json:"betAmount"`
	PlayerCardID string `json:"playerCardId"`
	HouseCardID  string `json:"houseCardId"`
	Won          bool   `json:"won"`
	TxHash       string `json:"txHash"`
	BlockNumber  uint64 `json:"blockNumber"`
}

// PlayResponse represents response for POST /api/play
type PlayResponse struct {
	Accepted bool          `json:"accepted"`
	State    StateResponse `json:"state"`
}
