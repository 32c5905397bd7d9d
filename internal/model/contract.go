package model

// ContractInfoResponse represents response for GET /api/contract
type ContractInfoResponse struct {
	GameAddress  string `json:"gameAddress"`
	TokenAddress string `json:"tokenAddress"`
	Owner        string `json:"owner"`
	MinBet       string `json:"minBet"`
	MaxBet       string `json:"maxBet"`
	Symbol       string `json:"symbol"`
}
