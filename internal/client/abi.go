package client

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BEP-20 subset used by the game: balance, precision and allowance
const tokenABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// Poker contract. withdrawHouseBalance is owner-only and never called from here.
const gameABIJSON = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "internalType": "address", "name": "player", "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "betAmount", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "playerCardId", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "houseCardId", "type": "uint256"},
			{"indexed": false, "internalType": "bool", "name": "won", "type": "bool"}
		],
		"name": "GamePlayed",
		"type": "event"
	},
	{"inputs": [], "name": "maxBet", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "minBet", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "owner", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [{"internalType": "uint256", "name": "betAmount", "type": "uint256"}], "name": "playCard", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
	{"inputs": [], "name": "withdrawHouseBalance", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

const gamePlayedEvent = "GamePlayed"

var (
	TokenABI = mustParseABI(tokenABIJSON)
	GameABI  = mustParseABI(gameABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("failed to parse ABI: " + err.Error())
	}
	return parsed
}
