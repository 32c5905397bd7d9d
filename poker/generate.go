package poker

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/crypto"
	"github.com/AlexZinkM/bob-poker/internal/model"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/skip2/go-qrcode"
)

const (
	networkBSC = "bsc"
)

// IsFileExistsError checks if err means the key file already holds a wallet
func IsFileExistsError(err error) bool {
	return errors.Is(err, crypto.ErrFileExists)
}

// GenerateWallet generates a new BSC account and saves it to a .cwt file.
// Returns the generated address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath string, password []byte) (address string, err error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	defer key.D.SetInt64(0)

	address = ethcrypto.PubkeyToAddress(key.PublicKey).Hex()

	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	// PrivateKey is stored as []byte (base64 in JSON)
	walletData := &model.WalletData{
		PrivateKey: ethcrypto.FromECDSA(key),
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	defer clear(walletData.PrivateKey)

	if err := crypto.EncryptWallet(filePath, networkBSC, address, qrCode, walletData, password); err != nil {
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return address, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	png, err := qrcode.Encode(address, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
