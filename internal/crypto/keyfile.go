package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/bob-poker/internal/model"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for the local key file.
//
// N=2^18 (~256MB RAM, 0.5-2s) keeps brute force expensive while still fitting
// the per-app memory limit of mobile devices. N is a variable only so tests can lower it.
var scryptN = 1 << 18

const (
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

var (
	// ErrInvalidPassword is returned when the file cannot be opened with the given password
	ErrInvalidPassword = errors.New("invalid password")
	// ErrFileExists is returned when a key file would overwrite a non-empty file
	ErrFileExists = errors.New("file is not empty")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newGCM derives the AES-GCM cipher for password and salt
func newGCM(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// readCWT reads and parses the .cwt envelope without decrypting it
func readCWT(filePath string) (*model.CWTFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == utf8BOM[0] && fileData[1] == utf8BOM[1] && fileData[2] == utf8BOM[2] {
		fileData = fileData[3:]
	}

	var cwtFile model.CWTFile
	if err := json.Unmarshal(fileData, &cwtFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cwt file: %w", err)
	}
	return &cwtFile, nil
}

// ReadWalletAddress reads only the address from .cwt file (without decryption)
func ReadWalletAddress(filePath string) (string, error) {
	cwtFile, err := readCWT(filePath)
	if err != nil {
		return "", err
	}
	if cwtFile.Address == "" {
		return "", errors.New("wallet file has no address")
	}
	return cwtFile.Address, nil
}
