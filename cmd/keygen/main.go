// Generates a new BSC key file (.cwt) for the local wallet connector, or prints the address of an existing one.
// Usage: go run ./cmd/keygen -out wallet.cwt
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/bob-poker/internal/crypto"
	"github.com/AlexZinkM/bob-poker/poker"

	"golang.org/x/term"
)

func main() {
	out := flag.String("out", "wallet.cwt", "key file path (.cwt)")
	show := flag.Bool("show", false, "print the address stored in -out and exit")
	flag.Parse()

	if *show {
		address, err := crypto.ReadWalletAddress(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(address)
		return
	}

	password, err := readNewPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(password)

	address, err := poker.GenerateWallet(*out, password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wallet %s written to %s\n", address, *out)
}

// readNewPassword asks twice without echo
func readNewPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal: run keygen interactively to enter password")
	}

	fmt.Fprint(os.Stderr, "New wallet password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(first) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	defer clear(second)
	if err != nil {
		clear(first)
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if !bytes.Equal(first, second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}
