package mantra

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

const (
	Words12 = 12
	Words24 = 24
)

// GenerateMnemonic creates a new BIP39 mnemonic of 12 or 24 words
func GenerateMnemonic(words int) (string, error) {
	var bits int
	switch words {
	case Words12:
		bits = 128
	case Words24:
		bits = 256
	default:
		return "", fmt.Errorf("mnemonic must have %d or %d words", Words12, Words24)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks words and checksum of a BIP39 mnemonic
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// GenerateWallet creates a fresh mnemonic and the address of its first account.
func GenerateWallet(words int) (mnemonic, address string, err error) {
	mnemonic, err = GenerateMnemonic(words)
	if err != nil {
		return "", "", err
	}
	address, err = DeriveAddress(mnemonic, 0)
	if err != nil {
		return "", "", err
	}
	return mnemonic, address, nil
}
