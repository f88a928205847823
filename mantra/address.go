package mantra

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

const (
	// Bech32Prefix is the human readable part of Mantra account addresses
	Bech32Prefix = "mantra"

	// BIP44 path m/44'/118'/0'/0/{index}, the Cosmos coin type
	bip44Purpose = 44
	cosmosCoin   = 118
	hdAccount    = 0
	hdChange     = 0
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// HDPath returns the derivation path used for the given address index
func HDPath(index uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", bip44Purpose, cosmosCoin, hdAccount, hdChange, index)
}

// DeriveAddress derives the bech32 account address for a BIP39 mnemonic at the given index.
// The signing key itself never leaves this function.
func DeriveAddress(mnemonic string, index uint32) (string, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return "", fmt.Errorf("failed to derive seed: %w", err)
	}
	defer clear(seed)

	// Only the HD derivation algorithm is used from the chain params, the version bytes
	// never appear in the output.
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return "", fmt.Errorf("failed to create master key: %w", err)
	}
	defer master.Zero()

	key := master
	for _, child := range []uint32{
		hdkeychain.HardenedKeyStart + bip44Purpose,
		hdkeychain.HardenedKeyStart + cosmosCoin,
		hdkeychain.HardenedKeyStart + hdAccount,
		hdChange,
		index,
	} {
		next, err := key.Derive(child)
		if err != nil {
			return "", fmt.Errorf("failed to derive %s: %w", HDPath(index), err)
		}
		if key != master {
			key.Zero()
		}
		key = next
	}
	defer key.Zero()

	pubKey, err := key.ECPubKey()
	if err != nil {
		return "", fmt.Errorf("failed to get public key: %w", err)
	}

	return EncodeAddress(btcutil.Hash160(pubKey.SerializeCompressed()))
}

// EncodeAddress bech32-encodes a 20 byte account hash with the mantra prefix
func EncodeAddress(hash []byte) (string, error) {
	if len(hash) != 20 {
		return "", fmt.Errorf("account hash must be 20 bytes, got %d", len(hash))
	}
	conv, err := bech32.ConvertBits(hash, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address bits: %w", err)
	}
	return bech32.Encode(Bech32Prefix, conv)
}

// ValidateAddress checks that address is a bech32 mantra account address
func ValidateAddress(address string) error {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return fmt.Errorf("invalid bech32 address: %w", err)
	}
	if hrp != Bech32Prefix {
		return fmt.Errorf("address prefix %q, expected %q", hrp, Bech32Prefix)
	}
	hash, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return fmt.Errorf("invalid address payload: %w", err)
	}
	if len(hash) != 20 {
		return fmt.Errorf("address payload is %d bytes, expected 20", len(hash))
	}
	return nil
}
