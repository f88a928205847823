package mantra

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	// same key as cosmos19rl4cm2hmr8afy4kldpxz3fka4jguq0auqdal4
	testAddress  = "mantra19rl4cm2hmr8afy4kldpxz3fka4jguq0aht8eu0"
)

func TestDeriveAddress(t *testing.T) {
	addr, err := DeriveAddress(testMnemonic, 0)
	require.NoError(t, err)
	require.Equal(t, testAddress, addr)
	require.True(t, strings.HasPrefix(addr, Bech32Prefix+"1"))
	require.Len(t, addr, len(Bech32Prefix)+1+38)
	require.NoError(t, ValidateAddress(addr))

	again, err := DeriveAddress(testMnemonic, 0)
	require.NoError(t, err)
	require.Equal(t, addr, again)

	second, err := DeriveAddress(testMnemonic, 1)
	require.NoError(t, err)
	require.NotEqual(t, addr, second)
}

func TestDeriveAddressInvalidMnemonic(t *testing.T) {
	_, err := DeriveAddress("not a mnemonic", 0)
	require.ErrorIs(t, err, ErrInvalidMnemonic)

	// valid words, bad checksum
	_, err = DeriveAddress(strings.Repeat("abandon ", 11)+"abandon", 0)
	require.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestGenerateWallet(t *testing.T) {
	for _, words := range []int{Words12, Words24} {
		mnemonic, addr, err := GenerateWallet(words)
		require.NoError(t, err)
		require.Len(t, strings.Fields(mnemonic), words)
		require.True(t, ValidateMnemonic(mnemonic))

		derived, err := DeriveAddress(mnemonic, 0)
		require.NoError(t, err)
		require.Equal(t, addr, derived)
	}

	_, _, err := GenerateWallet(15)
	require.Error(t, err)
}

func TestValidateAddress(t *testing.T) {
	addr, err := EncodeAddress(make([]byte, 20))
	require.NoError(t, err)
	require.NoError(t, ValidateAddress(addr))

	_, err = EncodeAddress(make([]byte, 19))
	require.Error(t, err)

	require.Error(t, ValidateAddress("cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqnrql8a"))
	require.Error(t, ValidateAddress("mantra1invalid"))
}

func TestHDPath(t *testing.T) {
	require.Equal(t, "m/44'/118'/0'/0/3", HDPath(3))
}

func TestAddressQRCode(t *testing.T) {
	addr, err := DeriveAddress(testMnemonic, 0)
	require.NoError(t, err)

	png64, err := AddressQRCode(addr)
	require.NoError(t, err)
	png, err := base64.StdEncoding.DecodeString(png64)
	require.NoError(t, err)
	require.Equal(t, "\x89PNG", string(png[:4]))

	text, err := AddressQRText(addr)
	require.NoError(t, err)
	require.Contains(t, text, "█")
}
