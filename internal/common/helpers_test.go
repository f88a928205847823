package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateWalletName(t *testing.T) {
	require.NoError(t, ValidateWalletName("alice"))
	require.NoError(t, ValidateWalletName("trading wallet #2"))
	require.Error(t, ValidateWalletName(""))
	require.Error(t, ValidateWalletName("   "))
	require.Error(t, ValidateWalletName("bad\nname"))
	require.Error(t, ValidateWalletName(strings.Repeat("a", MaxNameLength+1)))
}

func TestWalletFileName(t *testing.T) {
	require.Equal(t, "alice.wallet", WalletFileName("alice"))
	require.Equal(t, "Bob_2-x.wallet", WalletFileName("Bob_2-x"))

	spaced := WalletFileName("my wallet")
	underscored := WalletFileName("my_wallet")
	require.NotEqual(t, spaced, underscored)
	require.True(t, strings.HasPrefix(spaced, "my_wallet-"))
	require.Equal(t, spaced, WalletFileName("my wallet"), "mapping must be deterministic")

	// A literal name shaped like a suffixed one must not take its file.
	lookalike := strings.TrimSuffix(spaced, WalletExt)
	require.NotEqual(t, spaced, WalletFileName(lookalike))
	require.True(t, strings.HasPrefix(WalletFileName(lookalike), lookalike+"-"))
	require.Equal(t, "wallet-0123abcz.wallet", WalletFileName("wallet-0123abcz"))
	require.Equal(t, "wallet-0123abc.wallet", WalletFileName("wallet-0123abc"))

	traversal := WalletFileName("../../etc/passwd")
	require.NotContains(t, traversal, "/")
	require.NotContains(t, traversal, "..")
}

func TestTruncateAddress(t *testing.T) {
	addr := "mantra1abcdefghijklmnopqrstuvwxyz"
	require.Equal(t, "mantra1abcdef…uvwxyz", TruncateAddress(addr, 6))
	require.Equal(t, "mantra1abc", TruncateAddress("mantra1abc", 6))
	require.Equal(t, addr, TruncateAddress(addr, 0))
}

func TestFormatTimestamp(t *testing.T) {
	require.Equal(t, "never", FormatTimestamp(time.Time{}))
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, "2025-01-02 03:04:05 UTC", FormatTimestamp(ts))
}
