package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/mantra-vault/internal/model"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", "/home/tester")
	t.Setenv("MANTRA_VAULT_DIR", "")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/home/tester", DefaultVaultSubdir), c.VaultDir)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, "127.0.0.1:8080", c.ListenAddr)
	require.Equal(t, 3, c.MaxUnlockAttempts)
	require.Equal(t, 30, c.LockoutSeconds)
	require.Equal(t, float64(30), c.LockoutDuration().Seconds())

	params, err := c.KDFParams()
	require.NoError(t, err)
	require.Equal(t, model.KDFArgon2id, params.Algorithm)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MANTRA_VAULT_DIR", "/tmp/vault")
	t.Setenv("MANTRA_MAX_UNLOCK_ATTEMPTS", "5")
	t.Setenv("MANTRA_KDF", "scrypt")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/vault", c.VaultDir)
	require.Equal(t, 5, c.MaxUnlockAttempts)

	params, err := c.KDFParams()
	require.NoError(t, err)
	require.Equal(t, model.KDFScrypt, params.Algorithm)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MANTRA_LISTEN_ADDR=127.0.0.1:9999\n"), 0o600))
	t.Setenv("MANTRA_VAULT_DIR", "/tmp/vault")
	// Unset after the test so the value loaded from .env does not leak.
	t.Setenv("MANTRA_LISTEN_ADDR", "")
	require.NoError(t, os.Unsetenv("MANTRA_LISTEN_ADDR"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", c.ListenAddr)
}

func TestLoadInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MANTRA_VAULT_DIR", "/tmp/vault")

	t.Setenv("MANTRA_KDF", "md5")
	_, err := Load()
	require.ErrorContains(t, err, "unsupported kdf")

	t.Setenv("MANTRA_KDF", "argon2id")
	t.Setenv("MANTRA_LOCKOUT_SECONDS", "0")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("MANTRA_LOCKOUT_SECONDS", "30")
	t.Setenv("MANTRA_MAX_UNLOCK_ATTEMPTS", "many")
	_, err = Load()
	require.Error(t, err)
}

func TestPrefsRoundTrip(t *testing.T) {
	vaultDir := filepath.Join(t.TempDir(), "wallets")
	path := PrefsPath(vaultDir)
	require.Equal(t, filepath.Join(filepath.Dir(vaultDir), PrefsFileName), path)

	p, err := LoadPrefs(path)
	require.NoError(t, err)
	require.Empty(t, p.ActiveWallet)

	require.NoError(t, SavePrefs(path, &Prefs{ActiveWallet: "alice", Output: "json"}))
	p, err = LoadPrefs(path)
	require.NoError(t, err)
	require.Equal(t, "alice", p.ActiveWallet)
	require.Equal(t, "json", p.Output)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "active_wallet: alice")

	require.NoError(t, os.WriteFile(path, []byte("active_wallet: [unclosed\n"), 0o600))
	_, err = LoadPrefs(path)
	require.Error(t, err)
}

func TestReadSecretLine(t *testing.T) {
	line, err := ReadSecretLine(strings.NewReader("  word1 word2  \nignored\n"))
	require.NoError(t, err)
	require.Equal(t, "word1 word2", string(line))

	line, err = ReadSecretLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	require.Equal(t, "no newline", string(line))

	_, err = ReadSecretLine(bytes.NewReader(nil))
	require.Error(t, err)
}

func TestNormalizeMnemonic(t *testing.T) {
	raw := []byte("  Abandon \t ABOUT\n")
	out := NormalizeMnemonic(raw)
	require.Equal(t, "abandon about", string(out))
	require.LessOrEqual(t, cap(out), len(raw))
	require.Equal(t, make([]byte, len(raw)), raw, "input is cleared")

	require.Empty(t, NormalizeMnemonic([]byte(" \n\t")))
}
