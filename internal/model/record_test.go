package model

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validFile() *WalletFile {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &WalletFile{
		Version:        SchemaVersion,
		ID:             "0b6b1b6e-6a43-4c1e-9b1f-3a2f2b1d0c11",
		Name:           "alice",
		Address:        "mantra1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v",
		CreatedAt:      now,
		LastAccessedAt: now,
		KDF:            KDFParams{Algorithm: KDFArgon2id, Time: 1, Memory: 8 * 1024, Threads: 1},
		Salt:           base64.StdEncoding.EncodeToString(make([]byte, SaltLen)),
		Nonce:          base64.StdEncoding.EncodeToString(make([]byte, NonceLen)),
		CipherText:     base64.StdEncoding.EncodeToString(make([]byte, TagLen+8)),
	}
}

func TestWalletFileRoundTrip(t *testing.T) {
	f := validFile()
	data, err := MarshalWalletFile(f)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "{\n  \"version\": 1,"), "version must be the first field")

	got, err := UnmarshalWalletFile(data)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestUnmarshalSkipsBOM(t *testing.T) {
	data, err := MarshalWalletFile(validFile())
	require.NoError(t, err)

	_, err = UnmarshalWalletFile(append([]byte{0xEF, 0xBB, 0xBF}, data...))
	require.NoError(t, err)
}

func TestUnmarshalRejectsUnknownVersion(t *testing.T) {
	f := validFile()
	f.Version = SchemaVersion + 1
	data, err := MarshalWalletFile(f)
	require.NoError(t, err)

	_, err = UnmarshalWalletFile(data)
	require.True(t, IsFormatError(err))
	require.Contains(t, err.Error(), "unsupported schema version 2")
}

func TestUnmarshalMalformed(t *testing.T) {
	good, err := MarshalWalletFile(validFile())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*WalletFile)
		raw    []byte
		want   string
	}{
		{name: "empty", raw: []byte{}, want: "file is empty"},
		{name: "truncated", raw: good[:len(good)/2], want: "invalid json"},
		{name: "no version", raw: []byte(`{"name":"alice"}`), want: "version: missing"},
		{name: "unknown field", raw: []byte(strings.Replace(string(good), `"id"`, `"extra": 1, "id"`, 1)), want: "unknown field"},
		{name: "trailing", raw: append(append([]byte{}, good...), []byte(`{}`)...), want: "trailing data"},
		{name: "missing name", mutate: func(f *WalletFile) { f.Name = "" }, want: "name: missing"},
		{name: "missing address", mutate: func(f *WalletFile) { f.Address = "" }, want: "address: missing"},
		{name: "short salt", mutate: func(f *WalletFile) { f.Salt = base64.StdEncoding.EncodeToString(make([]byte, 8)) }, want: "salt: expected 16 bytes"},
		{name: "bad nonce", mutate: func(f *WalletFile) { f.Nonce = "!!!" }, want: "nonce: invalid base64"},
		{name: "truncated ciphertext", mutate: func(f *WalletFile) { f.CipherText = base64.StdEncoding.EncodeToString(make([]byte, TagLen)) }, want: "cipherText: truncated"},
		{name: "unknown kdf", mutate: func(f *WalletFile) { f.KDF.Algorithm = "pbkdf2" }, want: "unsupported kdf"},
		{name: "huge kdf memory", mutate: func(f *WalletFile) { f.KDF.Memory = 1 << 30 }, want: "memory"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := tc.raw
			if tc.mutate != nil {
				f := validFile()
				tc.mutate(f)
				var err error
				raw, err = MarshalWalletFile(f)
				require.NoError(t, err)
			}
			_, err := UnmarshalWalletFile(raw)
			require.Error(t, err)
			require.True(t, IsFormatError(err), "expected FormatError, got %T", err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestKDFParamsValidateScrypt(t *testing.T) {
	require.NoError(t, KDFParams{Algorithm: KDFScrypt, N: 1 << 18, R: 8, P: 1}.Validate())
	require.Error(t, KDFParams{Algorithm: KDFScrypt, N: 1000, R: 8, P: 1}.Validate())
	require.Error(t, KDFParams{Algorithm: KDFScrypt, N: 1 << 18, R: 0, P: 1}.Validate())
}
