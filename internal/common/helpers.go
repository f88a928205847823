package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	WalletExt     = ".wallet"
	MaxNameLength = 64 // runes
)

// ValidateWalletName checks a user-chosen wallet label
func ValidateWalletName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("wallet name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("wallet name must be valid UTF-8")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("wallet name is %d characters, maximum is %d", n, MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("wallet name cannot contain control characters")
		}
	}
	return nil
}

// WalletFileName maps a wallet name to its file name deterministically.
// Names made of [A-Za-z0-9_-] map to "<name>.wallet". Anything else is replaced by '_'
// and "-" plus 8 hex digits of the name's sha256 is appended. A name that already ends
// in that shape gets the suffix too, so no two names share a file.
// Example: WalletFileName("alice") = "alice.wallet"
func WalletFileName(name string) string {
	var b strings.Builder
	lossy := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
			lossy = true
		}
	}
	if lossy || hasHashSuffix(b.String()) {
		sum := sha256.Sum256([]byte(name))
		b.WriteByte('-')
		b.WriteString(hex.EncodeToString(sum[:4]))
	}
	return b.String() + WalletExt
}

const hashSuffixLen = 1 + 8

func hasHashSuffix(s string) bool {
	if len(s) < hashSuffixLen || s[len(s)-hashSuffixLen] != '-' {
		return false
	}
	for _, c := range s[len(s)-hashSuffixLen+1:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// TruncateAddress shortens an address for list views
// Example: TruncateAddress("mantra1abcdefghijklmnopqrstuvwxyz", 6) = "mantra1abcdef…uvwxyz"
func TruncateAddress(address string, keep int) string {
	if keep <= 0 {
		return address
	}
	prefix := ""
	rest := address
	if i := strings.IndexByte(address, '1'); i > 0 {
		prefix, rest = address[:i+1], address[i+1:]
	}
	if len(rest) <= 2*keep+1 {
		return address
	}
	return prefix + rest[:keep] + "…" + rest[len(rest)-keep:]
}

// FormatTimestamp renders a UTC timestamp for tables, empty for the zero time
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
