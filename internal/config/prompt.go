package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrPasswordMismatch is returned when the confirmation differs from the first entry
var ErrPasswordMismatch = errors.New("passwords do not match")

// PromptForPassword prompts for a password in the terminal without echo.
// The returned slice is owned by the caller, who must zero it after use.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	password := make([]byte, len(raw))
	copy(password, raw)
	clear(raw)
	return password, nil
}

// PromptForNewPassword asks twice and returns the password when both entries match.
// check runs on the first entry, so policy problems are reported before confirmation.
func PromptForNewPassword(check func([]byte) error) ([]byte, error) {
	password, err := PromptForPassword("Enter new wallet password: ")
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(password); err != nil {
			clear(password)
			return nil, err
		}
	}

	confirm, err := PromptForPassword("Confirm wallet password: ")
	if err != nil {
		clear(password)
		return nil, err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		clear(password)
		return nil, ErrPasswordMismatch
	}
	return password, nil
}

// ReadSecretLine reads one line from r, for mnemonics piped on stdin.
// The trailing newline is dropped and the intermediate buffer is cleared.
func ReadSecretLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		clear(line)
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	trimmed := bytes.TrimSpace(line)
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	clear(line)
	if len(out) == 0 {
		return nil, errors.New("input cannot be empty")
	}
	return out, nil
}

// NormalizeMnemonic lowercases the words and collapses whitespace into a new buffer of at most
// len(mnemonic) bytes, then clears mnemonic. No intermediate string is made.
func NormalizeMnemonic(mnemonic []byte) []byte {
	out := make([]byte, 0, len(mnemonic))
	for _, word := range bytes.Fields(mnemonic) {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		for _, c := range word {
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			out = append(out, c)
		}
	}
	clear(mnemonic)
	return out
}

// PromptForMnemonic reads a mnemonic: hidden when stdin is a terminal, one line otherwise
func PromptForMnemonic() ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := ReadSecretLine(os.Stdin)
		if err != nil {
			return nil, err
		}
		defer clear(raw)
		return NormalizeMnemonic(raw), nil
	}
	raw, err := PromptForPassword("Enter mnemonic phrase: ")
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	return NormalizeMnemonic(raw), nil
}
