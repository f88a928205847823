package crypto

import (
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
)

const redacted = "[REDACTED]"

// Secret holds sensitive bytes (a mnemonic) in locked, guarded memory.
// Call Destroy as soon as the value is no longer needed.
type Secret struct {
	buf *memguard.LockedBuffer
}

// NewSecret moves b into a locked buffer. b is wiped before NewSecret returns.
func NewSecret(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

// Bytes returns the protected bytes. The slice aliases locked memory and is invalid
// after Destroy; do not retain it.
func (s *Secret) Bytes() []byte {
	if s == nil || s.buf == nil {
		return nil
	}
	return s.buf.Bytes()
}

// Reveal returns the secret as a string for APIs that only accept strings
// (BIP39 libraries). The copy cannot be wiped, keep its lifetime short.
func (s *Secret) Reveal() string {
	return string(s.Bytes())
}

// Len returns the size of the secret in bytes
func (s *Secret) Len() int {
	return len(s.Bytes())
}

// Destroy wipes and releases the locked buffer. Safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil || s.buf == nil {
		return
	}
	s.buf.Destroy()
}

func (s *Secret) String() string {
	return redacted
}

func (s *Secret) GoString() string {
	return redacted
}

// Format keeps the secret out of every fmt verb, %x and %q included
func (s *Secret) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redacted))
}

// MarshalJSON refuses to serialize the secret
func (s *Secret) MarshalJSON() ([]byte, error) {
	return nil, errors.New("secret cannot be marshaled")
}

// Wipe zeroes b
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
