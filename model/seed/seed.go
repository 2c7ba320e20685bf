// Package seed defines the 256-bit seed value every generated glyph derives from.
package seed

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"
	"strings"
)

// Size is the seed width in bytes.
const Size = 32

// Seed is a 256-bit unsigned value in big-endian byte order. The zero value
// is the number zero.
type Seed [Size]byte

// FromUint64 returns a seed holding v.
func FromUint64(v uint64) Seed {
	var s Seed
	binary.BigEndian.PutUint64(s[Size-8:], v)
	return s
}

// FromBytes builds a seed from exactly Size bytes.
func FromBytes(data []byte) (Seed, error) {
	var s Seed
	if len(data) != Size {
		return s, fmt.Errorf("seed: expected %d bytes, had %d", Size, len(data))
	}
	copy(s[:], data)
	return s, nil
}

// FromHex parses a hex literal, with or without 0x prefix. Shorter literals
// are left padded, so "0x2a" and "2a" both decode to 42.
func FromHex(text string) (Seed, error) {
	var s Seed
	raw := strings.TrimPrefix(strings.TrimSpace(text), "0x")
	if raw == "" {
		return s, fmt.Errorf("seed: empty hex literal")
	}
	if len(raw) > 2*Size {
		return s, fmt.Errorf("seed: hex literal exceeds %d bytes", Size)
	}
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	data, err := hex.DecodeString(raw)
	if err != nil {
		return s, fmt.Errorf("seed: invalid hex literal: %w", err)
	}
	copy(s[Size-len(data):], data)
	return s, nil
}

// Random draws a seed from the supplied entropy source.
func Random(source io.Reader) (Seed, error) {
	var s Seed
	if _, err := io.ReadFull(source, s[:]); err != nil {
		return s, fmt.Errorf("seed: failed to read entropy: %w", err)
	}
	return s, nil
}

// Mod reduces the seed, read as a 256-bit big-endian integer, modulo n.
// n has to be positive.
func (s Seed) Mod(n uint64) uint64 {
	var r uint64
	for _, b := range s {
		hi, lo := bits.Mul64(r, 256)
		lo, carry := bits.Add64(lo, uint64(b), 0)
		hi += carry
		if hi >= n {
			hi %= n
		}
		_, r = bits.Div64(hi, lo, n)
	}
	return r
}

// IsZero reports whether the seed is the number zero.
func (s Seed) IsZero() bool {
	return s == Seed{}
}

// Bytes returns a copy of the seed bytes.
func (s Seed) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, s[:])
	return out
}

// String renders the canonical 0x-prefixed, zero-padded hex form.
func (s Seed) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting any FromHex form.
func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
