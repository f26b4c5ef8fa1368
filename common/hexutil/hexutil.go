// Package hexutil implements 0x prefixed hex encoding used by the node RPC.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrEmptyString empty hex string
	ErrEmptyString = errors.New("empty hex string")
	// ErrMissingPrefix hex string without 0x prefix
	ErrMissingPrefix = errors.New("hex string without 0x prefix")
	// ErrOddLength hex string of odd length
	ErrOddLength = errors.New("hex string of odd length")
)

// Encode encodes b as a hex string with 0x prefix.
func Encode(b []byte) string {
	enc := make([]byte, len(b)*2+2)
	copy(enc, "0x")
	hex.Encode(enc[2:], b)
	return string(enc)
}

// Decode decodes a hex string with 0x prefix.
func Decode(input string) ([]byte, error) {
	if len(input) == 0 {
		return nil, ErrEmptyString
	}
	if !has0xPrefix(input) {
		return nil, ErrMissingPrefix
	}
	if len(input)%2 != 0 {
		return nil, ErrOddLength
	}
	return hex.DecodeString(input[2:])
}

// MustDecode decodes a hex string with 0x prefix. It panics for invalid input.
func MustDecode(input string) []byte {
	dec, err := Decode(input)
	if err != nil {
		panic("invalid hex string: " + input)
	}
	return dec
}

func has0xPrefix(input string) bool {
	return len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X')
}

// Bytes marshals/unmarshals as a JSON string with 0x prefix.
type Bytes []byte

// MarshalText implements encoding.TextMarshaler
func (b Bytes) MarshalText() ([]byte, error) {
	result := make([]byte, len(b)*2+2)
	copy(result, "0x")
	hex.Encode(result[2:], b)
	return result, nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Bytes) UnmarshalText(input []byte) error {
	dec, err := Decode(string(input))
	if err != nil {
		return fmt.Errorf("unmarshal hex bytes: %w", err)
	}
	*b = dec
	return nil
}

// String implements fmt.Stringer
func (b Bytes) String() string {
	return Encode(b)
}
