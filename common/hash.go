// Package common defines the fixed-size identifiers shared by all packages.
package common

import (
	"golang.org/x/crypto/blake2b"

	"github.com/polkabridge/substrate-client/common/hexutil"
)

// HashLength is the byte length of a block or content hash
const HashLength = 32

// Hash is a fixed-size block or content identifier
type Hash [HashLength]byte

// BytesToHash sets the last bytes of b to hash
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToHash decodes a 0x prefixed hex string to a hash
func HexToHash(s string) Hash {
	return BytesToHash(hexutil.MustDecode(s))
}

// Bytes returns the hash as a byte slice
func (h Hash) Bytes() []byte {
	return h[:]
}

// Hex returns the 0x prefixed hex representation
func (h Hash) Hex() string {
	return hexutil.Encode(h[:])
}

// String implements fmt.Stringer
func (h Hash) String() string {
	return h.Hex()
}

// MarshalText implements encoding.TextMarshaler
func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler
func (h *Hash) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return err
	}
	*h = BytesToHash(b)
	return nil
}

// Blake2b256 returns the blake2b-256 hash of data
func Blake2b256(data []byte) Hash {
	return Hash(blake2b.Sum256(data))
}
