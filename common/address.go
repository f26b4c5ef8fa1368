package common

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// AddressLength is the byte length of an account identifier
const AddressLength = 32

// ss58Prelude is hashed before the payload when computing the address checksum
var ss58Prelude = []byte("SS58PRE")

var (
	// ErrInvalidAddress address cannot be decoded
	ErrInvalidAddress = errors.New("invalid ss58 address")
	// ErrAddressChecksum address checksum mismatch
	ErrAddressChecksum = errors.New("ss58 address checksum mismatch")
)

// AccountID is the raw 32 byte account identifier (sr25519/ed25519 public key)
type AccountID [AddressLength]byte

// BytesToAccountID converts b to an account id, left padding short input
func BytesToAccountID(b []byte) AccountID {
	var a AccountID
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns the account id as a byte slice
func (a AccountID) Bytes() []byte {
	return a[:]
}

// ToAddress returns the ss58 representation under the given network prefix.
// Only single byte network prefixes (0..63) are supported.
func (a AccountID) ToAddress(networkPrefix uint8) string {
	payload := make([]byte, 0, 1+AddressLength+2)
	payload = append(payload, networkPrefix)
	payload = append(payload, a[:]...)
	checksum := ss58Checksum(payload)
	payload = append(payload, checksum[:2]...)
	return base58.Encode(payload)
}

// DecodeAddress decodes an ss58 address and verifies its checksum,
// returning the account id and the network prefix.
func DecodeAddress(address string) (AccountID, uint8, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return AccountID{}, 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != 1+AddressLength+2 {
		return AccountID{}, 0, fmt.Errorf("%w: wrong length %v", ErrInvalidAddress, len(raw))
	}
	payload := raw[:len(raw)-2]
	checksum := ss58Checksum(payload)
	if !bytes.Equal(checksum[:2], raw[len(raw)-2:]) {
		return AccountID{}, 0, ErrAddressChecksum
	}
	return BytesToAccountID(payload[1:]), payload[0], nil
}

// IsValidAddress returns whether address is a decodable ss58 address
func IsValidAddress(address string) bool {
	_, _, err := DecodeAddress(address)
	return err == nil
}

func ss58Checksum(payload []byte) [64]byte {
	return blake2b.Sum512(append(append([]byte{}, ss58Prelude...), payload...))
}
