package substrate

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/xxHash/xxHash64"
	"golang.org/x/crypto/blake2b"

	"github.com/polkabridge/substrate-client/common/hexutil"
)

// HasherKind selects how an encoded key argument maps into a storage
// key segment. Concat kinds keep the argument recoverable from the key.
type HasherKind int

// supported hasher kinds
const (
	// HasherBlake2_128Concat blake2b-128 of the argument followed by
	// the argument bytes
	HasherBlake2_128Concat HasherKind = iota
	// HasherBlake2_256 fixed length hash, argument not recoverable
	HasherBlake2_256
	// HasherTwox64Concat xxhash64 of the argument followed by the
	// argument bytes
	HasherTwox64Concat
	// HasherTwox128 fixed length hash, argument not recoverable
	HasherTwox128
	// HasherIdentity the argument bytes unmodified
	HasherIdentity
)

// StorageKey is a derived raw storage key
type StorageKey []byte

// Hex returns the 0x prefixed hex representation
func (k StorageKey) Hex() string {
	return hexutil.Encode(k)
}

// StorageEntry identifies one storage location: a pallet, an entry and
// the encoded key arguments of a map entry. It only ever serves to
// derive a key and is never persisted.
type StorageEntry struct {
	Pallet  string
	Entry   string
	KeyArgs [][]byte
}

// deriveKey derives the full storage key of entry. Identical
// pallet/entry/args always produce identical bytes; segment order
// follows argument order.
func deriveKey(entry StorageEntry, meta StorageMeta) (StorageKey, error) {
	if len(entry.KeyArgs) != len(meta.Hashers) {
		return nil, fmt.Errorf("%w: %v.%v needs %v args, got %v",
			ErrWrongKeyArgs, entry.Pallet, entry.Entry, len(meta.Hashers), len(entry.KeyArgs))
	}
	key := derivePrefix(entry.Pallet, entry.Entry)
	for i, arg := range entry.KeyArgs {
		segment, err := hashSegment(meta.Hashers[i], arg)
		if err != nil {
			return nil, err
		}
		key = append(key, segment...)
	}
	return key, nil
}

// derivePrefix derives the key prefix shared by all entries of a map
func derivePrefix(pallet, entry string) StorageKey {
	key := make(StorageKey, 0, 32)
	key = append(key, twox128([]byte(pallet))...)
	key = append(key, twox128([]byte(entry))...)
	return key
}

func hashSegment(kind HasherKind, arg []byte) ([]byte, error) {
	switch kind {
	case HasherBlake2_128Concat:
		return append(blake2b128(arg), arg...), nil
	case HasherBlake2_256:
		sum := blake2b.Sum256(arg)
		return sum[:], nil
	case HasherTwox64Concat:
		return append(twox64(arg), arg...), nil
	case HasherTwox128:
		return twox128(arg), nil
	case HasherIdentity:
		return arg, nil
	default:
		return nil, fmt.Errorf("unsupported hasher kind %v", kind)
	}
}

// twox128 is the concatenation of two seeded xxhash64 runs
func twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[:8], xxHash64.Checksum(data, 0))
	binary.LittleEndian.PutUint64(out[8:], xxHash64.Checksum(data, 1))
	return out
}

func twox64(data []byte) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, xxHash64.Checksum(data, 0))
	return out
}

func blake2b128(data []byte) []byte {
	hasher, err := blake2b.New(16, nil)
	if err != nil {
		panic(err) // only fails for an oversized key
	}
	_, _ = hasher.Write(data)
	return hasher.Sum(nil)
}
