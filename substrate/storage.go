package substrate

import (
	"context"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/log"
)

// DeriveStorageKey derives the full key of entry against the registered
// storage metadata. Derivation is deterministic: equal descriptors
// always yield equal bytes.
func (b *Bridge) DeriveStorageKey(entry StorageEntry) (StorageKey, error) {
	meta, err := b.metadata.Storage(entry.Pallet, entry.Entry)
	if err != nil {
		return nil, err
	}
	return deriveKey(entry, meta)
}

// FetchStorage returns the raw value stored under entry at the given
// block, or at the current best block when at is nil. An absent value
// is a nil result, not an error.
func (b *Bridge) FetchStorage(ctx context.Context, entry StorageEntry, at *common.Hash) ([]byte, error) {
	key, err := b.DeriveStorageKey(entry)
	if err != nil {
		return nil, err
	}
	value, err := b.gateway.StorageGet(ctx, []byte(key), at)
	if err != nil {
		return nil, err
	}
	log.Trace("fetched storage",
		"pallet", entry.Pallet, "entry", entry.Entry, "key", key.Hex(), "absent", value == nil)
	return value, nil
}

// FetchStorageKeys enumerates up to count keys under the entry's prefix
// in byte-lexicographic order. A non nil startKey resumes after it,
// giving cursor pagination: pages are exhausted once an empty page
// returns. count bounds a single protocol round trip.
func (b *Bridge) FetchStorageKeys(ctx context.Context, entry StorageEntry, count uint32, startKey StorageKey, at *common.Hash) ([]StorageKey, error) {
	if _, err := b.metadata.Storage(entry.Pallet, entry.Entry); err != nil {
		return nil, err
	}
	prefix := derivePrefix(entry.Pallet, entry.Entry)
	raw, err := b.gateway.StorageKeysPaged(ctx, []byte(prefix), count, []byte(startKey), at)
	if err != nil {
		return nil, err
	}
	keys := make([]StorageKey, len(raw))
	for i, k := range raw {
		keys[i] = StorageKey(k)
	}
	return keys, nil
}
