package substrate

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polkabridge/substrate-client/common/hexutil"
)

func TestFetchStorage(t *testing.T) {
	gateway := &fakeGateway{storage: map[string]hexutil.Bytes{}}
	bridge := NewBridge(gateway)

	entry := ContractInfoOf(testAccount(5))
	key, err := bridge.DeriveStorageKey(entry)
	assert.Nil(t, err)
	gateway.storage[key.Hex()] = hexutil.MustDecode("0x01020304")

	value, err := bridge.FetchStorage(context.Background(), entry, nil)
	assert.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, value)
}

func TestFetchStorageAbsent(t *testing.T) {
	bridge := NewBridge(&fakeGateway{})

	// an absent value is a nil result, not an error
	value, err := bridge.FetchStorage(context.Background(), ContractInfoOf(testAccount(5)), nil)
	assert.Nil(t, err)
	assert.Nil(t, value)
}

func TestFetchStorageUnknownEntry(t *testing.T) {
	bridge := NewBridge(&fakeGateway{})

	_, err := bridge.FetchStorage(context.Background(), StorageEntry{Pallet: "System", Entry: "Nope"}, nil)
	assert.ErrorIs(t, err, ErrUnknownEntry)
}

func TestFetchStorageKeysUnknownEntry(t *testing.T) {
	bridge := NewBridge(&fakeGateway{})

	// an unregistered entry must not enumerate under a garbage prefix
	_, err := bridge.FetchStorageKeys(context.Background(),
		StorageEntry{Pallet: "System", Entry: "Nope"}, 10, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownEntry)

	_, err = bridge.FetchStorageKeys(context.Background(),
		StorageEntry{Pallet: "Nope", Entry: "Events"}, 10, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownPallet)
}

func TestFetchStorageKeysPagination(t *testing.T) {
	bridge := NewBridge(nil)

	// fabricate a sorted key set under the entry prefix
	all := make([]hexutil.Bytes, 0, 10)
	for fill := byte(0); fill < 10; fill++ {
		key, err := bridge.DeriveStorageKey(ContractInfoOf(testAccount(fill)))
		assert.Nil(t, err)
		all = append(all, hexutil.Bytes(key))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].String() < all[j].String() })

	gateway := &fakeGateway{keys: all}
	bridge = NewBridge(gateway)
	entry := StorageEntry{Pallet: "Contracts", Entry: "ContractInfoOf"}

	// walk pages of three until an empty page ends the enumeration
	const pageSize = 3
	var collected []StorageKey
	var startKey StorageKey
	for {
		page, err := bridge.FetchStorageKeys(context.Background(), entry, pageSize, startKey, nil)
		assert.Nil(t, err)
		assert.LessOrEqual(t, len(page), pageSize)
		if len(page) == 0 {
			break
		}
		collected = append(collected, page...)
		startKey = page[len(page)-1]
	}

	assert.Equal(t, len(all), len(collected))
	for i, key := range collected {
		assert.Equal(t, []byte(all[i]), []byte(key))
	}
}
