// Package substrate implements the client side extrinsic and storage
// protocol: building and signing calls, submitting them and watching the
// chain until inclusion, extracting the resulting events, and querying
// on-chain storage through deterministic key derivation.
package substrate

import (
	"context"
	"encoding/json"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/common/hexutil"
)

// WatchSubscription is a live extrinsic status stream. The channel is
// closed when the stream ends; a close before a terminal status means
// the connection was lost.
type WatchSubscription interface {
	Statuses() <-chan json.RawMessage
	Unsubscribe()
}

// Gateway is the node rpc collaborator all operations sit above.
type Gateway interface {
	// SubmitAndWatchExtrinsic submits the encoded extrinsic and opens
	// its status stream.
	SubmitAndWatchExtrinsic(ctx context.Context, extrinsic hexutil.Bytes) (WatchSubscription, error)
	// BlockExtrinsics returns the encoded extrinsics of a block in order.
	BlockExtrinsics(ctx context.Context, blockHash common.Hash) ([]hexutil.Bytes, error)
	// StorageGet returns the raw value under key, or nil when absent.
	// A nil at queries the current best block.
	StorageGet(ctx context.Context, key hexutil.Bytes, at *common.Hash) (hexutil.Bytes, error)
	// StorageKeysPaged enumerates up to count keys under prefix in
	// byte-lexicographic order, resuming after startKey when non nil.
	StorageKeysPaged(ctx context.Context, prefix hexutil.Bytes, count uint32, startKey hexutil.Bytes, at *common.Hash) ([]hexutil.Bytes, error)
}

// Bridge coordinates all client operations above a Gateway.
// Concurrent submissions through one bridge are independent.
type Bridge struct {
	gateway  Gateway
	metadata *Metadata
	events   *EventRegistry
}

// NewBridge creates a bridge above gateway with the dev runtime
// metadata and event registry. Both can be extended by the caller.
func NewBridge(gateway Gateway) *Bridge {
	return &Bridge{
		gateway:  gateway,
		metadata: DefaultMetadata(),
		events:   DefaultEventRegistry(),
	}
}

// Metadata returns the pallet/call registry used by the call builder
func (b *Bridge) Metadata() *Metadata {
	return b.metadata
}

// Events returns the event registry used when decoding block events
func (b *Bridge) Events() *EventRegistry {
	return b.events
}
