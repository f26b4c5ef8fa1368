package substrate

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/common/hexutil"
	"github.com/polkabridge/substrate-client/params"
	"github.com/polkabridge/substrate-client/types"
)

// fakeWatch replays a scripted status stream
type fakeWatch struct {
	ch           chan json.RawMessage
	unsubscribed bool
}

func (w *fakeWatch) Statuses() <-chan json.RawMessage { return w.ch }
func (w *fakeWatch) Unsubscribe()                     { w.unsubscribed = true }

// fakeGateway scripts the node side of a submission
type fakeGateway struct {
	statuses    []json.RawMessage
	closeStream bool

	// block body handed out for the confirmed block; when
	// includeSubmitted is set the submitted extrinsic is appended
	extrinsics       []hexutil.Bytes
	includeSubmitted bool

	storage map[string]hexutil.Bytes
	keys    []hexutil.Bytes

	watch          *fakeWatch
	submitted      hexutil.Bytes
	blockQueries   int
	storageQueries int
}

func (g *fakeGateway) SubmitAndWatchExtrinsic(ctx context.Context, extrinsic hexutil.Bytes) (WatchSubscription, error) {
	g.submitted = extrinsic
	g.watch = &fakeWatch{ch: make(chan json.RawMessage, len(g.statuses)+1)}
	for _, status := range g.statuses {
		g.watch.ch <- status
	}
	if g.closeStream {
		close(g.watch.ch)
	}
	return g.watch, nil
}

func (g *fakeGateway) BlockExtrinsics(ctx context.Context, blockHash common.Hash) ([]hexutil.Bytes, error) {
	g.blockQueries++
	body := g.extrinsics
	if g.includeSubmitted {
		body = append(body, g.submitted)
	}
	return body, nil
}

func (g *fakeGateway) StorageGet(ctx context.Context, key hexutil.Bytes, at *common.Hash) (hexutil.Bytes, error) {
	g.storageQueries++
	return g.storage[key.String()], nil
}

func (g *fakeGateway) StorageKeysPaged(ctx context.Context, prefix hexutil.Bytes, count uint32, startKey hexutil.Bytes, at *common.Hash) ([]hexutil.Bytes, error) {
	start := 0
	if len(startKey) != 0 {
		for i, key := range g.keys {
			if key.String() == startKey.String() {
				start = i + 1
				break
			}
		}
	}
	end := start + int(count)
	if end > len(g.keys) {
		end = len(g.keys)
	}
	return g.keys[start:end], nil
}

var testBlockHash = common.HexToHash(
	"0x2222222222222222222222222222222222222222222222222222222222222222")

func inBlockStatus() json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"inBlock":%q}`, testBlockHash.Hex()))
}

func finalizedStatus() json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"finalized":%q}`, testBlockHash.Hex()))
}

// signedTransfer builds and signs a transfer for the watch tests
func signedTransfer(t *testing.T, bridge *Bridge) *types.SignedExtrinsic {
	call, err := bridge.BuildTransfer(testAccount(2), big.NewInt(10000))
	assert.Nil(t, err)
	tx, err := NewSigner(aliceKeypair(t)).SignExtrinsic(call, testAccountState())
	assert.Nil(t, err)
	return tx
}

// eventStorage stores an event log under the system events key of the
// confirmed block
func eventStorage(t *testing.T, bridge *Bridge, log []byte) map[string]hexutil.Bytes {
	key, err := bridge.DeriveStorageKey(SystemEvents())
	assert.Nil(t, err)
	return map[string]hexutil.Bytes{key.Hex(): log}
}

func TestSubmitAndWatchSuccess(t *testing.T) {
	gateway := &fakeGateway{
		statuses:         []json.RawMessage{json.RawMessage(`"ready"`), inBlockStatus()},
		extrinsics:       []hexutil.Bytes{hexutil.MustDecode("0xdeadbeef")},
		includeSubmitted: true,
	}
	bridge := NewBridge(gateway)
	tx := signedTransfer(t, bridge)

	// the submitted extrinsic sits at index 1, behind an unrelated one
	log := encodeEventLog(t,
		rawEvent{phase: phaseApplyExtrinsic, extrinsicIndex: 0, id: EventIDExtrinsicSuccess,
			payload: successPayload(t)},
		rawEvent{phase: phaseApplyExtrinsic, extrinsicIndex: 1, id: EventIDBalancesTransfer,
			payload: transferPayload(t, testAccount(1), testAccount(2), big.NewInt(10000))},
		rawEvent{phase: phaseApplyExtrinsic, extrinsicIndex: 1, id: EventIDExtrinsicSuccess,
			payload: successPayload(t)},
		rawEvent{phase: phaseFinalization, id: EventIDExtrinsicSuccess,
			payload: successPayload(t)},
	)
	gateway.storage = eventStorage(t, bridge, log)

	outcome, err := bridge.SubmitAndWatch(context.Background(), tx)
	assert.Nil(t, err)
	assert.Equal(t, testBlockHash, outcome.BlockHash)
	assert.Equal(t, uint32(1), outcome.ExtrinsicIndex)
	assert.Equal(t, 2, len(outcome.Events))
	assert.True(t, gateway.watch.unsubscribed)

	transfer := &EventBalancesTransfer{}
	found, err := outcome.FindEvent(transfer)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(10000), transfer.Amount.Int64())

	_, failed, err := ExtrinsicFailed(outcome)
	assert.Nil(t, err)
	assert.False(t, failed)
}

func TestSubmitAndWatchTerminalFailures(t *testing.T) {
	tests := []struct {
		status  json.RawMessage
		wantErr error
	}{
		{json.RawMessage(`"dropped"`), ErrTxDropped},
		{json.RawMessage(`"invalid"`), ErrTxInvalid},
		{json.RawMessage(fmt.Sprintf(`{"usurped":%q}`, testBlockHash.Hex())), ErrTxUsurped},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			gateway := &fakeGateway{
				statuses: []json.RawMessage{json.RawMessage(`"ready"`), tt.status},
			}
			bridge := NewBridge(gateway)

			outcome, err := bridge.SubmitAndWatch(context.Background(), signedTransfer(t, bridge))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, outcome)
			// a failed submission never triggers event extraction
			assert.Equal(t, 0, gateway.blockQueries)
			assert.Equal(t, 0, gateway.storageQueries)
		})
	}
}

func TestSubmitAndWatchStreamLost(t *testing.T) {
	gateway := &fakeGateway{
		statuses:    []json.RawMessage{json.RawMessage(`"ready"`)},
		closeStream: true,
	}
	bridge := NewBridge(gateway)

	_, err := bridge.SubmitAndWatch(context.Background(), signedTransfer(t, bridge))
	assert.ErrorIs(t, err, ErrConnectionLost)
}

func TestSubmitAndWatchFinalizedPolicy(t *testing.T) {
	gateway := &fakeGateway{
		statuses: []json.RawMessage{
			json.RawMessage(`"ready"`), inBlockStatus(), finalizedStatus(),
		},
		includeSubmitted: true,
	}
	bridge := NewBridge(gateway)
	tx := signedTransfer(t, bridge)
	gateway.storage = eventStorage(t, bridge, encodeEventLog(t,
		rawEvent{phase: phaseApplyExtrinsic, extrinsicIndex: 0, id: EventIDExtrinsicSuccess,
			payload: successPayload(t)},
	))

	outcome, err := bridge.SubmitAndWatchWithPolicy(context.Background(), tx, params.ConfirmFinalized)
	assert.Nil(t, err)
	assert.Equal(t, testBlockHash, outcome.BlockHash)
	// the inBlock status must not have resolved the watch early,
	// the stream was read through to finality
	assert.Equal(t, 0, len(gateway.watch.ch))
}

func TestSubmitAndWatchFinalitySatisfiesInBlock(t *testing.T) {
	// a node may report finality without a prior inBlock status
	gateway := &fakeGateway{
		statuses:         []json.RawMessage{json.RawMessage(`"ready"`), finalizedStatus()},
		includeSubmitted: true,
	}
	bridge := NewBridge(gateway)
	tx := signedTransfer(t, bridge)
	gateway.storage = eventStorage(t, bridge, encodeEventLog(t,
		rawEvent{phase: phaseApplyExtrinsic, extrinsicIndex: 0, id: EventIDExtrinsicSuccess,
			payload: successPayload(t)},
	))

	outcome, err := bridge.SubmitAndWatchWithPolicy(context.Background(), tx, params.ConfirmInBlock)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), outcome.ExtrinsicIndex)
}

func TestSubmitAndWatchRetractedKeepsWatching(t *testing.T) {
	retracted := json.RawMessage(fmt.Sprintf(`{"retracted":%q}`, testBlockHash.Hex()))
	gateway := &fakeGateway{
		statuses:         []json.RawMessage{retracted, inBlockStatus()},
		includeSubmitted: true,
	}
	bridge := NewBridge(gateway)
	tx := signedTransfer(t, bridge)
	gateway.storage = eventStorage(t, bridge, encodeEventLog(t,
		rawEvent{phase: phaseApplyExtrinsic, extrinsicIndex: 0, id: EventIDExtrinsicSuccess,
			payload: successPayload(t)},
	))

	outcome, err := bridge.SubmitAndWatch(context.Background(), tx)
	assert.Nil(t, err)
	assert.NotNil(t, outcome)
}

func TestSubmitAndWatchContextCancelled(t *testing.T) {
	// a silent stream must not hold the watch past the deadline
	gateway := &fakeGateway{}
	bridge := NewBridge(gateway)
	tx := signedTransfer(t, bridge)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := bridge.SubmitAndWatch(ctx, tx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, gateway.watch.unsubscribed)
}

func TestSubmitAndWatchExtrinsicNotInBlock(t *testing.T) {
	gateway := &fakeGateway{
		statuses:   []json.RawMessage{inBlockStatus()},
		extrinsics: []hexutil.Bytes{hexutil.MustDecode("0xdeadbeef")},
	}
	bridge := NewBridge(gateway)

	_, err := bridge.SubmitAndWatch(context.Background(), signedTransfer(t, bridge))
	assert.ErrorIs(t, err, ErrExtrinsicNotInBlock)
}
