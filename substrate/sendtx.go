package substrate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/log"
	"github.com/polkabridge/substrate-client/params"
	"github.com/polkabridge/substrate-client/types"
)

// SubmissionOutcome is the fully resolved result of a watched
// submission: the including block, the extrinsic's position in it and
// every event attributable to the extrinsic in emission order. It is
// never partially populated.
type SubmissionOutcome struct {
	BlockHash      common.Hash
	ExtrinsicIndex uint32
	Events         []*EventRecord
}

// SubmitAndWatch submits tx and consumes its status stream until the
// configured confirmation level is reached, then resolves the block's
// event log. The watch timeout from config bounds the wait unless ctx
// already carries a deadline.
func (b *Bridge) SubmitAndWatch(ctx context.Context, tx *types.SignedExtrinsic) (*SubmissionOutcome, error) {
	return b.SubmitAndWatchWithPolicy(ctx, tx, params.GetConfirmationPolicy())
}

// SubmitAndWatchWithPolicy is SubmitAndWatch with an explicit
// confirmation level: params.ConfirmInBlock resolves on first
// inclusion, params.ConfirmFinalized waits for finality. Inclusion is
// the faster but weaker guarantee; a later reorg can still drop the
// block.
func (b *Bridge) SubmitAndWatchWithPolicy(ctx context.Context, tx *types.SignedExtrinsic, policy string) (*SubmissionOutcome, error) {
	encoded, err := tx.Encode()
	if err != nil {
		return nil, err
	}
	txHash, err := tx.Hash()
	if err != nil {
		return nil, err
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.GetWatchTimeout())
		defer cancel()
	}

	sub, err := b.gateway.SubmitAndWatchExtrinsic(ctx, encoded)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()
	log.Debug("extrinsic submitted", "txHash", txHash.String(), "policy", policy)

	confirmKind := types.StatusInBlock
	if policy == params.ConfirmFinalized {
		confirmKind = types.StatusFinalized
	}

	for {
		select {
		case raw, ok := <-sub.Statuses():
			if !ok {
				// stream ended without reaching a terminal state
				return nil, ErrConnectionLost
			}
			status, err := types.DecodeTxStatus(raw)
			if err != nil {
				return nil, wrapDecodeError(err, "extrinsic status")
			}
			log.Trace("extrinsic status", "txHash", txHash.String(), "status", status.Kind.String())

			switch {
			// finality implies inclusion, so it satisfies either policy
			case status.Kind == confirmKind || status.Kind == types.StatusFinalized:
				if status.BlockHash == nil {
					return nil, fmt.Errorf("%w: confirmation status without block hash", ErrDecode)
				}
				return b.resolveOutcome(ctx, txHash, *status.BlockHash)
			case status.Kind.IsTerminalFailure():
				return nil, terminalError(status.Kind)
			}
			// retracted and other intermediate states keep the watch open

		case <-ctx.Done():
			// abandoning the watch only releases local resources, the
			// extrinsic's on-chain fate is unaffected
			return nil, ctx.Err()
		}
	}
}

func terminalError(kind types.StatusKind) error {
	switch kind {
	case types.StatusDropped:
		return ErrTxDropped
	case types.StatusInvalid:
		return ErrTxInvalid
	case types.StatusUsurped:
		return ErrTxUsurped
	default:
		return ErrConnectionLost
	}
}

// resolveOutcome locates the extrinsic inside the confirmed block and
// gathers the events its execution emitted
func (b *Bridge) resolveOutcome(ctx context.Context, txHash, blockHash common.Hash) (*SubmissionOutcome, error) {
	index, err := b.findExtrinsicIndex(ctx, txHash, blockHash)
	if err != nil {
		return nil, err
	}
	allEvents, err := b.BlockEvents(ctx, blockHash)
	if err != nil {
		return nil, err
	}

	// events are positionally attributed through their apply phase
	events := make([]*EventRecord, 0, len(allEvents))
	for _, record := range allEvents {
		if record.Phase.IsApplyExtrinsic && record.Phase.ExtrinsicIndex == index {
			events = append(events, record)
		}
	}
	log.Debug("extrinsic confirmed",
		"txHash", txHash.String(), "block", blockHash.String(), "index", index, "events", len(events))
	return &SubmissionOutcome{
		BlockHash:      blockHash,
		ExtrinsicIndex: index,
		Events:         events,
	}, nil
}

func (b *Bridge) findExtrinsicIndex(ctx context.Context, txHash, blockHash common.Hash) (uint32, error) {
	extrinsics, err := b.gateway.BlockExtrinsics(ctx, blockHash)
	if err != nil {
		return 0, err
	}
	for i, encoded := range extrinsics {
		if bytes.Equal(common.Blake2b256(encoded).Bytes(), txHash.Bytes()) {
			return uint32(i), nil
		}
	}
	return 0, ErrExtrinsicNotInBlock
}

// BlockEvents fetches and decodes the full event log of a block from
// the system events storage entry
func (b *Bridge) BlockEvents(ctx context.Context, blockHash common.Hash) ([]*EventRecord, error) {
	raw, err := b.FetchStorage(ctx, SystemEvents(), &blockHash)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return b.events.DecodeEvents(raw)
}

// SystemEvents returns the storage descriptor of the per-block event log
func SystemEvents() StorageEntry {
	return StorageEntry{Pallet: "System", Entry: "Events"}
}

// FindEvent scans the outcome's events in emission order for the first
// record matching target and decodes it. See FindEvent on records.
func (o *SubmissionOutcome) FindEvent(target Event) (bool, error) {
	return FindEvent(o.Events, target)
}
