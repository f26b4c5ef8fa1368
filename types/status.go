package types

import (
	"encoding/json"
	"fmt"

	"github.com/polkabridge/substrate-client/common"
)

// StatusKind enumerates the extrinsic watch states reported by the node
type StatusKind int

// watch states, in the order the node may emit them
const (
	StatusFuture StatusKind = iota
	StatusReady
	StatusBroadcast
	StatusInBlock
	StatusRetracted
	StatusFinalityTimeout
	StatusFinalized
	StatusUsurped
	StatusDropped
	StatusInvalid
)

// String implements fmt.Stringer
func (k StatusKind) String() string {
	switch k {
	case StatusFuture:
		return "future"
	case StatusReady:
		return "ready"
	case StatusBroadcast:
		return "broadcast"
	case StatusInBlock:
		return "inBlock"
	case StatusRetracted:
		return "retracted"
	case StatusFinalityTimeout:
		return "finalityTimeout"
	case StatusFinalized:
		return "finalized"
	case StatusUsurped:
		return "usurped"
	case StatusDropped:
		return "dropped"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// IsTerminalFailure reports whether the extrinsic can no longer be included
func (k StatusKind) IsTerminalFailure() bool {
	return k == StatusUsurped || k == StatusDropped || k == StatusInvalid
}

// TxStatus is one notification of the watch stream. BlockHash is set for
// the states carrying a block (inBlock, retracted, finalityTimeout,
// finalized).
type TxStatus struct {
	Kind      StatusKind
	BlockHash *common.Hash
}

// DecodeTxStatus parses a status notification. Simple states arrive as a
// JSON string, states with data as a single entry object.
func DecodeTxStatus(raw json.RawMessage) (*TxStatus, error) {
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		switch plain {
		case "future":
			return &TxStatus{Kind: StatusFuture}, nil
		case "ready":
			return &TxStatus{Kind: StatusReady}, nil
		case "dropped":
			return &TxStatus{Kind: StatusDropped}, nil
		case "invalid":
			return &TxStatus{Kind: StatusInvalid}, nil
		default:
			return nil, fmt.Errorf("unknown extrinsic status %q", plain)
		}
	}

	var tagged struct {
		Broadcast       []string     `json:"broadcast,omitempty"`
		InBlock         *common.Hash `json:"inBlock,omitempty"`
		Retracted       *common.Hash `json:"retracted,omitempty"`
		FinalityTimeout *common.Hash `json:"finalityTimeout,omitempty"`
		Finalized       *common.Hash `json:"finalized,omitempty"`
		Usurped         *common.Hash `json:"usurped,omitempty"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return nil, fmt.Errorf("unparsable extrinsic status: %w", err)
	}
	switch {
	case tagged.Broadcast != nil:
		return &TxStatus{Kind: StatusBroadcast}, nil
	case tagged.InBlock != nil:
		return &TxStatus{Kind: StatusInBlock, BlockHash: tagged.InBlock}, nil
	case tagged.Retracted != nil:
		return &TxStatus{Kind: StatusRetracted, BlockHash: tagged.Retracted}, nil
	case tagged.FinalityTimeout != nil:
		return &TxStatus{Kind: StatusFinalityTimeout, BlockHash: tagged.FinalityTimeout}, nil
	case tagged.Finalized != nil:
		return &TxStatus{Kind: StatusFinalized, BlockHash: tagged.Finalized}, nil
	case tagged.Usurped != nil:
		return &TxStatus{Kind: StatusUsurped}, nil
	default:
		return nil, fmt.Errorf("unknown extrinsic status object %s", string(raw))
	}
}
