// Package types holds the wire level transaction model: calls, eras,
// signed extrinsics and watch status notifications.
package types

import (
	"bytes"

	"github.com/polkabridge/substrate-client/scale"
)

// Call is a fully determined on-chain action: pallet index, call index
// and the canonical encoding of the ordered call arguments.
// A Call is immutable once built.
type Call struct {
	PalletIndex uint8
	CallIndex   uint8
	Args        []byte
}

// NewCall encodes args in order and returns the resulting call
func NewCall(palletIndex, callIndex uint8, args ...scale.Encodeable) (Call, error) {
	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(args...); err != nil {
		return Call{}, err
	}
	return Call{PalletIndex: palletIndex, CallIndex: callIndex, Args: buf.Bytes()}, nil
}

// EncodeScale implements scale.Encodeable
func (c Call) EncodeScale(enc *scale.Encoder) error {
	if err := enc.EncodeUint8(c.PalletIndex); err != nil {
		return err
	}
	if err := enc.EncodeUint8(c.CallIndex); err != nil {
		return err
	}
	return enc.Write(c.Args)
}

// Encoding returns the canonical encoding of the call
func (c Call) Encoding() []byte {
	var buf bytes.Buffer
	_ = c.EncodeScale(scale.NewEncoder(&buf))
	return buf.Bytes()
}
