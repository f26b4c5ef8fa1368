package substrate

import (
	"github.com/polkabridge/substrate-client/scale"
)

// system pallet event ids (dev runtime, pallet index 0)
var (
	EventIDExtrinsicSuccess = EventID{PalletIndex: 0, VariantIndex: 0}
	EventIDExtrinsicFailed  = EventID{PalletIndex: 0, VariantIndex: 1}
)

// DispatchInfo describes the weight of a dispatched call
type DispatchInfo struct {
	Weight  uint64
	Class   uint8
	PaysFee uint8
}

// DecodeScale implements scale.Decodeable
func (d *DispatchInfo) DecodeScale(dec *scale.Decoder) error {
	var err error
	if d.Weight, err = dec.DecodeUint64(); err != nil {
		return err
	}
	if d.Class, err = dec.DecodeUint8(); err != nil {
		return err
	}
	d.PaysFee, err = dec.DecodeUint8()
	return err
}

// dispatch error variant carrying a module error
const dispatchErrorModule = 3

// DispatchError describes why a dispatch failed. Module errors carry
// the pallet index and its error code.
type DispatchError struct {
	Variant     uint8
	ModuleIndex uint8
	ModuleError uint8
}

// DecodeScale implements scale.Decodeable
func (d *DispatchError) DecodeScale(dec *scale.Decoder) error {
	var err error
	if d.Variant, err = dec.DecodeUint8(); err != nil {
		return err
	}
	if d.Variant != dispatchErrorModule {
		return nil
	}
	if d.ModuleIndex, err = dec.DecodeUint8(); err != nil {
		return err
	}
	d.ModuleError, err = dec.DecodeUint8()
	return err
}

// EventExtrinsicSuccess the runtime dispatched the extrinsic successfully
type EventExtrinsicSuccess struct {
	DispatchInfo DispatchInfo
}

// EventID implements Event
func (e *EventExtrinsicSuccess) EventID() EventID { return EventIDExtrinsicSuccess }

// DecodeScale implements scale.Decodeable
func (e *EventExtrinsicSuccess) DecodeScale(dec *scale.Decoder) error {
	return e.DispatchInfo.DecodeScale(dec)
}

// EventExtrinsicFailed the extrinsic was included but its dispatch
// failed. Inclusion success and dispatch success are distinct: finding
// this event means the requested action did not happen.
type EventExtrinsicFailed struct {
	DispatchError DispatchError
	DispatchInfo  DispatchInfo
}

// EventID implements Event
func (e *EventExtrinsicFailed) EventID() EventID { return EventIDExtrinsicFailed }

// DecodeScale implements scale.Decodeable
func (e *EventExtrinsicFailed) DecodeScale(dec *scale.Decoder) error {
	if err := e.DispatchError.DecodeScale(dec); err != nil {
		return err
	}
	return e.DispatchInfo.DecodeScale(dec)
}

// ExtrinsicFailed returns the failure event of the outcome when present.
// The pipeline never converts this into an error; treating a logically
// failed dispatch as fatal is the caller's decision.
func ExtrinsicFailed(outcome *SubmissionOutcome) (*EventExtrinsicFailed, bool, error) {
	failed := &EventExtrinsicFailed{}
	found, err := FindEvent(outcome.Events, failed)
	if err != nil || !found {
		return nil, false, err
	}
	return failed, true, nil
}
