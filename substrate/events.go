package substrate

import (
	"fmt"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/scale"
)

// phase variant discriminants of an event record
const (
	phaseApplyExtrinsic = 0
	phaseFinalization   = 1
	phaseInitialization = 2
)

// EventID is the structural identity of an event: pallet index and
// variant index within the pallet's event enum.
type EventID struct {
	PalletIndex  uint8
	VariantIndex uint8
}

// Phase tells which execution phase of the block emitted an event
type Phase struct {
	IsApplyExtrinsic bool
	ExtrinsicIndex   uint32
	IsFinalization   bool
	IsInitialization bool
}

// EventRecord is one decoded entry of a block's event log. The payload
// stays opaque until a caller requests a typed decode.
type EventRecord struct {
	Phase   Phase
	ID      EventID
	Payload []byte
	Topics  []common.Hash
}

// Event is the capability interface of a concrete event type: its
// structural identity plus a payload decode.
type Event interface {
	scale.Decodeable
	EventID() EventID
}

// EventRegistry knows the payload layout of every event variant the
// chain can emit. Decoding a block's event log requires the variants
// present in it to be registered, since records carry no length.
type EventRegistry struct {
	names      map[EventID]string
	prototypes map[EventID]func() scale.Decodeable
}

// NewEventRegistry creates an empty registry
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{
		names:      make(map[EventID]string),
		prototypes: make(map[EventID]func() scale.Decodeable),
	}
}

// Register add an event variant with its payload prototype
func (r *EventRegistry) Register(id EventID, name string, prototype func() scale.Decodeable) {
	r.names[id] = name
	r.prototypes[id] = prototype
}

// Name returns the registered name of id
func (r *EventRegistry) Name(id EventID) string {
	if name, exist := r.names[id]; exist {
		return name
	}
	return fmt.Sprintf("event(%d,%d)", id.PalletIndex, id.VariantIndex)
}

// DecodeEvents decodes a raw block event log into records in emission
// order. An unregistered variant fails the whole decode as the records
// behind it cannot be located.
func (r *EventRegistry) DecodeEvents(data []byte) ([]*EventRecord, error) {
	dec := scale.NewDecoder(data)
	count, err := dec.DecodeCompact()
	if err != nil {
		return nil, wrapDecodeError(err, "event count")
	}
	records := make([]*EventRecord, 0, count)
	for i := uint64(0); i < count; i++ {
		record, err := r.decodeRecord(dec, data)
		if err != nil {
			return nil, fmt.Errorf("event %v of %v: %w", i, count, err)
		}
		records = append(records, record)
	}
	if dec.Remaining() != 0 {
		return nil, wrapDecodeError(scale.ErrTruncated, "trailing bytes after event log")
	}
	return records, nil
}

func (r *EventRegistry) decodeRecord(dec *scale.Decoder, data []byte) (*EventRecord, error) {
	record := &EventRecord{}

	phaseVariant, err := dec.DecodeUint8()
	if err != nil {
		return nil, wrapDecodeError(err, "phase")
	}
	switch phaseVariant {
	case phaseApplyExtrinsic:
		record.Phase.IsApplyExtrinsic = true
		record.Phase.ExtrinsicIndex, err = dec.DecodeUint32()
		if err != nil {
			return nil, wrapDecodeError(err, "phase extrinsic index")
		}
	case phaseFinalization:
		record.Phase.IsFinalization = true
	case phaseInitialization:
		record.Phase.IsInitialization = true
	default:
		return nil, wrapDecodeError(fmt.Errorf("phase variant %v", phaseVariant), "phase")
	}

	palletIndex, err := dec.DecodeUint8()
	if err != nil {
		return nil, wrapDecodeError(err, "pallet index")
	}
	variantIndex, err := dec.DecodeUint8()
	if err != nil {
		return nil, wrapDecodeError(err, "variant index")
	}
	record.ID = EventID{PalletIndex: palletIndex, VariantIndex: variantIndex}

	prototype, exist := r.prototypes[record.ID]
	if !exist {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrUnknownEvent, palletIndex, variantIndex)
	}
	start := dec.Offset()
	if err = prototype().DecodeScale(dec); err != nil {
		return nil, wrapDecodeError(err, r.Name(record.ID)+" payload")
	}
	record.Payload = data[start:dec.Offset()]

	topicCount, err := dec.DecodeCompact()
	if err != nil {
		return nil, wrapDecodeError(err, "topic count")
	}
	for t := uint64(0); t < topicCount; t++ {
		raw, err := dec.Read(common.HashLength)
		if err != nil {
			return nil, wrapDecodeError(err, "topic")
		}
		record.Topics = append(record.Topics, common.BytesToHash(raw))
	}
	return record, nil
}

// FindEvent scans events in emission order and decodes the first record
// structurally matching target into it. Absence is reported as a false
// return, not an error; a payload that does not fit target's layout is
// a decode error.
func FindEvent(events []*EventRecord, target Event) (bool, error) {
	for _, record := range events {
		if record.ID != target.EventID() {
			continue
		}
		dec := scale.NewDecoder(record.Payload)
		if err := target.DecodeScale(dec); err != nil {
			return false, wrapDecodeError(err, "event payload")
		}
		if dec.Remaining() != 0 {
			return false, wrapDecodeError(scale.ErrTruncated, "event payload not fully consumed")
		}
		return true, nil
	}
	return false, nil
}
