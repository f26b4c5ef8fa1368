package substrate

import (
	"math/big"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/scale"
	"github.com/polkabridge/substrate-client/types"
)

// contracts pallet event ids (dev runtime, pallet index 8)
var (
	EventIDContractInstantiated = EventID{PalletIndex: 8, VariantIndex: 0}
	EventIDContractCodeStored   = EventID{PalletIndex: 8, VariantIndex: 3}
	EventIDContractEmitted      = EventID{PalletIndex: 8, VariantIndex: 5}
)

// EventContractInstantiated a new contract account came into existence
type EventContractInstantiated struct {
	Deployer common.AccountID
	Contract common.AccountID
}

// EventID implements Event
func (e *EventContractInstantiated) EventID() EventID { return EventIDContractInstantiated }

// DecodeScale implements scale.Decodeable
func (e *EventContractInstantiated) DecodeScale(dec *scale.Decoder) error {
	deployer, err := dec.Read(common.AddressLength)
	if err != nil {
		return err
	}
	e.Deployer = common.BytesToAccountID(deployer)
	contract, err := dec.Read(common.AddressLength)
	if err != nil {
		return err
	}
	e.Contract = common.BytesToAccountID(contract)
	return nil
}

// EventContractCodeStored a wasm blob was stored under its code hash
type EventContractCodeStored struct {
	CodeHash common.Hash
}

// EventID implements Event
func (e *EventContractCodeStored) EventID() EventID { return EventIDContractCodeStored }

// DecodeScale implements scale.Decodeable
func (e *EventContractCodeStored) DecodeScale(dec *scale.Decoder) error {
	raw, err := dec.Read(common.HashLength)
	if err != nil {
		return err
	}
	e.CodeHash = common.BytesToHash(raw)
	return nil
}

// EventContractEmitted a contract emitted data during execution
type EventContractEmitted struct {
	Contract common.AccountID
	Data     []byte
}

// EventID implements Event
func (e *EventContractEmitted) EventID() EventID { return EventIDContractEmitted }

// DecodeScale implements scale.Decodeable
func (e *EventContractEmitted) DecodeScale(dec *scale.Decoder) error {
	contract, err := dec.Read(common.AddressLength)
	if err != nil {
		return err
	}
	e.Contract = common.BytesToAccountID(contract)
	e.Data, err = dec.DecodeBytes()
	return err
}

// BuildInstantiateWithCode builds a Contracts.instantiate_with_code
// call uploading code and instantiating it in one step. The wasm blob,
// constructor data and salt are opaque byte payloads to this layer.
func (b *Bridge) BuildInstantiateWithCode(endowment *big.Int, gasLimit uint64, code, data, salt []byte) (types.Call, error) {
	return b.BuildCall("Contracts", "instantiate_with_code",
		scale.NewBigCompact(endowment),
		scale.Compact(gasLimit),
		scale.Bytes(code),
		scale.Bytes(data),
		scale.Bytes(salt),
	)
}

// BuildInstantiate builds a Contracts.instantiate call creating a new
// contract from already stored code
func (b *Bridge) BuildInstantiate(endowment *big.Int, gasLimit uint64, codeHash common.Hash, data, salt []byte) (types.Call, error) {
	return b.BuildCall("Contracts", "instantiate",
		scale.NewBigCompact(endowment),
		scale.Compact(gasLimit),
		scale.Raw(codeHash.Bytes()),
		scale.Bytes(data),
		scale.Bytes(salt),
	)
}

// BuildContractCall builds a Contracts.call invoking a deployed contract
func (b *Bridge) BuildContractCall(contract common.AccountID, value *big.Int, gasLimit uint64, inputData []byte) (types.Call, error) {
	return b.BuildCall("Contracts", "call",
		types.MultiAddress{ID: contract},
		scale.NewBigCompact(value),
		scale.Compact(gasLimit),
		scale.Bytes(inputData),
	)
}

// ContractInfoOf returns the storage descriptor of a contract's info
// record keyed by the contract account
func ContractInfoOf(contract common.AccountID) StorageEntry {
	return StorageEntry{
		Pallet:  "Contracts",
		Entry:   "ContractInfoOf",
		KeyArgs: [][]byte{contract.Bytes()},
	}
}

// DefaultEventRegistry returns the registry of the dev runtime event
// variants this client decodes out of the box
func DefaultEventRegistry() *EventRegistry {
	r := NewEventRegistry()
	r.Register(EventIDExtrinsicSuccess, "System.ExtrinsicSuccess",
		func() scale.Decodeable { return &EventExtrinsicSuccess{} })
	r.Register(EventIDExtrinsicFailed, "System.ExtrinsicFailed",
		func() scale.Decodeable { return &EventExtrinsicFailed{} })
	r.Register(EventIDBalancesTransfer, "Balances.Transfer",
		func() scale.Decodeable { return &EventBalancesTransfer{} })
	r.Register(EventIDContractInstantiated, "Contracts.Instantiated",
		func() scale.Decodeable { return &EventContractInstantiated{} })
	r.Register(EventIDContractCodeStored, "Contracts.CodeStored",
		func() scale.Decodeable { return &EventContractCodeStored{} })
	r.Register(EventIDContractEmitted, "Contracts.ContractEmitted",
		func() scale.Decodeable { return &EventContractEmitted{} })
	return r
}
