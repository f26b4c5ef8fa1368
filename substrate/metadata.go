package substrate

import "fmt"

// CallMeta describes one dispatchable call of a pallet
type CallMeta struct {
	Index   uint8
	NumArgs int
}

// StorageMeta describes one storage entry of a pallet
type StorageMeta struct {
	// Hashers, one per key argument; empty for plain entries
	Hashers []HasherKind
}

// PalletMeta describes a pallet: its index and its calls and storage
// entries by name
type PalletMeta struct {
	Index   uint8
	Calls   map[string]CallMeta
	Storage map[string]StorageMeta
}

// Metadata is the registry of pallets the builder and storage client
// resolve names against. It is populated once during setup and read
// only afterwards.
type Metadata struct {
	pallets map[string]*PalletMeta
}

// NewMetadata creates an empty registry
func NewMetadata() *Metadata {
	return &Metadata{pallets: make(map[string]*PalletMeta)}
}

// RegisterPallet add a pallet under name with the given index
func (m *Metadata) RegisterPallet(name string, index uint8) *PalletMeta {
	pallet := &PalletMeta{
		Index:   index,
		Calls:   make(map[string]CallMeta),
		Storage: make(map[string]StorageMeta),
	}
	m.pallets[name] = pallet
	return pallet
}

// RegisterCall add a call to the pallet
func (p *PalletMeta) RegisterCall(name string, index uint8, numArgs int) *PalletMeta {
	p.Calls[name] = CallMeta{Index: index, NumArgs: numArgs}
	return p
}

// RegisterStorage add a storage entry to the pallet
func (p *PalletMeta) RegisterStorage(name string, hashers ...HasherKind) *PalletMeta {
	p.Storage[name] = StorageMeta{Hashers: hashers}
	return p
}

// Pallet resolves a pallet by name
func (m *Metadata) Pallet(name string) (*PalletMeta, error) {
	pallet, exist := m.pallets[name]
	if !exist {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPallet, name)
	}
	return pallet, nil
}

// Call resolves a call by pallet and call name
func (m *Metadata) Call(palletName, callName string) (*PalletMeta, CallMeta, error) {
	pallet, err := m.Pallet(palletName)
	if err != nil {
		return nil, CallMeta{}, err
	}
	call, exist := pallet.Calls[callName]
	if !exist {
		return nil, CallMeta{}, fmt.Errorf("%w: %v.%v", ErrUnknownCall, palletName, callName)
	}
	return pallet, call, nil
}

// Storage resolves a storage entry by pallet and entry name
func (m *Metadata) Storage(palletName, entryName string) (StorageMeta, error) {
	pallet, err := m.Pallet(palletName)
	if err != nil {
		return StorageMeta{}, err
	}
	entry, exist := pallet.Storage[entryName]
	if !exist {
		return StorageMeta{}, fmt.Errorf("%w: %v.%v", ErrUnknownEntry, palletName, entryName)
	}
	return entry, nil
}

// DefaultMetadata returns the registry of the substrate dev runtime.
// Chains with different pallet layouts register their own entries.
func DefaultMetadata() *Metadata {
	m := NewMetadata()
	m.RegisterPallet("System", 0).
		RegisterCall("remark", 1, 1).
		RegisterStorage("Account", HasherBlake2_128Concat).
		RegisterStorage("Events")
	m.RegisterPallet("Balances", 4).
		RegisterCall("transfer", 0, 2)
	m.RegisterPallet("Contracts", 8).
		RegisterCall("call", 0, 4).
		RegisterCall("instantiate_with_code", 1, 5).
		RegisterCall("instantiate", 2, 5).
		RegisterStorage("ContractInfoOf", HasherTwox64Concat)
	return m
}
