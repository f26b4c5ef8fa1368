package substrate

import (
	"math/big"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/scale"
	"github.com/polkabridge/substrate-client/types"
)

// balances pallet event ids (dev runtime, pallet index 4)
var EventIDBalancesTransfer = EventID{PalletIndex: 4, VariantIndex: 2}

// EventBalancesTransfer funds moved between two accounts
type EventBalancesTransfer struct {
	From   common.AccountID
	To     common.AccountID
	Amount *big.Int
}

// EventID implements Event
func (e *EventBalancesTransfer) EventID() EventID { return EventIDBalancesTransfer }

// DecodeScale implements scale.Decodeable
func (e *EventBalancesTransfer) DecodeScale(dec *scale.Decoder) error {
	from, err := dec.Read(common.AddressLength)
	if err != nil {
		return err
	}
	e.From = common.BytesToAccountID(from)
	to, err := dec.Read(common.AddressLength)
	if err != nil {
		return err
	}
	e.To = common.BytesToAccountID(to)
	e.Amount, err = dec.DecodeUint128()
	return err
}

// BuildTransfer builds a Balances.transfer call moving amount to dest
func (b *Bridge) BuildTransfer(dest common.AccountID, amount *big.Int) (types.Call, error) {
	return b.BuildCall("Balances", "transfer",
		types.MultiAddress{ID: dest},
		scale.NewBigCompact(amount),
	)
}
