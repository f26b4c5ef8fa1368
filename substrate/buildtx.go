package substrate

import (
	"fmt"

	"github.com/polkabridge/substrate-client/scale"
	"github.com/polkabridge/substrate-client/types"
)

// BuildCall assembles a call from pallet and call name plus its ordered
// arguments. Only the argument count is validated against the
// registered arity; argument semantics are the node's job. BuildCall is
// pure: identical inputs always yield an identical call encoding.
func (b *Bridge) BuildCall(palletName, callName string, args ...scale.Encodeable) (types.Call, error) {
	pallet, call, err := b.metadata.Call(palletName, callName)
	if err != nil {
		return types.Call{}, err
	}
	if len(args) != call.NumArgs {
		return types.Call{}, fmt.Errorf("%w: %v.%v needs %v args, got %v",
			ErrWrongArgCount, palletName, callName, call.NumArgs, len(args))
	}
	return types.NewCall(pallet.Index, call.Index, args...)
}
