package substrate

import (
	"fmt"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/log"
	"github.com/polkabridge/substrate-client/params"
	"github.com/polkabridge/substrate-client/tools/crypto"
	"github.com/polkabridge/substrate-client/types"
)

// payloads above this size are signed through their blake2b-256 hash
const signViaHashThreshold = 256

// Signer turns calls into signed extrinsics with one keypair. The
// keypair is an explicitly owned resource: several signers may coexist
// in one process and one signer may sign concurrently. Nonce assignment
// stays with the caller through AccountState.
type Signer struct {
	keypair *crypto.Keypair
}

// NewSigner creates a signer owning keypair
func NewSigner(keypair *crypto.Keypair) *Signer {
	return &Signer{keypair: keypair}
}

// AccountID returns the signing account
func (s *Signer) AccountID() common.AccountID {
	return s.keypair.AccountID()
}

// Address returns the ss58 address under the configured network prefix
func (s *Signer) Address() string {
	return s.keypair.Address(params.GetSS58Prefix())
}

// SignExtrinsic signs call under the era/nonce metadata in state and
// returns the immutable signed extrinsic. state is only read.
func (s *Signer) SignExtrinsic(call types.Call, state *types.AccountState) (*types.SignedExtrinsic, error) {
	if s == nil || s.keypair == nil {
		return nil, ErrNoKeyMaterial
	}
	if maxSize := params.GetMaxExtrinsicSize(); len(call.Encoding()) > maxSize {
		return nil, fmt.Errorf("%w: %v > %v bytes", ErrCallTooLarge, len(call.Encoding()), maxSize)
	}

	payload, err := state.SignaturePayload(call)
	if err != nil {
		return nil, err
	}
	if len(payload) > signViaHashThreshold {
		hash := common.Blake2b256(payload)
		payload = hash.Bytes()
	}
	signature, err := s.keypair.Sign(payload)
	if err != nil {
		return nil, err
	}

	tx := &types.SignedExtrinsic{
		Call:      call,
		Signer:    s.keypair.AccountID(),
		Signature: signature,
		Era:       state.Era,
		Nonce:     state.Nonce,
		Tip:       state.Tip,
	}
	log.Trace("signed extrinsic",
		"pallet", call.PalletIndex, "call", call.CallIndex, "nonce", state.Nonce)
	return tx, nil
}
