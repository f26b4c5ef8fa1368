package types

import (
	"bytes"
	"math/big"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/scale"
)

// extrinsic format version 4, with the signed bit set
const extrinsicVersion = 0x84

// multi-address and multi-signature variant discriminants
const (
	multiAddressIDVariant = 0x00
	multiSignatureSr25519 = 0x01
)

// MultiAddress is the address enum used as an extrinsic origin or call
// destination. Only the Id(AccountID) variant is produced by this client.
type MultiAddress struct {
	ID common.AccountID
}

// EncodeScale implements scale.Encodeable
func (a MultiAddress) EncodeScale(enc *scale.Encoder) error {
	if err := enc.EncodeUint8(multiAddressIDVariant); err != nil {
		return err
	}
	return enc.Write(a.ID.Bytes())
}

// AccountState supplies the transaction mutables owned by the caller:
// the account nonce and the era anchoring data. The signer reads it and
// never mutates it.
type AccountState struct {
	Nonce       uint64
	Tip         *big.Int
	Era         Era
	GenesisHash common.Hash
	// EraBlockHash anchors a mortal era; for an immortal era it must
	// equal the genesis hash.
	EraBlockHash       common.Hash
	SpecVersion        uint32
	TransactionVersion uint32
}

// SignaturePayload returns the bytes the origin signs over for call
func (s *AccountState) SignaturePayload(call Call) ([]byte, error) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	tip := s.Tip
	if tip == nil {
		tip = big.NewInt(0)
	}
	err := enc.Encode(call, s.Era, scale.Compact(s.Nonce), scale.NewBigCompact(tip))
	if err != nil {
		return nil, err
	}
	if err = enc.EncodeUint32(s.SpecVersion); err != nil {
		return nil, err
	}
	if err = enc.EncodeUint32(s.TransactionVersion); err != nil {
		return nil, err
	}
	if err = enc.Write(s.GenesisHash.Bytes()); err != nil {
		return nil, err
	}
	if err = enc.Write(s.EraBlockHash.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SignedExtrinsic is a call with its origin, signature and era/nonce
// metadata. It is immutable and its encoding is deterministic, making
// the extrinsic content addressable through Hash.
type SignedExtrinsic struct {
	Call      Call
	Signer    common.AccountID
	Signature []byte
	Era       Era
	Nonce     uint64
	Tip       *big.Int
}

// Encode returns the length prefixed wire encoding handed to the node
func (tx *SignedExtrinsic) Encode() ([]byte, error) {
	var inner bytes.Buffer
	enc := scale.NewEncoder(&inner)
	if err := enc.EncodeUint8(extrinsicVersion); err != nil {
		return nil, err
	}
	signer := MultiAddress{ID: tx.Signer}
	if err := signer.EncodeScale(enc); err != nil {
		return nil, err
	}
	if err := enc.EncodeUint8(multiSignatureSr25519); err != nil {
		return nil, err
	}
	if err := enc.Write(tx.Signature); err != nil {
		return nil, err
	}
	tip := tx.Tip
	if tip == nil {
		tip = big.NewInt(0)
	}
	err := enc.Encode(tx.Era, scale.Compact(tx.Nonce), scale.NewBigCompact(tip), tx.Call)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	outer := scale.NewEncoder(&buf)
	if err := outer.EncodeBytes(inner.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Hash returns the blake2b-256 content hash the node reports the
// extrinsic under inside a block body
func (tx *SignedExtrinsic) Hash() (common.Hash, error) {
	enc, err := tx.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return common.Blake2b256(enc), nil
}
