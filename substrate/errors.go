package substrate

import (
	"errors"
	"fmt"
)

// common errors
var (
	// signing errors
	ErrNoKeyMaterial = errors.New("signer has no key material")
	ErrCallTooLarge  = errors.New("encoded call exceeds size limit")
	ErrUnknownPallet = errors.New("unknown pallet")
	ErrUnknownCall   = errors.New("unknown call")
	ErrUnknownEntry  = errors.New("unknown storage entry")
	ErrWrongArgCount = errors.New("wrong count of call arguments")
	ErrWrongKeyArgs  = errors.New("wrong count of storage key arguments")

	// terminal submission outcomes, surfaced verbatim and never retried
	ErrTxDropped      = errors.New("extrinsic dropped from the pool")
	ErrTxInvalid      = errors.New("extrinsic invalid")
	ErrTxUsurped      = errors.New("extrinsic usurped by a competing extrinsic")
	ErrConnectionLost = errors.New("watch stream ended before a terminal state")

	ErrExtrinsicNotInBlock = errors.New("extrinsic not found in reported block")

	// storage and decoding
	ErrRPCQueryError = errors.New("rpc query error")
	ErrDecode        = errors.New("decode error")
	ErrUnknownEvent  = errors.New("unknown event variant")
)

// wrapRPCQueryError wrap rpc error with method info
func wrapRPCQueryError(err error, method string) error {
	if err == nil {
		return fmt.Errorf("%w: call method '%v' failed", ErrRPCQueryError, method)
	}
	return fmt.Errorf("%w: call method '%v' failed, %v", ErrRPCQueryError, method, err)
}

// wrapDecodeError wrap decode error with context info
func wrapDecodeError(err error, what string) error {
	return fmt.Errorf("%w: %v: %v", ErrDecode, what, err)
}
