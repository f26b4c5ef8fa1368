package substrate

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/scale"
)

func TestBuildCall(t *testing.T) {
	bridge := NewBridge(nil)

	call, err := bridge.BuildCall("System", "remark", scale.Bytes("hello"))
	assert.Nil(t, err)
	assert.Equal(t, uint8(0), call.PalletIndex)
	assert.Equal(t, uint8(1), call.CallIndex)

	enc := call.Encoding()
	assert.Equal(t, byte(0), enc[0])
	assert.Equal(t, byte(1), enc[1])
	// compact length 5 then the remark bytes
	assert.Equal(t, byte(5<<2), enc[2])
	assert.Equal(t, []byte("hello"), enc[3:])
}

func TestBuildCallErrors(t *testing.T) {
	bridge := NewBridge(nil)

	_, err := bridge.BuildCall("Staking", "bond")
	assert.ErrorIs(t, err, ErrUnknownPallet)

	_, err = bridge.BuildCall("Balances", "teleport")
	assert.ErrorIs(t, err, ErrUnknownCall)

	_, err = bridge.BuildCall("System", "remark")
	assert.ErrorIs(t, err, ErrWrongArgCount)

	_, err = bridge.BuildCall("System", "remark", scale.Bytes("a"), scale.Bytes("b"))
	assert.ErrorIs(t, err, ErrWrongArgCount)
}

func TestBuildTransferDeterministic(t *testing.T) {
	bridge := NewBridge(nil)
	dest := common.BytesToAccountID(bytes.Repeat([]byte{0x42}, common.AddressLength))

	call1, err := bridge.BuildTransfer(dest, big.NewInt(123456))
	assert.Nil(t, err)
	call2, err := bridge.BuildTransfer(dest, big.NewInt(123456))
	assert.Nil(t, err)
	assert.Equal(t, call1.Encoding(), call2.Encoding())

	assert.Equal(t, uint8(4), call1.PalletIndex)
	assert.Equal(t, uint8(0), call1.CallIndex)
	// multi-address Id variant precedes the account bytes
	assert.Equal(t, byte(0), call1.Encoding()[2])
	assert.Equal(t, dest.Bytes(), call1.Encoding()[3:35])
}

func TestBuildContractCalls(t *testing.T) {
	bridge := NewBridge(nil)
	contract := common.BytesToAccountID(bytes.Repeat([]byte{0x07}, common.AddressLength))

	call, err := bridge.BuildContractCall(contract, big.NewInt(0), 500000, []byte{0xde, 0xad})
	assert.Nil(t, err)
	assert.Equal(t, uint8(8), call.PalletIndex)
	assert.Equal(t, uint8(0), call.CallIndex)

	call, err = bridge.BuildInstantiateWithCode(
		big.NewInt(100000), 200000, []byte{0x00, 0x61, 0x73, 0x6d}, nil, []byte{0x01})
	assert.Nil(t, err)
	assert.Equal(t, uint8(8), call.PalletIndex)
	assert.Equal(t, uint8(1), call.CallIndex)

	call, err = bridge.BuildInstantiate(
		big.NewInt(100000), 200000, common.Blake2b256([]byte("code")), nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint8(2), call.CallIndex)
}
