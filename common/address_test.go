package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkabridge/substrate-client/common/hexutil"
)

// well known sr25519 dev account (Alice) under the generic substrate prefix 42
const (
	alicePubHex  = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceAddress = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

func TestAddressRoundTrip(t *testing.T) {
	pub := hexutil.MustDecode(alicePubHex)
	account := BytesToAccountID(pub)

	addr := account.ToAddress(42)
	assert.Equal(t, aliceAddress, addr)

	decoded, prefix, err := DecodeAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, uint8(42), prefix)
	assert.Equal(t, account, decoded)
}

func TestDecodeAddressErrors(t *testing.T) {
	_, _, err := DecodeAddress("not-base58-0OIl")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, _, err = DecodeAddress("5Grwva")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// flip one payload character so the checksum no longer matches
	corrupted := []byte(aliceAddress)
	if corrupted[10] == 'z' {
		corrupted[10] = 'x'
	} else {
		corrupted[10] = 'z'
	}
	_, _, err = DecodeAddress(string(corrupted))
	assert.Error(t, err)

	assert.True(t, IsValidAddress(aliceAddress))
	assert.False(t, IsValidAddress(""))
}
